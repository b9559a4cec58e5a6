package workflow

import "github.com/tuya-yu/HeartDrawing/internal/prompts"

// Crisis referral notices returned in place of the report when the
// classifier flags the drawing.
const (
	FixSignalEN = `### Assessment Opinion:
Warning

⚠️ IMPORTANT NOTICE ⚠️

The analysis has detected unusually intense negative emotions in the drawing. 
This has triggered a safety mechanism in our system.

We strongly recommend seeking immediate assistance from a qualified mental health professional. 
Your well-being is paramount, and a trained expert can provide the support you may need at this time.

Remember, it's okay to ask for help. You're not alone in this. `

	FixSignalZH = `### 评估意见:
预警

⚠️ 重要提示 ⚠️

分析检测到绘画中存在异常强烈的负面情绪。
这触发了我们的安全机制。

我们强烈建议您立即寻求合格的心理健康专业人士的帮助。
您的健康至关重要，训练有素的专家能够在此时为您提供所需的支持。

请记住，寻求帮助是可以的。您并不孤单。`
)

// FixSignal returns the referral notice for a negative classification and
// nil otherwise.
func FixSignal(classification bool, lang prompts.Language) *string {
	if classification {
		return nil
	}
	s := FixSignalZH
	if lang == prompts.LanguageEN {
		s = FixSignalEN
	}
	return &s
}
