package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/tuya-yu/HeartDrawing/internal/prompts"
	"github.com/tuya-yu/HeartDrawing/pkg/llm"
)

var finalInstruction = map[prompts.Language]string{
	prompts.LanguageEN: "Based on the analysis results: \n%s\n, write your professional HTP test report.",
	prompts.LanguageZH: "综合分析结果: \n%s\n，输出你的专业HTP测试意见书。",
}

func (r *run) merge(ctx context.Context, units map[prompts.Stage]AnalysisUnit) (string, error) {
	system, err := r.template(ctx, prompts.StageMerge, prompts.KindInstructions)
	if err != nil {
		return "", stageError(prompts.StageMerge, err)
	}

	format, err := r.template(ctx, prompts.StageMerge, prompts.KindFormat)
	if err != nil {
		return "", stageError(prompts.StageMerge, err)
	}

	pairs := make([]string, 0, 2*len(units))
	for _, stage := range prompts.ObjectStages() {
		pairs = append(pairs, "{"+string(stage)+"_analysis}", units[stage].Analysis)
	}

	text, err := r.invoke(ctx, r.rt.Text, system, llm.Turn{
		Text: strings.NewReplacer(pairs...).Replace(format),
	})
	if err != nil {
		return "", stageError(prompts.StageMerge, err)
	}

	r.logger.InfoContext(ctx, "stage complete", "stage", prompts.StageMerge)
	return text, nil
}

func (r *run) final(ctx context.Context, merged string) (string, error) {
	system, err := r.template(ctx, prompts.StageFinal, prompts.KindInstructions)
	if err != nil {
		return "", stageError(prompts.StageFinal, err)
	}

	text, err := r.invoke(ctx, r.rt.Text, system, llm.Turn{
		Text: fmt.Sprintf(finalInstruction[r.lang], merged),
	})
	if err != nil {
		return "", stageError(prompts.StageFinal, err)
	}

	r.logger.InfoContext(ctx, "stage complete", "stage", prompts.StageFinal)
	return text, nil
}

func (r *run) signal(ctx context.Context, final string) (string, error) {
	system, err := r.template(ctx, prompts.StageSignal, prompts.KindInstructions)
	if err != nil {
		return "", stageError(prompts.StageSignal, err)
	}

	text, err := r.invoke(ctx, r.rt.Text, system, llm.Turn{Text: final})
	if err != nil {
		return "", stageError(prompts.StageSignal, err)
	}

	r.logger.InfoContext(ctx, "stage complete", "stage", prompts.StageSignal)
	return text, nil
}
