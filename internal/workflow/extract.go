package workflow

import (
	"context"
	"strings"

	"github.com/tuya-yu/HeartDrawing/internal/prompts"
	"github.com/tuya-yu/HeartDrawing/pkg/llm"
)

var featureInstruction = map[prompts.Language]string{
	prompts.LanguageEN: "Organize the feature extraction results into a **clear and concise** markdown format.",
	prompts.LanguageZH: "将特征提取结果整理为**清晰明确**的markdown格式。",
}

var analysisInstruction = map[prompts.Language]string{
	prompts.LanguageEN: "Please analyze the features based on professional knowledge and the image features provided by the assistant, and organize the results in markdown format.",
	prompts.LanguageZH: "请结合专业知识和助手提供的图像特征，进行特征分析，结果整理为markdown格式。",
}

const featuresPlaceholder = "{features}"

// extract runs feature extraction then analysis for one drawing object.
func (r *run) extract(ctx context.Context, stage prompts.Stage) (AnalysisUnit, error) {
	featureSystem, err := r.template(ctx, stage, prompts.KindFeature)
	if err != nil {
		return AnalysisUnit{}, stageError(stage, err)
	}

	analysisSystem, err := r.template(ctx, stage, prompts.KindAnalysis)
	if err != nil {
		return AnalysisUnit{}, stageError(stage, err)
	}

	feature, err := r.invoke(ctx, r.rt.multimodal(), featureSystem, llm.Turn{
		Text:  featureInstruction[r.lang],
		Image: &r.image,
	})
	if err != nil {
		return AnalysisUnit{}, stageError(stage, err)
	}

	system, text := analysisPrompt(analysisSystem, analysisInstruction[r.lang], feature)
	analysis, err := r.invoke(ctx, r.rt.Text, system, llm.Turn{
		Text:  text,
		Image: &r.image,
	})
	if err != nil {
		return AnalysisUnit{}, stageError(stage, err)
	}

	r.logger.InfoContext(ctx, "stage complete", "stage", stage)

	return AnalysisUnit{Feature: feature, Analysis: analysis}, nil
}

// analysisPrompt places the extracted features into the system template when
// it asks for them, and ahead of the instruction otherwise.
func analysisPrompt(system, instruction, features string) (string, string) {
	if strings.Contains(system, featuresPlaceholder) {
		return strings.ReplaceAll(system, featuresPlaceholder, features), instruction
	}
	return system, features + "\n\n" + instruction
}
