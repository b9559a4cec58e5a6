package workflow

import (
	"context"

	"github.com/tuya-yu/HeartDrawing/internal/prompts"
	"github.com/tuya-yu/HeartDrawing/pkg/formatting"
	"github.com/tuya-yu/HeartDrawing/pkg/llm"
)

// VerdictKind identifies the shape of a classifier response.
type VerdictKind int

const (
	VerdictUnparseable VerdictKind = iota
	VerdictBool
	VerdictObject
	VerdictString
)

// Verdict is a classifier response decoded into one of its possible shapes.
type Verdict struct {
	Kind   VerdictKind
	Bool   bool
	Object map[string]any
	String string
}

// ParseVerdict decodes raw classifier output. JSON inside a markdown code
// fence or embedded in prose as a {...} span is extracted first. Content with
// no decodable boolean, object or string is Unparseable.
func ParseVerdict(content string) Verdict {
	v, err := formatting.Parse[any](content)
	if err != nil {
		return Verdict{Kind: VerdictUnparseable}
	}
	return verdictOf(v)
}

func verdictOf(v any) Verdict {
	switch t := v.(type) {
	case bool:
		return Verdict{Kind: VerdictBool, Bool: t}
	case map[string]any:
		return Verdict{Kind: VerdictObject, Object: t}
	case string:
		return Verdict{Kind: VerdictString, String: t}
	default:
		return Verdict{Kind: VerdictUnparseable}
	}
}

// Resolve reduces the verdict to a boolean. ok is false when the verdict
// carries no recognizable boolean.
func (v Verdict) Resolve() (value bool, ok bool) {
	switch v.Kind {
	case VerdictBool:
		return v.Bool, true
	case VerdictObject:
		result, found := v.Object["result"]
		if !found {
			return false, false
		}
		inner := verdictOf(result)
		if inner.Kind == VerdictObject {
			return false, false
		}
		return inner.Resolve()
	case VerdictString:
		switch v.String {
		case "true":
			return true, true
		case "false":
			return false, true
		}
	}
	return false, false
}

// ParseClassification interprets classifier output. Anything that does not
// resolve to a boolean is treated as true and reported with ok false.
func ParseClassification(content string) (classification bool, ok bool) {
	value, ok := ParseVerdict(content).Resolve()
	if !ok {
		return true, false
	}
	return value, true
}

func (r *run) classify(ctx context.Context, signal string) (bool, error) {
	system, err := r.template(ctx, prompts.StageClassify, prompts.KindInstructions)
	if err != nil {
		return false, stageError(prompts.StageClassify, err)
	}

	format, err := r.template(ctx, prompts.StageClassify, prompts.KindFormat)
	if err != nil {
		return false, stageError(prompts.StageClassify, err)
	}

	text, err := r.invoke(ctx, r.rt.multimodal(), system, llm.Turn{
		Text: signal + "\n\n" + format,
	})
	if err != nil {
		return false, stageError(prompts.StageClassify, err)
	}

	classification, ok := ParseClassification(text)
	if !ok {
		r.logger.WarnContext(ctx, "unrecognized classifier output, defaulting to true",
			"output", text,
		)
	}

	r.logger.InfoContext(ctx, "stage complete",
		"stage", prompts.StageClassify,
		"classification", classification,
	)
	return classification, nil
}
