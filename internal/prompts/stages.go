package prompts

import (
	"encoding/json"
	"slices"
)

// Language selects which template set a run uses.
type Language string

const (
	LanguageZH Language = "zh"
	LanguageEN Language = "en"
)

var languages = []Language{LanguageZH, LanguageEN}

// Languages returns the supported languages.
func Languages() []Language {
	return languages
}

// ParseLanguage validates s as a supported language.
func ParseLanguage(s string) (Language, error) {
	l := Language(s)
	if !slices.Contains(languages, l) {
		return "", ErrInvalidLanguage
	}
	return l, nil
}

func (l *Language) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, l, ParseLanguage)
}

// Stage is a workflow step that consumes templates. The first four are the
// drawing objects analyzed in parallel; the rest form the synthesis chain.
type Stage string

const (
	StageOverall  Stage = "overall"
	StageHouse    Stage = "house"
	StageTree     Stage = "tree"
	StagePerson   Stage = "person"
	StageMerge    Stage = "merge"
	StageFinal    Stage = "final"
	StageSignal   Stage = "signal"
	StageClassify Stage = "classify"
)

// Kind distinguishes the templates a stage uses.
type Kind string

const (
	KindFeature      Kind = "feature"
	KindAnalysis     Kind = "analysis"
	KindInstructions Kind = "instructions"
	KindFormat       Kind = "format"
)

var objectStages = []Stage{StageOverall, StageHouse, StageTree, StagePerson}

var stageKinds = map[Stage][]Kind{
	StageOverall:  {KindFeature, KindAnalysis},
	StageHouse:    {KindFeature, KindAnalysis},
	StageTree:     {KindFeature, KindAnalysis},
	StagePerson:   {KindFeature, KindAnalysis},
	StageMerge:    {KindInstructions, KindFormat},
	StageFinal:    {KindInstructions},
	StageSignal:   {KindInstructions},
	StageClassify: {KindInstructions, KindFormat},
}

var stageOrder = []Stage{
	StageOverall, StageHouse, StageTree, StagePerson,
	StageMerge, StageFinal, StageSignal, StageClassify,
}

// ObjectStages returns the drawing objects in result order.
func ObjectStages() []Stage {
	return objectStages
}

// StageInfo lists a stage with the template kinds it accepts.
type StageInfo struct {
	Stage Stage  `json:"stage"`
	Kinds []Kind `json:"kinds"`
}

// Stages returns every stage in execution order with its kinds.
func Stages() []StageInfo {
	out := make([]StageInfo, 0, len(stageOrder))
	for _, s := range stageOrder {
		out = append(out, StageInfo{Stage: s, Kinds: stageKinds[s]})
	}
	return out
}

// ParseStage validates s as a known stage.
func ParseStage(s string) (Stage, error) {
	st := Stage(s)
	if _, ok := stageKinds[st]; !ok {
		return "", ErrInvalidStage
	}
	return st, nil
}

func (s *Stage) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, ParseStage)
}

// ParseKind validates k as a kind accepted by stage.
func ParseKind(stage Stage, k string) (Kind, error) {
	kind := Kind(k)
	if !slices.Contains(stageKinds[stage], kind) {
		return "", ErrInvalidKind
	}
	return kind, nil
}

// Validate checks that language, stage and kind form a known template key.
func Validate(lang Language, stage Stage, kind Kind) error {
	if _, err := ParseLanguage(string(lang)); err != nil {
		return err
	}
	if _, err := ParseStage(string(stage)); err != nil {
		return err
	}
	_, err := ParseKind(stage, string(kind))
	return err
}

func unmarshalEnum[T ~string](data []byte, dst *T, parse func(string) (T, error)) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := parse(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
