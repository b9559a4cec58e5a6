package workflow

import (
	"context"
	"log/slog"

	"github.com/tuya-yu/HeartDrawing/internal/prompts"
	"github.com/tuya-yu/HeartDrawing/pkg/llm"
)

// run holds the state of a single Execute call.
type run struct {
	rt     *Runtime
	lang   prompts.Language
	image  llm.Image
	usage  Usage
	state  State
	logger *slog.Logger
}

func newRun(rt *Runtime, lang prompts.Language) *run {
	return &run{
		rt:     rt,
		lang:   lang,
		state:  StateIdle,
		logger: rt.logger().With("language", lang),
	}
}

func (r *run) transition(ctx context.Context, to State) {
	from := r.state
	r.state = to
	r.logger.InfoContext(ctx, "workflow state transition", "from", from, "to", to)
	r.rt.observer().Transition(ctx, from, to)
}

func (r *run) template(ctx context.Context, stage prompts.Stage, kind prompts.Kind) (string, error) {
	return r.rt.Prompts.Template(ctx, r.lang, stage, kind)
}

func (r *run) invoke(ctx context.Context, m llm.Model, system string, user llm.Turn) (string, error) {
	resp, err := m.Invoke(ctx, system, user)
	if err != nil {
		return "", err
	}
	r.usage.Add(resp.Usage)
	return resp.Text, nil
}
