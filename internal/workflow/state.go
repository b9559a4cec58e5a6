package workflow

import "context"

// State is a phase of a workflow run.
type State string

const (
	StateIdle               State = "idle"
	StateParallelExtraction State = "parallel_extraction"
	StateSynthesizing       State = "synthesizing"
	StateClassifying        State = "classifying"
	StateFinalized          State = "finalized"
	StateFailed             State = "failed"
)

// Observer is notified of every state transition of a run.
type Observer interface {
	Transition(ctx context.Context, from, to State)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, from, to State)

func (f ObserverFunc) Transition(ctx context.Context, from, to State) {
	f(ctx, from, to)
}

type noopObserver struct{}

func (noopObserver) Transition(context.Context, State, State) {}
