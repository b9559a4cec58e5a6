package workflow_test

import (
	"sync"
	"testing"

	"github.com/tuya-yu/HeartDrawing/internal/workflow"
	"github.com/tuya-yu/HeartDrawing/pkg/llm"
)

func TestUsage_ConcurrentAdd(t *testing.T) {
	var u workflow.Usage
	delta := llm.Usage{TotalTokens: 3, PromptTokens: 2, CompletionTokens: 1}

	var wg sync.WaitGroup
	for range 500 {
		wg.Go(func() { u.Add(delta) })
	}
	wg.Wait()

	want := llm.Usage{TotalTokens: 1500, PromptTokens: 1000, CompletionTokens: 500}
	if got := u.Snapshot(); got != want {
		t.Errorf("Snapshot() = %+v, want %+v", got, want)
	}
}

func TestUsage_Reset(t *testing.T) {
	var u workflow.Usage
	u.Add(llm.Usage{TotalTokens: 10, PromptTokens: 7, CompletionTokens: 3})
	u.Reset()

	if got := u.Snapshot(); got != (llm.Usage{}) {
		t.Errorf("Snapshot() after Reset = %+v, want zero", got)
	}
}
