package overview

import (
	"context"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/leofalp/ragcalc/core/cost"
	"github.com/leofalp/ragcalc/providers/ai"
)

// ========== FromContext / ToContext ==========

// TestFromContext_Missing verifies that nil is returned when no Overview is stored.
func TestFromContext_Missing(t *testing.T) {
	if got := FromContext(context.Background()); got != nil {
		t.Errorf("expected nil, got %v", got)
	}
}

// TestFromContext_WrongType verifies that nil is returned when the context
// carries a value under the overview key but of the wrong type.
func TestFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), overviewContextKey, "not-an-overview")
	if got := FromContext(ctx); got != nil {
		t.Errorf("expected nil for wrong type, got %v", got)
	}
}

// TestToContext_NilContext verifies that ToContext falls back to
// context.Background() when given a nil context.
func TestToContext_NilContext(t *testing.T) {
	var nilCtx context.Context
	if got := New(nil).ToContext(nilCtx); got == nil {
		t.Error("expected non-nil context when nil is passed to ToContext")
	}
}

// TestToContext_Roundtrip verifies that storing and retrieving an Overview
// returns the same pointer.
func TestToContext_Roundtrip(t *testing.T) {
	original := New(nil)
	ctx := original.ToContext(context.Background())

	if FromContext(ctx) != original {
		t.Error("expected the same Overview pointer after roundtrip")
	}
}

// ========== Recording ==========

func TestAddModelCall_AccumulatesUsage(t *testing.T) {
	overview := New(nil)

	overview.AddModelCall(&ai.ChatResponse{Usage: &ai.Usage{PromptTokens: 100, CompletionTokens: 20, TotalTokens: 120}})
	overview.AddModelCall(&ai.ChatResponse{Usage: &ai.Usage{PromptTokens: 150, CompletionTokens: 30, TotalTokens: 180}})

	if overview.ModelCalls != 2 {
		t.Errorf("expected 2 model calls, got %d", overview.ModelCalls)
	}
	want := ai.Usage{PromptTokens: 250, CompletionTokens: 50, TotalTokens: 300}
	if overview.TotalUsage != want {
		t.Errorf("expected usage %+v, got %+v", want, overview.TotalUsage)
	}
}

// TestAddModelCall_NilUsage verifies that a call without usage is still counted.
func TestAddModelCall_NilUsage(t *testing.T) {
	overview := New(nil)

	overview.AddModelCall(&ai.ChatResponse{})
	overview.AddModelCall(nil)

	if overview.ModelCalls != 2 {
		t.Errorf("expected 2 model calls, got %d", overview.ModelCalls)
	}
	if overview.TotalUsage != (ai.Usage{}) {
		t.Errorf("expected zero usage, got %+v", overview.TotalUsage)
	}
}

// TestAddToolCall_InitializesMap verifies that a zero Overview can record tool calls.
func TestAddToolCall_InitializesMap(t *testing.T) {
	overview := &Overview{}

	overview.AddToolCall("add")
	overview.AddToolCall("add")
	overview.AddToolCall("lookup")

	if overview.ToolCallStats["add"] != 2 || overview.ToolCallStats["lookup"] != 1 {
		t.Errorf("unexpected tool stats %v", overview.ToolCallStats)
	}
}

// TestConcurrentRecording verifies that recording from several goroutines
// loses no updates.
func TestConcurrentRecording(t *testing.T) {
	overview := New(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			overview.AddTurn()
			overview.AddToolCall("multiply")
			overview.AddModelCall(&ai.ChatResponse{Usage: &ai.Usage{TotalTokens: 1}})
		}()
	}
	wg.Wait()

	summary := overview.CostSummary()
	if summary.Turns != 50 || summary.ModelCalls != 50 || summary.TotalTokens != 50 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if summary.ToolExecutionCount["multiply"] != 50 {
		t.Errorf("expected 50 multiply calls, got %d", summary.ToolExecutionCount["multiply"])
	}
}

// ========== Execution duration ==========

func TestExecutionDuration_NotStarted(t *testing.T) {
	if d := New(nil).ExecutionDuration(); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestExecutionDuration_OnlyStarted(t *testing.T) {
	overview := New(nil)
	overview.StartExecution()

	if d := overview.ExecutionDuration(); d != 0 {
		t.Errorf("expected 0 before EndExecution, got %v", d)
	}
}

func TestExecutionDuration_Valid(t *testing.T) {
	overview := New(nil)
	overview.ExecutionStartTime = time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	overview.ExecutionEndTime = overview.ExecutionStartTime.Add(1500 * time.Millisecond)

	if d := overview.ExecutionDuration(); d != 1500*time.Millisecond {
		t.Errorf("expected 1.5s, got %v", d)
	}
	if s := overview.CostSummary().ExecutionDurationSeconds; s != 1.5 {
		t.Errorf("expected 1.5 seconds in summary, got %f", s)
	}
}

// ========== Cost summary ==========

func TestCostSummary_NoModelCost(t *testing.T) {
	overview := New(nil)
	overview.AddModelCall(&ai.ChatResponse{Usage: &ai.Usage{PromptTokens: 1000, CompletionTokens: 100, TotalTokens: 1100}})

	summary := overview.CostSummary()
	if summary.TotalCost != 0 {
		t.Errorf("expected zero cost without pricing, got %f", summary.TotalCost)
	}
	if summary.Currency != "USD" {
		t.Errorf("expected USD, got %s", summary.Currency)
	}
	if summary.TotalTokens != 1100 {
		t.Errorf("expected 1100 tokens, got %d", summary.TotalTokens)
	}
}

func TestCostSummary_WithModelCost(t *testing.T) {
	overview := New(&cost.ModelCost{InputCostPerMillion: 2.0, OutputCostPerMillion: 8.0})
	overview.AddModelCall(&ai.ChatResponse{Usage: &ai.Usage{PromptTokens: 500_000, CompletionTokens: 250_000, TotalTokens: 750_000}})

	summary := overview.CostSummary()
	if math.Abs(summary.ModelInputCost-1.0) > 1e-9 {
		t.Errorf("expected input cost 1.0, got %f", summary.ModelInputCost)
	}
	if math.Abs(summary.ModelOutputCost-2.0) > 1e-9 {
		t.Errorf("expected output cost 2.0, got %f", summary.ModelOutputCost)
	}
	if math.Abs(overview.TotalCost()-3.0) > 1e-9 {
		t.Errorf("expected total cost 3.0, got %f", overview.TotalCost())
	}
}

// TestCostSummary_IsACopy verifies that mutating the summary leaves the
// Overview untouched.
func TestCostSummary_IsACopy(t *testing.T) {
	overview := New(nil)
	overview.AddToolCall("divide")

	summary := overview.CostSummary()
	summary.ToolExecutionCount["divide"] = 99

	if overview.ToolCallStats["divide"] != 1 {
		t.Errorf("expected overview stats unchanged, got %d", overview.ToolCallStats["divide"])
	}
}
