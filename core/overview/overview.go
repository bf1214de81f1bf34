package overview

import (
	"context"
	"sync"
	"time"

	"github.com/leofalp/ragcalc/core/cost"
	"github.com/leofalp/ragcalc/providers/ai"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

// overviewContextKey is the key used to store Overview in context.
const overviewContextKey contextKey = "overview"

// Overview aggregates execution statistics and token usage. It is safe for
// concurrent use.
type Overview struct {
	mu sync.Mutex

	Turns         int            `json:"turns"`
	ModelCalls    int            `json:"model_calls"`
	TotalUsage    ai.Usage       `json:"total_usage"`
	ToolCallStats map[string]int `json:"tool_calls,omitempty"`
	// ModelCost is the pricing configuration for the model (optional)
	ModelCost *cost.ModelCost `json:"model_cost,omitempty"`

	ExecutionStartTime time.Time `json:"execution_start_time,omitempty"`
	ExecutionEndTime   time.Time `json:"execution_end_time,omitempty"`
}

// New returns an empty Overview priced with modelCost, which may be nil.
func New(modelCost *cost.ModelCost) *Overview {
	return &Overview{
		ToolCallStats: make(map[string]int),
		ModelCost:     modelCost,
	}
}

// FromContext returns the Overview stored in ctx, or nil.
func FromContext(ctx context.Context) *Overview {
	if ctx == nil {
		return nil
	}
	overview, _ := ctx.Value(overviewContextKey).(*Overview)
	return overview
}

// ToContext stores the Overview in the given context and returns the enriched context.
func (overview *Overview) ToContext(ctx context.Context) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, overviewContextKey, overview)
}

// AddTurn counts one conversation turn.
func (overview *Overview) AddTurn() {
	overview.mu.Lock()
	defer overview.mu.Unlock()
	overview.Turns++
}

// AddModelCall counts one model call and accumulates the usage of its
// response, if any.
func (overview *Overview) AddModelCall(response *ai.ChatResponse) {
	overview.mu.Lock()
	defer overview.mu.Unlock()

	overview.ModelCalls++
	if response == nil || response.Usage == nil {
		return
	}
	overview.TotalUsage.PromptTokens += response.Usage.PromptTokens
	overview.TotalUsage.CompletionTokens += response.Usage.CompletionTokens
	overview.TotalUsage.TotalTokens += response.Usage.TotalTokens
}

// AddToolCall records one invocation of the named tool.
func (overview *Overview) AddToolCall(name string) {
	overview.mu.Lock()
	defer overview.mu.Unlock()

	if overview.ToolCallStats == nil {
		overview.ToolCallStats = make(map[string]int)
	}
	overview.ToolCallStats[name]++
}

// StartExecution marks the start of execution.
func (overview *Overview) StartExecution() {
	overview.mu.Lock()
	defer overview.mu.Unlock()
	overview.ExecutionStartTime = time.Now()
}

// EndExecution marks the end of execution.
func (overview *Overview) EndExecution() {
	overview.mu.Lock()
	defer overview.mu.Unlock()
	overview.ExecutionEndTime = time.Now()
}

// ExecutionDuration returns the total execution duration.
// Returns 0 if execution hasn't started or ended.
func (overview *Overview) ExecutionDuration() time.Duration {
	overview.mu.Lock()
	defer overview.mu.Unlock()
	return overview.executionDuration()
}

func (overview *Overview) executionDuration() time.Duration {
	if overview.ExecutionStartTime.IsZero() || overview.ExecutionEndTime.IsZero() {
		return 0
	}
	return overview.ExecutionEndTime.Sub(overview.ExecutionStartTime)
}

// TotalCost returns the model cost of the execution.
func (overview *Overview) TotalCost() float64 {
	return overview.CostSummary().TotalCost
}

// CostSummary returns a detailed breakdown of usage and costs.
func (overview *Overview) CostSummary() cost.CostSummary {
	overview.mu.Lock()
	defer overview.mu.Unlock()

	summary := cost.CostSummary{
		Turns:              overview.Turns,
		ModelCalls:         overview.ModelCalls,
		ToolExecutionCount: make(map[string]int, len(overview.ToolCallStats)),
		PromptTokens:       overview.TotalUsage.PromptTokens,
		CompletionTokens:   overview.TotalUsage.CompletionTokens,
		TotalTokens:        overview.TotalUsage.TotalTokens,
		Currency:           "USD",
	}
	for name, count := range overview.ToolCallStats {
		summary.ToolExecutionCount[name] = count
	}

	if overview.ModelCost != nil {
		summary.ModelInputCost = overview.ModelCost.CalculateInputCost(summary.PromptTokens)
		summary.ModelOutputCost = overview.ModelCost.CalculateOutputCost(summary.CompletionTokens)
	}
	summary.TotalCost = summary.ModelInputCost + summary.ModelOutputCost

	if duration := overview.executionDuration(); duration > 0 {
		summary.ExecutionDurationSeconds = duration.Seconds()
	}
	return summary
}
