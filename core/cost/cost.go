package cost

import (
	"fmt"
)

// ModelCost represents the pricing structure for a language model.
// Costs are expressed in USD per million tokens.
//
// Example usage:
//
//	modelCost := cost.ModelCost{
//	    InputCostPerMillion:  0.10,
//	    OutputCostPerMillion: 0.40,
//	}
type ModelCost struct {
	// InputCostPerMillion is the cost in USD per 1 million prompt tokens
	InputCostPerMillion float64 `json:"input_cost_per_million" mapstructure:"input_per_million"`

	// OutputCostPerMillion is the cost in USD per 1 million completion tokens
	OutputCostPerMillion float64 `json:"output_cost_per_million" mapstructure:"output_per_million"`
}

// IsZero reports whether no price is set.
func (mc ModelCost) IsZero() bool {
	return mc.InputCostPerMillion == 0 && mc.OutputCostPerMillion == 0
}

// Validate rejects negative prices.
func (mc ModelCost) Validate() error {
	if mc.InputCostPerMillion < 0 || mc.OutputCostPerMillion < 0 {
		return fmt.Errorf("model cost must not be negative, got %s", mc)
	}
	return nil
}

// CalculateInputCost calculates the cost for the given number of input tokens.
func (mc ModelCost) CalculateInputCost(tokens int) float64 {
	return (float64(tokens) / 1_000_000.0) * mc.InputCostPerMillion
}

// CalculateOutputCost calculates the cost for the given number of output tokens.
func (mc ModelCost) CalculateOutputCost(tokens int) float64 {
	return (float64(tokens) / 1_000_000.0) * mc.OutputCostPerMillion
}

// CalculateTotalCost calculates the total cost of a call.
func (mc ModelCost) CalculateTotalCost(inputTokens, outputTokens int) float64 {
	return mc.CalculateInputCost(inputTokens) + mc.CalculateOutputCost(outputTokens)
}

// String returns a formatted string representation of the model costs.
func (mc ModelCost) String() string {
	return fmt.Sprintf("Input: $%.6f/M, Output: $%.6f/M",
		mc.InputCostPerMillion, mc.OutputCostPerMillion)
}

// CostSummary provides a breakdown of the usage and cost of an execution.
type CostSummary struct {
	// Turns is the number of conversation turns run
	Turns int `json:"turns"`

	// ModelCalls is the number of requests sent to the model
	ModelCalls int `json:"model_calls"`

	// ToolExecutionCount tracks how many times each tool was called
	ToolExecutionCount map[string]int `json:"tool_execution_count,omitempty"`

	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`

	// ModelInputCost is the cost from prompt tokens
	ModelInputCost float64 `json:"model_input_cost"`

	// ModelOutputCost is the cost from completion tokens
	ModelOutputCost float64 `json:"model_output_cost"`

	// TotalCost is the sum of the model costs
	TotalCost float64 `json:"total_cost"`

	// ExecutionDurationSeconds is the wall time between start and end
	ExecutionDurationSeconds float64 `json:"execution_duration_seconds,omitempty"`

	// Currency is always "USD" for consistency
	Currency string `json:"currency"`
}

// String renders the summary on a single line.
func (s CostSummary) String() string {
	return fmt.Sprintf("turns=%d model_calls=%d tool_calls=%d tokens=%d (prompt %d, completion %d) cost=%.6f %s",
		s.Turns, s.ModelCalls, s.toolCalls(), s.TotalTokens, s.PromptTokens, s.CompletionTokens, s.TotalCost, s.Currency)
}

func (s CostSummary) toolCalls() int {
	total := 0
	for _, n := range s.ToolExecutionCount {
		total += n
	}
	return total
}
