// Package cost defines the pricing structures used to turn token usage into
// money. [ModelCost] holds per-token prices of a language model and
// [CostSummary] is the breakdown reported at the end of an execution.
package cost
