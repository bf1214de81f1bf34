package arithmetic

import (
	"context"
	"errors"
	"math"

	"github.com/leofalp/ragcalc/providers/tool"
)

var (
	// ErrDivisionByZero is returned by Divide whenever y is zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrNonFinite is returned when a result overflows to an infinity or is NaN.
	ErrNonFinite = errors.New("result is not a finite number")
)

// Input holds the two operands shared by every arithmetic tool.
type Input struct {
	X float64 `json:"x" jsonschema:"description=The first number"`
	Y float64 `json:"y" jsonschema:"description=The second number"`
}

// Tools returns add, subtract, multiply and divide, in that order.
func Tools() []tool.GenericTool {
	return []tool.GenericTool{
		NewAddTool(),
		NewSubtractTool(),
		NewMultiplyTool(),
		NewDivideTool(),
	}
}

func NewAddTool() *tool.Tool[Input, float64] {
	return tool.NewTool("add", Add,
		tool.WithDescription("Add x and y together"))
}

func NewSubtractTool() *tool.Tool[Input, float64] {
	return tool.NewTool("subtract", Subtract,
		tool.WithDescription("Subtract y from x (i.e.: x - y)"))
}

func NewMultiplyTool() *tool.Tool[Input, float64] {
	return tool.NewTool("multiply", Multiply,
		tool.WithDescription("Compute the product of x and y (i.e.: x * y)"))
}

func NewDivideTool() *tool.Tool[Input, float64] {
	return tool.NewTool("divide", Divide,
		tool.WithDescription("Compute the Quotient of x and y (i.e.: x / y). Useful for ratios."))
}

// Add returns round2(x + y).
func Add(_ context.Context, in Input) (float64, error) {
	return finite(in.X + in.Y)
}

// Subtract returns round2(x - y).
func Subtract(_ context.Context, in Input) (float64, error) {
	return finite(in.X - in.Y)
}

// Multiply returns round2(x * y).
func Multiply(_ context.Context, in Input) (float64, error) {
	return finite(in.X * in.Y)
}

// Divide returns round2(x / y). A zero divisor always fails with
// ErrDivisionByZero, including 0/0.
func Divide(_ context.Context, in Input) (float64, error) {
	if in.Y == 0 {
		return 0, &tool.DomainError{Err: ErrDivisionByZero}
	}
	return finite(in.X / in.Y)
}

// Round2 rounds v to two decimal places, halves away from zero, as
// math.Round(v*100)/100. Round2(Round2(v)) == Round2(v).
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func finite(v float64) (float64, error) {
	r := Round2(v)
	if math.IsInf(r, 0) || math.IsNaN(r) {
		return 0, &tool.DomainError{Err: ErrNonFinite}
	}
	return r, nil
}
