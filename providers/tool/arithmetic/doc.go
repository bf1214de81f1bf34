// Package arithmetic provides the add, subtract, multiply and divide tools.
// Each takes two numbers x and y and returns the result rounded to two
// decimal places with [Round2].
package arithmetic
