package tool

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/leofalp/ragcalc/internal/jsonschema"
)

// validator checks normalized arguments against the strict form of a
// parameter schema, where unknown properties are rejected.
type validator struct {
	schema *gojsonschema.Schema
}

func newValidator(parameters *jsonschema.Schema) (*validator, error) {
	if parameters == nil {
		return &validator{}, nil
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(parameters.Strict()))
	if err != nil {
		return nil, fmt.Errorf("compile parameter schema: %w", err)
	}
	return &validator{schema: schema}, nil
}

// validate returns an error wrapping ErrInvalidArguments that lists every
// violation found in document.
func (v *validator) validate(document string) error {
	if v == nil || v.schema == nil {
		return nil
	}
	result, err := v.schema.Validate(gojsonschema.NewStringLoader(document))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	if result.Valid() {
		return nil
	}
	violations := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		violations = append(violations, desc.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidArguments, strings.Join(violations, "; "))
}
