// Package corpus holds the word definitions that ragcalc indexes. A default
// corpus is embedded in the binary; a YAML file of the same shape can
// replace it.
package corpus

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/leofalp/ragcalc/core/index"
)

//go:embed definitions.yaml
var embedded []byte

// WordDefinition is one corpus entry. Its JSON form is what lookups return.
type WordDefinition struct {
	ID          string   `yaml:"id" json:"id"`
	Word        string   `yaml:"word" json:"word"`
	Definitions []string `yaml:"definitions" json:"definitions"`
}

// Default returns the embedded corpus.
func Default() ([]WordDefinition, error) {
	return Parse(embedded)
}

// Load reads the corpus at path, or the embedded one when path is empty.
func Load(path string) ([]WordDefinition, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML list of definitions. IDs must be present and unique.
func Parse(data []byte) ([]WordDefinition, error) {
	var defs []WordDefinition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("parse corpus: %w", err)
	}
	if len(defs) == 0 {
		return nil, errors.New("corpus is empty")
	}

	seen := make(map[string]bool, len(defs))
	for i, def := range defs {
		if def.ID == "" {
			return nil, fmt.Errorf("corpus entry %d has no id", i)
		}
		if seen[def.ID] {
			return nil, fmt.Errorf("duplicate corpus id %q", def.ID)
		}
		seen[def.ID] = true
	}
	return defs, nil
}

// Documents turns definitions into index documents. The definitions are the
// embedded text and the whole record is the payload.
func Documents(defs []WordDefinition) ([]index.Document, error) {
	docs := make([]index.Document, 0, len(defs))
	for _, def := range defs {
		payload, err := json.Marshal(def)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", def.ID, err)
		}
		docs = append(docs, index.Document{
			ID:      def.ID,
			Label:   def.Word,
			Texts:   def.Definitions,
			Payload: payload,
		})
	}
	return docs, nil
}
