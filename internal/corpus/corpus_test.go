package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	defs, err := Default()
	require.NoError(t, err)
	require.Len(t, defs, 3)

	words := map[string]string{"doc0": "flurbo", "doc1": "glarb-glarb", "doc2": "linglingdong"}
	for _, def := range defs {
		assert.Equal(t, words[def.ID], def.Word)
		assert.Len(t, def.Definitions, 2)
	}
	assert.Contains(t, defs[0].Definitions[1], "Each flurbo is worth 10 USD")
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corpus.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- id: w1\n  word: zork\n  definitions: [\"a zork\"]\n"), 0o600))

	defs, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []WordDefinition{{ID: "w1", Word: "zork", Definitions: []string{"a zork"}}}, defs)

	defs, err = Load("")
	require.NoError(t, err)
	assert.Len(t, defs, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty":        "[]",
		"not a list":   "id: doc0",
		"missing id":   "- word: zork",
		"duplicate id": "- id: a\n  word: x\n- id: a\n  word: y\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(data))
			assert.Error(t, err)
		})
	}
}

func TestDocuments(t *testing.T) {
	defs := []WordDefinition{
		{ID: "doc0", Word: "flurbo", Definitions: []string{"first", "second"}},
		{ID: "doc9", Word: "blank"},
	}

	docs, err := Documents(defs)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "doc0", docs[0].ID)
	assert.Equal(t, "first\nsecond", docs[0].Text())
	assert.JSONEq(t, `{"id":"doc0","word":"flurbo","definitions":["first","second"]}`, string(docs[0].Payload))

	assert.Equal(t, "blank", docs[1].Text(), "entries without definitions fall back to the word")
}
