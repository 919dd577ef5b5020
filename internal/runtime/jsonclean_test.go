package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSON(t *testing.T) {
	tests := map[string]string{
		"```json\n{\"a\": 1}\n```":          `{"a": 1}`,
		"```\n{\"a\": 1}\n```":              `{"a": 1}`,
		"Here you go: {\"a\": {\"b\": 2}}!": `{"a": {"b": 2}}`,
		"no json at all":                    "no json at all",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanJSON(in), in)
	}
}

func TestDecodeModelJSON(t *testing.T) {
	var out struct {
		A int `json:"a"`
	}
	require.NoError(t, decodeModelJSON("```JSON\n{\"a\": 7}\n```", &out))
	assert.Equal(t, 7, out.A)

	err := decodeModelJSON("not json", &out)
	assert.ErrorContains(t, err, "malformed model JSON")
}

func TestEnsureString(t *testing.T) {
	assert.Equal(t, "", ensureString(nil))
	assert.Equal(t, "x", ensureString("x"))
	assert.Equal(t, "true", ensureString(true))
	assert.Equal(t, "[\n  1\n]", ensureString([]any{1}))
}

func TestParseLines(t *testing.T) {
	content := "1. first\n2) second\n\n- third\n• fourth\n* fifth"
	assert.Equal(t, []string{"first", "second", "third", "fourth", "fifth"}, parseLines(content, 0))
	assert.Equal(t, []string{"first", "second"}, parseLines(content, 2))
}
