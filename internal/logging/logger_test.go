package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJSON_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	NewJSON(&buf, slog.LevelInfo).Error("save failed", "error", errors.New("disk full"))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "disk full", line["err"])
	assert.NotContains(t, line, "error")
}

func TestNewJSON_Level(t *testing.T) {
	var buf bytes.Buffer
	NewJSON(&buf, slog.LevelWarn).Info("hidden")
	assert.Empty(t, buf.String())
}

func TestNewFormat(t *testing.T) {
	for _, format := range []string{"", "text", "json"} {
		l, err := NewFormat(format, slog.LevelInfo)
		require.NoError(t, err, format)
		assert.NotNil(t, l)
	}
	_, err := NewFormat("xml", slog.LevelInfo)
	assert.Error(t, err)
}
