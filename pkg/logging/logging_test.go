package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelWarn, true)

	logger.Info("hidden")
	logger.Warn("List operation rejected", "ceiling", "300.00")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "List operation rejected")
	assert.Contains(t, out, "ceiling=300.00")
	assert.Contains(t, out, "logging_test.go", "source location is included")
}
