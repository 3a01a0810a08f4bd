package logging

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSecretRedaction(t *testing.T) {
	t.Parallel()

	for _, input := range []string{"my-secret-password", "", "password123!@#"} {
		assert.Equal(t, "[REDACTED]", Secret(input).String())
		assert.Equal(t, "[REDACTED]", Secret(input).GoString())
		assert.Equal(t, "[REDACTED]", fmt.Sprintf("%#v", Secret(input)))
	}
}

func TestLoggerLevels(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, true, true)

	logger.Info("info %d", 1)
	logger.Warn("warn %d", 2)
	logger.Error("error %d", 3)
	logger.Debug("debug %d", 4)

	assert.Equal(t, "✓ info 1\n⚠ warn 2\n✗ error 3\n[DEBUG] debug 4\n", buf.String())
}

func TestLoggerDebugDisabled(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false, true)
	logger.Debug("hidden")

	assert.Empty(t, buf.String())
}

func TestLoggerColor(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewWithWriter(&buf, false, false)
	logger.Error("boom")

	assert.Equal(t, "\033[31m✗\033[0m boom\n", buf.String())
}
