package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZapLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l := NewZapLogger(path, true)

	l.Info("ChatStore", "chat created", map[string]interface{}{"chat_id": "abc"})
	l.Error("Completion", "provider failed", map[string]interface{}{"error": errors.New("boom")})
	l.Debug("ChatStore", "below file level", nil)
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"module":"ChatStore"`)
	assert.Contains(t, lines[0], `"chat_id":"abc"`)
	assert.Contains(t, lines[1], `"level":"ERROR"`)
	assert.Contains(t, lines[1], `"error":"boom"`)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.Warn("x", "y", nil)
		_ = l.Sync()
	})
}
