package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestInitLoggerWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "import.log")
	require.NoError(t, InitLogger(path, "warn"))
	t.Cleanup(func() { SetLogger(zap.NewNop()) })

	Infof("dropped %d", 1)
	Warnw("Malformed structured field, using fallback", "id", "t1", "field", "tags")
	Close()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "Malformed structured field, using fallback", entry["msg"])
	assert.Equal(t, "t1", entry["id"])
	assert.Equal(t, "tags", entry["field"])
}

func TestInitLoggerRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, InitLogger("", "loud"))
}
