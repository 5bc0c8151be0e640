package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	lg := NewWithWriter("reconciler", &buf).WithRequestID("run-1")

	lg.Warn("shift_unresolved", map[string]any{"order": "1042"})
	lg.Error("fetch_failed", errors.New("boom"), nil)

	dec := json.NewDecoder(&buf)
	var first, second map[string]any
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, "WARN", first["level"])
	assert.Equal(t, "reconciler", first["service"])
	assert.Equal(t, "shift_unresolved", first["action"])
	assert.Equal(t, "1042", first["order"])
	assert.Equal(t, "run-1", first["request_id"])

	assert.Equal(t, "ERROR", second["level"])
	errObj, ok := second["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "boom", errObj["msg"])
}
