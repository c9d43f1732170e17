package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSanitizeKVs(t *testing.T) {
	tests := []struct {
		name string
		in   []interface{}
		want []interface{}
	}{
		{"empty", nil, nil},
		{"plain", []interface{}{"title", "Prefix Verbs"}, []interface{}{"title", "Prefix Verbs"}},
		{"token", []interface{}{"bot_token", "123:abc"}, []interface{}{"bot_token", "[REDACTED]"}},
		{"dangling key", []interface{}{"title", "x", "orphan"}, []interface{}{"title", "x", "orphan"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeKVs(tt.in))
		})
	}
}

func TestLoggerWritesStructuredFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := &Logger{SugaredLogger: zap.New(core).Sugar()}

	l.With("component", "progress").Warn("settings write failed", "key", "Foo.vocab", "token", "secret")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "settings write failed", entry.Message)
	fields := entry.ContextMap()
	assert.Equal(t, "progress", fields["component"])
	assert.Equal(t, "Foo.vocab", fields["key"])
	assert.Equal(t, "[REDACTED]", fields["token"])
}

func TestNewModes(t *testing.T) {
	for _, mode := range []string{"development", "production"} {
		l, err := New(mode)
		require.NoError(t, err)
		require.NotNil(t, l)
	}
	Nop().Info("discarded")
}
