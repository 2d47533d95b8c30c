package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedactsSensitiveKeys(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core))

	l.Info("login", "Authorization", "Bearer abc", "user_id", 7, "jwt_secret", "x")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "[REDACTED]", fields["Authorization"])
		assert.Equal(t, "[REDACTED]", fields["jwt_secret"])
		assert.EqualValues(t, 7, fields["user_id"])
	}
}

func TestWithKeepsFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := FromZap(zap.New(core)).With("component", "engine")

	l.Warn("drift", "code", "ORD-1")

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, "engine", entries[0].ContextMap()["component"])
		assert.Equal(t, "ORD-1", entries[0].ContextMap()["code"])
	}
}

func TestNew(t *testing.T) {
	for _, mode := range []string{"prod", "dev", ""} {
		l, err := New(mode)
		assert.NoError(t, err)
		assert.NotNil(t, l)
	}
}
