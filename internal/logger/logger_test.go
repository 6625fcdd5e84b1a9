package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger_With(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := New(zap.New(core)).With("request_id", "abc")

	l.Info("reservation created", "id", 7)
	l.Debug("details")

	entries := logs.All()
	assert.Len(t, entries, 2)
	assert.Equal(t, "reservation created", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "abc", fields["request_id"])
	assert.EqualValues(t, 7, fields["id"])
}

func TestNewLogger_Level(t *testing.T) {
	l := NewLogger("warn")
	assert.False(t, l.logger.Desugar().Core().Enabled(zap.InfoLevel))
	assert.True(t, l.logger.Desugar().Core().Enabled(zap.WarnLevel))

	assert.True(t, NewLogger("bogus").logger.Desugar().Core().Enabled(zap.InfoLevel))
}
