package obs

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLoggerErrorIncludesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(Options{ServiceName: "test", Level: ParseLevel("debug"), Output: buf})

	ctx := log.WithRequestID(context.Background(), "req-123")
	log.Error(ctx, "boom", errors.New("boom"))

	assert.Contains(t, buf.String(), `"request_id":"req-123"`)
	assert.Contains(t, buf.String(), `"service":"test"`)
	assert.Contains(t, buf.String(), `"error":"boom"`)
}

func TestLoggerLevelFilters(t *testing.T) {
	buf := &bytes.Buffer{}
	log := NewLogger(Options{ServiceName: "test", Level: zerolog.WarnLevel, Output: buf})
	log.Info(context.Background(), "hidden")
	log.Debug(context.Background(), "hidden")
	assert.Empty(t, buf.String())
	log.Warn(context.Background(), "shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNilLoggerIsSilent(t *testing.T) {
	var log *Logger
	ctx := log.WithField(context.Background(), "k", "v")
	assert.NotNil(t, ctx)
	log.Info(ctx, "nothing")
	log.Error(ctx, "nothing", errors.New("x"))
}

func TestParseLevelDefaults(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, ParseLevel(""))
	assert.Equal(t, zerolog.InfoLevel, ParseLevel("invalid"))
	assert.Equal(t, zerolog.DebugLevel, ParseLevel(" DEBUG "))
}
