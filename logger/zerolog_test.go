package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestZerologLogger_LogLevels(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	logger := NewZerologLogger(zerolog.New(&buf), Config{LogLevel: Debug})

	logger.Debug(ctx, "a %s", "debug")
	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), `"message":"a debug"`)

	buf.Reset()
	logger.Warn(ctx, "a %s", "warning")
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), `"file"`)
}

func TestZerologLogger_LogMode(t *testing.T) {
	var buf bytes.Buffer

	logger := NewZerologLogger(zerolog.New(&buf), Config{LogLevel: Info})
	silent := logger.LogMode(Silent)

	silent.Error(context.Background(), "hidden")
	assert.Empty(t, buf.String())
	assert.Equal(t, Info, logger.(*ZerologLogger).LogLevel)
}

func TestZerologLevel(t *testing.T) {
	assert.Equal(t, zerolog.Disabled, ZerologLevel(Silent))
	assert.Equal(t, zerolog.ErrorLevel, ZerologLevel(Error))
	assert.Equal(t, zerolog.WarnLevel, ZerologLevel(Warn))
	assert.Equal(t, zerolog.InfoLevel, ZerologLevel(Info))
	assert.Equal(t, zerolog.DebugLevel, ZerologLevel(Debug))
}
