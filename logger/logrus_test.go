package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogrusBuffer(buf *bytes.Buffer) *logrus.Logger {
	logrusLogger := logrus.New()
	logrusLogger.SetOutput(buf)
	logrusLogger.SetLevel(logrus.DebugLevel)
	logrusLogger.SetFormatter(&logrus.JSONFormatter{})
	return logrusLogger
}

func TestNewLogrusLogger(t *testing.T) {
	var buf bytes.Buffer

	logrusAdapter := NewLogrusLogger(newLogrusBuffer(&buf), Config{LogLevel: Info})

	require.NotNil(t, logrusAdapter)
	assert.Equal(t, Info, logrusAdapter.(*LogrusLogger).LogLevel)
}

func TestLogrusLogger_LogLevels(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer

	logger := NewLogrusLogger(newLogrusBuffer(&buf), Config{LogLevel: Debug})

	tests := []struct {
		name  string
		log   func(string, ...interface{})
		level string
	}{
		{"Debug level", func(m string, d ...interface{}) { logger.Debug(ctx, m, d...) }, "debug"},
		{"Info level", func(m string, d ...interface{}) { logger.Info(ctx, m, d...) }, "info"},
		{"Warn level", func(m string, d ...interface{}) { logger.Warn(ctx, m, d...) }, "warning"},
		{"Error level", func(m string, d ...interface{}) { logger.Error(ctx, m, d...) }, "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.log("column [%s] skipped", "tags")

			output := buf.String()
			assert.Contains(t, output, "column [tags] skipped")
			assert.Contains(t, output, `"level":"`+tt.level+`"`)
		})
	}
}

func TestLogrusLogger_Gated(t *testing.T) {
	var buf bytes.Buffer

	logger := NewLogrusLogger(newLogrusBuffer(&buf), Config{LogLevel: Error})
	logger.Warn(context.Background(), "hidden")

	assert.Empty(t, buf.String())
}

func TestLogrusLevel(t *testing.T) {
	assert.Equal(t, logrus.ErrorLevel, LogrusLevel(Error))
	assert.Equal(t, logrus.WarnLevel, LogrusLevel(Warn))
	assert.Equal(t, logrus.InfoLevel, LogrusLevel(Info))
	assert.Equal(t, logrus.DebugLevel, LogrusLevel(Debug))
}
