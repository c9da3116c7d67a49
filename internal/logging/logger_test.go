package logging

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, logrus.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("warn"))
	assert.Equal(t, logrus.WarnLevel, ParseLevel("WARNING"))
	assert.Equal(t, logrus.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("info"))
	assert.Equal(t, logrus.InfoLevel, ParseLevel("unknown"))
}

func TestNewLoggerFormatters(t *testing.T) {
	prod := NewLogger("info", "production")
	assert.IsType(t, &logrus.JSONFormatter{}, prod.Formatter)

	dev := NewLogger("debug", "development")
	assert.IsType(t, &logrus.TextFormatter{}, dev.Formatter)
	assert.Equal(t, logrus.DebugLevel, dev.GetLevel())
}
