package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scan1c/internal/config"
	"scan1c/internal/logger"
)

func TestConfigure_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()

	logger.Configure(l, config.LogConfig{Level: "debug", Format: "json"}, &buf)
	l.WithField("component", "test").Debug("hello")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "test", entry["component"])
	assert.Equal(t, "debug", entry["level"])
}

func TestConfigure_UnknownLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()

	logger.Configure(l, config.LogConfig{Level: "chatty", Format: "text"}, &buf)
	l.Debug("hidden")

	assert.Equal(t, logrus.InfoLevel, l.GetLevel())
	assert.Empty(t, buf.String())
}
