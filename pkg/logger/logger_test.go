package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"scorm_rte/internal/config"
)

func TestLevel(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	require.Equal(t, zap.DebugLevel, Level(cfg))

	cfg.Server.Mode = "release"
	require.Equal(t, zap.InfoLevel, Level(cfg))

	cfg.Log.Level = "warn"
	require.Equal(t, zap.WarnLevel, Level(cfg))

	cfg.Log.Level = "loud"
	require.Equal(t, zap.InfoLevel, Level(cfg))
}

func TestNewWritesConsoleAndFile(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Mode = "release"
	cfg.Log.File = filepath.Join(t.TempDir(), "app.log")
	cfg.Log.MaxSizeMB = 1

	var buf bytes.Buffer
	l := New(cfg, zapcore.AddSync(&buf))
	l.Debug("hidden")
	l.Info("session created", zap.String("session_id", "s1"))
	require.NoError(t, l.Sync())

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "session created")
	require.Contains(t, out, `"service": "scorm-rte"`)
	require.FileExists(t, cfg.Log.File)
}
