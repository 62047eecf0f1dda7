package infra

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLogger_WritesRotatingFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "app.log")

	logger := NewLogger(cfg)
	logger.Info("signal received", slog.String("symbol", "BTCUSDT"))

	data, err := os.ReadFile(cfg.Logging.File)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if len(data) == 0 {
		t.Error("Expected log output in file")
	}
}
