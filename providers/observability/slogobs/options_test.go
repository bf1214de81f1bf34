package slogobs

import (
	"bytes"
	"log/slog"
	"os"
	"testing"
)

func TestApplyOptions(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))

	cfg := applyOptions(
		WithFormat(FormatPretty),
		WithLevel(slog.LevelError),
		WithOutput(buf),
		WithColors(true),
		WithLogger(logger),
	)

	if cfg.format != FormatPretty {
		t.Errorf("format = %v, want pretty", cfg.format)
	}
	if cfg.level != slog.LevelError {
		t.Errorf("level = %v, want ERROR", cfg.level)
	}
	if cfg.output != buf {
		t.Error("output writer not applied")
	}
	if !cfg.colors {
		t.Error("colors not enabled")
	}
	if cfg.logger != logger {
		t.Error("logger not applied")
	}
}

func TestDefaultConfig_WritesToStderr(t *testing.T) {
	t.Setenv("RAGCALC_LOG_FORMAT", "")
	t.Setenv("LOG_FORMAT", "")

	cfg := defaultConfig()
	if cfg.output != os.Stderr {
		t.Error("default output must be stderr")
	}
	if cfg.format != FormatCompact {
		t.Errorf("default format = %v, want compact", cfg.format)
	}
}
