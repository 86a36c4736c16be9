package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/overlaycue/internal/config"
)

func TestInitWritesFileAndRotates(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "logs", "overlaycue.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("previous run\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cleanup, err := Init(config.LogConfig{Level: "DEBUG", Path: path})
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	slog.Debug("table built", "page", "about")
	cleanup()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not created: %v", err)
	}
	if !strings.Contains(string(data), "table built") || !strings.Contains(string(data), "page=about") {
		t.Errorf("debug record missing from log file:\n%s", data)
	}
	if strings.Contains(string(data), "previous run") {
		t.Error("log file was not rotated")
	}
	if old, _ := os.ReadFile(path + ".old"); string(old) != "previous run\n" {
		t.Errorf("expected rotated file to keep previous contents, got %q", old)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMultiHandlerRespectsLevels(t *testing.T) {
	var debugBuf, warnBuf bytes.Buffer
	h := &multiHandler{handlers: []slog.Handler{
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}}
	logger := slog.New(h).With("page", "compositions")

	logger.Debug("sampled")
	logger.Warn("locale switch failed")

	if !strings.Contains(debugBuf.String(), "sampled") || !strings.Contains(debugBuf.String(), "locale switch failed") {
		t.Errorf("debug handler missed records:\n%s", debugBuf.String())
	}
	if strings.Contains(warnBuf.String(), "sampled") {
		t.Error("warn handler received a debug record")
	}
	if !strings.Contains(warnBuf.String(), "page=compositions") {
		t.Errorf("attrs not propagated:\n%s", warnBuf.String())
	}
}
