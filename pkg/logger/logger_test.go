package logger

import (
	"path/filepath"
	"testing"
)

func TestNewWithDefaults(t *testing.T) {
	l, err := New(nil)
	if err != nil {
		t.Fatalf("New(nil) failed: %v", err)
	}

	// 不应 panic
	l.Info("test message", "key", "value")
	l.Named("sub").Debug("named message")
	l.WithFields("fixed", 1).Warn("with fields")
}

func TestParseLevel(t *testing.T) {
	cases := []struct {
		in   Level
		want string
	}{
		{DebugLevel, "debug"},
		{InfoLevel, "info"},
		{WarnLevel, "warn"},
		{ErrorLevel, "error"},
		{Level("bogus"), "info"}, // 未知等级回落
	}

	for _, c := range cases {
		if got := parseLevel(c.in).String(); got != c.want {
			t.Errorf("parseLevel(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFileOutput(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.EnableConsole = false
	cfg.EnableFile = true
	cfg.OutputPath = filepath.Join(dir, "test.log")

	l, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	l.Info("file output message", "n", 42)
}

func TestNoopImplementsLogger(t *testing.T) {
	var l Logger = NewNoop()
	l.Info("ignored")
	if err := l.Sync(); err != nil {
		t.Errorf("noop Sync returned error: %v", err)
	}
}
