package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileLoggerWritesToSessionFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	log, closer, err := FileLogger(dir)
	if err != nil {
		t.Fatalf("FileLogger error: %v", err)
	}
	log.Info().Str("output", "out.mp4").Msg("render complete")
	if err := closer.Close(); err != nil {
		t.Fatalf("close log file: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read log dir: %v", err)
	}
	if len(entries) != 1 || !strings.HasSuffix(entries[0].Name(), ".log") {
		t.Fatalf("log dir entries = %v, want one .log file", entries)
	}

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "render complete") {
		t.Errorf("log file %q lost the message", data)
	}
}

func TestFileLoggerRejectsUnwritableDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, _, err := FileLogger(filepath.Join(path, "logs")); err == nil {
		t.Error("expected error when the parent is a regular file")
	}
}
