package logging_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"visionforge/internal/logging"
)

func TestNewConsoleWritesComponentPrefix(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "console.log")

	logger, err := logging.New(logging.Options{
		Format:           "console",
		Level:            "info",
		OutputPaths:      []string{logPath},
		ErrorOutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "sync-engine").Info("script saved", logging.Int("scenes", 3))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	line := string(content)
	if !strings.Contains(line, "sync-engine: script saved") {
		t.Fatalf("expected component prefix in output, got %q", line)
	}
	if !strings.Contains(line, "scenes=3") {
		t.Fatalf("expected attr in output, got %q", line)
	}
}

func TestNewJSONLowercasesLevel(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "json.log")

	logger, err := logging.New(logging.Options{
		Format:      "json",
		Level:       "debug",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Warn("render slow")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(content), `"level":"warn"`) {
		t.Fatalf("expected lowercase level, got %q", content)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestLevelFiltering(t *testing.T) {
	tempDir := t.TempDir()
	logPath := filepath.Join(tempDir, "filtered.log")

	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "warn",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logger.Info("should be dropped")
	logger.Warn("should be kept")

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if strings.Contains(string(content), "should be dropped") {
		t.Fatalf("expected info line filtered, got %q", content)
	}
	if !strings.Contains(string(content), "should be kept") {
		t.Fatalf("expected warn line present, got %q", content)
	}
}

func TestNoopLoggerDiscards(t *testing.T) {
	logger := logging.NewNop()
	logger.Error("discarded", logging.Error(os.ErrNotExist))
}
