package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/ivo-tech/cloudflare-ddns/internal/config"
)

var line = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - (INFO|WARN|ERROR|DEBUG) - .+$`)

func TestLineFormat(t *testing.T) {
	var buf bytes.Buffer
	log, closeLog := SetupLogger(&config.LoggingConfig{Level: "info"}, &buf)
	defer closeLog()

	log.Info().Msg("Current IP: 203.0.113.7")
	log.Error().Msg("DDNS update failed (transport failure)")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines; got %q", buf.String())
	}
	for _, l := range lines {
		if !line.MatchString(l) {
			t.Fatalf("Line %q does not match %s", l, line)
		}
	}
	if !strings.HasSuffix(lines[0], " - INFO - Current IP: 203.0.113.7") {
		t.Fatalf("Unexpected line %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], " - ERROR - DDNS update failed (transport failure)") {
		t.Fatalf("Unexpected line %q", lines[1])
	}
}

func TestLevel(t *testing.T) {
	var buf bytes.Buffer
	log, _ := SetupLogger(&config.LoggingConfig{Level: "WARN"}, &buf)
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("Expected only warnings; got %q", buf.String())
	}

	buf.Reset()
	log, _ = SetupLogger(&config.LoggingConfig{Level: "nonsense"}, &buf)
	log.Debug().Msg("hidden")
	log.Info().Msg("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("Expected an unknown level to mean info; got %q", buf.String())
	}
}

func TestLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ddns.log")
	if err := os.WriteFile(path, []byte("earlier line\n"), 0644); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	log, closeLog := SetupLogger(&config.LoggingConfig{Level: "info", File: path}, &buf)
	log.Info().Msg("DNS record updated successfully to 203.0.113.7")
	if err := closeLog(); err != nil {
		t.Fatalf("close failed: %s", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(b), "\n"), "\n")
	if len(lines) != 2 || lines[0] != "earlier line" {
		t.Fatalf("Expected the log file to be appended to; got %q", b)
	}
	if !line.MatchString(lines[1]) {
		t.Fatalf("Line %q does not match %s", lines[1], line)
	}
	if !strings.Contains(buf.String(), "DNS record updated successfully") {
		t.Fatalf("Expected the console to get the line too; got %q", buf.String())
	}
}

func TestUnwritableLogFile(t *testing.T) {
	var buf bytes.Buffer
	path := filepath.Join(t.TempDir(), "missing-dir", "ddns.log")
	log, closeLog := SetupLogger(&config.LoggingConfig{Level: "info", File: path}, &buf)
	defer closeLog()
	log.Info().Msg("still logging")

	out := buf.String()
	if !strings.Contains(out, "- WARN - cannot open log file") {
		t.Fatalf("Expected a warning about the log file; got %q", out)
	}
	if !strings.Contains(out, "still logging") {
		t.Fatalf("Expected console logging to continue; got %q", out)
	}
}
