package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"wldkit.dev/internal/config"
)

func TestNew_JSONFromConfig(t *testing.T) {
	// Setenv registers the restore; the unset makes the config values win.
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("LOG_FORMAT")

	var buf bytes.Buffer
	log := newWithOutput(config.LogSpec{Level: "debug", Format: "json"}, &buf)
	if log.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level=%s want debug", log.GetLevel())
	}
	log.WithField("path", "a.wld").Info("saved")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("not json: %q: %v", buf.String(), err)
	}
	if line["msg"] != "saved" || line["path"] != "a.wld" {
		t.Fatalf("line=%v", line)
	}
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "text")

	var buf bytes.Buffer
	log := newWithOutput(config.LogSpec{Level: "debug", Format: "json"}, &buf)
	if log.GetLevel() != logrus.WarnLevel {
		t.Fatalf("level=%s want warn", log.GetLevel())
	}
	log.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info logged at warn level: %q", buf.String())
	}
	log.Warn("shown")
	if !strings.Contains(buf.String(), "msg=shown") {
		t.Fatalf("text output=%q", buf.String())
	}
}

func TestNew_FileOutput(t *testing.T) {
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("LOG_FORMAT", "json")

	path := filepath.Join(t.TempDir(), "logs", "wldtool.log")
	var buf bytes.Buffer
	log := newWithOutput(config.LogSpec{File: path, MaxSizeMB: 1}, &buf)
	log.Info("to file")

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "to file") || !strings.Contains(buf.String(), "to file") {
		t.Fatalf("file=%q stderr=%q", b, buf.String())
	}
}
