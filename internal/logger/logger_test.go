package logger

import (
	"bytes"
	"encoding/json"
	"io"
	"testing"
)

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not json: %q", buf.String())
	}
	return entry
}

func TestNew_TagsCommandAndVersion(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Env: "production", Level: "debug", Command: "serve", Version: "1.2.0", Out: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	log.Debug().Msg("hello")

	entry := decode(t, &buf)
	if entry["message"] != "hello" || entry["cmd"] != "serve" || entry["version"] != "1.2.0" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNew_DevelopmentOmitsVersion(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Env: "development", Command: "mock-api", Version: "dev", Out: &buf})
	if err != nil {
		t.Fatal(err)
	}
	log.Info().Msg("up")

	entry := decode(t, &buf)
	if _, ok := entry["version"]; ok {
		t.Errorf("development entry carries version: %v", entry)
	}
	if entry["cmd"] != "mock-api" {
		t.Errorf("cmd = %v", entry["cmd"])
	}
}

func TestComponent(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Env: "production", Command: "serve", Out: &buf})
	if err != nil {
		t.Fatal(err)
	}
	cl := Component(log, "sender")
	cl.Info().Msg("sent")

	entry := decode(t, &buf)
	if entry["component"] != "sender" || entry["cmd"] != "serve" {
		t.Errorf("entry = %v", entry)
	}
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Env: "production", Level: "warn", Out: &buf})
	if err != nil {
		t.Fatal(err)
	}
	log.Info().Msg("dropped")
	if buf.Len() != 0 {
		t.Errorf("info written at warn level: %q", buf.String())
	}
}

func TestNew_Discard(t *testing.T) {
	log, err := New(Options{Env: "development", Level: "debug", Out: io.Discard})
	if err != nil {
		t.Fatal(err)
	}
	log.Error().Msg("nowhere")
}

func TestNew_InvalidLevel(t *testing.T) {
	if _, err := New(Options{Env: "production", Level: "chatty"}); err == nil {
		t.Fatal("New() should reject unknown level")
	}
}

func TestIsDevelopment(t *testing.T) {
	for env, want := range map[string]bool{"development": true, "DEV": true, "production": false, "": false} {
		if got := IsDevelopment(env); got != want {
			t.Errorf("IsDevelopment(%q) = %v, want %v", env, got, want)
		}
	}
}
