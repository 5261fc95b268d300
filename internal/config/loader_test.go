package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, "devshot.toml", `
[serve]
port = 8080
root = "public"

[serve.mime]
".wasm" = "application/wasm"

[screenshot]
url = "http://localhost:8080"
width = 390
height = 844
timeout = "30s"
quiet = "250ms"
`)

	cfg, used, err := Load(p)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if used != p {
		t.Errorf("path = %q, want %q", used, p)
	}
	if cfg.Serve.Port != 8080 || cfg.Serve.Root != "public" {
		t.Errorf("serve = %+v", cfg.Serve)
	}
	if cfg.Serve.Index != "index.html" {
		t.Errorf("Index = %q, default should be kept", cfg.Serve.Index)
	}
	if cfg.Serve.MIME[".wasm"] != "application/wasm" {
		t.Errorf("MIME = %v", cfg.Serve.MIME)
	}
	if cfg.Screenshot.Width != 390 || cfg.Screenshot.Height != 844 {
		t.Errorf("viewport = %dx%d", cfg.Screenshot.Width, cfg.Screenshot.Height)
	}
	if cfg.Screenshot.Timeout.Duration != 30*time.Second {
		t.Errorf("Timeout = %v", cfg.Screenshot.Timeout)
	}
	if cfg.Screenshot.Quiet.Duration != 250*time.Millisecond {
		t.Errorf("Quiet = %v", cfg.Screenshot.Quiet)
	}
	if cfg.Screenshot.Dir != "temporary screenshots" {
		t.Errorf("Dir = %q, default should be kept", cfg.Screenshot.Dir)
	}
	if cfg.Screenshot.UserAgent != "" {
		t.Errorf("UserAgent = %q, unset should stay empty", cfg.Screenshot.UserAgent)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	p := writeConfig(t, dir, "devshot.yaml", `
serve:
  port: 4000
  index: home.html
screenshot:
  dir: shots
  timeout: 5s
  max_inflight: 0
`)

	cfg, _, err := Load(p)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Serve.Port != 4000 || cfg.Serve.Index != "home.html" {
		t.Errorf("serve = %+v", cfg.Serve)
	}
	if cfg.Screenshot.Dir != "shots" || cfg.Screenshot.Timeout.Duration != 5*time.Second {
		t.Errorf("screenshot = %+v", cfg.Screenshot)
	}
	if cfg.Screenshot.Width != 1440 {
		t.Errorf("Width = %d, default should be kept", cfg.Screenshot.Width)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		file string
		body string
	}{
		{"Unknown TOML key", "a.toml", "[serve]\nprot = 1\n"},
		{"Unknown YAML key", "b.yaml", "serve:\n  prot: 1\n"},
		{"Bad duration", "c.toml", "[screenshot]\ntimeout = \"soon\"\n"},
		{"Port out of range", "d.toml", "[serve]\nport = 70000\n"},
		{"Malformed TOML", "e.toml", "[serve\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeConfig(t, dir, tt.file, tt.body)
			if _, _, err := Load(p); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadUnknownFormat(t *testing.T) {
	p := writeConfig(t, t.TempDir(), "devshot.json", "{}")
	_, _, err := Load(p)
	if !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("Load() error = %v, want ErrUnknownFormat", err)
	}
}

func TestLoadMissingExplicitPath(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("expected error for missing explicit config")
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	if got := Discover(dir); got != "" {
		t.Errorf("Discover() = %q, want empty", got)
	}

	yml := writeConfig(t, dir, "devshot.yml", "")
	if got := Discover(dir); got != yml {
		t.Errorf("Discover() = %q, want %q", got, yml)
	}

	tomlPath := writeConfig(t, dir, "devshot.toml", "")
	if got := Discover(dir); got != tomlPath {
		t.Errorf("Discover() = %q, want %q (toml wins)", got, tomlPath)
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	p := writeConfig(t, t.TempDir(), "devshot.yaml", "")
	cfg, _, err := Load(p)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Serve.Port != 3000 {
		t.Errorf("Port = %d, want default 3000", cfg.Serve.Port)
	}
}
