package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/analogtopo/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if cfg.Extract.Direction != "V" || cfg.Output.Suffix != "_constraints.json" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.Cache.TTL.Duration != DefaultCacheTTL {
		t.Errorf("Cache.TTL = %v, want %v", cfg.Cache.TTL, DefaultCacheTTL)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[extract]
device_prefix = "X"
direction = "H"

[cache]
ttl = "36h"

[server]
addr = "127.0.0.1:9000"
`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Extract.DevicePrefix != "X" || cfg.Extract.Direction != "H" {
		t.Errorf("Extract = %+v", cfg.Extract)
	}
	if cfg.Extract.PolarityMarker != "nfet" {
		t.Errorf("unset keys should keep defaults, got marker %q", cfg.Extract.PolarityMarker)
	}
	if cfg.Cache.TTL.Duration != 36*time.Hour {
		t.Errorf("Cache.TTL = %v, want 36h", cfg.Cache.TTL)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.MaxBodyBytes != DefaultMaxBodyBytes {
		t.Errorf("Server = %+v", cfg.Server)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"bad direction", "[extract]\ndirection = \"Z\"", "direction"},
		{"long prefix", "[extract]\ndevice_prefix = \"MN\"", "single letter"},
		{"digit prefix", "[extract]\ndevice_prefix = \"1\"", "letter"},
		{"empty marker", "[extract]\npolarity_marker = \"\"", "polaritymarker"},
		{"suffix not json", "[output]\nsuffix = \".txt\"", ".json"},
		{"bad ttl", "[cache]\nttl = \"soon\"", "decode"},
		{"negative ttl", "[cache]\nttl = \"-1h\"", "negative"},
		{"bad addr", "[server]\naddr = \"8080\"", "server.addr"},
		{"zero body", "[server]\nmax_body_bytes = 0", "at least"},
		{"syntax", "[extract\n", "decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) {
				t.Fatalf("Parse() error = %v, want %s", err, errors.ErrCodeInvalidConfig)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	if err := os.WriteFile(path, []byte("[output]\nsuffix = \".constraints.json\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Output.Suffix != ".constraints.json" {
		t.Errorf("Suffix = %q", cfg.Output.Suffix)
	}
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing explicit) = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestLoadDefaultFileAbsent(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Extract.DevicePrefix != "M" {
		t.Errorf("expected defaults, got %+v", cfg.Extract)
	}
}

func TestLoadUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "typo.toml")
	if err := os.WriteFile(path, []byte("[extract]\ndevice_prefx = \"M\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) || !strings.Contains(err.Error(), "device_prefx") {
		t.Errorf("Load(typo) = %v, want unknown key error", err)
	}
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analogtopo.yaml")
	src := `extract:
  direction: H
cache:
  ttl: 36h
server:
  metrics: false
`
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Extract.Direction != "H" || cfg.Extract.DevicePrefix != "M" {
		t.Errorf("Extract = %+v", cfg.Extract)
	}
	if cfg.Cache.TTL.Duration != 36*time.Hour {
		t.Errorf("TTL = %v, want 36h", cfg.Cache.TTL.Duration)
	}
	if cfg.Server.Metrics {
		t.Error("server.metrics: false not applied")
	}
}

func TestLoadYAMLErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown key", "extract:\n  device_prefx: M\n", "device_prefx"},
		{"bad direction", "extract:\n  direction: Z\n", "direction"},
		{"bad ttl", "cache:\n  ttl: soon\n", "soon"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "c.yml")
			if err := os.WriteFile(path, []byte(tt.src), 0o644); err != nil {
				t.Fatal(err)
			}
			_, err := Load(path)
			if !errors.Is(err, errors.ErrCodeInvalidConfig) || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load = %v, want INVALID_CONFIG mentioning %q", err, tt.want)
			}
		})
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load(empty): %v", err)
	}
	if !cfg.Server.Metrics || cfg.Server.Addr != DefaultAddr {
		t.Errorf("empty file should keep defaults, got %+v", cfg.Server)
	}
}

func TestExampleFilesAgree(t *testing.T) {
	fromTOML, err := Load(filepath.Join("..", "..", "examples", "analogtopo.toml"))
	if err != nil {
		t.Fatalf("Load(toml): %v", err)
	}
	fromYAML, err := Load(filepath.Join("..", "..", "examples", "analogtopo.yaml"))
	if err != nil {
		t.Fatalf("Load(yaml): %v", err)
	}
	if *fromTOML != *fromYAML {
		t.Errorf("example configs differ:\ntoml: %+v\nyaml: %+v", *fromTOML, *fromYAML)
	}
	if *fromTOML != *Default() {
		t.Errorf("example config should spell out the defaults, got %+v", *fromTOML)
	}
}
