// Package config loads analogtopo settings from a TOML or YAML file.
//
// A missing default file is not an error: every setting has a default. A
// file named explicitly (--config) must exist. Files ending in .yaml or .yml
// are read as YAML with the same keys; anything else is TOML. Unknown keys
// are rejected so that typos do not silently fall back to defaults.
//
//	[extract]
//	device_prefix = "M"
//	polarity_marker = "nfet"
//	direction = "V"
//
//	[output]
//	suffix = "_constraints.json"
//
//	[cache]
//	disabled = false
//	ttl = "168h"
//
//	[server]
//	addr = ":8080"
//	max_body_bytes = 1048576
//	metrics = true
package config

import (
	"bytes"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/analogtopo/pkg/errors"
)

// DefaultFileName is looked up in the working directory when no path is given.
const DefaultFileName = "analogtopo.toml"

// Defaults.
const (
	DefaultSuffix       = "_constraints.json"
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 1 << 20
	DefaultCacheTTL     = 7 * 24 * time.Hour
)

// validate is shared; validator.Validate caches struct metadata and is safe
// for concurrent use.
var validate = validator.New()

// Config is the full configuration.
type Config struct {
	Extract Extract `toml:"extract" yaml:"extract"`
	Output  Output  `toml:"output" yaml:"output"`
	Cache   Cache   `toml:"cache" yaml:"cache"`
	Server  Server  `toml:"server" yaml:"server"`
}

// Extract controls how devices are recognised and constraints annotated.
type Extract struct {
	DevicePrefix   string `toml:"device_prefix" yaml:"device_prefix" validate:"required"`
	PolarityMarker string `toml:"polarity_marker" yaml:"polarity_marker" validate:"required"`
	Direction      string `toml:"direction" yaml:"direction" validate:"required,oneof=V H"`
}

// Output controls where the extract command writes results.
type Output struct {
	// Suffix replaces the netlist extension to form the default output name.
	Suffix string `toml:"suffix" yaml:"suffix" validate:"required,endswith=.json"`
}

// Cache controls the on-disk result cache.
type Cache struct {
	Disabled bool     `toml:"disabled" yaml:"disabled"`
	TTL      Duration `toml:"ttl" yaml:"ttl"`
}

// Server configures the HTTP endpoint.
type Server struct {
	Addr         string `toml:"addr" yaml:"addr" validate:"required"`
	MaxBodyBytes int64  `toml:"max_body_bytes" yaml:"max_body_bytes" validate:"min=1"`
	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool `toml:"metrics" yaml:"metrics"`
}

// Duration is a time.Duration written as a Go duration string ("36h").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Extract: Extract{
			DevicePrefix:   "M",
			PolarityMarker: "nfet",
			Direction:      "V",
		},
		Output: Output{Suffix: DefaultSuffix},
		Cache:  Cache{TTL: Duration{DefaultCacheTTL}},
		Server: Server{Addr: DefaultAddr, MaxBodyBytes: DefaultMaxBodyBytes, Metrics: true},
	}
}

// Load reads the configuration at path over the defaults. An empty path looks
// for DefaultFileName in the working directory and returns the defaults if it
// does not exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFileName
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return Default(), nil
		}
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "config %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "config %s", path)
	}

	cfg := Default()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = decodeYAML(data, cfg)
	default:
		err = decodeTOML(data, cfg)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeTOML(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// decodeYAML rejects unknown fields. An empty document leaves the defaults.
func decodeYAML(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return err
	}
	return nil
}

// Parse decodes configuration text over the defaults and validates it.
func Parse(text string) (*Config, error) {
	cfg := Default()
	if _, err := toml.Decode(text, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and returns an INVALID_CONFIG error for the
// first problem found.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	if err := errors.ValidateDevicePrefix(c.Extract.DevicePrefix); err != nil {
		return err
	}
	if c.Cache.TTL.Duration < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.ttl must not be negative")
	}
	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "server.addr %q", c.Server.Addr)
	}
	return nil
}

func formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate config")
	}

	e := validationErrs[0]
	field := e.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	field = strings.ToLower(field)

	var msg string
	switch e.Tag() {
	case "required":
		msg = "is required"
	case "oneof":
		msg = fmt.Sprintf("must be one of [%s], got %q", e.Param(), e.Value())
	case "endswith":
		msg = fmt.Sprintf("must end with %q", e.Param())
	case "min":
		msg = fmt.Sprintf("must be at least %s", e.Param())
	default:
		msg = fmt.Sprintf("validation failed (%s)", e.Tag())
	}
	return errors.New(errors.ErrCodeInvalidConfig, "%s %s", field, msg)
}
