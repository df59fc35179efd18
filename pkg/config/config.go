package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nslogger/nslogger-go/pkg/logger"
)

var (
	ErrMissingHost = errors.New("port set without a host")
	ErrMissingPort = errors.New("host set without a port")
)

// Duration wraps time.Duration so YAML can carry values like "5s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the on-disk client configuration. Zero values fall back to
// the Default settings, so a partial file is fine.
type Config struct {
	// Host and Port pin a fixed viewer. Both empty means Bonjour
	// discovery (when enabled).
	Host string `yaml:"host"`
	Port uint16 `yaml:"port"`

	// UseTLS and BrowseBonjour default to true when absent.
	UseTLS        *bool `yaml:"useTls"`
	BrowseBonjour *bool `yaml:"browseBonjour"`

	FlushEachMessage   bool   `yaml:"flushEachMessage"`
	RouteToLocalBuffer bool   `yaml:"routeToLocalBuffer"`
	BufferFilePath     string `yaml:"bufferFile"`

	// TraceFile receives the client's own diagnostic event trace.
	TraceFile string `yaml:"traceFile"`

	ConnectTimeout Duration `yaml:"connectTimeout"`
	BrowseTimeout  Duration `yaml:"browseTimeout"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	on := true
	return Config{
		UseTLS:        &on,
		BrowseBonjour: &on,
	}
}

// Load reads and validates a YAML configuration file. Absent fields
// keep their Default values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports configurations that cannot work.
func (c Config) Validate() error {
	if c.Host != "" && c.Port == 0 {
		return ErrMissingPort
	}
	if c.Host == "" && c.Port != 0 {
		return ErrMissingHost
	}
	return nil
}

// HasEndpoint reports whether the config pins a fixed viewer.
func (c Config) HasEndpoint() bool {
	return c.Host != "" && c.Port != 0
}

// Options translates the file settings into client options. The trace
// logger is wired separately by the caller.
func (c Config) Options() logger.Options {
	opts := logger.DefaultOptions()
	if c.UseTLS != nil {
		opts.UseTLS = *c.UseTLS
	}
	if c.BrowseBonjour != nil {
		opts.BrowseBonjour = *c.BrowseBonjour
	}
	opts.FlushEachMessage = c.FlushEachMessage
	opts.RouteToLocalBuffer = c.RouteToLocalBuffer
	opts.BufferFilePath = c.BufferFilePath
	opts.ConnectTimeout = time.Duration(c.ConnectTimeout)
	opts.BrowseTimeout = time.Duration(c.BrowseTimeout)
	return opts
}
