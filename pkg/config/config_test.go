package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nslogger.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadFullConfig(t *testing.T) {
	path := writeConfig(t, `
host: 192.168.1.20
port: 50000
useTls: false
browseBonjour: false
flushEachMessage: true
bufferFile: /tmp/pending.nslog
traceFile: /tmp/trace.cbor
connectTimeout: 3s
browseTimeout: 10s
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !cfg.HasEndpoint() {
		t.Error("expected a fixed endpoint")
	}
	if cfg.Host != "192.168.1.20" || cfg.Port != 50000 {
		t.Errorf("endpoint = %s:%d", cfg.Host, cfg.Port)
	}

	opts := cfg.Options()
	if opts.UseTLS {
		t.Error("UseTLS should be off")
	}
	if opts.BrowseBonjour {
		t.Error("BrowseBonjour should be off")
	}
	if !opts.FlushEachMessage {
		t.Error("FlushEachMessage should be on")
	}
	if opts.BufferFilePath != "/tmp/pending.nslog" {
		t.Errorf("BufferFilePath = %q", opts.BufferFilePath)
	}
	if opts.ConnectTimeout != 3*time.Second {
		t.Errorf("ConnectTimeout = %v", opts.ConnectTimeout)
	}
	if opts.BrowseTimeout != 10*time.Second {
		t.Errorf("BrowseTimeout = %v", opts.BrowseTimeout)
	}
}

func TestLoadPartialConfigKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "flushEachMessage: true\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	opts := cfg.Options()
	if !opts.UseTLS {
		t.Error("UseTLS should default to on")
	}
	if !opts.BrowseBonjour {
		t.Error("BrowseBonjour should default to on")
	}
	if !opts.FlushEachMessage {
		t.Error("FlushEachMessage should be on")
	}
	if cfg.HasEndpoint() {
		t.Error("no endpoint expected")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr error
	}{
		{"empty", Config{}, nil},
		{"complete endpoint", Config{Host: "10.0.0.1", Port: 50000}, nil},
		{"host without port", Config{Host: "10.0.0.1"}, ErrMissingPort},
		{"port without host", Config{Port: 50000}, ErrMissingHost},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); err != tc.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestLoadBadDuration(t *testing.T) {
	path := writeConfig(t, "connectTimeout: soon\n")
	if _, err := Load(path); err == nil {
		t.Error("expected an error for an unparsable duration")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
