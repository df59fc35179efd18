package logger

import (
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"

	"github.com/nslogger/nslogger-go/pkg/wire"
)

// newClientInfoMessage builds the synthetic message describing this
// client. The viewer shows it as the session header, so it is always
// transmitted before any log message on a connection.
func newClientInfoMessage(seq uint32, uniqueID string) *wire.Message {
	m := wire.NewMessage(wire.TypeClientInfo, seq)

	m.AddString(wire.KeyClientName, processName())
	m.AddString(wire.KeyClientVersion, clientVersion())
	m.AddString(wire.KeyOSName, runtime.GOOS)
	m.AddString(wire.KeyOSVersion, runtime.Version())
	m.AddString(wire.KeyClientModel, runtime.GOARCH)
	m.AddString(wire.KeyUniqueID, uniqueID)

	return m
}

// processName returns the executable base name, or a fallback when the
// path cannot be read.
func processName() string {
	exe, err := os.Executable()
	if err != nil {
		return "go-client"
	}
	return filepath.Base(exe)
}

// clientVersion returns the main module version from build info.
func clientVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "(devel)"
}
