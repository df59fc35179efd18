package discovery

import (
	"errors"
	"time"
)

// Service type constants for Bonjour browsing.
const (
	// ServiceTypePlain is advertised by viewers accepting plain TCP.
	ServiceTypePlain = "_nslogger._tcp"

	// ServiceTypeSSL is advertised by viewers accepting SSL connections.
	ServiceTypeSSL = "_nslogger-ssl._tcp"

	// Domain is the mDNS domain.
	Domain = "local"
)

// Timing constants.
const (
	// BrowseTimeout bounds one browse-and-resolve pass.
	BrowseTimeout = 5 * time.Second

	// DefaultRetryDelay is the delay callers typically apply before
	// re-requesting a lookup after an unresolved result.
	DefaultRetryDelay = 10 * time.Second
)

// Discovery errors.
var (
	// ErrBrowseTimeout indicates no service appeared within the timeout.
	ErrBrowseTimeout = errors.New("discovery browse timed out")

	// ErrUnresolved indicates a service was seen but no usable address
	// could be resolved for it.
	ErrUnresolved = errors.New("discovery could not resolve a usable address")
)

// ServiceType returns the Bonjour service type for the given security mode.
func ServiceType(useSSL bool) string {
	if useSSL {
		return ServiceTypeSSL
	}
	return ServiceTypePlain
}

// Endpoint is a resolved viewer endpoint.
type Endpoint struct {
	// Instance is the advertised service instance name.
	Instance string

	// Host is the address to connect to.
	Host string

	// Port is the advertised port.
	Port uint16
}

// Status classifies a lookup outcome.
type Status uint8

const (
	// StatusFound means an endpoint was resolved.
	StatusFound Status = iota

	// StatusTimeout means the browse window elapsed with no service.
	StatusTimeout

	// StatusUnresolved means a service was seen but yielded no usable address.
	StatusUnresolved
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusTimeout:
		return "timeout"
	case StatusUnresolved:
		return "unresolved"
	default:
		return "unknown"
	}
}

// Result is the outcome of one lookup attempt.
type Result struct {
	// ServiceType is the service type that was browsed.
	ServiceType string

	// Status is the outcome.
	Status Status

	// Endpoint is set when Status is StatusFound.
	Endpoint Endpoint
}
