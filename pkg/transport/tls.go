package transport

import (
	"crypto/tls"
)

// NewViewerTLSConfig returns the TLS configuration used when connecting
// to a viewer with SSL enabled.
//
// Certificate verification is disabled: the NSLogger viewer generates a
// self-signed certificate, and the link is a local peer-to-peer debugging
// channel discovered over Bonjour or configured by hand. Deployments that
// provision real certificates pass their own *tls.Config through
// Dialer.TLSConfig instead.
func NewViewerTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: true,
	}
}
