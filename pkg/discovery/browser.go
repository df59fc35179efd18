package discovery

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/enbility/zeroconf/v3"
)

// Browser performs one browse-and-resolve pass over a service type.
type Browser interface {
	// Browse looks for instances of serviceType and returns the first one
	// that resolves to a usable address. It returns ErrBrowseTimeout when
	// the context deadline passes with no instance seen, or ErrUnresolved
	// when instances were seen but none carried a usable address.
	Browse(ctx context.Context, serviceType string) (Endpoint, error)
}

// BrowserConfig configures browser behavior.
type BrowserConfig struct {
	// Timeout bounds one browse pass. Default: BrowseTimeout.
	Timeout time.Duration

	// Interface restricts browsing to one network interface.
	// Empty string means all interfaces.
	Interface string
}

// MDNSBrowser implements Browser using zeroconf.
type MDNSBrowser struct {
	config BrowserConfig
}

// NewMDNSBrowser creates a new mDNS browser.
func NewMDNSBrowser(config BrowserConfig) *MDNSBrowser {
	if config.Timeout <= 0 {
		config.Timeout = BrowseTimeout
	}
	return &MDNSBrowser{config: config}
}

// Browse looks for serviceType instances and returns the first one with
// a usable address. Only the first browse result is considered usable;
// no ranking beyond first-found is applied.
func (b *MDNSBrowser) Browse(ctx context.Context, serviceType string) (Endpoint, error) {
	ctx, cancel := context.WithTimeout(ctx, b.config.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)
	removed := make(chan *zeroconf.ServiceEntry)

	go func() {
		_ = zeroconf.Browse(ctx, serviceType, Domain, entries, removed, b.browserOptions()...)
	}()

	sawInstance := false
	for {
		select {
		case entry, ok := <-entries:
			if !ok {
				if sawInstance {
					return Endpoint{}, ErrUnresolved
				}
				return Endpoint{}, ErrBrowseTimeout
			}
			sawInstance = true
			if host, ok := pickAddress(entry); ok {
				return Endpoint{
					Instance: entry.Instance,
					Host:     host,
					Port:     uint16(entry.Port),
				}, nil
			}

		case <-removed:
			// A vanished instance cannot become our endpoint.

		case <-ctx.Done():
			if sawInstance {
				return Endpoint{}, ErrUnresolved
			}
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return Endpoint{}, ErrBrowseTimeout
			}
			return Endpoint{}, ctx.Err()
		}
	}
}

// browserOptions returns zeroconf client options based on config.
func (b *MDNSBrowser) browserOptions() []zeroconf.ClientOption {
	var opts []zeroconf.ClientOption

	if b.config.Interface != "" {
		iface, err := net.InterfaceByName(b.config.Interface)
		if err == nil {
			opts = append(opts, zeroconf.SelectIfaces([]net.Interface{*iface}))
		}
	}

	return opts
}

// pickAddress selects the first local-scope IPv4 address from a resolved
// entry. The viewer link is a local debugging channel; routing it to a
// public address is never what the user wants.
func pickAddress(entry *zeroconf.ServiceEntry) (string, bool) {
	for _, ip := range entry.AddrIPv4 {
		if isLocalScope(ip) {
			return ip.String(), true
		}
	}
	return "", false
}

// isLocalScope reports whether ip belongs to a private, link-local or
// loopback range.
func isLocalScope(ip net.IP) bool {
	return ip.IsPrivate() || ip.IsLinkLocalUnicast() || ip.IsLoopback()
}

// Compile-time interface satisfaction check.
var _ Browser = (*MDNSBrowser)(nil)
