// Package discovery locates a desktop viewer on the local network via
// Bonjour (mDNS/DNS-SD).
//
// The viewer advertises one of two service types depending on whether it
// accepts SSL connections. A Browser performs one browse-then-resolve
// pass over a service type and returns the first usable endpoint,
// preferring private IPv4 addresses since the viewer link is inherently
// local. The Manager runs lookups on its own goroutine and hands results
// back to the logger's worker as commands, so mDNS I/O never blocks the
// message pipeline. Retry pacing belongs to the caller: the Manager
// performs exactly one attempt per lookup request.
package discovery
