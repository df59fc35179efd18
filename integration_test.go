package nslogger_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	logl "github.com/nslogger/nslogger-go/pkg/log"
	"github.com/nslogger/nslogger-go/pkg/logger"
	"github.com/nslogger/nslogger-go/pkg/wire"
)

// selfSignedCert mints a throwaway server certificate, the way a real
// desktop viewer presents one.
func selfSignedCert(t *testing.T) tls.Certificate {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}

	template := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "NSLogger Test Viewer"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.IPv4(127, 0, 0, 1)},
	}

	der, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		t.Fatalf("Failed to create certificate: %v", err)
	}

	keyDER, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		t.Fatalf("Failed to marshal key: %v", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	keyPEM := pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER})

	pair, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		t.Fatalf("Failed to build key pair: %v", err)
	}
	return pair
}

// startViewer runs an in-process viewer that decodes incoming frames.
// With a certificate it speaks TLS, otherwise plain TCP.
func startViewer(t *testing.T, cert *tls.Certificate) (port uint16, msgs <-chan *wire.DecodedMessage) {
	t.Helper()

	var ln net.Listener
	var err error
	if cert != nil {
		ln, err = tls.Listen("tcp", "127.0.0.1:0", &tls.Config{
			Certificates: []tls.Certificate{*cert},
			MinVersion:   tls.VersionTLS12,
		})
	} else {
		ln, err = net.Listen("tcp", "127.0.0.1:0")
	}
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	ch := make(chan *wire.DecodedMessage, 64)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(c net.Conn) {
				defer c.Close()
				r := wire.NewReader(c)
				for {
					m, err := r.ReadMessage()
					if err != nil {
						return
					}
					ch <- m
				}
			}(conn)
		}
	}()

	return uint16(ln.Addr().(*net.TCPAddr).Port), ch
}

func nextMessage(t *testing.T, msgs <-chan *wire.DecodedMessage) *wire.DecodedMessage {
	t.Helper()
	select {
	case m := <-msgs:
		return m
	case <-time.After(10 * time.Second):
		t.Fatal("Timed out waiting for a message")
		return nil
	}
}

// TestE2E_TLSDelivery sends messages over TLS to a viewer with a
// self-signed certificate and checks content and ordering on the far
// side.
func TestE2E_TLSDelivery(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cert := selfSignedCert(t)
	port, msgs := startViewer(t, &cert)

	client := logger.New(logger.Options{
		FlushEachMessage: true,
		UseTLS:           true,
	})
	client.SetRemoteHost("127.0.0.1", port, true)
	defer client.Shutdown()

	texts := []string{"alpha", "beta", "gamma"}
	for _, s := range texts {
		m := client.NewMessage(wire.TypeLog)
		m.AddString(wire.KeyTag, "e2e")
		m.AddInt16(wire.KeyLevel, uint16(wire.LevelDebug))
		m.AddString(wire.KeyMessage, s)
		client.Enqueue(m)
	}

	info := nextMessage(t, msgs)
	if info.Type() != wire.TypeClientInfo {
		t.Fatalf("First message type = %v, want client info", info.Type())
	}

	var lastSeq uint32
	for i, want := range texts {
		m := nextMessage(t, msgs)
		part, ok := m.Find(wire.KeyMessage)
		if !ok {
			t.Fatalf("Message %d has no text part", i)
		}
		if got := part.Text(); got != want {
			t.Errorf("Message %d = %q, want %q", i, got, want)
		}
		if seq := m.SequenceNumber(); i > 0 && seq <= lastSeq {
			t.Errorf("Sequence %d not increasing (prev %d)", seq, lastSeq)
		} else {
			lastSeq = seq
		}
	}
}

// TestE2E_TraceFile checks that the client's diagnostic trace records
// the connection lifecycle and the written frames.
func TestE2E_TraceFile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	port, msgs := startViewer(t, nil)

	tracePath := filepath.Join(t.TempDir(), "trace.cbor")
	trace, err := logl.NewFileLogger(tracePath)
	if err != nil {
		t.Fatalf("Failed to create trace logger: %v", err)
	}

	client := logger.New(logger.Options{
		FlushEachMessage: true,
		Trace:            trace,
	})
	client.SetRemoteHost("127.0.0.1", port, false)

	m := client.NewMessage(wire.TypeLog)
	m.AddString(wire.KeyMessage, "traced")
	client.Enqueue(m)
	nextMessage(t, msgs) // client info
	nextMessage(t, msgs) // the log message

	client.Shutdown()
	if err := trace.Close(); err != nil {
		t.Fatalf("Failed to close trace: %v", err)
	}

	events, err := logl.ReadEventsFile(tracePath)
	if err != nil {
		t.Fatalf("Failed to read trace: %v", err)
	}

	var sawConnected, sawFrame bool
	for _, ev := range events {
		if ev.StateChange != nil && ev.StateChange.NewState == logger.StateConnected.String() {
			sawConnected = true
		}
		if ev.Frame != nil && ev.Frame.Sink == "STREAM" {
			sawFrame = true
		}
	}
	if !sawConnected {
		t.Error("Trace has no transition to connected")
	}
	if !sawFrame {
		t.Error("Trace has no stream frame event")
	}
}

// TestE2E_BufferFileReadableByDecoder writes through the disk buffer
// and reads the file back with the stream decoder.
func TestE2E_BufferFileReadableByDecoder(t *testing.T) {
	bufferPath := filepath.Join(t.TempDir(), "offline.nslog")

	client := logger.New(logger.Options{
		FlushEachMessage: true,
		BufferFilePath:   bufferPath,
	})

	for _, s := range []string{"one", "two"} {
		m := client.NewMessage(wire.TypeLog)
		m.AddString(wire.KeyMessage, s)
		client.Enqueue(m)
	}
	client.Shutdown()

	f, err := os.Open(bufferPath)
	if err != nil {
		t.Fatalf("Failed to open buffer: %v", err)
	}
	defer f.Close()

	r := wire.NewReader(f)
	var types []wire.MessageType
	for {
		m, err := r.ReadMessage()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		types = append(types, m.Type())
	}

	want := []wire.MessageType{wire.TypeClientInfo, wire.TypeLog, wire.TypeLog}
	if len(types) != len(want) {
		t.Fatalf("Got %d messages, want %d", len(types), len(want))
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("Message %d type = %v, want %v", i, types[i], want[i])
		}
	}
}
