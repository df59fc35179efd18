// Command nslog-cat prints NSLogger message streams in readable form.
//
// It decodes buffer files written by the client (one framed message
// after another) or, with -listen, acts as a minimal plain-TCP viewer
// that prints whatever connecting clients send.
//
// Usage:
//
//	nslog-cat file.nslog [file2.nslog ...]
//	nslog-cat -listen :50000
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"time"

	"github.com/nslogger/nslogger-go/pkg/wire"
)

var listenAddr = flag.String("listen", "", "Accept client connections on this address instead of reading files")

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	if *listenAddr != "" {
		if err := listen(*listenAddr); err != nil {
			log.Fatal(err)
		}
		return
	}

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: nslog-cat file.nslog [...] | nslog-cat -listen :50000")
		os.Exit(2)
	}

	for _, path := range flag.Args() {
		if err := catFile(path); err != nil {
			log.Fatalf("%s: %v", path, err)
		}
	}
}

func catFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return printStream(f)
}

func listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()
	log.Printf("Listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}
		log.Printf("Client connected: %s", conn.RemoteAddr())

		go func(c net.Conn) {
			defer c.Close()
			if err := printStream(c); err != nil {
				log.Printf("Client %s: %v", c.RemoteAddr(), err)
				return
			}
			log.Printf("Client disconnected: %s", c.RemoteAddr())
		}(conn)
	}
}

func printStream(r io.Reader) error {
	reader := wire.NewReader(r)
	for {
		msg, err := reader.ReadMessage()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println(formatMessage(msg))
	}
}

// formatMessage renders one decoded message as a single line.
func formatMessage(m *wire.DecodedMessage) string {
	ts := "-"
	if p, ok := m.Find(wire.KeyTimestampSeconds); ok {
		t := time.Unix(int64(p.Int()), 0)
		if ms, ok := m.Find(wire.KeyTimestampMilliseconds); ok {
			t = t.Add(time.Duration(ms.Int()) * time.Millisecond)
		}
		ts = t.Format("15:04:05.000")
	}

	line := fmt.Sprintf("%6d %s %-11s", m.SequenceNumber(), ts, m.Type())

	if p, ok := m.Find(wire.KeyLevel); ok {
		line += fmt.Sprintf(" %-9s", wire.Level(p.Int()))
	}
	if p, ok := m.Find(wire.KeyTag); ok {
		line += fmt.Sprintf(" [%s]", p.Text())
	}
	if p, ok := m.Find(wire.KeyThreadID); ok {
		line += fmt.Sprintf(" (%s)", p.Text())
	}

	if p, ok := m.Find(wire.KeyMessage); ok {
		switch p.Type {
		case wire.TypeString:
			line += " " + p.Text()
		case wire.TypeBinary:
			line += fmt.Sprintf(" <%d bytes>", len(p.Data))
		case wire.TypeImage:
			line += fmt.Sprintf(" <image, %d bytes>", len(p.Data))
		}
	}
	if m.Type() == wire.TypeClientInfo {
		if p, ok := m.Find(wire.KeyClientName); ok {
			line += " " + p.Text()
		}
		if p, ok := m.Find(wire.KeyOSName); ok {
			line += " on " + p.Text()
		}
	}

	return line
}
