// Command nslog-console is an interactive sender for the NSLogger viewer.
//
// Every line typed at the prompt is shipped to the viewer as a log
// message. Lines starting with "/" are console commands.
//
// Usage:
//
//	nslog-console [flags]
//
// Flags:
//
//	-config string   Configuration file path
//	-host string     Viewer host (disables Bonjour browsing)
//	-port uint       Viewer port
//	-tls             Connect with TLS (default true)
//	-flush           Wait for each message to reach the viewer
//	-buffer string   File to buffer messages in while no viewer is reachable
//	-trace string    File to write the client's own diagnostic trace to
//	-tag string      Tag attached to every message (default "console")
//	-verbose         Print client diagnostics to stderr
//
// Console commands:
//
//	/mark [text]    - Send a mark
//	/level <0-6>    - Set the level for following messages
//	/tag <name>     - Set the tag for following messages
//	/quit           - Exit
package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/nslogger/nslogger-go/pkg/config"
	logl "github.com/nslogger/nslogger-go/pkg/log"
	"github.com/nslogger/nslogger-go/pkg/logger"
	"github.com/nslogger/nslogger-go/pkg/wire"
)

var flags struct {
	configFile string
	host       string
	port       uint
	useTLS     bool
	flush      bool
	buffer     string
	traceFile  string
	tag        string
	verbose    bool
}

func init() {
	flag.StringVar(&flags.configFile, "config", "", "Configuration file path")
	flag.StringVar(&flags.host, "host", "", "Viewer host (disables Bonjour browsing)")
	flag.UintVar(&flags.port, "port", 0, "Viewer port")
	flag.BoolVar(&flags.useTLS, "tls", true, "Connect with TLS")
	flag.BoolVar(&flags.flush, "flush", false, "Wait for each message to reach the viewer")
	flag.StringVar(&flags.buffer, "buffer", "", "File to buffer messages in while no viewer is reachable")
	flag.StringVar(&flags.traceFile, "trace", "", "File to write the client's own diagnostic trace to")
	flag.StringVar(&flags.tag, "tag", "console", "Tag attached to every message")
	flag.BoolVar(&flags.verbose, "verbose", false, "Print client diagnostics to stderr")
}

func main() {
	flag.Parse()
	log.SetFlags(log.Ltime)

	cfg := config.Default()
	if flags.configFile != "" {
		loaded, err := config.Load(flags.configFile)
		if err != nil {
			log.Fatalf("Config: %v", err)
		}
		cfg = loaded
	}

	opts := cfg.Options()
	host, port := cfg.Host, cfg.Port
	if flags.host != "" {
		host = flags.host
		port = uint16(flags.port)
		if port == 0 {
			log.Fatal("-host requires -port")
		}
		opts.BrowseBonjour = false
	}
	opts.UseTLS = flags.useTLS
	if flags.flush {
		opts.FlushEachMessage = true
	}
	if flags.buffer != "" {
		opts.BufferFilePath = flags.buffer
	}

	trace, cleanup, err := buildTrace(cfg.TraceFile)
	if err != nil {
		log.Fatalf("Trace: %v", err)
	}
	defer cleanup()
	opts.Trace = trace

	client := logger.New(opts)
	if host != "" {
		client.SetRemoteHost(host, port, opts.UseTLS)
	}
	defer client.Shutdown()

	if err := runConsole(client); err != nil {
		log.Fatalf("Console: %v", err)
	}
}

// buildTrace assembles the diagnostic trace destination from the flags.
func buildTrace(configuredFile string) (logl.Logger, func(), error) {
	path := configuredFile
	if flags.traceFile != "" {
		path = flags.traceFile
	}

	var loggers []logl.Logger
	cleanup := func() {}

	if flags.verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		loggers = append(loggers, logl.NewSlogAdapter(slog.New(handler)))
	}
	if path != "" {
		fl, err := logl.NewFileLogger(path)
		if err != nil {
			return nil, nil, err
		}
		loggers = append(loggers, fl)
		cleanup = func() { _ = fl.Close() }
	}

	switch len(loggers) {
	case 0:
		return logl.NoopLogger{}, cleanup, nil
	case 1:
		return loggers[0], cleanup, nil
	default:
		return logl.NewMultiLogger(loggers...), cleanup, nil
	}
}

func runConsole(client *logger.Logger) error {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "nslog> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return fmt.Errorf("failed to create readline: %w", err)
	}
	defer rl.Close()

	level := wire.LevelInfo
	tag := flags.tag

	for {
		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(rl.Stdout(), "Exiting...")
			return nil
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		if !strings.HasPrefix(input, "/") {
			send(client, level, tag, input)
			continue
		}

		parts := strings.Fields(input)
		args := parts[1:]

		switch strings.ToLower(parts[0]) {
		case "/mark":
			mark := client.NewMessage(wire.TypeMark)
			if len(args) > 0 {
				mark.AddString(wire.KeyMessage, strings.Join(args, " "))
			}
			client.Enqueue(mark)

		case "/level":
			if len(args) != 1 {
				fmt.Fprintln(rl.Stdout(), "usage: /level <0-6>")
				continue
			}
			n, err := strconv.Atoi(args[0])
			if err != nil || n < 0 || n > 6 {
				fmt.Fprintln(rl.Stdout(), "usage: /level <0-6>")
				continue
			}
			level = wire.Level(n)
			fmt.Fprintf(rl.Stdout(), "level: %s\n", level)

		case "/tag":
			if len(args) != 1 {
				fmt.Fprintln(rl.Stdout(), "usage: /tag <name>")
				continue
			}
			tag = args[0]

		case "/quit", "/exit":
			return nil

		default:
			fmt.Fprintf(rl.Stdout(), "unknown command %s\n", parts[0])
		}
	}
}

func send(client *logger.Logger, level wire.Level, tag, text string) {
	m := client.NewMessage(wire.TypeLog)
	m.AddString(wire.KeyTag, tag)
	m.AddInt16(wire.KeyLevel, uint16(level))
	m.AddString(wire.KeyMessage, text)
	client.Enqueue(m)
}
