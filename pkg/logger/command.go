package logger

import (
	"github.com/nslogger/nslogger-go/pkg/discovery"
	"github.com/nslogger/nslogger-go/pkg/wire"
)

// queuedMessage pairs a message with its optional delivery confirmation.
// written is closed after the message's bytes reach the sink.
type queuedMessage struct {
	msg     *wire.Message
	written chan struct{}
}

// command is one unit of work for the worker goroutine. Commands are
// processed strictly in arrival order.
type command interface {
	isCommand()
}

// addLogCmd appends a message to the queue tail.
type addLogCmd struct {
	entry queuedMessage
}

// setEndpointCmd installs a remote endpoint and security mode.
type setEndpointCmd struct {
	host   string
	port   uint16
	useTLS bool
}

// optionChangeCmd applies a new option set.
type optionChangeCmd struct {
	opts Options
}

// tryConnectCmd asks the worker to open a connection to the known
// endpoint. Valid only while no sink is open and no attempt is running.
type tryConnectCmd struct{}

// connectCompleteCmd marks the freshly installed sink as usable.
type connectCompleteCmd struct{}

// resolvedCmd carries the outcome of a Bonjour lookup.
type resolvedCmd struct {
	result discovery.Result
}

// quitCmd stops the worker after any in-flight drain finishes.
type quitCmd struct{}

func (addLogCmd) isCommand()          {}
func (setEndpointCmd) isCommand()     {}
func (optionChangeCmd) isCommand()    {}
func (tryConnectCmd) isCommand()      {}
func (connectCompleteCmd) isCommand() {}
func (resolvedCmd) isCommand()        {}
func (quitCmd) isCommand()            {}
