package log

import (
	"time"
)

// Event is one diagnostic event from the logging client.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID identifies the sink connection this event belongs to
	// (UUID). Empty for events outside a connection's lifetime.
	ConnectionID string `cbor:"2,keyasint,omitempty"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// Type-specific payload (exactly one is set).
	StateChange *StateChangeEvent `cbor:"4,keyasint,omitempty"`
	Frame       *FrameEvent       `cbor:"5,keyasint,omitempty"`
	Discovery   *DiscoveryEvent   `cbor:"6,keyasint,omitempty"`
	Error       *ErrorEventData   `cbor:"7,keyasint,omitempty"`
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryState indicates a connection state transition.
	CategoryState Category = 0
	// CategoryFrame indicates an encoded message written to a sink.
	CategoryFrame Category = 1
	// CategoryDiscovery indicates Bonjour browse/resolve progress.
	CategoryDiscovery Category = 2
	// CategoryError indicates a recoverable error.
	CategoryError Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryState:
		return "STATE"
	case CategoryFrame:
		return "FRAME"
	case CategoryDiscovery:
		return "DISCOVERY"
	case CategoryError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// StateChangeEvent captures a worker state transition.
type StateChangeEvent struct {
	// OldState is the state before the transition.
	OldState string `cbor:"1,keyasint"`

	// NewState is the state after the transition.
	NewState string `cbor:"2,keyasint"`

	// Reason is an optional human-readable cause.
	Reason string `cbor:"3,keyasint,omitempty"`
}

// FrameEvent captures one message written to a sink.
type FrameEvent struct {
	// Sequence is the message's sequence number.
	Sequence uint32 `cbor:"1,keyasint"`

	// Size is the encoded frame size in bytes, including the length prefix.
	Size int `cbor:"2,keyasint"`

	// Sink names the sink variant the frame went to (STREAM or FILE).
	Sink string `cbor:"3,keyasint"`
}

// DiscoveryEvent captures Bonjour browse/resolve progress.
type DiscoveryEvent struct {
	// ServiceType is the browsed service type string.
	ServiceType string `cbor:"1,keyasint"`

	// Status is the outcome: "found", "timeout" or "unresolved".
	Status string `cbor:"2,keyasint"`

	// Instance is the discovered service instance name, when found.
	Instance string `cbor:"3,keyasint,omitempty"`

	// Host is the resolved address, when found.
	Host string `cbor:"4,keyasint,omitempty"`

	// Port is the resolved port, when found.
	Port uint16 `cbor:"5,keyasint,omitempty"`
}

// ErrorEventData captures a recoverable error.
type ErrorEventData struct {
	// Context names the operation that failed.
	Context string `cbor:"1,keyasint"`

	// Message is the error text.
	Message string `cbor:"2,keyasint"`
}

// StateEvent builds a state-change event.
func StateEvent(connID, oldState, newState, reason string) Event {
	return Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Category:     CategoryState,
		StateChange:  &StateChangeEvent{OldState: oldState, NewState: newState, Reason: reason},
	}
}

// FrameWritten builds a frame event.
func FrameWritten(connID string, seq uint32, size int, sink string) Event {
	return Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Category:     CategoryFrame,
		Frame:        &FrameEvent{Sequence: seq, Size: size, Sink: sink},
	}
}

// DiscoveryStatus builds a discovery event.
func DiscoveryStatus(serviceType, status, instance, host string, port uint16) Event {
	return Event{
		Timestamp: time.Now(),
		Category:  CategoryDiscovery,
		Discovery: &DiscoveryEvent{
			ServiceType: serviceType,
			Status:      status,
			Instance:    instance,
			Host:        host,
			Port:        port,
		},
	}
}

// ErrorEvent builds an error event.
func ErrorEvent(connID, context string, err error) Event {
	return Event{
		Timestamp:    time.Now(),
		ConnectionID: connID,
		Category:     CategoryError,
		Error:        &ErrorEventData{Context: context, Message: err.Error()},
	}
}
