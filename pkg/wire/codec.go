package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

// Decoding limits.
const (
	// DefaultMaxMessageSize is the largest message the decoder accepts
	// (16 MB). Image parts can be large, so this is generous.
	DefaultMaxMessageSize = 16 << 20

	// MinMessageSize is the smallest valid length-field value: at least
	// the 2-byte part count must follow.
	MinMessageSize = 2
)

// Decoding errors.
var (
	// ErrMessageTooLarge indicates the length field exceeds the maximum size.
	ErrMessageTooLarge = errors.New("message too large")

	// ErrMessageTruncated indicates the stream ended inside a message.
	ErrMessageTruncated = errors.New("message truncated")

	// ErrBadPartType indicates a part with an unknown type byte.
	ErrBadPartType = errors.New("unknown part type")
)

// Part is one decoded (key, type, payload) element of a message.
type Part struct {
	Key  PartKey
	Type PartType
	Data []byte
}

// Int returns the integer value of a fixed-width part, or 0 for
// length-prefixed parts.
func (p Part) Int() uint64 {
	switch p.Type {
	case TypeInt16:
		return uint64(binary.BigEndian.Uint16(p.Data))
	case TypeInt32:
		return uint64(binary.BigEndian.Uint32(p.Data))
	case TypeInt64:
		return binary.BigEndian.Uint64(p.Data)
	default:
		return 0
	}
}

// Text returns the payload as a string. Meaningful for TypeString parts.
func (p Part) Text() string {
	return string(p.Data)
}

// DecodedMessage is a message parsed back from its wire form, with parts
// in transmission order.
type DecodedMessage struct {
	Parts []Part
}

// Find returns the first part with the given key, or false.
func (d *DecodedMessage) Find(key PartKey) (Part, bool) {
	for _, p := range d.Parts {
		if p.Key == key {
			return p, true
		}
	}
	return Part{}, false
}

// Type returns the message type, or TypeLog if the part is absent.
func (d *DecodedMessage) Type() MessageType {
	if p, ok := d.Find(KeyMessageType); ok {
		return MessageType(p.Int())
	}
	return TypeLog
}

// SequenceNumber returns the sequence number, or 0 if the part is absent.
func (d *DecodedMessage) SequenceNumber() uint32 {
	if p, ok := d.Find(KeyMessageSeq); ok {
		return uint32(p.Int())
	}
	return 0
}

// Reader reads framed messages from a byte stream.
type Reader struct {
	r              io.Reader
	maxMessageSize uint32
	lengthBuf      [4]byte
}

// NewReader creates a message reader with the default size limit.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, maxMessageSize: DefaultMaxMessageSize}
}

// SetMaxMessageSize updates the maximum accepted message size.
func (r *Reader) SetMaxMessageSize(size uint32) {
	r.maxMessageSize = size
}

// ReadMessage reads one length-prefixed message and decodes its parts.
// Returns io.EOF at a clean end of stream.
func (r *Reader) ReadMessage() (*DecodedMessage, error) {
	if _, err := io.ReadFull(r.r, r.lengthBuf[:]); err != nil {
		if err == io.EOF {
			return nil, err
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrMessageTruncated
		}
		return nil, fmt.Errorf("failed to read length prefix: %w", err)
	}

	length := binary.BigEndian.Uint32(r.lengthBuf[:])
	if length < MinMessageSize {
		return nil, fmt.Errorf("invalid message length %d", length)
	}
	if length > r.maxMessageSize {
		return nil, fmt.Errorf("%w: %d > %d", ErrMessageTooLarge, length, r.maxMessageSize)
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(r.r, body); err != nil {
		if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, ErrMessageTruncated
		}
		return nil, fmt.Errorf("failed to read message body: %w", err)
	}

	return decodeBody(body)
}

// Decode parses a complete wire frame, including the 4-byte length prefix.
func Decode(frame []byte) (*DecodedMessage, error) {
	return NewReader(bytes.NewReader(frame)).ReadMessage()
}

// decodeBody parses the part count and parts from a message body
// (everything after the length prefix).
func decodeBody(body []byte) (*DecodedMessage, error) {
	partCount := binary.BigEndian.Uint16(body[:2])
	rest := body[2:]

	msg := &DecodedMessage{Parts: make([]Part, 0, partCount)}
	for i := 0; i < int(partCount); i++ {
		if len(rest) < 2 {
			return nil, ErrMessageTruncated
		}
		key := PartKey(rest[0])
		typ := PartType(rest[1])
		rest = rest[2:]

		if !typ.IsValid() {
			return nil, fmt.Errorf("%w: %d (part %d)", ErrBadPartType, typ, i)
		}

		var payload []byte
		if w := typ.FixedWidth(); w > 0 {
			if len(rest) < w {
				return nil, ErrMessageTruncated
			}
			payload, rest = rest[:w], rest[w:]
		} else {
			if len(rest) < 4 {
				return nil, ErrMessageTruncated
			}
			n := binary.BigEndian.Uint32(rest[:4])
			rest = rest[4:]
			if uint32(len(rest)) < n {
				return nil, ErrMessageTruncated
			}
			payload, rest = rest[:n], rest[n:]
		}

		msg.Parts = append(msg.Parts, Part{Key: key, Type: typ, Data: payload})
	}

	if len(rest) != 0 {
		return nil, fmt.Errorf("%d trailing bytes after %d parts", len(rest), partCount)
	}
	return msg, nil
}
