package wire

import (
	"bytes"
	"encoding/binary"
	"runtime"
	"time"
)

// headerSize is the size of the message header: a 4-byte length prefix
// plus a 2-byte part count.
const headerSize = 6

// Message is an outbound log message under construction. It accumulates
// typed parts in call order and tracks the encoded size incrementally.
//
// A Message is created with its mandatory parts already present (message
// type, sequence number, timestamp and thread label) and is not safe for
// concurrent use; build it fully before handing it to the logger.
type Message struct {
	seq       uint32
	data      []byte // encoded parts, without the 6-byte header
	used      uint32 // headerSize + len(data)
	partCount uint16
}

// NewMessage creates a message of the given type, stamped with the
// current wall clock.
func NewMessage(t MessageType, seq uint32) *Message {
	return NewMessageAt(t, seq, time.Now())
}

// NewMessageAt creates a message of the given type with an explicit
// timestamp. The mandatory parts are added in wire order: message type,
// sequence number, timestamp seconds, timestamp milliseconds, thread label.
func NewMessageAt(t MessageType, seq uint32, ts time.Time) *Message {
	m := &Message{
		seq:  seq,
		data: make([]byte, 0, 256),
		used: headerSize,
	}

	m.AddInt32(KeyMessageType, uint32(t))
	m.AddInt32(KeyMessageSeq, seq)

	millis := ts.UnixMilli()
	m.AddInt64(KeyTimestampSeconds, uint64(millis/1000))
	m.AddInt16(KeyTimestampMilliseconds, uint16(millis%1000))

	m.AddString(KeyThreadID, goroutineLabel())

	return m
}

// SequenceNumber returns the sequence number assigned at creation.
func (m *Message) SequenceNumber() uint32 {
	return m.seq
}

// PartCount returns the number of parts added so far.
func (m *Message) PartCount() uint16 {
	return m.partCount
}

// EncodedSize returns the total frame size in bytes, including the
// 4-byte length prefix.
func (m *Message) EncodedSize() int {
	return int(m.used)
}

// AddInt16 appends a 16-bit integer part.
func (m *Message) AddInt16(key PartKey, value uint16) {
	m.used += 4
	m.data = append(m.data, byte(key), byte(TypeInt16))
	m.data = binary.BigEndian.AppendUint16(m.data, value)
	m.partCount++
}

// AddInt32 appends a 32-bit integer part.
func (m *Message) AddInt32(key PartKey, value uint32) {
	m.used += 6
	m.data = append(m.data, byte(key), byte(TypeInt32))
	m.data = binary.BigEndian.AppendUint32(m.data, value)
	m.partCount++
}

// AddInt64 appends a 64-bit integer part.
func (m *Message) AddInt64(key PartKey, value uint64) {
	m.used += 10
	m.data = append(m.data, byte(key), byte(TypeInt64))
	m.data = binary.BigEndian.AppendUint64(m.data, value)
	m.partCount++
}

// AddString appends a UTF-8 string part.
func (m *Message) AddString(key PartKey, value string) {
	m.addBytes(key, TypeString, []byte(value))
}

// AddBinary appends an opaque binary part.
func (m *Message) AddBinary(key PartKey, value []byte) {
	m.addBytes(key, TypeBinary, value)
}

// AddImage appends PNG image data under KeyMessage, the key the viewer
// expects image payloads on. Callers should also add KeyImageWidth and
// KeyImageHeight parts.
func (m *Message) AddImage(png []byte) {
	m.addBytes(KeyMessage, TypeImage, png)
}

// addBytes appends a length-prefixed part.
func (m *Message) addBytes(key PartKey, t PartType, b []byte) {
	m.used += uint32(6 + len(b))
	m.data = append(m.data, byte(key), byte(t))
	m.data = binary.BigEndian.AppendUint32(m.data, uint32(len(b)))
	m.data = append(m.data, b...)
	m.partCount++
}

// Bytes returns the complete wire encoding of the message. The leading
// length field covers the part count and all parts but not itself.
func (m *Message) Bytes() []byte {
	out := make([]byte, 0, headerSize+len(m.data))
	out = binary.BigEndian.AppendUint32(out, m.used-4)
	out = binary.BigEndian.AppendUint16(out, m.partCount)
	return append(out, m.data...)
}

// goroutineLabel returns a short identifier for the calling goroutine,
// taken from the runtime stack header ("goroutine N [running]: ...").
func goroutineLabel() string {
	buf := make([]byte, 64)
	buf = buf[:runtime.Stack(buf, false)]
	if i := bytes.IndexByte(buf, '['); i > 1 {
		return string(bytes.TrimSpace(buf[:i]))
	}
	return "goroutine"
}
