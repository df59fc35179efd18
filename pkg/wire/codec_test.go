package wire

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"testing"
	"time"
)

func TestMessageRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		build func(m *Message)
	}{
		{
			name:  "mandatory parts only",
			build: func(m *Message) {},
		},
		{
			name: "text message",
			build: func(m *Message) {
				m.AddInt16(KeyLevel, uint16(LevelInfo))
				m.AddString(KeyTag, "network")
				m.AddString(KeyMessage, "hello")
			},
		},
		{
			name: "call site parts",
			build: func(m *Message) {
				m.AddString(KeyFilename, "worker.go")
				m.AddInt32(KeyLineNumber, 142)
				m.AddString(KeyFunctionName, "drainQueue")
				m.AddString(KeyMessage, "draining")
			},
		},
		{
			name: "binary payload",
			build: func(m *Message) {
				m.AddBinary(KeyMessage, []byte{0x00, 0x01, 0xFF, 0xFE})
			},
		},
		{
			name: "image with dimensions",
			build: func(m *Message) {
				m.AddInt32(KeyImageWidth, 640)
				m.AddInt32(KeyImageHeight, 480)
				m.AddImage([]byte("\x89PNG\r\n\x1a\n fake"))
			},
		},
		{
			name: "empty string part",
			build: func(m *Message) {
				m.AddString(KeyMessage, "")
			},
		},
		{
			name: "int64 part",
			build: func(m *Message) {
				m.AddInt64(KeyMessage, 0xDEADBEEFCAFEF00D)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMessageAt(TypeLog, 42, time.Unix(1700000000, 123_000_000))
			baseParts := m.PartCount()
			tt.build(m)

			frame := m.Bytes()
			if len(frame) != m.EncodedSize() {
				t.Errorf("EncodedSize() = %d, len(Bytes()) = %d", m.EncodedSize(), len(frame))
			}

			decoded, err := Decode(frame)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}

			if got := decoded.SequenceNumber(); got != 42 {
				t.Errorf("sequence number = %d, want 42", got)
			}
			if got := decoded.Type(); got != TypeLog {
				t.Errorf("message type = %v, want LOG", got)
			}
			if len(decoded.Parts) != int(m.PartCount()) {
				t.Fatalf("decoded %d parts, want %d", len(decoded.Parts), m.PartCount())
			}

			// Mandatory parts come first and in construction order.
			wantOrder := []PartKey{
				KeyMessageType, KeyMessageSeq,
				KeyTimestampSeconds, KeyTimestampMilliseconds, KeyThreadID,
			}
			for i, key := range wantOrder[:baseParts] {
				if decoded.Parts[i].Key != key {
					t.Errorf("part %d key = %v, want %v", i, decoded.Parts[i].Key, key)
				}
			}
		})
	}
}

func TestMessageTimestamp(t *testing.T) {
	ts := time.Unix(1700000000, 987_000_000)
	m := NewMessageAt(TypeLog, 0, ts)

	decoded, err := Decode(m.Bytes())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	secs, ok := decoded.Find(KeyTimestampSeconds)
	if !ok {
		t.Fatal("missing TIMESTAMP_S part")
	}
	if secs.Type != TypeInt64 || secs.Int() != 1700000000 {
		t.Errorf("TIMESTAMP_S = %d (%v), want 1700000000 (INT64)", secs.Int(), secs.Type)
	}

	ms, ok := decoded.Find(KeyTimestampMilliseconds)
	if !ok {
		t.Fatal("missing TIMESTAMP_MS part")
	}
	if ms.Type != TypeInt16 || ms.Int() != 987 {
		t.Errorf("TIMESTAMP_MS = %d (%v), want 987 (INT16)", ms.Int(), ms.Type)
	}
}

func TestLengthPrefix(t *testing.T) {
	m := NewMessageAt(TypeLog, 7, time.Unix(0, 0))
	m.AddInt16(KeyLevel, 3)
	m.AddString(KeyMessage, "abcde")
	m.AddBinary(KeyTag, []byte{1, 2, 3})
	m.AddInt64(KeyMessage, 99)

	frame := m.Bytes()
	length := binary.BigEndian.Uint32(frame[:4])

	// The length field covers the part count and every part, but not itself.
	if int(length) != len(frame)-4 {
		t.Errorf("length field = %d, want %d", length, len(frame)-4)
	}

	// Recompute from first principles: 2 (part count) plus, per part,
	// 2 header bytes and either the fixed width or 4 length bytes + payload.
	decoded, err := Decode(frame)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	want := 2
	for _, p := range decoded.Parts {
		want += 2
		if w := p.Type.FixedWidth(); w > 0 {
			want += w
		} else {
			want += 4 + len(p.Data)
		}
	}
	if int(length) != want {
		t.Errorf("length field = %d, computed %d", length, want)
	}

	count := binary.BigEndian.Uint16(frame[4:6])
	if count != m.PartCount() {
		t.Errorf("part count field = %d, want %d", count, m.PartCount())
	}
}

func TestPartOrderPreserved(t *testing.T) {
	// The same key added twice must appear twice, in call order.
	m := NewMessageAt(TypeLog, 1, time.Unix(0, 0))
	m.AddString(KeyMessage, "first")
	m.AddInt32(KeyLineNumber, 10)
	m.AddString(KeyMessage, "second")

	decoded, err := Decode(m.Bytes())
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	tail := decoded.Parts[len(decoded.Parts)-3:]
	if tail[0].Text() != "first" || tail[1].Int() != 10 || tail[2].Text() != "second" {
		t.Errorf("parts reordered: %q %d %q", tail[0].Text(), tail[1].Int(), tail[2].Text())
	}
}

func TestReaderStream(t *testing.T) {
	var stream bytes.Buffer
	for i := uint32(0); i < 5; i++ {
		m := NewMessageAt(TypeLog, i, time.Unix(0, 0))
		m.AddString(KeyMessage, "msg")
		stream.Write(m.Bytes())
	}

	r := NewReader(&stream)
	for i := uint32(0); i < 5; i++ {
		msg, err := r.ReadMessage()
		if err != nil {
			t.Fatalf("message %d: %v", i, err)
		}
		if msg.SequenceNumber() != i {
			t.Errorf("message %d: sequence = %d", i, msg.SequenceNumber())
		}
	}
	if _, err := r.ReadMessage(); err != io.EOF {
		t.Errorf("expected io.EOF at end of stream, got %v", err)
	}
}

func TestReaderErrors(t *testing.T) {
	t.Run("Truncated", func(t *testing.T) {
		m := NewMessageAt(TypeLog, 1, time.Unix(0, 0))
		frame := m.Bytes()

		_, err := NewReader(bytes.NewReader(frame[:len(frame)-3])).ReadMessage()
		if !errors.Is(err, ErrMessageTruncated) {
			t.Errorf("expected ErrMessageTruncated, got %v", err)
		}
	})

	t.Run("TooLarge", func(t *testing.T) {
		var frame [10]byte
		binary.BigEndian.PutUint32(frame[:4], 1<<30)

		_, err := NewReader(bytes.NewReader(frame[:])).ReadMessage()
		if !errors.Is(err, ErrMessageTooLarge) {
			t.Errorf("expected ErrMessageTooLarge, got %v", err)
		}
	})

	t.Run("BadPartType", func(t *testing.T) {
		// One part with type byte 99.
		body := []byte{0, 1, byte(KeyMessage), 99}
		frame := binary.BigEndian.AppendUint32(nil, uint32(len(body)))
		frame = append(frame, body...)

		_, err := Decode(frame)
		if !errors.Is(err, ErrBadPartType) {
			t.Errorf("expected ErrBadPartType, got %v", err)
		}
	})

	t.Run("TrailingBytes", func(t *testing.T) {
		// Part count says zero parts but two bytes follow.
		body := []byte{0, 0, 0xAA, 0xBB}
		frame := binary.BigEndian.AppendUint32(nil, uint32(len(body)))
		frame = append(frame, body...)

		if _, err := Decode(frame); err == nil {
			t.Error("expected error for trailing bytes")
		}
	})
}
