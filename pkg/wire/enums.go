package wire

// PartKey identifies the meaning of a message part.
// The numeric values are wire-stable; the desktop viewer depends on them.
type PartKey uint8

const (
	// KeyMessageType carries the MessageType of the whole message.
	KeyMessageType PartKey = 0

	// KeyTimestampSeconds is the "seconds" component of the timestamp.
	KeyTimestampSeconds PartKey = 1

	// KeyTimestampMilliseconds is the milliseconds component of the
	// timestamp. Mutually exclusive with KeyTimestampMicroseconds.
	KeyTimestampMilliseconds PartKey = 2

	// KeyTimestampMicroseconds is the microseconds component of the
	// timestamp. Mutually exclusive with KeyTimestampMilliseconds.
	KeyTimestampMicroseconds PartKey = 3

	// KeyThreadID identifies the producer thread or goroutine.
	KeyThreadID PartKey = 4

	// KeyTag is a user-supplied tag string grouping related messages.
	KeyTag PartKey = 5

	// KeyLevel is the log level.
	KeyLevel PartKey = 6

	// KeyMessage is the log message text or payload.
	KeyMessage PartKey = 7

	// KeyImageWidth is the pixel width of an attached image, so the viewer
	// can size its cell without decoding the image first.
	KeyImageWidth PartKey = 8

	// KeyImageHeight is the pixel height of an attached image.
	KeyImageHeight PartKey = 9

	// KeyMessageSeq is the sequential number of this message, indicating
	// the order in which messages were generated.
	KeyMessageSeq PartKey = 10

	// KeyFilename is the source file the log call originated from.
	KeyFilename PartKey = 11

	// KeyLineNumber is the source line the log call originated from.
	KeyLineNumber PartKey = 12

	// KeyFunctionName is the function or method the log call originated from.
	KeyFunctionName PartKey = 13
)

// Part keys used only by the client-info message.
const (
	// KeyClientName is the client application name.
	KeyClientName PartKey = 20

	// KeyClientVersion is the client application version.
	KeyClientVersion PartKey = 21

	// KeyOSName is the operating system name.
	KeyOSName PartKey = 22

	// KeyOSVersion is the operating system version.
	KeyOSVersion PartKey = 23

	// KeyClientModel is the hardware or platform model.
	KeyClientModel PartKey = 24

	// KeyUniqueID uniquely identifies the client instance across sessions.
	KeyUniqueID PartKey = 25
)

// String returns the part key name.
func (k PartKey) String() string {
	switch k {
	case KeyMessageType:
		return "MESSAGE_TYPE"
	case KeyTimestampSeconds:
		return "TIMESTAMP_S"
	case KeyTimestampMilliseconds:
		return "TIMESTAMP_MS"
	case KeyTimestampMicroseconds:
		return "TIMESTAMP_US"
	case KeyThreadID:
		return "THREAD_ID"
	case KeyTag:
		return "TAG"
	case KeyLevel:
		return "LEVEL"
	case KeyMessage:
		return "MESSAGE"
	case KeyImageWidth:
		return "IMAGE_WIDTH"
	case KeyImageHeight:
		return "IMAGE_HEIGHT"
	case KeyMessageSeq:
		return "MESSAGE_SEQ"
	case KeyFilename:
		return "FILENAME"
	case KeyLineNumber:
		return "LINENUMBER"
	case KeyFunctionName:
		return "FUNCTIONNAME"
	case KeyClientName:
		return "CLIENT_NAME"
	case KeyClientVersion:
		return "CLIENT_VERSION"
	case KeyOSName:
		return "OS_NAME"
	case KeyOSVersion:
		return "OS_VERSION"
	case KeyClientModel:
		return "CLIENT_MODEL"
	case KeyUniqueID:
		return "UNIQUE_ID"
	default:
		return "UNKNOWN"
	}
}

// PartType identifies the payload encoding of a message part.
type PartType uint8

const (
	// TypeString is UTF-8 text, length-prefixed.
	TypeString PartType = 0

	// TypeBinary is an opaque block of bytes, length-prefixed.
	TypeBinary PartType = 1

	// TypeInt16 is a 16-bit big-endian integer.
	TypeInt16 PartType = 2

	// TypeInt32 is a 32-bit big-endian integer.
	TypeInt32 PartType = 3

	// TypeInt64 is a 64-bit big-endian integer.
	TypeInt64 PartType = 4

	// TypeImage is PNG image data, length-prefixed.
	TypeImage PartType = 5
)

// IsValid reports whether t is a known part type.
func (t PartType) IsValid() bool {
	return t <= TypeImage
}

// FixedWidth returns the payload width in bytes for fixed-size types,
// or 0 for length-prefixed types.
func (t PartType) FixedWidth() int {
	switch t {
	case TypeInt16:
		return 2
	case TypeInt32:
		return 4
	case TypeInt64:
		return 8
	default:
		return 0
	}
}

// String returns the part type name.
func (t PartType) String() string {
	switch t {
	case TypeString:
		return "STRING"
	case TypeBinary:
		return "BINARY"
	case TypeInt16:
		return "INT16"
	case TypeInt32:
		return "INT32"
	case TypeInt64:
		return "INT64"
	case TypeImage:
		return "IMAGE"
	default:
		return "UNKNOWN"
	}
}

// MessageType classifies a whole log message.
type MessageType uint32

const (
	// TypeLog is a standard log message.
	TypeLog MessageType = 0

	// TypeBlockStart opens a group of log entries.
	TypeBlockStart MessageType = 1

	// TypeBlockEnd closes the last started group.
	TypeBlockEnd MessageType = 2

	// TypeClientInfo describes the client application. It is synthesized
	// by the logger and always transmitted first on a connection.
	TypeClientInfo MessageType = 3

	// TypeDisconnect is a viewer-side pseudo-message marking client
	// disconnects. Clients never send it.
	TypeDisconnect MessageType = 4

	// TypeMark is a user-placed marker in the log flow.
	TypeMark MessageType = 5
)

// String returns the message type name.
func (t MessageType) String() string {
	switch t {
	case TypeLog:
		return "LOG"
	case TypeBlockStart:
		return "BLOCK_START"
	case TypeBlockEnd:
		return "BLOCK_END"
	case TypeClientInfo:
		return "CLIENT_INFO"
	case TypeDisconnect:
		return "DISCONNECT"
	case TypeMark:
		return "MARK"
	default:
		return "UNKNOWN"
	}
}

// Level is the severity of a log message, most severe first.
type Level uint16

const (
	// LevelError is an error condition.
	LevelError Level = 0
	// LevelWarning is a warning condition.
	LevelWarning Level = 1
	// LevelImportant is notable but not a problem.
	LevelImportant Level = 2
	// LevelInfo is routine information.
	LevelInfo Level = 3
	// LevelDebug is debugging detail.
	LevelDebug Level = 4
	// LevelVerbose is fine-grained tracing.
	LevelVerbose Level = 5
	// LevelNoise is the lowest severity.
	LevelNoise Level = 6
)

// String returns the level name.
func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarning:
		return "WARNING"
	case LevelImportant:
		return "IMPORTANT"
	case LevelInfo:
		return "INFO"
	case LevelDebug:
		return "DEBUG"
	case LevelVerbose:
		return "VERBOSE"
	case LevelNoise:
		return "NOISE"
	default:
		return "UNKNOWN"
	}
}
