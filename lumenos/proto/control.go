package proto

import "encoding/binary"

// Key codes carried by MsgKey, one byte payload.
type Key uint8

const (
	KeyUnknown Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeySpace:
		return "space"
	default:
		return "unknown"
	}
}

// KeyPayload encodes a MsgKey payload.
func KeyPayload(k Key) []byte { return []byte{byte(k)} }

// DecodeKey decodes a MsgKey payload.
func DecodeKey(b []byte) (Key, bool) {
	if len(b) != 1 {
		return KeyUnknown, false
	}
	return Key(b[0]), true
}

// PatternPayload encodes a MsgPattern payload: the pattern name.
func PatternPayload(name string) []byte { return []byte(name) }

// StepLengthPayload encodes a MsgStepLength payload.
func StepLengthPayload(n uint8) []byte { return []byte{n} }

// DecodeStepLength decodes a MsgStepLength payload.
func DecodeStepLength(b []byte) (uint8, bool) {
	if len(b) != 1 {
		return 0, false
	}
	return b[0], true
}

// PPSPayload encodes a MsgPPS payload, little-endian.
func PPSPayload(pps uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, pps)
}

func DecodePPS(b []byte) (uint32, bool) {
	if len(b) != 4 {
		return 0, false
	}
	return binary.LittleEndian.Uint32(b), true
}
