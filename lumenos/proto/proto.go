package proto

// Kind identifies the message type carried in kernel.Message.Kind.
type Kind uint16

const (
	MsgLogLine Kind = iota + 1
	MsgKey
	MsgPattern
	MsgStepLength
	MsgPPS
)

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgKey:
		return "key"
	case MsgPattern:
		return "pattern"
	case MsgStepLength:
		return "step_length"
	case MsgPPS:
		return "pps"
	default:
		return "unknown"
	}
}
