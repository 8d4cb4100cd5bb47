package connect

// Message is a command for the controller.
type Message int

const (
	MsgPlay Message = iota
	MsgPause
	MsgNext
	MsgPrevious
	MsgShutdown
	MsgRefreshToken

	// msgAutoReconnect is posted by the supervision task when the remote
	// session ends. It cannot be sent from outside the package.
	msgAutoReconnect
)

func (m Message) String() string {
	switch m {
	case MsgPlay:
		return "Play"
	case MsgPause:
		return "Pause"
	case MsgNext:
		return "Next"
	case MsgPrevious:
		return "Previous"
	case MsgShutdown:
		return "Shutdown"
	case MsgRefreshToken:
		return "RefreshToken"
	case msgAutoReconnect:
		return "AutoReconnect"
	default:
		return "Unknown"
	}
}
