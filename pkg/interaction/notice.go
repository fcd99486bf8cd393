package interaction

type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeSuccess NoticeLevel = "success"
)

// Notice is the message a page shows after a Submit.
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

func Info(message string) *Notice {
	return &Notice{Level: NoticeInfo, Message: message}
}

func Success(message string) *Notice {
	return &Notice{Level: NoticeSuccess, Message: message}
}

type State int

const (
	StateAbsent State = iota
	StatePending
	StatePresent
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StatePresent:
		return "present"
	default:
		return "absent"
	}
}
