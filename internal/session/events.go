package session

// Status is the call-lifecycle state of a session.
type Status string

const (
	StatusInactive   Status = "INACTIVE"
	StatusConnecting Status = "CONNECTING"
	StatusActive     Status = "ACTIVE"
	StatusFinished   Status = "FINISHED"
)

// EventType names the events the voice SDK emits.
type EventType string

const (
	EventCallStart   EventType = "call-start"
	EventCallEnd     EventType = "call-end"
	EventMessage     EventType = "message"
	EventSpeechStart EventType = "speech-start"
	EventSpeechEnd   EventType = "speech-end"
	EventError       EventType = "error"
)

// Event is one externally-delivered SDK event. Message fields are set only
// for EventMessage; Error only for EventError.
type Event struct {
	Type EventType `json:"type"`

	// Message payload. Only transcript messages with a final transcript are
	// recorded.
	MessageType    string `json:"messageType,omitempty"`
	TranscriptType string `json:"transcriptType,omitempty"`
	Role           string `json:"role,omitempty"`
	Transcript     string `json:"transcript,omitempty"`

	Error string `json:"error,omitempty"`
}

// Mode is the tagged session variant: each mode carries only the data
// relevant to it.
type Mode interface {
	isMode()
}

// GenerateMode drives the question-generation workflow call.
type GenerateMode struct {
	Username string
	UserID   string
}

func (GenerateMode) isMode() {}

// InterviewMode drives a scored mock interview over a fixed question list.
type InterviewMode struct {
	InterviewID string
	UserID      string
	FeedbackID  string
	Questions   []string
}

func (InterviewMode) isMode() {}
