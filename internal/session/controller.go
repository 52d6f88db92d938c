package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"interview-backend/internal/feedback"
	"interview-backend/internal/shared/metrics"
	"interview-backend/internal/shared/telemetry"
	"interview-backend/internal/vapi"
)

var (
	// ErrConfiguration indicates a required workflow identifier is missing.
	ErrConfiguration = errors.New("workflow identifier not configured")
	// ErrInvalidTransition indicates a user action illegal in the current state.
	ErrInvalidTransition = errors.New("invalid session transition")
)

// CallClient starts and stops the external voice call.
type CallClient interface {
	Start(ctx context.Context, req vapi.StartRequest) error
	Stop(ctx context.Context) error
}

// FeedbackCreator scores a finished transcript.
type FeedbackCreator interface {
	Create(ctx context.Context, params feedback.CreateParams) feedback.Result
}

// Notifier surfaces a user-facing notification.
type Notifier interface {
	Notify(message string)
}

// Navigator redirects the user.
type Navigator interface {
	NavigateTo(path string)
}

// Controller coordinates one voice-call session: connection, transcript
// accumulation, status transitions, and the completion side effects. Events
// are handled to completion with no retries; every failure is terminal for
// the session and reported once.
type Controller struct {
	mode       Mode
	workflowID string

	call     CallClient
	feedback FeedbackCreator
	notifier Notifier
	nav      Navigator

	mu         sync.Mutex
	status     Status
	transcript []feedback.TranscriptMessage
	isSpeaking bool
	completed  bool
}

// NewController constructs a Controller in the INACTIVE state.
func NewController(mode Mode, workflowID string, call CallClient, fb FeedbackCreator, notifier Notifier, nav Navigator) *Controller {
	return &Controller{
		mode:       mode,
		workflowID: workflowID,
		call:       call,
		feedback:   fb,
		notifier:   notifier,
		nav:        nav,
		status:     StatusInactive,
	}
}

// Status returns the current call status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// IsSpeaking reports whether the assistant is currently speaking.
func (c *Controller) IsSpeaking() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isSpeaking
}

// Transcript returns a copy of the accumulated transcript.
func (c *Controller) Transcript() []feedback.TranscriptMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]feedback.TranscriptMessage, len(c.transcript))
	copy(out, c.transcript)
	return out
}

// Start moves the session to CONNECTING and issues the connect request. It is
// only valid from INACTIVE or FINISHED. In generate mode a missing workflow
// identifier fails with ErrConfiguration before any SDK call, reverting to
// INACTIVE with a single notification.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.status != StatusInactive && c.status != StatusFinished {
		c.mu.Unlock()
		return ErrInvalidTransition
	}
	c.status = StatusConnecting
	c.transcript = nil
	c.completed = false

	req, err := c.startRequest()
	if err != nil {
		c.status = StatusInactive
		c.mu.Unlock()
		c.notifier.Notify("Voice call is not configured. Please try again later.")
		return err
	}
	c.mu.Unlock()

	metrics.IncSessionStarted()
	if err := c.call.Start(ctx, req); err != nil {
		c.mu.Lock()
		c.status = StatusInactive
		c.mu.Unlock()
		c.notifier.Notify("Failed to start the call.")
		return err
	}
	return nil
}

// Disconnect ends the call at the user's request. The session is FINISHED
// regardless of whether teardown succeeds; a failed stop is reported and
// swallowed.
func (c *Controller) Disconnect(ctx context.Context) {
	c.mu.Lock()
	if c.status == StatusFinished {
		c.mu.Unlock()
		return
	}
	c.status = StatusFinished
	c.mu.Unlock()

	if err := c.call.Stop(ctx); err != nil {
		telemetry.Warn("session.stop", map[string]any{"error": err.Error()})
		c.notifier.Notify("The call could not be stopped cleanly.")
	}
	c.finish(ctx)
}

// HandleEvent applies one SDK event. Handlers run to completion; there is no
// interleaved mutation of session state.
func (c *Controller) HandleEvent(ctx context.Context, ev Event) {
	switch ev.Type {
	case EventCallStart:
		c.mu.Lock()
		if c.status == StatusConnecting {
			c.status = StatusActive
		}
		c.mu.Unlock()

	case EventCallEnd:
		c.mu.Lock()
		if c.status == StatusFinished {
			c.mu.Unlock()
			return
		}
		c.status = StatusFinished
		c.mu.Unlock()
		c.finish(ctx)

	case EventMessage:
		if ev.MessageType != "transcript" || ev.TranscriptType != "final" {
			return
		}
		c.mu.Lock()
		c.transcript = append(c.transcript, feedback.TranscriptMessage{
			Role:    ev.Role,
			Content: ev.Transcript,
		})
		c.mu.Unlock()

	case EventSpeechStart:
		c.mu.Lock()
		c.isSpeaking = true
		c.mu.Unlock()

	case EventSpeechEnd:
		c.mu.Lock()
		c.isSpeaking = false
		c.mu.Unlock()

	case EventError:
		c.handleError(ev.Error)
	}
}

// handleError suppresses the benign end-of-call fault the SDK raises when the
// meeting ends out of band; any other error aborts the call.
func (c *Controller) handleError(message string) {
	if isBenignCallEnd(message) {
		telemetry.Info("session.call_ended", map[string]any{"detail": message})
		return
	}

	c.mu.Lock()
	if c.status == StatusFinished {
		c.mu.Unlock()
		return
	}
	c.status = StatusInactive
	c.mu.Unlock()

	telemetry.Error("session.call_error", map[string]any{"error": message})
	c.notifier.Notify("The call ran into a problem and was ended.")
}

// finish runs the completion side effects exactly once per FINISHED
// transition.
func (c *Controller) finish(ctx context.Context) {
	c.mu.Lock()
	if c.completed {
		c.mu.Unlock()
		return
	}
	c.completed = true
	transcript := make([]feedback.TranscriptMessage, len(c.transcript))
	copy(transcript, c.transcript)
	c.mu.Unlock()

	metrics.IncSessionFinished()

	switch mode := c.mode.(type) {
	case GenerateMode:
		c.nav.NavigateTo("/")

	case InterviewMode:
		if len(transcript) == 0 {
			return
		}
		if mode.InterviewID == "" || mode.UserID == "" {
			c.notifier.Notify("Could not save feedback for this session.")
			c.nav.NavigateTo("/")
			return
		}

		result := c.feedback.Create(ctx, feedback.CreateParams{
			InterviewID: mode.InterviewID,
			UserID:      mode.UserID,
			Transcript:  transcript,
			FeedbackID:  mode.FeedbackID,
		})
		if result.Success && result.FeedbackID != "" {
			c.nav.NavigateTo("/interview/" + mode.InterviewID + "/feedback")
			return
		}
		c.notifier.Notify("Could not save feedback for this session.")
		c.nav.NavigateTo("/")
	}
}

// startRequest builds the mode-specific connect request.
func (c *Controller) startRequest() (vapi.StartRequest, error) {
	switch mode := c.mode.(type) {
	case GenerateMode:
		if strings.TrimSpace(c.workflowID) == "" {
			return vapi.StartRequest{}, ErrConfiguration
		}
		return vapi.StartRequest{
			WorkflowID: c.workflowID,
			VariableValues: map[string]string{
				"username": mode.Username,
				"userid":   mode.UserID,
			},
		}, nil

	case InterviewMode:
		return vapi.StartRequest{
			Assistant: vapi.Interviewer(),
			VariableValues: map[string]string{
				"questions": formatQuestions(mode.Questions),
			},
		}, nil
	}
	return vapi.StartRequest{}, ErrConfiguration
}

// formatQuestions renders each question as a bulleted line.
func formatQuestions(questions []string) string {
	lines := make([]string, 0, len(questions))
	for _, q := range questions {
		lines = append(lines, "- "+q)
	}
	return strings.Join(lines, "\n")
}

func isBenignCallEnd(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "meeting has ended") || strings.Contains(lower, "meeting ended")
}
