package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"interview-backend/internal/interviews"
	"interview-backend/internal/shared/server/middleware"
	"interview-backend/internal/shared/telemetry"
	"interview-backend/internal/vapi"
)

// InterviewReader loads the question list for interview-mode sessions.
type InterviewReader interface {
	GetByID(ctx context.Context, id, callerID string) (interviews.Interview, error)
}

// Handler runs session controllers over a websocket. The browser keeps only a
// thin voice-SDK shim: SDK events flow up the socket, start/stop/notify/
// navigate directives flow down.
type Handler struct {
	Feedback   FeedbackCreator
	Interviews InterviewReader
	WorkflowID string

	upgrader websocket.Upgrader
}

// NewHandler constructs a Handler.
func NewHandler(fb FeedbackCreator, reader InterviewReader, workflowID string, allowedOrigins []string) *Handler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &Handler{
		Feedback:   fb,
		Interviews: reader,
		WorkflowID: workflowID,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := origins[origin]
				return ok
			},
		},
	}
}

// RegisterRoutes attaches the session websocket route.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/session/ws", h.serve)
}

// inbound is a message from the browser shim.
type inbound struct {
	Type string `json:"type"` // init | start | disconnect | event
	// init payload
	Mode        string `json:"mode,omitempty"` // generate | interview
	InterviewID string `json:"interviewId,omitempty"`
	FeedbackID  string `json:"feedbackId,omitempty"`
	// event payload
	Event *Event `json:"event,omitempty"`
}

// directive is a message to the browser shim.
type directive struct {
	Type    string             `json:"type"` // start-call | stop-call | notify | navigate | error
	Request *vapi.StartRequest `json:"request,omitempty"`
	Message string             `json:"message,omitempty"`
	Path    string             `json:"path,omitempty"`
}

func (h *Handler) serve(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	userName := middleware.UserNameFromContext(c)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		telemetry.Error("session.upgrade", map[string]any{"error": err.Error()})
		return
	}
	defer conn.Close()

	writer := &wsDirectives{conn: conn}
	ctx := c.Request.Context()

	controller, err := h.initController(ctx, conn, writer, userID, userName)
	if err != nil {
		writer.send(directive{Type: "error", Message: err.Error()})
		return
	}

	// Single read loop: handlers run to completion, so session state is never
	// mutated concurrently.
	for {
		var msg inbound
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				telemetry.Warn("session.read", map[string]any{"error": err.Error()})
			}
			return
		}

		switch msg.Type {
		case "start":
			if err := controller.Start(ctx); err != nil && !errors.Is(err, ErrConfiguration) {
				telemetry.Warn("session.start", map[string]any{"error": err.Error()})
			}
		case "disconnect":
			controller.Disconnect(ctx)
		case "event":
			if msg.Event != nil {
				controller.HandleEvent(ctx, *msg.Event)
			}
		}
	}
}

// initController waits for the init message and builds the mode-specific
// controller.
func (h *Handler) initController(ctx context.Context, conn *websocket.Conn, writer *wsDirectives, userID, userName string) (*Controller, error) {
	_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	var msg inbound
	if err := conn.ReadJSON(&msg); err != nil {
		return nil, errors.New("expected init message")
	}
	_ = conn.SetReadDeadline(time.Time{})

	if msg.Type != "init" {
		return nil, errors.New("expected init message")
	}

	var mode Mode
	switch msg.Mode {
	case "generate":
		mode = GenerateMode{Username: userName, UserID: userID}
	case "interview":
		var questions []string
		if msg.InterviewID != "" {
			interview, err := h.Interviews.GetByID(ctx, msg.InterviewID, userID)
			if err != nil {
				return nil, errors.New("interview not found")
			}
			questions = interview.Questions
		}
		mode = InterviewMode{
			InterviewID: msg.InterviewID,
			UserID:      userID,
			FeedbackID:  msg.FeedbackID,
			Questions:   questions,
		}
	default:
		return nil, errors.New("unknown session mode")
	}

	return NewController(mode, h.WorkflowID, writer, h.Feedback, writer, writer), nil
}

// wsDirectives adapts the websocket to the controller's side-effect
// interfaces: the browser shim executes each directive against the SDK.
type wsDirectives struct {
	conn *websocket.Conn
}

func (w *wsDirectives) Start(ctx context.Context, req vapi.StartRequest) error {
	return w.send(directive{Type: "start-call", Request: &req})
}

func (w *wsDirectives) Stop(ctx context.Context) error {
	return w.send(directive{Type: "stop-call"})
}

func (w *wsDirectives) Notify(message string) {
	if err := w.send(directive{Type: "notify", Message: message}); err != nil {
		telemetry.Warn("session.notify", map[string]any{"error": err.Error()})
	}
}

func (w *wsDirectives) NavigateTo(path string) {
	if err := w.send(directive{Type: "navigate", Path: path}); err != nil {
		telemetry.Warn("session.navigate", map[string]any{"error": err.Error()})
	}
}

func (w *wsDirectives) send(d directive) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return w.conn.WriteMessage(websocket.TextMessage, payload)
}

var _ CallClient = (*wsDirectives)(nil)
