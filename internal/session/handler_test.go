package session

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"interview-backend/internal/feedback"
	"interview-backend/internal/interviews"
	"interview-backend/internal/shared/server/middleware"
)

type fakeInterviewReader struct {
	interview interviews.Interview
	err       error
}

func (f *fakeInterviewReader) GetByID(ctx context.Context, id, callerID string) (interviews.Interview, error) {
	return f.interview, f.err
}

func newSessionServer(t *testing.T, fb FeedbackCreator, reader InterviewReader, workflowID string) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("userId", "u1")
		c.Set("userName", "Ada")
		c.Next()
	})
	NewHandler(fb, reader, workflowID, nil).RegisterRoutes(r.Group("/api/v1"))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func dialSession(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/session/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readDirective(t *testing.T, conn *websocket.Conn) directive {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var d directive
	if err := conn.ReadJSON(&d); err != nil {
		t.Fatalf("read directive: %v", err)
	}
	return d
}

func TestSessionGenerateModeStartDirective(t *testing.T) {
	fb := &fakeFeedback{}
	srv := newSessionServer(t, fb, &fakeInterviewReader{}, "wf-1")
	conn := dialSession(t, srv)

	conn.WriteJSON(inbound{Type: "init", Mode: "generate"})
	conn.WriteJSON(inbound{Type: "start"})

	d := readDirective(t, conn)
	if d.Type != "start-call" {
		t.Fatalf("directive = %q, want start-call", d.Type)
	}
	if d.Request == nil || d.Request.WorkflowID != "wf-1" {
		t.Fatalf("unexpected request: %+v", d.Request)
	}
	if d.Request.VariableValues["username"] != "Ada" || d.Request.VariableValues["userid"] != "u1" {
		t.Fatalf("unexpected variables: %v", d.Request.VariableValues)
	}
}

func TestSessionGenerateModeMissingWorkflowNotifies(t *testing.T) {
	srv := newSessionServer(t, &fakeFeedback{}, &fakeInterviewReader{}, "")
	conn := dialSession(t, srv)

	conn.WriteJSON(inbound{Type: "init", Mode: "generate"})
	conn.WriteJSON(inbound{Type: "start"})

	d := readDirective(t, conn)
	if d.Type != "notify" {
		t.Fatalf("directive = %q, want notify", d.Type)
	}
}

func TestSessionInterviewModeFullRun(t *testing.T) {
	fb := &fakeFeedback{result: feedback.Result{Success: true, FeedbackID: "f1"}}
	reader := &fakeInterviewReader{interview: interviews.Interview{
		ID:        "i1",
		UserID:    "u1",
		Questions: []string{"What is a goroutine?"},
	}}
	srv := newSessionServer(t, fb, reader, "")
	conn := dialSession(t, srv)

	conn.WriteJSON(inbound{Type: "init", Mode: "interview", InterviewID: "i1"})
	conn.WriteJSON(inbound{Type: "start"})

	d := readDirective(t, conn)
	if d.Type != "start-call" || d.Request == nil || d.Request.Assistant == nil {
		t.Fatalf("expected inline-assistant start-call, got %+v", d)
	}
	if got := d.Request.VariableValues["questions"]; got != "- What is a goroutine?" {
		t.Fatalf("questions = %q", got)
	}

	conn.WriteJSON(inbound{Type: "event", Event: &Event{Type: EventCallStart}})
	conn.WriteJSON(inbound{Type: "event", Event: &Event{
		Type: EventMessage, MessageType: "transcript", TranscriptType: "final",
		Role: "user", Transcript: "a goroutine is a lightweight thread",
	}})
	conn.WriteJSON(inbound{Type: "event", Event: &Event{Type: EventCallEnd}})

	d = readDirective(t, conn)
	if d.Type != "navigate" || d.Path != "/interview/i1/feedback" {
		t.Fatalf("directive = %+v, want navigate to feedback", d)
	}
	calls := fb.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 feedback call, got %d", len(calls))
	}
	if calls[0].UserID != "u1" || calls[0].InterviewID != "i1" {
		t.Fatalf("unexpected params: %+v", calls[0])
	}
}

func TestSessionDisconnectSendsStopCall(t *testing.T) {
	srv := newSessionServer(t, &fakeFeedback{}, &fakeInterviewReader{}, "wf-1")
	conn := dialSession(t, srv)

	conn.WriteJSON(inbound{Type: "init", Mode: "generate"})
	conn.WriteJSON(inbound{Type: "start"})
	if d := readDirective(t, conn); d.Type != "start-call" {
		t.Fatalf("directive = %q, want start-call", d.Type)
	}

	conn.WriteJSON(inbound{Type: "disconnect"})

	d := readDirective(t, conn)
	if d.Type != "stop-call" {
		t.Fatalf("directive = %q, want stop-call", d.Type)
	}
	d = readDirective(t, conn)
	if d.Type != "navigate" || d.Path != "/" {
		t.Fatalf("directive = %+v, want navigate home", d)
	}
}

func TestSessionRejectsUnknownMode(t *testing.T) {
	srv := newSessionServer(t, &fakeFeedback{}, &fakeInterviewReader{}, "wf-1")
	conn := dialSession(t, srv)

	conn.WriteJSON(inbound{Type: "init", Mode: "karaoke"})

	d := readDirective(t, conn)
	if d.Type != "error" {
		t.Fatalf("directive = %q, want error", d.Type)
	}
}

// Browser WebSocket clients cannot attach headers, so the socket must be
// reachable with credentials in the query string alone.
func TestSessionDialsThroughAuthWithoutHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Auth("test"))
	NewHandler(&fakeFeedback{}, &fakeInterviewReader{}, "wf-1", nil).RegisterRoutes(r.Group("/api/v1"))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/v1/session/ws?guestId=abc123"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	conn.WriteJSON(inbound{Type: "init", Mode: "generate"})
	conn.WriteJSON(inbound{Type: "start"})

	d := readDirective(t, conn)
	if d.Type != "start-call" {
		t.Fatalf("directive = %q, want start-call", d.Type)
	}
	if d.Request.VariableValues["userid"] != "guest:abc123" {
		t.Fatalf("userid = %q, want guest:abc123", d.Request.VariableValues["userid"])
	}
}

func TestSessionRejectsMissingInterview(t *testing.T) {
	reader := &fakeInterviewReader{err: interviews.ErrNotFound}
	srv := newSessionServer(t, &fakeFeedback{}, reader, "")
	conn := dialSession(t, srv)

	conn.WriteJSON(inbound{Type: "init", Mode: "interview", InterviewID: "missing"})

	d := readDirective(t, conn)
	if d.Type != "error" {
		t.Fatalf("directive = %q, want error", d.Type)
	}
}
