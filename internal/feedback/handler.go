package feedback

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/shared/server/middleware"
	"interview-backend/internal/shared/server/respond"
	"interview-backend/internal/shared/storage/db"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches feedback routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/interviews/:id/feedback", h.create)
	rg.GET("/interviews/:id/feedback", h.get)
}

type createRequest struct {
	Transcript []TranscriptMessage `json:"transcript"`
	FeedbackID string              `json:"feedbackId"`
}

func (h *Handler) create(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, Result{Success: false, Error: "invalid request body"})
		return
	}

	result := h.Svc.Create(c.Request.Context(), CreateParams{
		InterviewID: c.Param("id"),
		UserID:      userID,
		Transcript:  req.Transcript,
		FeedbackID:  req.FeedbackID,
	})
	if !result.Success {
		status := http.StatusInternalServerError
		if result.Error == MissingParamsError {
			status = http.StatusBadRequest
		}
		c.JSON(status, result)
		return
	}

	c.Set("feedbackId", result.FeedbackID)
	c.JSON(http.StatusCreated, result)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	fb, err := h.Svc.GetByInterviewAndUser(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrStoreUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, "store_unavailable", "record store unreachable", nil)
		default:
			respond.Error(c, http.StatusNotFound, "not_found", "feedback not found", nil)
		}
		return
	}
	respond.OK(c, fb)
}
