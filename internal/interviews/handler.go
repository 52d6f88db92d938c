package interviews

import (
	"errors"
	"net/http"
	"strconv"

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

// RegisterRoutes attaches interview routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/vapi/generate", h.generate)
	rg.GET("/vapi/generate", h.health)
	rg.GET("/interviews", h.listMine)
	rg.GET("/interviews/latest", h.listLatest)
	rg.GET("/interviews/:id", h.get)
}

// generate accepts the generation workflow's callback body. userid arrives in
// the body because the voice workflow calls this server-to-server.
func (h *Handler) generate(c *gin.Context) {
	var params GenerateParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		return
	}

	interviewID, err := h.Svc.Generate(c.Request.Context(), params)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Missing required fields"})
		case errors.Is(err, ErrGenerationFormat):
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to parse generated questions"})
		case errors.Is(err, db.ErrStoreUnavailable):
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": "Database not available"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		}
		return
	}

	c.Set("interviewId", interviewID)
	c.Header("Cache-Control", "no-store, max-age=0")
	c.JSON(http.StatusCreated, gin.H{"success": true, "interviewId": interviewID})
}

func (h *Handler) health(c *gin.Context) {
	c.Header("Cache-Control", "max-age=60")
	c.JSON(http.StatusOK, gin.H{"success": true, "status": "API is operational"})
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	interview, err := h.Svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrStoreUnavailable):
			respond.Error(c, http.StatusServiceUnavailable, "store_unavailable", "record store unreachable", nil)
		default:
			respond.Error(c, http.StatusNotFound, "not_found", "interview not found", nil)
		}
		return
	}
	respond.OK(c, interview)
}

func (h *Handler) listMine(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	list, err := h.Svc.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusServiceUnavailable, "store_unavailable", "record store unreachable", nil)
		return
	}
	respond.OK(c, list)
}

func (h *Handler) listLatest(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	list, err := h.Svc.ListLatest(c.Request.Context(), userID, limit)
	if err != nil {
		respond.Error(c, http.StatusServiceUnavailable, "store_unavailable", "record store unreachable", nil)
		return
	}
	respond.OK(c, list)
}
