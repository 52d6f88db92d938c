package techicons

import (
	"strings"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/shared/server/respond"
)

// displayLimit caps how many icons a card shows; the remainder becomes a
// "+N more" indicator.
const displayLimit = 3

// Handler serves resolved tech icons.
type Handler struct {
	Resolver *Resolver
}

// NewHandler constructs a Handler.
func NewHandler(resolver *Resolver) *Handler {
	return &Handler{Resolver: resolver}
}

// RegisterRoutes attaches the tech-icon route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/techicons", h.resolve)
}

func (h *Handler) resolve(c *gin.Context) {
	var techs []string
	for _, part := range strings.Split(c.Query("stack"), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			techs = append(techs, trimmed)
		}
	}

	icons := h.Resolver.Resolve(c.Request.Context(), techs)

	more := 0
	if len(icons) > displayLimit {
		more = len(icons) - displayLimit
		icons = icons[:displayLimit]
	}

	respond.OK(c, gin.H{"icons": icons, "more": more})
}
