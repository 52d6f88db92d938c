package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"interview-backend/internal/shared/server/middleware"
	"interview-backend/internal/shared/server/respond"
)

// registerMeRoutes attaches the current-user endpoint.
func registerMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/auth/me", meHandler)
}

func meHandler(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing or invalid token", nil)
		return
	}

	response := gin.H{
		"id": userID,
	}
	if name := middleware.UserNameFromContext(c); name != "" {
		response["name"] = name
	}
	if email := middleware.UserEmailFromContext(c); email != "" {
		response["email"] = email
	}
	if picture := middleware.UserPictureFromContext(c); picture != "" {
		response["profileURL"] = picture
	}

	respond.JSON(c, http.StatusOK, response)
}
