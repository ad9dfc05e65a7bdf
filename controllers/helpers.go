package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// currentUserID extracts the authenticated user ID placed on the context by
// the auth middleware. Writes a 401 and returns false when absent.
func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	raw := ctx.GetString("userID")
	if raw == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid session"})
		return uuid.Nil, false
	}
	return userID, true
}
