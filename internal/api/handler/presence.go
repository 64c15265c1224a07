package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetOnlineFollowing returns the caller's followees who are online right now.
// Clients use it for the initial render of the online bar before the presence
// websocket delivers live updates.
//
// GET /api/v1/presence/following/online
func (h *Handler) GetOnlineFollowing(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return
	}

	userID, err := h.Auth.VerifyToken(strings.TrimPrefix(authHeader, "Bearer "))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return
	}

	followingIDs, err := h.Store.GetFollowingIDs(userID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load following"})
		return
	}

	onlineIDs := h.Presence.OnlineSubsetOf(followingIDs)
	users, err := h.Store.GetUserSummaries(onlineIDs)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to load online users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"online_users": users,
		"total":        len(users),
	})
}
