package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ProfileResponse is the identity carried by the caller's bearer token.
type ProfileResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// GetProfile returns the authenticated user's identity
// @Summary     Get profile
// @Description Get the id and email of the authenticated user
// @Tags        profile
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} ProfileResponse "User profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /profile [get]
func GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": ProfileResponse{ID: userID, Email: c.GetString("email")},
	})
}
