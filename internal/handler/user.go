package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"solven/internal/dto"
	"solven/internal/service"
	"solven/utils"
)

// SetupUser finishes onboarding for the authenticated user.
func SetupUser(c *gin.Context) {
	var req dto.SetupUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	userID := c.MustGet("user_id").(string)

	if err := service.SetupUser(userID, req.Username, req.Email); err != nil {
		if errors.Is(err, service.ErrNameTaken) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		utils.Fail(c, err)
		return
	}
	utils.Success(c, nil)
}
