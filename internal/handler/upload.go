package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"solven/config"
	"solven/internal/dto"
	"solven/internal/logger"
	"solven/internal/service"
	"solven/utils"
)

var anonymousLimiter *rate.Limiter

// InitRateLimiter configures the shared limiter for anonymous presign
// requests.
func InitRateLimiter() {
	anonymousLimiter = rate.NewLimiter(
		rate.Limit(config.AppConfig.AnonymousRate),
		config.AppConfig.AnonymousBurst,
	)
}

// PresignUpload hands out a presigned PUT URL and the derived file id.
func PresignUpload(c *gin.Context) {
	var req dto.PresignUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	ownerID := utils.CurrentUserID(c)
	if ownerID == nil && anonymousLimiter != nil && !anonymousLimiter.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
		return
	}

	fileID, signedURL, err := service.PresignUpload(c.Request.Context(), ownerID, req.FileName, req.FileType)
	if err != nil {
		logger.L().Error("presign upload failed", zap.Error(err))
		utils.FailCode(c, http.StatusInternalServerError, "error generating signed URL")
		return
	}
	utils.Success(c, dto.PresignUploadResponse{
		SignedURL: signedURL,
		FileID:    fileID,
	})
}

// ConfirmUpload verifies the object landed in storage and creates the
// file row. Clients dispatch on the code: 403 anonymous-into-folder,
// 404 object missing, 500 anything else.
func ConfirmUpload(c *gin.Context) {
	var req dto.ConfirmUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	ownerID := utils.CurrentUserID(c)
	var folderID *string
	if req.FolderID != "" {
		folderID = &req.FolderID
	}

	_, err := service.ConfirmUpload(c.Request.Context(), ownerID, req.FileID, req.FileName, req.FileSize, folderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAnonymousFolder):
			utils.FailCode(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrObjectMissing):
			utils.FailCode(c, http.StatusNotFound, err.Error())
		default:
			logger.L().Error("confirm upload failed", zap.String("file_id", req.FileID), zap.Error(err))
			utils.FailCode(c, http.StatusInternalServerError, "error confirming upload")
		}
		return
	}
	utils.Success(c, nil)
}
