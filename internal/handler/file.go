package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"solven/internal/dto"
	"solven/internal/logger"
	"solven/internal/service"
	"solven/utils"
)

// DeleteFile removes one owned file, object before row.
func DeleteFile(c *gin.Context) {
	var req dto.DeleteFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	userID := c.MustGet("user_id").(string)

	if err := service.DeleteFile(c.Request.Context(), userID, req.FileID); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		logger.L().Error("delete file failed", zap.String("file_id", req.FileID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting file from storage"})
		return
	}
	utils.Success(c, nil)
}

// DownloadFile returns a presigned GET URL for an owned file.
func DownloadFile(c *gin.Context) {
	var req dto.DownloadFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	userID := c.MustGet("user_id").(string)

	resp, err := service.DownloadURLOwned(c.Request.Context(), userID, req.FileID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		logger.L().Error("download url failed", zap.String("file_id", req.FileID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting download URL"})
		return
	}
	utils.Success(c, resp)
}

// FileURL returns a presigned GET URL for a public file page.
func FileURL(c *gin.Context) {
	fileID := c.Param("fileID")
	resp, err := service.DownloadURL(c.Request.Context(), fileID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
			return
		}
		logger.L().Error("file url failed", zap.String("file_id", fileID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error getting download URL"})
		return
	}
	utils.Success(c, resp)
}

// ListDashboard lists root files and folders, or one folder's files.
func ListDashboard(c *gin.Context) {
	userID := c.MustGet("user_id").(string)
	location := c.DefaultQuery("location", "/")

	items, err := service.ListDashboard(userID, location)
	if err != nil {
		logger.L().Error("list dashboard failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing files"})
		return
	}
	utils.Success(c, items)
}

// DeleteAll removes every file and folder of the requesting owner.
func DeleteAll(c *gin.Context) {
	userID := c.MustGet("user_id").(string)

	if err := service.DeleteAll(c.Request.Context(), userID); err != nil {
		logger.L().Error("delete all failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong removing the files from the server"})
		return
	}
	utils.Success(c, nil)
}
