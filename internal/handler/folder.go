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

// CreateFolder creates a folder holding the listed owned files.
func CreateFolder(c *gin.Context) {
	var req dto.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	userID := c.MustGet("user_id").(string)

	resp, err := service.CreateFolder(c.Request.Context(), userID, req.Name, req.FileKeys)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, resp)
}

// CreateEmptyFolder creates a folder with no members.
func CreateEmptyFolder(c *gin.Context) {
	var req dto.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	userID := c.MustGet("user_id").(string)

	folder, err := service.CreateEmptyFolder(c.Request.Context(), userID, req.Name)
	if err != nil {
		utils.Fail(c, err)
		return
	}
	utils.Success(c, folder)
}

// ViewFolder lists a folder's live files, reconciling the member list
// against the object store first. Public: anyone holding the id may
// view.
func ViewFolder(c *gin.Context) {
	folderID := c.Param("folderID")

	resp, err := service.ViewFolder(c.Request.Context(), folderID)
	if err != nil {
		if errors.Is(err, service.ErrFolderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
			return
		}
		logger.L().Error("view folder failed", zap.String("folder_id", folderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error listing folder"})
		return
	}
	utils.Success(c, resp)
}

// DeleteFolder removes a folder, its files and their objects.
func DeleteFolder(c *gin.Context) {
	var req dto.FolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	userID := c.MustGet("user_id").(string)

	if err := service.DeleteFolder(c.Request.Context(), userID, req.FolderID); err != nil {
		if errors.Is(err, service.ErrFolderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "folder not found"})
			return
		}
		logger.L().Error("delete folder failed", zap.String("folder_id", req.FolderID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong removing the file from the server"})
		return
	}
	utils.Success(c, nil)
}

// SoftDeleteFolder detaches member files and deletes the folder row.
func SoftDeleteFolder(c *gin.Context) {
	var req dto.FolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}
	userID := c.MustGet("user_id").(string)

	if err := service.SoftDeleteFolder(c.Request.Context(), userID, req.FolderID); err != nil {
		logger.L().Error("soft delete folder failed", zap.String("folder_id", req.FolderID), zap.Error(err))
		utils.FailCode(c, http.StatusInternalServerError, "error deleting folder")
		return
	}
	utils.Success(c, nil)
}
