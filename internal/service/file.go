package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"solven/config"
	"solven/internal/dto"
	"solven/internal/logger"
	"solven/internal/metrics"
	"solven/internal/mq"
	"solven/internal/repo"
	"solven/internal/storage"
	"solven/model"
	"solven/utils"
)

func logError(msg string, err error) {
	logger.L().Error(msg, zap.Error(err))
}

// GetFile returns a file row by id.
func GetFile(fileID string) (*model.File, error) {
	var file model.File
	if err := repo.Db.Where("id = ?", fileID).First(&file).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

// GetFileOwned returns a file row scoped to its owner. Foreign or
// absent files both come back as ErrNotFound.
func GetFileOwned(ownerID, fileID string) (*model.File, error) {
	var file model.File
	err := repo.Db.Where("id = ? AND owner_id = ?", fileID, ownerID).First(&file).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &file, nil
}

// DeleteFile removes an owned file: object first, row second. A store
// failure aborts before the database is touched, so the row keeps the
// object discoverable and deletable later.
func DeleteFile(ctx context.Context, ownerID, fileID string) error {
	file, err := GetFileOwned(ownerID, fileID)
	if err != nil {
		return err
	}
	return deleteFileRow(ctx, file, true)
}

// deleteFileRow deletes a resolved file's object and row. When
// updateFolder is set, the member cache of the containing folder is
// pruned as well (and an emptied folder removed).
func deleteFileRow(ctx context.Context, file *model.File, updateFolder bool) error {
	key := utils.ObjectKey(file.OwnerID, file.ID, file.Filename)
	if err := storage.Default.RemoveObject(ctx, bucket(), key); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	if err := repo.Db.Delete(&model.File{}, "id = ?", file.ID).Error; err != nil {
		return err
	}
	utils.SignedURLs(config.AppConfig.SignedURLCacheTTL).Invalidate(ctx, key)

	if updateFolder && file.FolderID != nil {
		if err := removeFolderMember(ctx, *file.FolderID, file.ID); err != nil {
			logError("remove folder member", err)
		}
	}

	metrics.FilesDeleted.Inc()
	owner := ""
	if file.OwnerID != nil {
		owner = *file.OwnerID
	}
	mq.Emit(ctx, mq.RoutingFileDeleted, mq.Event{
		FileID:    file.ID,
		OwnerID:   owner,
		ObjectKey: key,
	})
	return nil
}

// DownloadURL issues a presigned GET URL for a file and counts the
// download. File pages are public; anyone holding the id may fetch.
func DownloadURL(ctx context.Context, fileID string) (*dto.DownloadURLResponse, error) {
	file, err := GetFile(fileID)
	if err != nil {
		return nil, err
	}
	return downloadURLFor(ctx, file)
}

// DownloadURLOwned issues a presigned GET URL scoped to the owner.
func DownloadURLOwned(ctx context.Context, ownerID, fileID string) (*dto.DownloadURLResponse, error) {
	file, err := GetFileOwned(ownerID, fileID)
	if err != nil {
		return nil, err
	}
	return downloadURLFor(ctx, file)
}

func downloadURLFor(ctx context.Context, file *model.File) (*dto.DownloadURLResponse, error) {
	key := utils.ObjectKey(file.OwnerID, file.ID, file.Filename)
	cache := utils.SignedURLs(config.AppConfig.SignedURLCacheTTL)

	url := cache.Get(ctx, key)
	if url == "" {
		var err error
		url, err = storage.Default.PresignedGetObject(ctx, bucket(), key, config.AppConfig.PresignExpiry)
		if err != nil {
			return nil, fmt.Errorf("presign get: %w", err)
		}
		cache.Set(ctx, key, url)
	}

	if err := repo.Db.Model(&model.File{}).
		Where("id = ?", file.ID).
		UpdateColumn("download_count", gorm.Expr("download_count + 1")).Error; err != nil {
		logError("increment download count", err)
	}
	metrics.DownloadURLsIssued.Inc()

	return &dto.DownloadURLResponse{
		URL:  url,
		Name: file.Filename,
		Size: file.Size,
	}, nil
}

// ListDashboard returns the owner's root files and folders, or the
// files of one folder when location names it.
func ListDashboard(ownerID, location string) ([]dto.DashboardItem, error) {
	if location != "" && location != "/" {
		var files []model.File
		if err := repo.Db.
			Where("owner_id = ? AND folder_id = ?", ownerID, location).
			Order("uploaded_at DESC").
			Find(&files).Error; err != nil {
			return nil, err
		}
		items := make([]dto.DashboardItem, 0, len(files))
		for _, f := range files {
			items = append(items, dto.DashboardItem{
				ID:            f.ID,
				Name:          f.Filename,
				Type:          "file",
				Size:          f.Size,
				DownloadCount: f.DownloadCount,
				CreatedAt:     f.UploadedAt,
			})
		}
		return items, nil
	}

	var files []model.File
	if err := repo.Db.
		Where("owner_id = ? AND folder_id IS NULL", ownerID).
		Find(&files).Error; err != nil {
		return nil, err
	}
	var folders []model.Folder
	if err := repo.Db.Where("owner_id = ?", ownerID).Find(&folders).Error; err != nil {
		return nil, err
	}

	items := make([]dto.DashboardItem, 0, len(files)+len(folders))
	for _, f := range files {
		items = append(items, dto.DashboardItem{
			ID:            f.ID,
			Name:          f.Filename,
			Type:          "file",
			Size:          f.Size,
			DownloadCount: f.DownloadCount,
			CreatedAt:     f.UploadedAt,
		})
	}
	for _, f := range folders {
		items = append(items, dto.DashboardItem{
			ID:        f.ID,
			Name:      f.Name,
			Type:      "folder",
			CreatedAt: f.CreatedAt,
		})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}
