package service

import (
	"context"
	"fmt"
	"time"

	"solven/config"
	"solven/internal/metrics"
	"solven/internal/mq"
	"solven/internal/repo"
	"solven/internal/storage"
	"solven/model"
	"solven/utils"
)

func bucket() string {
	return config.AppConfig.BucketName
}

// PresignUpload derives a file id from the filename and returns a
// presigned PUT URL for the object key scoped under the owner, or the
// anonymous namespace when ownerID is nil.
func PresignUpload(ctx context.Context, ownerID *string, fileName, fileType string) (fileID, signedURL string, err error) {
	fileName = utils.SanitizeFilename(fileName)
	fileID = utils.NewFileID(fileName)
	key := utils.ObjectKey(ownerID, fileID, fileName)

	signedURL, err = storage.Default.PresignedPutObject(
		ctx,
		bucket(),
		key,
		fileType,
		map[string]string{"filename": fileName},
		config.AppConfig.PresignExpiry,
	)
	if err != nil {
		return "", "", fmt.Errorf("presign put: %w", err)
	}
	return fileID, signedURL, nil
}

// ConfirmUpload verifies the object landed in the store, then creates
// the File row. Order matters: the authorization check precedes the
// existence check, and no row is written unless the HEAD succeeded.
func ConfirmUpload(ctx context.Context, ownerID *string, fileID, fileName string, fileSize int64, folderID *string) (*model.File, error) {
	if folderID != nil && *folderID == "/" {
		folderID = nil
	}
	if folderID != nil && ownerID == nil {
		metrics.ConfirmationsRejected.WithLabelValues("anonymous_folder").Inc()
		return nil, ErrAnonymousFolder
	}

	fileName = utils.SanitizeFilename(fileName)
	key := utils.ObjectKey(ownerID, fileID, fileName)
	exists, err := storage.Default.ObjectExists(ctx, bucket(), key)
	if err != nil {
		return nil, fmt.Errorf("head object: %w", err)
	}
	if !exists {
		metrics.ConfirmationsRejected.WithLabelValues("object_missing").Inc()
		return nil, ErrObjectMissing
	}

	now := time.Now()
	file := &model.File{
		ID:            fileID,
		Filename:      fileName,
		Size:          fileSize,
		UploadedAt:    now,
		ExpiresAt:     now.AddDate(0, 0, config.AppConfig.RetentionDays),
		DownloadCount: 0,
		OwnerID:       ownerID,
		FolderID:      folderID,
	}
	if err := repo.Db.Create(file).Error; err != nil {
		return nil, err
	}

	if folderID != nil {
		if err := addFolderMember(ctx, *ownerID, *folderID, fileID); err != nil {
			// keep the row; the member cache reconciles on next view
			logError("add folder member", err)
		}
	}

	metrics.UploadsConfirmed.Inc()
	owner := ""
	if ownerID != nil {
		owner = *ownerID
	}
	mq.Emit(ctx, mq.RoutingFileUploaded, mq.Event{
		FileID:    fileID,
		OwnerID:   owner,
		ObjectKey: key,
		ExpiresAt: file.ExpiresAt,
	})
	return file, nil
}
