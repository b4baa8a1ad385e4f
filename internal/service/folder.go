package service

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"

	"solven/config"
	"solven/internal/dto"
	"solven/internal/metrics"
	"solven/internal/mq"
	"solven/internal/repo"
	"solven/internal/storage"
	"solven/model"
	"solven/utils"
)

var folderNamePattern = regexp.MustCompile(`^[a-zA-Z0-9\s-]+$`)

const folderLockTTL = 30 * time.Second

// ValidateFolderName enforces the folder naming rules.
func ValidateFolderName(name string) error {
	if len(name) < 1 {
		return errors.New("folder name is required")
	}
	if len(name) > 50 {
		return errors.New("folder name is too long")
	}
	if !folderNamePattern.MatchString(name) {
		return errors.New("folder name can only contain letters, numbers, spaces, and hyphens")
	}
	return nil
}

// GetFolderOwned returns a folder row scoped to its owner.
func GetFolderOwned(ownerID, folderID string) (*model.Folder, error) {
	var folder model.Folder
	err := repo.Db.Where("id = ? AND owner_id = ?", folderID, ownerID).First(&folder).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, err
	}
	return &folder, nil
}

// CreateFolder creates a folder and moves the listed owned files into
// it. Keys that do not resolve to a file of the owner are silently
// dropped; the persisted member list holds only verified ids.
func CreateFolder(ctx context.Context, ownerID, name string, fileKeys []string) (*dto.CreateFolderResponse, error) {
	if err := ValidateFolderName(name); err != nil {
		return nil, err
	}
	if _, err := GetUserByID(ownerID); err != nil {
		return nil, err
	}

	folder := &model.Folder{
		ID:       utils.NewFolderID(name),
		Name:     name,
		OwnerID:  &ownerID,
		FileKeys: []string{},
	}
	if err := repo.Db.Create(folder).Error; err != nil {
		return nil, err
	}

	validKeys := make([]string, 0, len(fileKeys))
	for _, fileKey := range fileKeys {
		file, err := GetFileOwned(ownerID, fileKey)
		if err != nil {
			continue
		}
		if err := repo.Db.Model(&model.File{}).
			Where("id = ?", file.ID).
			Update("folder_id", folder.ID).Error; err != nil {
			return nil, err
		}
		validKeys = append(validKeys, fileKey)
	}

	if err := repo.Db.Model(&model.Folder{}).
		Where("id = ?", folder.ID).
		Update("file_keys", validKeys).Error; err != nil {
		return nil, err
	}

	return &dto.CreateFolderResponse{
		FolderID:   folder.ID,
		FolderPath: "/folder/" + folder.ID,
		FileKeys:   validKeys,
	}, nil
}

// CreateEmptyFolder creates a folder with no members.
func CreateEmptyFolder(ctx context.Context, ownerID, name string) (*model.Folder, error) {
	if err := ValidateFolderName(name); err != nil {
		return nil, err
	}
	if _, err := GetUserByID(ownerID); err != nil {
		return nil, err
	}
	folder := &model.Folder{
		ID:       utils.NewFolderID(name),
		Name:     name,
		OwnerID:  &ownerID,
		FileKeys: []string{},
	}
	if err := repo.Db.Create(folder).Error; err != nil {
		return nil, err
	}
	return folder, nil
}

// mutateFolderMembers applies fn to a freshly read member list under
// the folder lock, so concurrent prunes never overwrite each other.
func mutateFolderMembers(ctx context.Context, folderID string, fn func(keys []string) []string) error {
	lock := repo.NewFolderLock(folderID, folderLockTTL)
	if err := lock.Lock(ctx); err != nil {
		return err
	}
	defer lock.Unlock(ctx)

	var folder model.Folder
	if err := repo.Db.Where("id = ?", folderID).First(&folder).Error; err != nil {
		return err
	}
	updated := fn(folder.FileKeys)
	return repo.Db.Model(&model.Folder{}).
		Where("id = ?", folderID).
		Update("file_keys", updated).Error
}

func addFolderMember(ctx context.Context, ownerID, folderID, fileID string) error {
	if _, err := GetFolderOwned(ownerID, folderID); err != nil {
		return err
	}
	return mutateFolderMembers(ctx, folderID, func(keys []string) []string {
		for _, key := range keys {
			if key == fileID {
				return keys
			}
		}
		return append(keys, fileID)
	})
}

func removeFolderMember(ctx context.Context, folderID, fileID string) error {
	return mutateFolderMembers(ctx, folderID, func(keys []string) []string {
		out := keys[:0]
		for _, key := range keys {
			if key != fileID {
				out = append(out, key)
			}
		}
		return out
	})
}

// ViewFolder lists a folder after reconciling it against the object
// store: every member's object is HEADed, stale rows are pruned, and a
// folder whose last member vanished is deleted outright. The view is
// recomputed on every call.
func ViewFolder(ctx context.Context, folderID string) (*dto.FolderViewResponse, error) {
	var folder model.Folder
	if err := repo.Db.Where("id = ?", folderID).First(&folder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFolderNotFound
		}
		return nil, err
	}

	var files []model.File
	if err := repo.Db.Where("folder_id = ?", folderID).Find(&files).Error; err != nil {
		return nil, err
	}

	live, stale := partitionByExistence(ctx, files)

	for _, file := range stale {
		pruneFile(ctx, file)
	}
	if len(stale) > 0 {
		staleIDs := make(map[string]bool, len(stale))
		for _, file := range stale {
			staleIDs[file.ID] = true
		}
		if err := mutateFolderMembers(ctx, folderID, func(keys []string) []string {
			out := keys[:0]
			for _, key := range keys {
				if !staleIDs[key] {
					out = append(out, key)
				}
			}
			return out
		}); err != nil {
			logError("prune folder members", err)
		}
	}

	// the cascade only fires when pruning emptied the folder; a folder
	// that was empty to begin with stays viewable
	if len(live) == 0 && len(stale) > 0 {
		if err := repo.Db.Delete(&model.Folder{}, "id = ?", folderID).Error; err != nil {
			logError("delete emptied folder", err)
		}
		ownerID := ""
		if folder.OwnerID != nil {
			ownerID = *folder.OwnerID
		}
		mq.Emit(ctx, mq.RoutingFolderDeleted, mq.Event{FolderID: folderID, OwnerID: ownerID})
		return nil, ErrFolderNotFound
	}

	sort.Slice(live, func(i, j int) bool {
		return live[i].UploadedAt.After(live[j].UploadedAt)
	})
	resp := &dto.FolderViewResponse{
		ID:      folder.ID,
		Name:    folder.Name,
		OwnerID: folder.OwnerID,
		Files:   make([]dto.FolderFile, 0, len(live)),
	}
	if folder.OwnerID != nil {
		if owner, err := GetUserByID(*folder.OwnerID); err == nil {
			resp.OwnerName = owner.Name
		}
	}
	for _, file := range live {
		resp.Files = append(resp.Files, dto.FolderFile{
			ID:         file.ID,
			Name:       file.Filename,
			Size:       file.Size,
			UploadedAt: file.UploadedAt,
		})
	}
	return resp, nil
}

// partitionByExistence HEADs every file's object concurrently and
// splits the rows into live and stale.
func partitionByExistence(ctx context.Context, files []model.File) (live, stale []model.File) {
	type verdict struct {
		file   model.File
		exists bool
	}
	results := make([]verdict, len(files))
	var wg sync.WaitGroup
	for i, file := range files {
		wg.Add(1)
		go func(i int, file model.File) {
			defer wg.Done()
			key := utils.ObjectKey(file.OwnerID, file.ID, file.Filename)
			exists, err := storage.Default.ObjectExists(ctx, bucket(), key)
			if err != nil {
				// treat transport errors as present; never prune on a
				// flaky HEAD
				exists = true
			}
			results[i] = verdict{file: file, exists: exists}
		}(i, file)
	}
	wg.Wait()
	for _, r := range results {
		if r.exists {
			live = append(live, r.file)
		} else {
			stale = append(stale, r.file)
		}
	}
	return live, stale
}

// pruneFile deletes the row of a file whose object vanished from the
// store out-of-band.
func pruneFile(ctx context.Context, file model.File) {
	if err := repo.Db.Delete(&model.File{}, "id = ?", file.ID).Error; err != nil {
		logError("prune file row", err)
		return
	}
	key := utils.ObjectKey(file.OwnerID, file.ID, file.Filename)
	utils.SignedURLs(config.AppConfig.SignedURLCacheTTL).Invalidate(ctx, key)
	metrics.FilesPruned.Inc()
	owner := ""
	if file.OwnerID != nil {
		owner = *file.OwnerID
	}
	mq.Emit(ctx, mq.RoutingFilePruned, mq.Event{
		FileID:    file.ID,
		OwnerID:   owner,
		ObjectKey: key,
	})
}

// DeleteFolder removes a folder and all member files, objects first.
// Any member's store deletion failing fails the whole operation and
// leaves every database row untouched.
func DeleteFolder(ctx context.Context, ownerID, folderID string) error {
	if _, err := GetFolderOwned(ownerID, folderID); err != nil {
		return err
	}

	var files []model.File
	if err := repo.Db.Where("folder_id = ?", folderID).Find(&files).Error; err != nil {
		return err
	}

	if err := removeObjects(ctx, files); err != nil {
		return err
	}

	if err := repo.Db.Delete(&model.File{}, "folder_id = ?", folderID).Error; err != nil {
		return err
	}
	if err := repo.Db.Delete(&model.Folder{}, "id = ?", folderID).Error; err != nil {
		return err
	}
	mq.Emit(ctx, mq.RoutingFolderDeleted, mq.Event{FolderID: folderID, OwnerID: ownerID})
	return nil
}

// SoftDeleteFolder detaches the member files and deletes the folder
// row; objects and file rows survive at the owner's root.
func SoftDeleteFolder(ctx context.Context, ownerID, folderID string) error {
	if _, err := GetUserByID(ownerID); err != nil {
		return err
	}
	if err := repo.Db.Model(&model.File{}).
		Where("owner_id = ? AND folder_id = ?", ownerID, folderID).
		Update("folder_id", nil).Error; err != nil {
		return err
	}
	if err := repo.Db.Delete(&model.Folder{}, "id = ? AND owner_id = ?", folderID, ownerID).Error; err != nil {
		return err
	}
	mq.Emit(ctx, mq.RoutingFolderDeleted, mq.Event{FolderID: folderID, OwnerID: ownerID})
	return nil
}

// DeleteAll removes every object, file row and folder row of an
// owner. Reporting is all-or-nothing: a single failed object deletion
// fails the call and no rows are removed, even though some objects may
// already be gone.
func DeleteAll(ctx context.Context, ownerID string) error {
	var files []model.File
	if err := repo.Db.Where("owner_id = ?", ownerID).Find(&files).Error; err != nil {
		return err
	}

	if err := removeObjects(ctx, files); err != nil {
		return err
	}

	if err := repo.Db.Delete(&model.File{}, "owner_id = ?", ownerID).Error; err != nil {
		return err
	}
	if err := repo.Db.Delete(&model.Folder{}, "owner_id = ?", ownerID).Error; err != nil {
		return err
	}
	return nil
}

// removeObjects deletes every file's object concurrently and returns
// the first error, if any.
func removeObjects(ctx context.Context, files []model.File) error {
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	cache := utils.SignedURLs(config.AppConfig.SignedURLCacheTTL)
	for _, file := range files {
		wg.Add(1)
		go func(file model.File) {
			defer wg.Done()
			key := utils.ObjectKey(file.OwnerID, file.ID, file.Filename)
			if err := storage.Default.RemoveObject(ctx, bucket(), key); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			cache.Invalidate(ctx, key)
		}(file)
	}
	wg.Wait()
	return firstErr
}
