package dto

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username      string `json:"username" binding:"required"`
	FirstPassword string `json:"first-password" binding:"required"`
	LastPassword  string `json:"second-password" binding:"required"`
	Email         string `json:"email" binding:"required"`
}

type SetupUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

// PresignUploadRequest asks for a presigned PUT URL.
type PresignUploadRequest struct {
	FileName string `json:"file_name" binding:"required"`
	FileSize int64  `json:"file_size" binding:"gte=0"`
	FileType string `json:"file_type"`
}

// ConfirmUploadRequest confirms a finished client transfer. OwnerID is
// taken from the request context, never from the body.
type ConfirmUploadRequest struct {
	FileID   string `json:"file_id" binding:"required"`
	FileName string `json:"file_name" binding:"required"`
	FileSize int64  `json:"file_size" binding:"gte=0"`
	FolderID string `json:"folder_id"`
}

type DeleteFileRequest struct {
	FileID string `json:"file_id" binding:"required"`
}

type DownloadFileRequest struct {
	FileID string `json:"file_id" binding:"required"`
}

type CreateFolderRequest struct {
	Name     string   `json:"name" binding:"required"`
	FileKeys []string `json:"file_keys"`
}

type FolderRequest struct {
	FolderID string `json:"folder_id" binding:"required"`
}
