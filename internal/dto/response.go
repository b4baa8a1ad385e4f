package dto

import "time"

// PresignUploadResponse carries the presigned PUT URL and the file id
// derived from the filename slug.
type PresignUploadResponse struct {
	SignedURL string `json:"signed_url"`
	FileID    string `json:"file_id"`
}

// DownloadURLResponse carries a presigned GET URL.
type DownloadURLResponse struct {
	URL  string `json:"url"`
	Name string `json:"name"`
	Size int64  `json:"size"`
}

// FolderFile is one live member in a folder view.
type FolderFile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// FolderViewResponse is the reconciled folder listing.
type FolderViewResponse struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	OwnerID   *string      `json:"owner_id,omitempty"`
	OwnerName *string      `json:"owner_name,omitempty"`
	Files     []FolderFile `json:"files"`
}

// CreateFolderResponse reports the new folder and its verified members.
type CreateFolderResponse struct {
	FolderID   string   `json:"folder_id"`
	FolderPath string   `json:"folder_path"`
	FileKeys   []string `json:"file_keys"`
}

// DashboardItem is one row in the dashboard listing, either a file or
// a folder.
type DashboardItem struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	Size          int64     `json:"size,omitempty"`
	DownloadCount int       `json:"download_count,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
