package model

import "time"

type File struct {
	// Slug plus random suffix, e.g. "report-pdf-x7Rq2LpA". Distinct from
	// the object key, which also carries the owner scope and filename.
	ID string `gorm:"primaryKey;size:191" json:"id"`

	Filename string `gorm:"column:filename;size:512;not null" json:"filename"`

	Size int64 `gorm:"column:size;not null" json:"size"`

	UploadedAt time.Time `gorm:"column:uploaded_at;not null" json:"uploaded_at"`

	// Retention window end. Sweeping expired rows is an external
	// collaborator's job; this service only sets the value.
	ExpiresAt time.Time `gorm:"column:expires_at;not null" json:"expires_at"`

	DownloadCount int `gorm:"column:download_count;not null;default:0" json:"download_count"`

	OwnerID *string `gorm:"column:owner_id;size:191;index" json:"owner_id,omitempty"`
	Owner   *User   `gorm:"foreignKey:OwnerID;references:ID" json:"-"`

	FolderID *string `gorm:"column:folder_id;size:191;index" json:"folder_id,omitempty"`
	Folder   *Folder `gorm:"foreignKey:FolderID;references:ID" json:"-"`
}

// TableName returns the database table name.
func (File) TableName() string {
	return "files"
}
