package model

import "time"

type Folder struct {
	// Slug plus random suffix, e.g. "holiday-pics-x7Rq2LpA".
	ID string `gorm:"primaryKey;size:191" json:"id"`

	Name string `gorm:"column:name;size:255;not null" json:"name"`

	OwnerID *string `gorm:"column:owner_id;size:191;index" json:"owner_id,omitempty"`
	Owner   *User   `gorm:"foreignKey:OwnerID;references:ID" json:"-"`

	// Denormalized snapshot of member file ids. Kept consistent with
	// the files table on every add, remove and prune.
	FileKeys []string `gorm:"column:file_keys;serializer:json" json:"file_keys"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (Folder) TableName() string {
	return "folders"
}
