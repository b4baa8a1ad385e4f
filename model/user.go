package model

import "time"

type User struct {
	// Provider-qualified identity, e.g. "local:<uuid>". Never the
	// database's own auto id, so OAuth subjects can be slotted in as-is.
	ID string `gorm:"primaryKey;size:191" json:"id"`

	Name *string `gorm:"column:name;size:50;unique" json:"name,omitempty"`

	Email string `gorm:"column:email;size:255;not null" json:"email"`

	Password string `gorm:"column:pass_word;size:255;not null" json:"-"`

	OnboardingDone bool `gorm:"column:onboarding_done;not null;default:false" json:"onboarding_done"`

	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}
