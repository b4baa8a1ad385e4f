package service

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"solven/internal/repo"
	"solven/model"
	"solven/utils"
)

// CreateUser hashes the password and creates a user row. The identity
// is provider-qualified; locally registered accounts get "local:".
func CreateUser(user *model.User) error {
	if user.ID == "" {
		user.ID = "local:" + uuid.NewString()
	}
	user.Password = utils.GetPwd(user.Password)
	return repo.Db.Create(user).Error
}

// GetUserByID returns a user by identity.
func GetUserByID(userID string) (*model.User, error) {
	var user model.User
	if err := repo.Db.Where("id = ?", userID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByName returns a user by display name.
func GetUserByName(username string) (*model.User, error) {
	var user model.User
	if err := repo.Db.Where("name = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CheckPassword verifies a user's password.
func CheckPassword(username, password string) error {
	user, err := GetUserByName(username)
	if err != nil {
		return err
	}
	if !utils.CheckPwd(password, user.Password) {
		return errors.New("password error")
	}
	return nil
}

// IsEmailExist checks whether an email is already registered.
func IsEmailExist(email string) error {
	var user model.User
	if err := repo.Db.Where("email = ?", email).First(&user).Error; err != nil {
		return err
	}
	return nil
}

// SetupUser finishes onboarding: sets the unique display name, the
// email, and the onboarding flag. Runs once per account; a taken name
// surfaces as ErrNameTaken.
func SetupUser(userID, username, email string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return errors.New("username is required")
	}
	var existing model.User
	err := repo.Db.Where("name = ? AND id <> ?", username, userID).First(&existing).Error
	if err == nil {
		return ErrNameTaken
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	result := repo.Db.Model(&model.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"name":            username,
			"email":           email,
			"onboarding_done": true,
		})
	if result.Error != nil {
		// unique index race on name
		return ErrNameTaken
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
