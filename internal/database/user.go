package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/papochat/papo/internal/models"
)

func (d *Database) SaveUser(user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := d.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (d *Database) GetUser(id uint) (*models.User, error) {
	user := models.User{}
	if err := d.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (d *Database) FindUserByEmail(email string) (*models.User, error) {
	user := models.User{}
	email = strings.ToLower(strings.TrimSpace(email))
	if err := d.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (d *Database) UserExists(id uint) (bool, error) {
	var count int64
	err := d.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// isUniqueViolation covers the sqlite driver, which reports constraint
// failures as plain errors rather than gorm.ErrDuplicatedKey.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
