package database

import (
	"time"

	"gorm.io/gorm/clause"

	"github.com/papochat/papo/internal/models"
)

// AddDmContact saves a DM partner; saving the same partner twice is a no-op.
func (d *Database) AddDmContact(userID, otherID uint) error {
	contact := models.DmContact{UserID: userID, OtherID: otherID, CreatedAt: time.Now().UTC()}
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&contact).Error
}

func (d *Database) RemoveDmContact(userID, otherID uint) error {
	return d.db.
		Where("user_id = ? AND other_id = ?", userID, otherID).
		Delete(&models.DmContact{}).Error
}

// ListDmContacts returns the saved partners of a user, ordered by name.
func (d *Database) ListDmContacts(userID uint) ([]models.User, error) {
	var users []models.User
	err := d.db.Model(&models.User{}).
		Joins("JOIN dm_contacts dc ON dc.other_id = users.id").
		Where("dc.user_id = ?", userID).
		Order("users.name").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
