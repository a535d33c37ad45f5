package database

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/papochat/papo/internal/models"
)

func (d *Database) CreateRoom(room *models.Room) error {
	if room.CreatedAt.IsZero() {
		room.CreatedAt = time.Now().UTC()
	}
	if err := d.db.Create(room).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
			return ErrRoomExists
		}
		return err
	}
	return nil
}

func (d *Database) GetRoom(id uint) (*models.Room, error) {
	var room models.Room
	if err := d.db.First(&room, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (d *Database) GetRoomByName(name string) (*models.Room, error) {
	var room models.Room
	if err := d.db.Where("name = ?", name).First(&room).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (d *Database) RoomExists(id uint) (bool, error) {
	var count int64
	err := d.db.Model(&models.Room{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

// GetUserRooms lists the rooms a user belongs to, ordered by name.
func (d *Database) GetUserRooms(userID uint) ([]models.Room, error) {
	var rooms []models.Room
	err := d.db.
		Joins("JOIN room_members rm ON rm.room_id = rooms.id").
		Where("rm.user_id = ?", userID).
		Order("rooms.name").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

// AddUserToRoom creates the membership row; joining a room twice is a no-op.
func (d *Database) AddUserToRoom(userID, roomID uint) error {
	member := models.RoomMember{UserID: userID, RoomID: roomID}
	return d.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&member).Error
}

func (d *Database) RemoveUserFromRoom(userID, roomID uint) error {
	return d.db.
		Where("user_id = ? AND room_id = ?", userID, roomID).
		Delete(&models.RoomMember{}).Error
}

func (d *Database) IsMember(userID, roomID uint) (bool, error) {
	var count int64
	err := d.db.Model(&models.RoomMember{}).
		Where("user_id = ? AND room_id = ?", userID, roomID).
		Count(&count).Error
	return count > 0, err
}
