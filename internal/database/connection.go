package database

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/papochat/papo/internal/models"
)

const defaultRoomName = "Geral"

// Connect opens the sqlite database at path, runs migrations and seeds the
// default room when the rooms table is empty.
func (d *Database) Connect(path string) error {
	db, err := gorm.Open(sqlite.Open(path+"?_foreign_keys=on"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Room{},
		&models.RoomMember{},
		&models.Message{},
		&models.DmContact{},
	); err != nil {
		return err
	}

	d.db = db

	return d.seedDefaultRoom()
}

// seedDefaultRoom creates the well-known room once, only when no rooms exist
// at all.
func (d *Database) seedDefaultRoom() error {
	var count int64
	if err := d.db.Model(&models.Room{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	room := models.Room{Name: defaultRoomName, CreatedAt: time.Now().UTC()}
	return d.db.Create(&room).Error
}

// DefaultRoom returns the well-known room every user is auto-joined to.
func (d *Database) DefaultRoom() (*models.Room, error) {
	return d.GetRoomByName(defaultRoomName)
}
