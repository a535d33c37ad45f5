package models

import "time"

type Room struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RoomMember links a user to a room. Rows are removed together with either
// parent.
type RoomMember struct {
	UserID uint `gorm:"primaryKey" json:"user_id"`
	RoomID uint `gorm:"primaryKey" json:"room_id"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Room Room `gorm:"foreignKey:RoomID;constraint:OnDelete:CASCADE" json:"-"`
}
