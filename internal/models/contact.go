package models

import "time"

// DmContact records that a user saved another user as a DM partner. It is
// independent of whether any messages exist between the two.
type DmContact struct {
	UserID    uint      `gorm:"primaryKey" json:"user_id"`
	OtherID   uint      `gorm:"primaryKey" json:"other_id"`
	CreatedAt time.Time `json:"created_at"`

	User  User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Other User `gorm:"foreignKey:OtherID;constraint:OnDelete:CASCADE" json:"-"`
}
