package models

import "time"

const (
	MessageTypeRoom = "room"
	MessageTypeDM   = "dm"
)

// Message is either a room message (RoomID set) or a DM (RecipientID set),
// discriminated by Type. Content may be empty only when an attachment is
// present.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Type           string    `gorm:"not null;check:type IN ('room','dm')" json:"type"`
	RoomID         *uint     `json:"room_id"`
	SenderID       uint      `gorm:"not null" json:"sender_id"`
	RecipientID    *uint     `json:"recipient_id"`
	Content        string    `json:"content"`
	AttachmentURL  *string   `json:"attachment_url"`
	AttachmentType *string   `json:"attachment_type"`
	CreatedAt      time.Time `json:"created_at"`

	Sender User `gorm:"foreignKey:SenderID;constraint:OnDelete:CASCADE" json:"-"`
}
