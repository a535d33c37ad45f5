package database

import (
	"time"

	"github.com/papochat/papo/internal/models"
)

// historyLimit caps every conversation history query.
const historyLimit = 300

func (d *Database) SaveMessage(message *models.Message) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now().UTC()
	}
	return d.db.Create(message).Error
}

// GetMessage returns a single message with its sender loaded, for building
// the broadcast payload after a write.
func (d *Database) GetMessage(id uint) (*models.Message, error) {
	var message models.Message
	if err := d.db.Preload("Sender").First(&message, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &message, nil
}

// RoomHistory returns the most recent room messages, ascending by id.
func (d *Database) RoomHistory(roomID uint) ([]models.Message, error) {
	var messages []models.Message
	err := d.db.
		Where("type = ? AND room_id = ?", models.MessageTypeRoom, roomID).
		Order("id DESC").
		Limit(historyLimit).
		Preload("Sender").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	reverse(messages)
	return messages, nil
}

// DMHistory returns the most recent messages between two users, ascending by
// id. The pair is symmetric: both directions are included.
func (d *Database) DMHistory(a, b uint) ([]models.Message, error) {
	var messages []models.Message
	err := d.db.
		Where("type = ?", models.MessageTypeDM).
		Where("(sender_id = ? AND recipient_id = ?) OR (sender_id = ? AND recipient_id = ?)", a, b, b, a).
		Order("id DESC").
		Limit(historyLimit).
		Preload("Sender").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	reverse(messages)
	return messages, nil
}

func reverse(messages []models.Message) {
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
}
