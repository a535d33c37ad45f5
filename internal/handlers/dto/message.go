package dto

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/papochat/papo/internal/models"
)

var (
	ErrEmptyMessage  = errors.New("empty message")
	ErrInvalidTarget = errors.New("invalid message target")
)

// Attachment references an uploaded file.
type Attachment struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

// RoomSend and DmSend are the two valid shapes of a message:send payload.
// Each carries only the fields meaningful for its target.
type RoomSend struct {
	RoomID     uint
	Content    string
	Attachment *Attachment
}

type DmSend struct {
	ToUserID   uint
	Content    string
	Attachment *Attachment
}

// sendMessageWire is the raw payload as sent by clients.
type sendMessageWire struct {
	Type           string `json:"type"`
	RoomID         uint   `json:"roomId"`
	ToUserID       uint   `json:"toUserId"`
	Content        string `json:"content"`
	AttachmentURL  string `json:"attachmentUrl"`
	AttachmentType string `json:"attachmentType"`
}

// DecodeSendMessage decodes and validates a message:send payload into its
// tagged variant. A payload without content and without an attachment is
// rejected before anything touches storage.
func DecodeSendMessage(data []byte) (interface{}, error) {
	var wire sendMessageWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}

	content := strings.TrimSpace(wire.Content)

	var attachment *Attachment
	if wire.AttachmentURL != "" {
		attachment = &Attachment{URL: wire.AttachmentURL, Type: wire.AttachmentType}
	}

	if content == "" && attachment == nil {
		return nil, ErrEmptyMessage
	}

	switch wire.Type {
	case models.MessageTypeRoom:
		if wire.RoomID == 0 {
			return nil, ErrInvalidTarget
		}
		return RoomSend{RoomID: wire.RoomID, Content: content, Attachment: attachment}, nil
	case models.MessageTypeDM:
		if wire.ToUserID == 0 {
			return nil, ErrInvalidTarget
		}
		return DmSend{ToUserID: wire.ToUserID, Content: content, Attachment: attachment}, nil
	default:
		return nil, ErrInvalidTarget
	}
}

// LeaveRoomPayload is the room:leave payload; RoomLeftPayload echoes it back
// to the requesting connection only.
type LeaveRoomPayload struct {
	RoomID uint `json:"roomId"`
}

type RoomLeftPayload struct {
	RoomID uint `json:"roomId"`
}

// MessageResponse is the message record shape shared by history endpoints and
// the message:new broadcast.
type MessageResponse struct {
	ID             uint      `json:"id"`
	Type           string    `json:"type"`
	RoomID         *uint     `json:"room_id"`
	SenderID       uint      `json:"sender_id"`
	RecipientID    *uint     `json:"recipient_id"`
	SenderName     string    `json:"sender_name"`
	Content        string    `json:"content"`
	AttachmentURL  *string   `json:"attachment_url"`
	AttachmentType *string   `json:"attachment_type"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewMessageResponse(m *models.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		Type:           m.Type,
		RoomID:         m.RoomID,
		SenderID:       m.SenderID,
		RecipientID:    m.RecipientID,
		SenderName:     m.Sender.Name,
		Content:        m.Content,
		AttachmentURL:  m.AttachmentURL,
		AttachmentType: m.AttachmentType,
		CreatedAt:      m.CreatedAt,
	}
}

func NewMessageResponses(messages []models.Message) []MessageResponse {
	out := make([]MessageResponse, len(messages))
	for i := range messages {
		out[i] = NewMessageResponse(&messages[i])
	}
	return out
}
