package handlers

import (
	"github.com/rs/zerolog/log"

	"github.com/papochat/papo/internal/database"
	"github.com/papochat/papo/internal/handlers/dto"
	"github.com/papochat/papo/internal/metrics"
	"github.com/papochat/papo/internal/models"
	"github.com/papochat/papo/internal/websocket"
)

// MessageHandler relays inbound realtime events to storage and re-broadcasts
// the persisted messages to the relevant groups.
type MessageHandler struct {
	db  *database.Database
	hub *websocket.Hub
}

func NewMessageHandler(db *database.Database, hub *websocket.Hub) *MessageHandler {
	return &MessageHandler{db: db, hub: hub}
}

func (h *MessageHandler) HandleEvent(client *websocket.Client, evt *websocket.Event) error {
	switch evt.Type {
	case websocket.TypeMessageSend:
		return h.handleSend(client, evt.Data)

	case websocket.TypeRoomLeave:
		return h.handleRoomLeave(client, evt.Data)

	default:
		log.Debug().Str("type", string(evt.Type)).Msg("unknown event type")
		return nil
	}
}

func (h *MessageHandler) handleSend(client *websocket.Client, data []byte) error {
	variant, err := dto.DecodeSendMessage(data)
	if err != nil {
		return err
	}

	switch v := variant.(type) {
	case dto.RoomSend:
		return h.sendToRoom(client, v)
	case dto.DmSend:
		return h.sendDM(client, v)
	default:
		return dto.ErrInvalidTarget
	}
}

func (h *MessageHandler) sendToRoom(client *websocket.Client, send dto.RoomSend) error {
	member, err := h.db.IsMember(client.Identity.ID, send.RoomID)
	if err != nil {
		return err
	}
	if !member {
		return database.ErrNotMember
	}

	message := &models.Message{
		Type:     models.MessageTypeRoom,
		RoomID:   &send.RoomID,
		SenderID: client.Identity.ID,
		Content:  send.Content,
	}
	applyAttachment(message, send.Attachment)

	if err := h.db.SaveMessage(message); err != nil {
		log.Error().Err(err).Msg("save room message")
		return err
	}
	metrics.ChatMessagesTotal.WithLabelValues(models.MessageTypeRoom).Inc()

	response := h.enrich(message, client.Identity.Name)

	h.hub.SendToRoom(send.RoomID, &websocket.Event{Type: websocket.TypeMessageNew, Data: mustJSON(response)})
	client.SendResult(websocket.Result{Ok: true, Msg: response})

	return nil
}

func (h *MessageHandler) sendDM(client *websocket.Client, send dto.DmSend) error {
	exists, err := h.db.UserExists(send.ToUserID)
	if err != nil {
		return err
	}
	if !exists {
		return database.ErrUserNotFound
	}

	message := &models.Message{
		Type:        models.MessageTypeDM,
		SenderID:    client.Identity.ID,
		RecipientID: &send.ToUserID,
		Content:     send.Content,
	}
	applyAttachment(message, send.Attachment)

	if err := h.db.SaveMessage(message); err != nil {
		log.Error().Err(err).Msg("save dm")
		return err
	}
	metrics.ChatMessagesTotal.WithLabelValues(models.MessageTypeDM).Inc()

	response := h.enrich(message, client.Identity.Name)

	// Both personal groups get the record, so every active session of the
	// sender sees its own echo.
	evt := &websocket.Event{Type: websocket.TypeMessageNew, Data: mustJSON(response)}
	h.hub.SendToUser(client.Identity.ID, evt)
	if send.ToUserID != client.Identity.ID {
		h.hub.SendToUser(send.ToUserID, evt)
	}
	client.SendResult(websocket.Result{Ok: true, Msg: response})

	return nil
}

// handleRoomLeave removes the membership row account-wide but unsubscribes
// only this connection from the room group.
func (h *MessageHandler) handleRoomLeave(client *websocket.Client, data []byte) error {
	var payload dto.LeaveRoomPayload
	if err := decodeJSON(data, &payload); err != nil || payload.RoomID == 0 {
		return websocket.ErrInvalidEvent
	}

	exists, err := h.db.RoomExists(payload.RoomID)
	if err != nil {
		return err
	}
	if !exists {
		return database.ErrRoomNotFound
	}

	if err := h.db.RemoveUserFromRoom(client.Identity.ID, payload.RoomID); err != nil {
		return err
	}

	h.hub.UnsubscribeRoom(client, payload.RoomID)

	client.SendEvent(websocket.TypeRoomLeft, dto.RoomLeftPayload{RoomID: payload.RoomID})
	client.SendResult(websocket.Result{Ok: true})

	return nil
}

// enrich re-fetches the persisted row for the broadcast payload. When the
// re-fetch misses the fresh row, a minimal record built from locally known
// fields goes out instead, so the caller always receives a well-formed
// message.
func (h *MessageHandler) enrich(message *models.Message, senderName string) dto.MessageResponse {
	full, err := h.db.GetMessage(message.ID)
	if err == nil {
		return dto.NewMessageResponse(full)
	}
	log.Warn().Err(err).Uint("message", message.ID).Msg("re-fetch after write missed, using local record")

	response := dto.NewMessageResponse(message)
	response.SenderName = senderName
	return response
}

func applyAttachment(message *models.Message, attachment *dto.Attachment) {
	if attachment == nil {
		return
	}
	message.AttachmentURL = &attachment.URL
	if attachment.Type != "" {
		message.AttachmentType = &attachment.Type
	}
}
