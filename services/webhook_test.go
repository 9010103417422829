package services

import (
	"testing"

	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"github.com/stretchr/testify/assert"
)

const samplePayload = `{
	"instance": "clinic-main",
	"data": {
		"key": {
			"remoteJid": "5511999990000@s.whatsapp.net",
			"fromMe": false,
			"id": "MSG123"
		},
		"message": {"conversation": "Oi, quero marcar uma consulta"},
		"messageType": "conversation"
	}
}`

func TestNormalizeWhatsAppPayload(t *testing.T) {
	t.Run("Valid payload", func(t *testing.T) {
		incoming, err := NormalizeWhatsAppPayload([]byte(samplePayload))
		assert.NoError(t, err)
		assert.Equal(t, "clinic-main", incoming.InstanceName)
		assert.Equal(t, "5511999990000", incoming.ContactExternalID)
		assert.Equal(t, "Oi, quero marcar uma consulta", incoming.Content)
		assert.Equal(t, "MSG123", incoming.ExternalMessageID)
		assert.False(t, incoming.FromMe)
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		_, err := NormalizeWhatsAppPayload([]byte("{not json"))
		assert.Error(t, err)
	})

	t.Run("Missing sender", func(t *testing.T) {
		_, err := NormalizeWhatsAppPayload([]byte(`{"instance": "x", "data": {}}`))
		assert.Error(t, err)
	})
}

func TestProcessIncomingMessage(t *testing.T) {
	db := setupTestDB(t)
	bot := seedBot(t, db, "UTC")

	var instance models.Instance
	assert.NoError(t, db.First(&instance, "id = ?", bot.InstanceID).Error)

	incoming := &IncomingMessage{
		InstanceName:      "clinic-main",
		ContactExternalID: "5511999990000",
		Content:           "Oi",
		MessageType:       "conversation",
		ExternalMessageID: "MSG1",
	}

	t.Run("First message creates contact and conversation", func(t *testing.T) {
		processed, err := ProcessIncomingMessage(db, &instance, incoming)
		assert.NoError(t, err)
		assert.True(t, processed.ForwardToBot)
		assert.Equal(t, models.SenderUser, processed.Message.Sender)
		assert.Equal(t, models.ConversationStatusBot, processed.Conversation.Status)
		assert.Equal(t, "5511999990000", processed.Contact.Phone)
	})

	t.Run("Repeat message reuses contact and conversation", func(t *testing.T) {
		processed, err := ProcessIncomingMessage(db, &instance, incoming)
		assert.NoError(t, err)

		var contactCount, convCount int64
		db.Model(&models.Contact{}).Where("bot_id = ?", bot.ID).Count(&contactCount)
		db.Model(&models.Conversation{}).Where("instance_id = ?", instance.ID).Count(&convCount)
		assert.Equal(t, int64(1), contactCount)
		assert.Equal(t, int64(1), convCount)
		assert.True(t, processed.ForwardToBot)
	})

	t.Run("Business-side message hands off to human", func(t *testing.T) {
		fromMe := &IncomingMessage{
			InstanceName:      "clinic-main",
			ContactExternalID: "5511999990000",
			Content:           "I will take it from here",
			MessageType:       "conversation",
			FromMe:            true,
		}
		processed, err := ProcessIncomingMessage(db, &instance, fromMe)
		assert.NoError(t, err)
		assert.False(t, processed.ForwardToBot)
		assert.Equal(t, models.SenderHuman, processed.Message.Sender)
		assert.Equal(t, models.ConversationStatusHuman, processed.Conversation.Status)
		assert.NotNil(t, processed.Conversation.LastHumanMessageAt)
	})

	t.Run("Contact messages are stored but not forwarded while human", func(t *testing.T) {
		processed, err := ProcessIncomingMessage(db, &instance, incoming)
		assert.NoError(t, err)
		assert.False(t, processed.ForwardToBot)
		assert.Equal(t, models.SenderUser, processed.Message.Sender)
	})

	t.Run("Handing back to bot resumes forwarding", func(t *testing.T) {
		var existing models.Conversation
		assert.NoError(t, db.Where("instance_id = ?", instance.ID).First(&existing).Error)
		assert.NoError(t, SetConversationStatus(db, &existing, models.ConversationStatusBot))

		processed, err := ProcessIncomingMessage(db, &instance, incoming)
		assert.NoError(t, err)
		assert.True(t, processed.ForwardToBot)
	})
}

func TestSetConversationStatusValidation(t *testing.T) {
	db := setupTestDB(t)
	bot := seedBot(t, db, "UTC")
	contact := seedContact(t, db, bot.ID)

	conv, err := GetOrCreateConversation(db, bot.InstanceID, contact.ID)
	assert.NoError(t, err)

	assert.Error(t, SetConversationStatus(db, conv, "robot"))
	assert.NoError(t, SetConversationStatus(db, conv, models.ConversationStatusHuman))
}
