package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"gorm.io/gorm"
)

// IncomingMessage is a channel-agnostic view of an inbound webhook event
type IncomingMessage struct {
	InstanceName      string
	ContactExternalID string
	Content           string
	MessageType       string
	ExternalMessageID string
	FromMe            bool
}

// evolutionPayload mirrors the subset of the Evolution API webhook body we read
type evolutionPayload struct {
	Instance string `json:"instance"`
	Data     struct {
		Key struct {
			RemoteJid string `json:"remoteJid"`
			FromMe    bool   `json:"fromMe"`
			ID        string `json:"id"`
		} `json:"key"`
		Message struct {
			Conversation string `json:"conversation"`
		} `json:"message"`
		MessageType string `json:"messageType"`
	} `json:"data"`
}

// NormalizeWhatsAppPayload extracts the fields we care about from an Evolution
// API webhook body
func NormalizeWhatsAppPayload(body []byte) (*IncomingMessage, error) {
	var payload evolutionPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse webhook payload: %w", err)
	}

	if payload.Instance == "" || payload.Data.Key.RemoteJid == "" {
		return nil, errors.New("webhook payload missing instance or sender")
	}

	msgType := payload.Data.MessageType
	if msgType == "" {
		msgType = "text"
	}

	// remoteJid carries the channel suffix, e.g. 5511999999999@s.whatsapp.net
	phone := strings.SplitN(payload.Data.Key.RemoteJid, "@", 2)[0]

	return &IncomingMessage{
		InstanceName:      payload.Instance,
		ContactExternalID: phone,
		Content:           payload.Data.Message.Conversation,
		MessageType:       msgType,
		ExternalMessageID: payload.Data.Key.ID,
		FromMe:            payload.Data.Key.FromMe,
	}, nil
}

// GetInstanceByExternalID finds the active instance registered under an external
// channel identifier
func GetInstanceByExternalID(db *gorm.DB, externalID string) (*models.Instance, error) {
	var instance models.Instance
	err := db.Where("external_instance_id = ? AND active = ?", externalID, true).First(&instance).Error
	if err != nil {
		return nil, err
	}
	return &instance, nil
}

// GetOrCreateContact finds the contact for a bot by external phone id, creating
// it on first contact
func GetOrCreateContact(db *gorm.DB, botID, phone, name string) (*models.Contact, error) {
	var contact models.Contact
	err := db.Where("bot_id = ? AND phone = ?", botID, phone).First(&contact).Error
	if err == nil {
		return &contact, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	contact = models.Contact{BotID: botID, Phone: phone, Name: name}
	if err := db.Create(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// GetOrCreateConversation finds the conversation between an instance and a
// contact, creating it in bot mode when absent
func GetOrCreateConversation(db *gorm.DB, instanceID, contactID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := db.Where("instance_id = ? AND contact_id = ?", instanceID, contactID).First(&conv).Error
	if err == nil {
		return &conv, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	conv = models.Conversation{
		InstanceID: instanceID,
		ContactID:  contactID,
		Status:     models.ConversationStatusBot,
	}
	if err := db.Create(&conv).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// ProcessedMessage is the outcome of handling one inbound webhook event
type ProcessedMessage struct {
	Message      *models.Message
	Conversation *models.Conversation
	Contact      *models.Contact
	ForwardToBot bool
}

// ProcessIncomingMessage persists an inbound message and applies the human
// handoff rules. A message sent from the business side switches the conversation
// to human mode; while a conversation is in human mode, contact messages are
// stored but not forwarded to the bot.
func ProcessIncomingMessage(db *gorm.DB, instance *models.Instance, incoming *IncomingMessage) (*ProcessedMessage, error) {
	var bot models.Bot
	if err := db.Where("instance_id = ?", instance.ID).First(&bot).Error; err != nil {
		return nil, fmt.Errorf("no bot configured for instance %s: %w", instance.ID, err)
	}

	contact, err := GetOrCreateContact(db, bot.ID, incoming.ContactExternalID, "")
	if err != nil {
		return nil, err
	}

	conv, err := GetOrCreateConversation(db, instance.ID, contact.ID)
	if err != nil {
		return nil, err
	}

	sender := models.SenderUser
	if incoming.FromMe {
		sender = models.SenderHuman
		now := time.Now().UTC()
		conv.Status = models.ConversationStatusHuman
		conv.LastHumanMessageAt = &now
		if err := db.Model(conv).Updates(map[string]interface{}{
			"status":                conv.Status,
			"last_human_message_at": conv.LastHumanMessageAt,
		}).Error; err != nil {
			return nil, err
		}
	}

	message := &models.Message{
		ConversationID:    conv.ID,
		Sender:            sender,
		MessageType:       incoming.MessageType,
		Content:           incoming.Content,
		ExternalMessageID: incoming.ExternalMessageID,
	}
	if err := db.Create(message).Error; err != nil {
		return nil, err
	}

	forward := !incoming.FromMe && conv.Status == models.ConversationStatusBot

	return &ProcessedMessage{
		Message:      message,
		Conversation: conv,
		Contact:      contact,
		ForwardToBot: forward,
	}, nil
}

var n8nHTTPClient = &http.Client{Timeout: 10 * time.Second}

// ForwardToN8n posts a processed message to the n8n workflow webhook. Errors are
// logged, not returned; delivery to the bot pipeline is best effort.
func ForwardToN8n(webhookURL string, instance *models.Instance, processed *ProcessedMessage) {
	if webhookURL == "" {
		return
	}

	payload := map[string]interface{}{
		"instance_id":     instance.ID,
		"channel":         instance.Channel,
		"conversation_id": processed.Conversation.ID,
		"contact_id":      processed.Contact.ID,
		"contact_phone":   processed.Contact.Phone,
		"message_type":    processed.Message.MessageType,
		"content":         processed.Message.Content,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("[ERROR] Failed to encode n8n payload: %v", err)
		return
	}

	resp, err := n8nHTTPClient.Post(webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		log.Printf("[ERROR] Failed to forward message to n8n: %v", err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		log.Printf("[WARNING] n8n webhook returned status %d", resp.StatusCode)
	}
}

// SendOutgoingMessage records a bot reply and delivers it through the Evolution
// API when configured
func SendOutgoingMessage(db *gorm.DB, apiURL, apiKey string, conv *models.Conversation, content string) (*models.Message, error) {
	message := &models.Message{
		ConversationID: conv.ID,
		Sender:         models.SenderBot,
		MessageType:    "text",
		Content:        content,
	}
	if err := db.Create(message).Error; err != nil {
		return nil, err
	}

	if apiURL == "" {
		log.Printf("[WARNING] Evolution API not configured, outgoing message %s stored only", message.ID)
		return message, nil
	}

	var instance models.Instance
	if err := db.First(&instance, "id = ?", conv.InstanceID).Error; err != nil {
		return nil, err
	}

	var contact models.Contact
	if err := db.First(&contact, "id = ?", conv.ContactID).Error; err != nil {
		return nil, err
	}

	payload := map[string]interface{}{
		"number": contact.Phone,
		"text":   content,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/message/sendText/%s", strings.TrimRight(apiURL, "/"), instance.ExternalInstanceID)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", apiKey)

	resp, err := n8nHTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to deliver outgoing message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("message delivery failed with status %d", resp.StatusCode)
	}
	return message, nil
}
