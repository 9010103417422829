package services

import (
	"fmt"
	"time"

	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"gorm.io/gorm"
)

// ListInstanceConversations returns the conversations of an instance, most
// recently updated first
func ListInstanceConversations(db *gorm.DB, instanceID string) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := db.Where("instance_id = ?", instanceID).
		Order("updated_at DESC").
		Find(&conversations).Error
	return conversations, err
}

// GetConversationByID fetches a single conversation
func GetConversationByID(db *gorm.DB, id string) (*models.Conversation, error) {
	var conv models.Conversation
	if err := db.First(&conv, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

// GetConversationMessages returns a conversation's messages in chronological order
func GetConversationMessages(db *gorm.DB, conversationID string, limit int) ([]models.Message, error) {
	query := db.Where("conversation_id = ?", conversationID).Order("created_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	var messages []models.Message
	err := query.Find(&messages).Error
	return messages, err
}

// SetConversationStatus switches a conversation between bot and human handling
func SetConversationStatus(db *gorm.DB, conv *models.Conversation, status string) error {
	if status != models.ConversationStatusBot && status != models.ConversationStatusHuman {
		return fmt.Errorf("invalid conversation status: %s", status)
	}

	updates := map[string]interface{}{"status": status}
	if status == models.ConversationStatusHuman {
		now := time.Now().UTC()
		updates["last_human_message_at"] = now
	}
	return db.Model(conv).Updates(updates).Error
}
