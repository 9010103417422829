package services

import (
	"fmt"

	"github.com/pinottiautomacoes/n8n-bot-hub-backend/models"
	"gorm.io/gorm"
)

// CreateInstanceWithBot creates a channel instance together with its default
// bot in one transaction. Every instance owns exactly one bot.
func CreateInstanceWithBot(db *gorm.DB, instance *models.Instance, defaultDuration int) (*models.Bot, error) {
	if !models.IsValidChannel(instance.Channel) {
		return nil, fmt.Errorf("invalid channel: %s", instance.Channel)
	}

	var bot *models.Bot
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(instance).Error; err != nil {
			return err
		}

		bot = &models.Bot{
			InstanceID:             instance.ID,
			Name:                   instance.Name + " Bot",
			Enabled:                true,
			Timezone:               "UTC",
			ServiceDurationMinutes: defaultDuration,
		}
		return tx.Create(bot).Error
	})
	if err != nil {
		return nil, err
	}
	return bot, nil
}

// ListUserInstances returns the instances owned by a user, newest first
func ListUserInstances(db *gorm.DB, userID string) ([]models.Instance, error) {
	var instances []models.Instance
	err := db.Where("user_id = ?", userID).Order("created_at DESC").Find(&instances).Error
	return instances, err
}

// DeleteInstance removes an instance; associated rows go with it via cascade
func DeleteInstance(db *gorm.DB, instanceID string) error {
	return db.Delete(&models.Instance{}, "id = ?", instanceID).Error
}
