package models

import (
	"time"

	"gorm.io/datatypes"
)

// AppConfig is a key/value row of the policy settings store.
type AppConfig struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `gorm:"not null" json:"value"`
}

func (AppConfig) TableName() string {
	return "app_config"
}

// ConfigLog is an immutable audit entry for a config update. Changes holds a
// JSON object of field -> {from, to} for the fields that actually changed.
type ConfigLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Actor     string         `gorm:"not null" json:"actor"`
	Changes   datatypes.JSON `gorm:"not null" json:"changes"`
	CreatedAt time.Time      `json:"createdAt"`
}
