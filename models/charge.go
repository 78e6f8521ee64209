package models

import "time"

// Charge method values.
const (
	ChargeMethodWeb          = "WEB"
	ChargeMethodNotification = "notification"
)

// Charge is an append-only crediting history record.
type Charge struct {
	ID         string    `gorm:"primaryKey" json:"id"`
	PlayerName string    `gorm:"not null" json:"playerName"`
	Amount     int64     `gorm:"not null" json:"amount"`
	Method     string    `gorm:"not null" json:"method"`
	Timestamp  time.Time `gorm:"autoCreateTime" json:"timestamp"`
}
