package models

import "time"

type TransferStatus string

const (
	TransferPending   TransferStatus = "pending"
	TransferConfirmed TransferStatus = "confirmed"
)

// Transfer is a bank-notification-origin transfer record. Created in pending
// state by the transfer-link flow, flipped to confirmed exactly once.
type Transfer struct {
	ID            string         `gorm:"primaryKey" json:"id"`
	BankName      string         `gorm:"not null" json:"bankName"`
	PlayerName    string         `gorm:"not null" json:"playerName"`
	Amount        int64          `gorm:"not null" json:"amount"`
	Status        TransferStatus `gorm:"default:pending" json:"status"`
	Confirmed     bool           `gorm:"default:false" json:"confirmed"`
	DiscordUserID string         `json:"discordUserId,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}
