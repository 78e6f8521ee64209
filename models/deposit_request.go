package models

import "time"

type DepositRequestStatus string

const (
	DepositRequestPending   DepositRequestStatus = "pending"
	DepositRequestConfirmed DepositRequestStatus = "confirmed"
)

// DepositRequest is a user-initiated charge request awaiting admin
// confirmation. Status moves pending -> confirmed once, never back.
type DepositRequest struct {
	RequestID         string               `gorm:"primaryKey;column:request_id" json:"requestId"`
	PlayerName        string               `gorm:"not null" json:"playerName"`
	DepositorName     string               `gorm:"not null" json:"depositorName"`
	Amount            int64                `gorm:"not null" json:"amount"`
	DiscordUserID     string               `gorm:"not null" json:"discordUserId"`
	Email             string               `json:"email,omitempty"`
	MinecraftName     string               `json:"minecraftName,omitempty"`
	DeadlineTimestamp int64                `gorm:"not null" json:"deadlineTimestamp"`
	Status            DepositRequestStatus `gorm:"default:pending" json:"status"`
	CreatedAt         time.Time            `json:"createdAt"`
}
