package models

import "time"

// Account is keyed by (site_id, bank_name) where bank_name is the free-text
// depositor name taken from a bank notification or a deposit request.
// Balances are integer won.
type Account struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SiteID     string    `gorm:"not null;uniqueIndex:idx_site_depositor" json:"siteId"`
	BankName   string    `gorm:"not null;uniqueIndex:idx_site_depositor" json:"bankName"`
	PlayerName string    `gorm:"not null" json:"playerName"`
	Money      int64     `gorm:"default:0" json:"money"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Account) TableName() string {
	return "users"
}
