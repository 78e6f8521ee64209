package models

// EmailTemplate holds a mail subject/body pair with {{variable}} placeholders.
type EmailTemplate struct {
	Key     string `gorm:"primaryKey" json:"key"`
	Subject string `gorm:"not null" json:"subject"`
	Body    string `gorm:"not null" json:"body"`
}
