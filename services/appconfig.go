package services

import (
	"encoding/json"
	"strconv"

	"github.com/ogcash/bankapi/config"
	"github.com/ogcash/bankapi/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Settings is the current deposit policy plus the settlement account shown to
// users as the deposit destination.
type Settings struct {
	DepositMinAmount  int64  `json:"depositMinAmount"`
	DepositMaxAmount  int64  `json:"depositMaxAmount"`
	DepositUnitAmount int64  `json:"depositUnitAmount"`
	BankAccountBank   string `json:"bankAccountBank"`
	BankAccountNumber string `json:"bankAccountNumber"`
	BankAccountName   string `json:"bankAccountName"`
}

// SettlementAccount is the subset of Settings echoed on deposit requests.
type SettlementAccount struct {
	Bank   string `json:"bank"`
	Number string `json:"number"`
	Name   string `json:"name"`
}

// FieldChange records one audited before/after value pair.
type FieldChange struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ConfigService persists policy settings in the app_config key/value table
// and appends an audit entry for every effective change.
type ConfigService struct {
	db       *gorm.DB
	defaults Settings
}

func NewConfigService(db *gorm.DB, env *config.Env) *ConfigService {
	return &ConfigService{
		db: db,
		defaults: Settings{
			DepositMinAmount:  env.DepositMinAmount,
			DepositMaxAmount:  env.DepositMaxAmount,
			DepositUnitAmount: env.DepositUnitAmount,
			BankAccountBank:   env.BankAccountBank,
			BankAccountNumber: env.BankAccountNumber,
			BankAccountName:   env.BankAccountName,
		},
	}
}

func (s Settings) toMap() map[string]string {
	return map[string]string{
		"depositMinAmount":  strconv.FormatInt(s.DepositMinAmount, 10),
		"depositMaxAmount":  strconv.FormatInt(s.DepositMaxAmount, 10),
		"depositUnitAmount": strconv.FormatInt(s.DepositUnitAmount, 10),
		"bankAccountBank":   s.BankAccountBank,
		"bankAccountNumber": s.BankAccountNumber,
		"bankAccountName":   s.BankAccountName,
	}
}

func settingsFromMap(m map[string]string) Settings {
	atoi := func(key string) int64 {
		n, _ := strconv.ParseInt(m[key], 10, 64)
		return n
	}
	return Settings{
		DepositMinAmount:  atoi("depositMinAmount"),
		DepositMaxAmount:  atoi("depositMaxAmount"),
		DepositUnitAmount: atoi("depositUnitAmount"),
		BankAccountBank:   m["bankAccountBank"],
		BankAccountNumber: m["bankAccountNumber"],
		BankAccountName:   m["bankAccountName"],
	}
}

// EnsureDefaults seeds any missing config keys with their defaults.
func (c *ConfigService) EnsureDefaults() error {
	for key, value := range c.defaults.toMap() {
		row := models.AppConfig{Key: key, Value: value}
		if err := c.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// Get returns the current settings, falling back to defaults for unset keys.
func (c *ConfigService) Get() (Settings, error) {
	var rows []models.AppConfig
	if err := c.db.Find(&rows).Error; err != nil {
		return Settings{}, err
	}
	merged := c.defaults.toMap()
	for _, row := range rows {
		merged[row.Key] = row.Value
	}
	return settingsFromMap(merged), nil
}

// Update validates and persists new settings, then writes an audit entry
// holding only the fields whose values actually changed.
func (c *ConfigService) Update(actor string, next Settings) (Settings, error) {
	if next.DepositMinAmount < 0 || next.DepositMaxAmount < next.DepositMinAmount {
		return Settings{}, validationErrorf("금액 범위가 올바르지 않습니다.")
	}
	if next.DepositUnitAmount <= 0 {
		return Settings{}, validationErrorf("단위 금액이 올바르지 않습니다.")
	}

	before, err := c.Get()
	if err != nil {
		return Settings{}, err
	}

	err = c.db.Transaction(func(tx *gorm.DB) error {
		for key, value := range next.toMap() {
			row := models.AppConfig{Key: key, Value: value}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"value"}),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		return c.writeAuditLog(tx, actor, before, next)
	})
	if err != nil {
		return Settings{}, err
	}
	return c.Get()
}

func (c *ConfigService) writeAuditLog(tx *gorm.DB, actor string, before, after Settings) error {
	beforeMap, afterMap := before.toMap(), after.toMap()
	changes := make(map[string]FieldChange)
	for key, to := range afterMap {
		if from := beforeMap[key]; from != to {
			changes[key] = FieldChange{From: from, To: to}
		}
	}
	if len(changes) == 0 {
		return nil
	}

	payload, err := json.Marshal(changes)
	if err != nil {
		return err
	}
	if actor == "" {
		actor = "unknown"
	}
	return tx.Create(&models.ConfigLog{Actor: actor, Changes: payload}).Error
}

// Logs returns audit entries newest first. Limit defaults to 50, capped at 200.
func (c *ConfigService) Logs(limit int) ([]models.ConfigLog, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	var logs []models.ConfigLog
	err := c.db.Order("created_at DESC, id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}
