package services

import (
	"errors"
	"time"

	"github.com/ogcash/bankapi/models"

	"gorm.io/gorm"
)

// DepositService owns the user-facing deposit request workflow: bounded,
// unit-aligned requests that wait pending until an admin confirms them.
type DepositService struct {
	db       *gorm.DB
	cfg      *ConfigService
	deadline time.Duration
}

func NewDepositService(db *gorm.DB, cfg *ConfigService, deadlineMinutes int) *DepositService {
	return &DepositService{
		db:       db,
		cfg:      cfg,
		deadline: time.Duration(deadlineMinutes) * time.Minute,
	}
}

// CreateDepositInput is the public request payload.
type CreateDepositInput struct {
	PlayerName    string `json:"playerName"`
	DepositorName string `json:"depositorName"`
	Amount        int64  `json:"amount"`
	DiscordUserID string `json:"discordUserId"`
	MinecraftName string `json:"minecraftName"`
	Email         string `json:"email"`
}

// DepositReceipt echoes what the user needs to complete the transfer.
type DepositReceipt struct {
	RequestID         string            `json:"requestId"`
	DeadlineTimestamp int64             `json:"deadlineTimestamp"`
	Amount            int64             `json:"amount"`
	Account           SettlementAccount `json:"account"`
}

// Create validates the input against current policy and persists a pending
// request. The deadline is advisory: nothing rejects a late confirmation.
func (d *DepositService) Create(input CreateDepositInput) (*DepositReceipt, error) {
	if input.PlayerName == "" || input.DepositorName == "" || input.Amount == 0 {
		return nil, validationErrorf("필수 입력값이 누락되었습니다.")
	}

	settings, err := d.cfg.Get()
	if err != nil {
		return nil, err
	}

	if input.Amount < settings.DepositMinAmount || input.Amount > settings.DepositMaxAmount {
		return nil, validationErrorf("금액은 %s원 이상 %s원 이하만 가능합니다.",
			formatAmount(settings.DepositMinAmount), formatAmount(settings.DepositMaxAmount))
	}
	if settings.DepositUnitAmount > 0 && input.Amount%settings.DepositUnitAmount != 0 {
		return nil, validationErrorf("%s원 단위로만 충전 가능합니다.", formatAmount(settings.DepositUnitAmount))
	}

	discordUserID := input.DiscordUserID
	if discordUserID == "" {
		discordUserID = "web"
	}

	request := models.DepositRequest{
		RequestID:         newRecordID("DEPOSIT"),
		PlayerName:        input.PlayerName,
		DepositorName:     input.DepositorName,
		Amount:            input.Amount,
		DiscordUserID:     discordUserID,
		Email:             input.Email,
		MinecraftName:     input.MinecraftName,
		DeadlineTimestamp: time.Now().Add(d.deadline).UnixMilli(),
		Status:            models.DepositRequestPending,
	}
	if err := d.db.Create(&request).Error; err != nil {
		return nil, err
	}

	return &DepositReceipt{
		RequestID:         request.RequestID,
		DeadlineTimestamp: request.DeadlineTimestamp,
		Amount:            request.Amount,
		Account: SettlementAccount{
			Bank:   settings.BankAccountBank,
			Number: settings.BankAccountNumber,
			Name:   settings.BankAccountName,
		},
	}, nil
}

// Get returns a single request by ID.
func (d *DepositService) Get(id string) (*models.DepositRequest, error) {
	var request models.DepositRequest
	if err := d.db.First(&request, "request_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// List returns requests newest first, optionally filtered by status.
func (d *DepositService) List(status string) ([]models.DepositRequest, error) {
	q := d.db.Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var requests []models.DepositRequest
	err := q.Find(&requests).Error
	return requests, err
}

// PendingCount reports how many requests are still pending.
func (d *DepositService) PendingCount() (int64, error) {
	var count int64
	err := d.db.Model(&models.DepositRequest{}).
		Where("status = ?", models.DepositRequestPending).
		Count(&count).Error
	return count, err
}
