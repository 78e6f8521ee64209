package services

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ogcash/bankapi/models"
	"github.com/ogcash/bankapi/utils/logger"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	transferMinAmount = 1000
	transferMaxAmount = 100000
)

// TransferService manages the legacy transfer-record flow: a pending record
// is created per detected bank transfer and confirmed shortly after.
type TransferService struct {
	db      *gorm.DB
	baseURL string

	// confirmDelay drives the timer that confirms a freshly created
	// transfer without any external verification. Matches the upstream
	// behavior; swap the timer for a verification callback to harden.
	confirmDelay time.Duration
}

func NewTransferService(db *gorm.DB, baseURL string) *TransferService {
	return &TransferService{
		db:           db,
		baseURL:      baseURL,
		confirmDelay: 500 * time.Millisecond,
	}
}

// TransferLink is the result of creating a transfer record.
type TransferLink struct {
	URL      string           `json:"url"`
	Transfer *models.Transfer `json:"result"`
}

// CreateLink validates and persists a new pending transfer record.
func (t *TransferService) CreateLink(bankName, playerName string, amount int64) (*TransferLink, error) {
	if bankName == "" || playerName == "" || amount == 0 {
		return nil, validationErrorf("필수 입력값이 누락되었습니다.")
	}
	if amount < transferMinAmount || amount > transferMaxAmount {
		return nil, validationErrorf("금액은 %s원 이상 %s원 이하만 가능합니다.",
			formatAmount(transferMinAmount), formatAmount(transferMaxAmount))
	}

	bankName = strings.TrimSpace(bankName)
	supported := false
	for _, name := range SupportedBanks() {
		if name == bankName {
			supported = true
			break
		}
	}
	if !supported {
		return nil, validationErrorf("지원하지 않는 은행입니다.")
	}

	playerName = strings.TrimSpace(playerName)
	if n := utf8.RuneCountInString(playerName); n < 2 || n > 16 {
		return nil, validationErrorf("플레이어명은 2~16자여야 합니다.")
	}

	transfer := models.Transfer{
		ID:         newRecordID("TRANSFER"),
		BankName:   bankName,
		PlayerName: playerName,
		Amount:     amount,
		Status:     models.TransferPending,
	}
	if err := t.db.Create(&transfer).Error; err != nil {
		return nil, err
	}

	return &TransferLink{
		URL:      fmt.Sprintf("%s/transfer/%s", t.baseURL, transfer.ID),
		Transfer: &transfer,
	}, nil
}

// Get returns a single transfer record by ID.
func (t *TransferService) Get(id string) (*models.Transfer, error) {
	var transfer models.Transfer
	if err := t.db.First(&transfer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &transfer, nil
}

// Status looks up a transfer and checks it against the caller's view of the
// player name and amount.
func (t *TransferService) Status(playerName string, amount int64, id string) (*models.Transfer, error) {
	transfer, err := t.Get(id)
	if err != nil {
		return nil, err
	}
	if transfer.PlayerName != playerName || transfer.Amount != amount {
		return nil, validationErrorf("계좌이체 정보가 일치하지 않습니다.")
	}
	return transfer, nil
}

// Confirm marks a transfer confirmed. Confirming twice is tolerated; the
// record simply stays confirmed.
func (t *TransferService) Confirm(id string) (*models.Transfer, error) {
	transfer, err := t.Get(id)
	if err != nil {
		return nil, err
	}

	err = t.db.Model(&models.Transfer{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": models.TransferConfirmed, "confirmed": true}).Error
	if err != nil {
		return nil, err
	}
	transfer.Status = models.TransferConfirmed
	transfer.Confirmed = true
	return transfer, nil
}

// List returns all transfer records newest first.
func (t *TransferService) List() ([]models.Transfer, error) {
	var transfers []models.Transfer
	err := t.db.Order("created_at DESC").Find(&transfers).Error
	return transfers, err
}

// Process creates a transfer record and schedules its auto-confirmation
// after the fixed delay.
func (t *TransferService) Process(appName, playerName, bankName string, amount int64) bool {
	link, err := t.CreateLink(bankName, playerName, amount)
	if err != nil {
		logger.Errorf("[Transfer] link creation failed for %s: %v", appName, err)
		return false
	}

	time.AfterFunc(t.confirmDelay, func() {
		if _, err := t.Confirm(link.Transfer.ID); err != nil {
			logger.Errorf("[Transfer] auto-confirm failed for %s: %v", link.Transfer.ID, err)
		}
	})
	return true
}

// newRecordID builds IDs like TRANSFER_1700000000000_ab12cd34e.
func newRecordID(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("%s_%d_%s", prefix, time.Now().UnixMilli(), suffix)
}

// formatAmount renders an amount with thousands separators for messages.
func formatAmount(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(s) % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if b.Len() > 0 {
			b.WriteString(",")
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}
