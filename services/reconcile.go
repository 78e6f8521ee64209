package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/ogcash/bankapi/metrics"
	"github.com/ogcash/bankapi/models"
	"github.com/ogcash/bankapi/utils/logger"

	"gorm.io/gorm"
)

// DefaultSiteID scopes every account this single-institution deployment
// touches.
const DefaultSiteID = "site_id_default"

// Reconciler is the single choke point for crediting account balances. Both
// the stream listener (auto-detected transfers) and the admin confirm path go
// through it; nothing else mutates balances.
type Reconciler struct {
	db        *gorm.DB
	transfers *TransferService
	mailer    *MailNotifier
	cfg       *ConfigService
	metrics   *metrics.Metrics
}

func NewReconciler(db *gorm.DB, transfers *TransferService, mailer *MailNotifier, cfg *ConfigService, m *metrics.Metrics) *Reconciler {
	return &Reconciler{db: db, transfers: transfers, mailer: mailer, cfg: cfg, metrics: m}
}

// ensureAccount returns the account for (siteID, depositorName), creating it
// with a zero balance on first reference.
func ensureAccount(tx *gorm.DB, siteID, depositorName, playerName string) (*models.Account, error) {
	if playerName == "" {
		playerName = depositorName
	}
	var account models.Account
	err := tx.Where(models.Account{SiteID: siteID, BankName: depositorName}).
		Attrs(models.Account{PlayerName: playerName}).
		FirstOrCreate(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// credit applies a serialized read-modify-write to the account balance and
// appends the charge-history record. Must run inside tx.
func credit(tx *gorm.DB, account *models.Account, amount int64, method string) (int64, error) {
	err := tx.Model(&models.Account{}).
		Where("site_id = ? AND bank_name = ?", account.SiteID, account.BankName).
		UpdateColumn("money", gorm.Expr("money + ?", amount)).Error
	if err != nil {
		return 0, err
	}

	var updated models.Account
	if err := tx.Where("site_id = ? AND bank_name = ?", account.SiteID, account.BankName).
		First(&updated).Error; err != nil {
		return 0, err
	}

	charge := models.Charge{
		ID:         newRecordID("CHARGE"),
		PlayerName: account.PlayerName,
		Amount:     amount,
		Method:     method,
	}
	if err := tx.Create(&charge).Error; err != nil {
		return 0, err
	}
	return updated.Money, nil
}

// CreditFromNotification credits the depositor's account for a parsed bank
// notification and kicks off the transfer-record flow. No dedup guard exists:
// two identical notifications credit twice.
func (r *Reconciler) CreditFromNotification(depositorName string, amount int64, sourceApp string) error {
	var newBalance int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		account, err := ensureAccount(tx, DefaultSiteID, depositorName, depositorName)
		if err != nil {
			return err
		}
		newBalance, err = credit(tx, account, amount, models.ChargeMethodNotification)
		return err
	})
	if err != nil {
		return err
	}

	if r.metrics != nil {
		r.metrics.CreditedAmountTotal.WithLabelValues(models.ChargeMethodNotification).Add(float64(amount))
	}
	logger.Infof("[Reconcile] credited %d to %s (balance %d)", amount, depositorName, newBalance)

	bankLabel := BankLabel(sourceApp, depositorName)
	r.transfers.Process(sourceApp, depositorName, bankLabel, amount)
	return nil
}

// ConfirmResult is returned from a successful deposit-request confirmation.
type ConfirmResult struct {
	RequestID  string `json:"requestId"`
	PlayerName string `json:"playerName"`
	Amount     int64  `json:"amount"`
	NewBalance int64  `json:"newBalance"`
}

// ConfirmDepositRequest flips a pending request to confirmed and credits the
// depositor's account by the requested amount. The status flip is the
// at-most-once gate: a request that already left pending fails with
// ErrAlreadyProcessed and changes nothing, even under concurrent confirms.
func (r *Reconciler) ConfirmDepositRequest(requestID string) (*ConfirmResult, error) {
	var result ConfirmResult
	var request models.DepositRequest

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&request, "request_id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		res := tx.Model(&models.DepositRequest{}).
			Where("request_id = ? AND status = ?", requestID, models.DepositRequestPending).
			Update("status", models.DepositRequestConfirmed)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrAlreadyProcessed
		}

		account, err := ensureAccount(tx, DefaultSiteID, request.DepositorName, request.PlayerName)
		if err != nil {
			return err
		}
		newBalance, err := credit(tx, account, request.Amount, models.ChargeMethodWeb)
		if err != nil {
			return err
		}

		result = ConfirmResult{
			RequestID:  requestID,
			PlayerName: request.PlayerName,
			Amount:     request.Amount,
			NewBalance: newBalance,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if r.metrics != nil {
		r.metrics.CreditedAmountTotal.WithLabelValues(models.ChargeMethodWeb).Add(float64(result.Amount))
	}
	r.notifyConfirmed(&request, &result)
	return &result, nil
}

// notifyConfirmed sends the charge-completed mail in the background when the
// request carries an email.
func (r *Reconciler) notifyConfirmed(request *models.DepositRequest, result *ConfirmResult) {
	if request.Email == "" || r.mailer == nil {
		return
	}

	account := ""
	if settings, err := r.cfg.Get(); err == nil {
		account = fmt.Sprintf("%s %s (%s)", settings.BankAccountBank, settings.BankAccountNumber, settings.BankAccountName)
	}

	vars := map[string]string{
		"name":      request.PlayerName,
		"requestId": result.RequestID,
		"amount":    formatAmount(result.Amount),
		"status":    string(models.DepositRequestConfirmed),
		"account":   account,
		"date":      time.Now().Format(time.RFC3339),
	}
	go func() {
		if err := r.mailer.Send(request.Email, "charge_completed", vars); err != nil {
			logger.Errorf("[Mail] charge_completed notify failed: %v", err)
		}
	}()
}

// Charges returns charge-history records, optionally filtered.
func (r *Reconciler) Charges(playerName, method string) ([]models.Charge, error) {
	q := r.db.Order("timestamp DESC")
	if playerName != "" {
		q = q.Where("player_name = ?", playerName)
	}
	if method != "" {
		q = q.Where("method = ?", method)
	}
	var charges []models.Charge
	err := q.Find(&charges).Error
	return charges, err
}

// Accounts returns all accounts newest first.
func (r *Reconciler) Accounts() ([]models.Account, error) {
	var accounts []models.Account
	err := r.db.Order("created_at DESC").Find(&accounts).Error
	return accounts, err
}
