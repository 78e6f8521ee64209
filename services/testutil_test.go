package services

import (
	"fmt"
	"testing"

	"github.com/ogcash/bankapi/config"
	"github.com/ogcash/bankapi/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory sqlite store with the full schema. The
// pool is limited to one connection, the same way SetupDatabase opens the
// embedded store, so concurrent writers serialize instead of hitting
// SQLITE_BUSY.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap test db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := config.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// testEnv returns the default policy used across service tests.
func testEnv() *config.Env {
	return &config.Env{
		DepositDeadlineMinutes: 30,
		DepositMinAmount:       1000,
		DepositMaxAmount:       1000000,
		DepositUnitAmount:      1000,
		BankAccountBank:        "카카오뱅크",
		BankAccountNumber:      "3333-01-1234567",
		BankAccountName:        "OG스튜디오",
	}
}

// accountBalance reads the current balance for a depositor name.
func accountBalance(t *testing.T, db *gorm.DB, depositorName string) int64 {
	t.Helper()
	var account models.Account
	err := db.Where("site_id = ? AND bank_name = ?", DefaultSiteID, depositorName).
		First(&account).Error
	if err != nil {
		t.Fatalf("load account %s: %v", depositorName, err)
	}
	return account.Money
}
