package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/ogcash/bankapi/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupDatabase opens the datastore and runs migrations. With DATABASE_URL
// set it connects to Postgres; otherwise it uses the embedded sqlite file.
func SetupDatabase(env *Env) *gorm.DB {
	var dialector gorm.Dialector
	if env.DatabaseURL != "" {
		dialector = postgres.Open(env.DatabaseURL)
	} else {
		if dir := filepath.Dir(env.SQLitePath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				log.Fatalf("[FATAL] Failed to create database dir: %v", err)
			}
		}
		dialector = sqlite.Open(env.SQLitePath + "?_busy_timeout=5000")
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("[FATAL] Failed to connect to DB: %v", err)
	}

	if env.DatabaseURL == "" {
		// sqlite allows a single writer. With a larger pool two concurrent
		// credit transactions both begin deferred and one loses its lock
		// upgrade with SQLITE_BUSY; one connection serializes them instead.
		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("[FATAL] Failed to access DB pool: %v", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		log.Fatalf("[FATAL] Migration failed: %v", err)
	}

	log.Println("[DB] Database connected and migrated")
	return db
}

// Migrate creates or updates all core tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Charge{},
		&models.Transfer{},
		&models.DepositRequest{},
		&models.AppConfig{},
		&models.ConfigLog{},
		&models.EmailTemplate{},
	)
}
