package database

import (
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dukapoint/cloudsales-api/internal/config"
	"github.com/dukapoint/cloudsales-api/internal/domain/entity"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&entity.Store{},
		&entity.User{},
		&entity.Customer{},
		&entity.Product{},
		&entity.Inventory{},
		&entity.Sale{},
		&entity.SaleItem{},
		&entity.Payment{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed")
	return nil
}

// SeedDefaultData creates the default store and admin user when the database is empty
func SeedDefaultData(db *gorm.DB) error {
	var storeCount int64
	if err := db.Model(&entity.Store{}).Count(&storeCount).Error; err != nil {
		return err
	}
	if storeCount > 0 {
		return nil
	}

	store := &entity.Store{
		Name:     "Main Store",
		Location: "Nairobi",
	}
	if err := db.Create(store).Error; err != nil {
		return fmt.Errorf("failed to seed default store: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := &entity.User{
		Username:     "admin",
		Email:        "admin@example.com",
		PasswordHash: string(hash),
		FirstName:    "System",
		LastName:     "Admin",
		Role:         "admin",
		StoreID:      &store.ID,
		IsActive:     true,
	}
	if err := db.Create(admin).Error; err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	log.Println("Seeded default store and admin user")
	return nil
}
