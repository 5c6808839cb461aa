package database

import (
	"fmt"
	"log"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/tiendanova/pos-api/internal/config"
	"github.com/tiendanova/pos-api/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Info

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
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
		// Operator and catalog entities
		&entity.User{},
		&entity.Store{},
		&entity.Customer{},
		&entity.Product{},
		&entity.Inventory{},

		// Transaction entities
		&entity.RegisterSession{},
		&entity.Invoice{},
		&entity.InvoiceItem{},
		&entity.Sale{},

		// System entities
		&entity.InvoiceAuditLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

// SeedDefaultData seeds the database with a default store and the
// admin user configured via environment variables
func SeedDefaultData(db *gorm.DB) error {
	log.Println("Seeding default data...")

	// Create the default store when none exists
	var storeCount int64
	if err := db.Model(&entity.Store{}).Count(&storeCount).Error; err != nil {
		return fmt.Errorf("failed to count stores: %w", err)
	}
	if storeCount == 0 {
		store := entity.Store{Name: "Main Store"}
		if err := db.Create(&store).Error; err != nil {
			log.Printf("Warning: failed to create default store: %v", err)
		} else {
			log.Printf("Default store created: %s", store.Name)
		}
	}

	// Create the admin user if configured via environment variables
	adminUsername := viper.GetString("ADMIN_USERNAME")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	adminName := viper.GetString("ADMIN_NAME")

	if adminUsername != "" && adminPassword != "" {
		var existing entity.User
		if err := db.Where("username = ?", adminUsername).First(&existing).Error; err != nil {
			if adminName == "" {
				adminName = "Administrator"
			}
			admin := entity.User{
				Username: adminUsername,
				FullName: adminName,
				Role:     entity.RoleAdmin,
				Active:   true,
			}
			if err := admin.SetPassword(adminPassword); err != nil {
				log.Printf("Warning: failed to hash admin password: %v", err)
			} else if err := db.Create(&admin).Error; err != nil {
				log.Printf("Warning: failed to create admin user: %v", err)
			} else {
				log.Printf("Admin user created: %s", adminUsername)
			}
		} else {
			log.Printf("Admin user already exists: %s", adminUsername)
		}
	}

	return seedStarterCatalog(db)
}

// seedStarterCatalog loads a small demo catalog with stock in every
// store so a fresh install can ring up a sale immediately
func seedStarterCatalog(db *gorm.DB) error {
	var productCount int64
	if err := db.Model(&entity.Product{}).Count(&productCount).Error; err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if productCount > 0 {
		log.Println("Default data seeding completed")
		return nil
	}

	products := []entity.Product{
		{Name: "Coffee 500g", SKU: "COF-500", Price: decimal.NewFromInt(10000)},
		{Name: "Tea Box", SKU: "TEA-020", Price: decimal.NewFromInt(3500)},
		{Name: "Chocolate Cake", SKU: "CAK-001", Price: decimal.NewFromInt(5000)},
		{Name: "Cookies Pack", SKU: "COO-012", Price: decimal.NewFromInt(2500)},
	}
	for i := range products {
		if err := db.Create(&products[i]).Error; err != nil {
			log.Printf("Warning: failed to create product %s: %v", products[i].Name, err)
		}
	}

	var stores []entity.Store
	if err := db.Find(&stores).Error; err != nil {
		return fmt.Errorf("failed to list stores: %w", err)
	}
	for _, store := range stores {
		for _, product := range products {
			inventory := entity.Inventory{
				ProductID: product.ID,
				StoreID:   store.ID,
				Quantity:  50,
				MinStock:  5,
			}
			if err := db.Create(&inventory).Error; err != nil {
				log.Printf("Warning: failed to seed inventory for %s: %v", product.Name, err)
			}
		}
	}

	log.Println("Default data seeding completed")
	return nil
}
