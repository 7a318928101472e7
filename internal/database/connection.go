// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gharkhoj/gharkhoj-backend/internal/config"
	"github.com/gharkhoj/gharkhoj-backend/internal/models"
	"github.com/gharkhoj/gharkhoj-backend/internal/utils"
)

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return db, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	err := db.AutoMigrate(
		&models.User{},
		&models.Locality{},
		&models.Property{},
		&models.PropertyImage{},
		&models.EnquiryLog{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_role_approved ON users(role, is_approved)",

		// Property indexes: visibility pair drives every public query
		"CREATE INDEX IF NOT EXISTS idx_properties_visibility ON properties(is_approved, status)",
		"CREATE INDEX IF NOT EXISTS idx_properties_locality ON properties(locality_id)",
		"CREATE INDEX IF NOT EXISTS idx_properties_price ON properties(price)",
		"CREATE INDEX IF NOT EXISTS idx_properties_created_at ON properties(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_properties_views ON properties(views_count DESC)",
		"CREATE INDEX IF NOT EXISTS idx_properties_user ON properties(user_id)",

		// Image ordering within a listing
		"CREATE INDEX IF NOT EXISTS idx_property_images_order ON property_images(property_id, sort_order)",

		// Enquiry aggregation
		"CREATE INDEX IF NOT EXISTS idx_enquiry_logs_property_action ON enquiry_logs(property_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_enquiry_logs_created ON enquiry_logs(created_at DESC)",

		// Free-text search over title/address/description
		"CREATE INDEX IF NOT EXISTS idx_properties_search ON properties USING GIN(to_tsvector('english', title || ' ' || coalesce(address, '') || ' ' || coalesce(description, '')))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	// Create default admin user
	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.UserRoleAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Name:       "Site Admin",
			Email:      "admin@gharkhoj.in",
			Phone:      "9999999999",
			Role:       models.UserRoleAdmin,
			IsApproved: true,
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default admin user created successfully")
	}

	// Seed Mumbai localities zone by zone. A slice keeps insertion order
	// stable across boots, which fixes the zone ordering on directory
	// surfaces.
	seedLocalities := []struct {
		zone  string
		names []string
	}{
		{"South Mumbai", []string{"Worli", "Colaba", "Lower Parel", "Malabar Hill"}},
		{"Western Suburbs", []string{"Andheri", "Bandra", "Juhu", "Goregaon", "Borivali"}},
		{"Central Mumbai", []string{"Dadar", "Sion", "Kurla", "Chembur"}},
		{"Navi Mumbai", []string{"Vashi", "Kharghar", "Panvel"}},
		{"Thane", []string{"Thane West", "Mulund", "Ghodbunder Road"}},
	}

	for _, group := range seedLocalities {
		zone := group.zone
		for _, name := range group.names {
			slug := utils.Slugify(name + "-" + zone)
			var count int64
			db.Model(&models.Locality{}).Where("slug = ?", slug).Count(&count)
			if count == 0 {
				loc := &models.Locality{Name: name, Zone: zone, Slug: slug}
				if err := db.Create(loc).Error; err != nil {
					log.Printf("Warning: Failed to seed locality %s: %v", name, err)
				}
			}
		}
	}

	log.Println("Initial data seeding completed")
	return nil
}
