package database

import (
	"fmt"
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"storefront-service/models"
)

// ConnectPostgres opens the relational store and runs migrations for the
// models it owns (users, addresses, orders, coupons).
func ConnectPostgres(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Order{},
		&models.OrderItem{},
		&models.Coupon{},
	); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	log.Println("Connected to Postgres")
	return db, nil
}
