package client

import (
	"log"
	"time"

	"digital-downloads-store/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func InitMysqlClient(databaseURL string) *gorm.DB {
	db, err := gorm.Open(mysql.Open(databaseURL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	// Connection pool (important for webhooks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	return db
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.AuthToken{},
		&model.PasswordReset{},
		&model.Category{},
		&model.Product{},
		&model.Bundle{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.Comment{},
		&model.Subscriber{},
		&model.ContactMessage{},
		&model.FaqCategory{},
		&model.Faq{},
		&model.HeroSlide{},
		&model.HomeFeature{},
		&model.HomeStat{},
		&model.HomeShowcase{},
		&model.SocialLink{},
		&model.NavigationLink{},
	)
}
