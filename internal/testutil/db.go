// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/aman-churiwal/property-marketplace/internal/models"
	"github.com/aman-churiwal/property-marketplace/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens an isolated in-memory sqlite database with every model migrated.
func NewDB(t *testing.T) *storage.Postgres {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sqlite handle: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	pg := storage.NewFromDB(db)
	if err := pg.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pg
}

// SeedUser inserts a user and returns it.
func SeedUser(t *testing.T, db *storage.Postgres, id string, isHost bool) *models.User {
	t.Helper()

	user := &models.User{
		ID:     id,
		Email:  id + "@example.com",
		Name:   "User " + id,
		IsHost: isHost,
	}
	if err := db.DB.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

// SeedProperty inserts a property owned by hostID.
func SeedProperty(t *testing.T, db *storage.Postgres, hostID, title, city string, featured bool) *models.Property {
	t.Helper()

	property := &models.Property{
		HostID:       hostID,
		Title:        title,
		Description:  "A lovely place",
		PropertyType: models.PropertyTypeRent,
		Address:      "1 Main St",
		City:         city,
		Country:      "US",
		Latitude:     40.7,
		Longitude:    -74.0,
		Price:        120,
		Currency:     "USD",
		Images:       []string{"https://res.cloudinary.com/demo/image/upload/sample.jpg"},
		Amenities:    []string{"wifi"},
		Bedrooms:     2,
		Bathrooms:    1,
		MaxGuests:    4,
		Featured:     featured,
	}
	if err := db.DB.Create(property).Error; err != nil {
		t.Fatalf("seed property: %v", err)
	}
	return property
}
