package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCancelled BookingStatus = "CANCELLED"
	BookingCompleted BookingStatus = "COMPLETED"
)

type Booking struct {
	ID              uuid.UUID     `gorm:"type:uuid;primaryKey" json:"id"`
	PropertyID      uuid.UUID     `gorm:"type:uuid;index;not null" json:"propertyId"`
	Property        *Property     `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE" json:"property,omitempty"`
	UserID          string        `gorm:"index;not null" json:"userId"`
	CheckIn         time.Time     `gorm:"not null" json:"checkIn"`
	CheckOut        time.Time     `gorm:"not null" json:"checkOut"`
	Guests          int           `gorm:"not null" json:"guests"`
	TotalPrice      float64       `gorm:"not null" json:"totalPrice"`
	Currency        string        `gorm:"default:'USD'" json:"currency"`
	Status          BookingStatus `gorm:"index;default:'PENDING'" json:"status"`
	SpecialRequests string        `json:"specialRequests,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

func (Booking) TableName() string {
	return "bookings"
}

// All lists every persisted model in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&HostProfile{},
		&Property{},
		&Favorite{},
		&Review{},
		&Booking{},
	}
}
