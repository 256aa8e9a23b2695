package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PropertyType string

const (
	PropertyTypeRent  PropertyType = "RENT"
	PropertyTypeBuy   PropertyType = "BUY"
	PropertyTypeLodge PropertyType = "LODGE"
)

func (t PropertyType) Valid() bool {
	switch t {
	case PropertyTypeRent, PropertyTypeBuy, PropertyTypeLodge:
		return true
	default:
		return false
	}
}

type Property struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey" json:"id"`
	HostID       string       `gorm:"index;not null" json:"hostId"`
	Title        string       `gorm:"not null" json:"title"`
	Description  string       `gorm:"not null" json:"description"`
	PropertyType PropertyType `gorm:"index;not null" json:"propertyType"`
	Address      string       `gorm:"not null" json:"address"`
	City         string       `gorm:"index;not null" json:"city"`
	State        string       `json:"state,omitempty"`
	Country      string       `gorm:"not null" json:"country"`
	ZipCode      string       `json:"zipCode,omitempty"`
	Latitude     float64      `json:"latitude"`
	Longitude    float64      `json:"longitude"`
	Price        float64      `gorm:"not null" json:"price"`
	Currency     string       `gorm:"default:'USD'" json:"currency"`
	PricePeriod  string       `json:"pricePeriod,omitempty"`
	Images       []string     `gorm:"serializer:json" json:"images"`
	Amenities    []string     `gorm:"serializer:json" json:"amenities"`
	Bedrooms     int          `json:"bedrooms"`
	Bathrooms    int          `json:"bathrooms"`
	MaxGuests    int          `json:"maxGuests"`
	Rating       float64      `gorm:"default:0" json:"rating"`
	Featured     bool         `gorm:"index;default:false" json:"featured"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

func (p *Property) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (Property) TableName() string {
	return "properties"
}

type PropertyCounts struct {
	Reviews   int64 `json:"reviews"`
	Favorites int64 `json:"favorites"`
	Bookings  int64 `json:"bookings,omitempty"`
}

// PropertyListing is a property as returned by the browse endpoints.
type PropertyListing struct {
	Property
	Host  *HostSummary   `json:"host,omitempty"`
	Count PropertyCounts `json:"_count"`
}

// PropertyDetail adds the most recent reviews to a listing.
type PropertyDetail struct {
	PropertyListing
	Reviews []ReviewWithAuthor `json:"reviews"`
}

type Favorite struct {
	UserID     string    `gorm:"primaryKey;size:128" json:"userId"`
	PropertyID uuid.UUID `gorm:"primaryKey;type:uuid" json:"propertyId"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Favorite) TableName() string {
	return "favorites"
}

type Review struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PropertyID uuid.UUID `gorm:"type:uuid;index;not null" json:"propertyId"`
	UserID     string    `gorm:"index;not null" json:"userId"`
	Rating     int       `gorm:"not null" json:"rating"`
	Comment    string    `json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (Review) TableName() string {
	return "reviews"
}

type ReviewAuthor struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Avatar *string `json:"avatar,omitempty"`
}

type ReviewWithAuthor struct {
	Review
	User ReviewAuthor `json:"user"`
}
