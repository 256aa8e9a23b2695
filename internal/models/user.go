package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User mirrors an identity-provider account. ID is the provider's subject.
type User struct {
	ID        string    `gorm:"primaryKey;size:128" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Name      string    `json:"name"`
	Avatar    *string   `json:"avatar,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	Verified  bool      `gorm:"default:false" json:"verified"`
	IsHost    bool      `gorm:"default:false" json:"isHost"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// HostProfile holds the payout and identity details collected during host onboarding.
type HostProfile struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID         string    `gorm:"uniqueIndex;not null" json:"userId"`
	IDType         string    `gorm:"not null" json:"idType"`
	IDNumberHash   string    `gorm:"not null" json:"-"`
	PaymentMethod  string    `gorm:"not null" json:"paymentMethod"`
	AccountDetails string    `gorm:"not null" json:"-"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

func (h *HostProfile) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

func (HostProfile) TableName() string {
	return "host_profiles"
}

// HostSummary is the public projection of a host embedded in property responses.
type HostSummary struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Avatar   *string `json:"avatar,omitempty"`
	Verified bool    `json:"verified"`
	IsHost   bool    `json:"isHost"`
}
