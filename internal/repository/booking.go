package repository

import (
	"context"
	"errors"

	"github.com/aman-churiwal/property-marketplace/internal/models"
	"github.com/aman-churiwal/property-marketplace/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingRepository struct {
	db *storage.Postgres
}

func NewBookingRepository(db *storage.Postgres) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.DB.WithContext(ctx).Create(booking).Error
}

// FindByID returns nil, nil when the booking does not exist.
func (r *BookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&booking).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &booking, nil
}

// ListByUser returns the user's bookings with their properties, latest check-in first.
func (r *BookingRepository) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.DB.WithContext(ctx).
		Preload("Property").
		Where("user_id = ?", userID).
		Order("check_in DESC").
		Find(&bookings).Error

	return bookings, err
}

// TransitionStatus moves a booking from one status to another. It reports false when the
// booking was not in the expected status.
func (r *BookingRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from, to models.BookingStatus) (bool, error) {
	res := r.db.DB.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)

	return res.RowsAffected > 0, res.Error
}
