package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/aman-churiwal/property-marketplace/internal/apperr"
	"github.com/aman-churiwal/property-marketplace/internal/cache"
	"github.com/aman-churiwal/property-marketplace/internal/models"
	"github.com/aman-churiwal/property-marketplace/internal/repository"
	"github.com/aman-churiwal/property-marketplace/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService struct {
	bookings   *repository.BookingRepository
	properties *repository.PropertyRepository
	cache      cache.Invalidator
	logger     *zap.Logger
	now        func() time.Time
}

func NewBookingService(bookings *repository.BookingRepository, properties *repository.PropertyRepository, c cache.Invalidator, logger *zap.Logger) *BookingService {
	return &BookingService{
		bookings:   bookings,
		properties: properties,
		cache:      c,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *BookingService) List(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

// Nights counts started 24h periods between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	return int(math.Ceil(checkOut.Sub(checkIn).Hours() / 24))
}

// Create requests a stay. The booking starts PENDING and is priced per night.
func (s *BookingService) Create(ctx context.Context, userID string, in *validation.BookingInput) (*models.Booking, error) {
	if err := apperr.Validation(in.Validate(s.now())); err != nil {
		return nil, err
	}

	propertyID, err := uuid.Parse(in.PropertyID)
	if err != nil {
		return nil, apperr.Validation([]string{"Invalid property ID"})
	}

	property, err := s.properties.FindByID(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, apperr.ErrNotFound
	}
	if property.MaxGuests > 0 && in.Guests > property.MaxGuests {
		return nil, apperr.Validation([]string{fmt.Sprintf("This property allows at most %d guests", property.MaxGuests)})
	}

	booking := &models.Booking{
		PropertyID:      propertyID,
		UserID:          userID,
		CheckIn:         in.CheckIn,
		CheckOut:        in.CheckOut,
		Guests:          in.Guests,
		TotalPrice:      float64(Nights(in.CheckIn, in.CheckOut)) * property.Price,
		Currency:        property.Currency,
		Status:          models.BookingPending,
		SpecialRequests: validation.SanitizeString(in.SpecialRequests, 1000),
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}
	cache.InvalidateProperty(s.cache, propertyID.String())

	s.logger.Info("booking requested",
		zap.String("booking_id", booking.ID.String()),
		zap.String("property_id", propertyID.String()),
		zap.Float64("total_price", booking.TotalPrice),
	)

	return booking, nil
}

// Cancel moves the caller's own PENDING booking to CANCELLED.
func (s *BookingService) Cancel(ctx context.Context, userID, rawID string) (*models.Booking, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, apperr.ErrNotFound
	}

	booking, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking == nil || booking.UserID != userID {
		return nil, apperr.ErrNotFound
	}

	notPending := apperr.Validation([]string{"Only pending bookings can be cancelled"})
	if booking.Status != models.BookingPending {
		return nil, notPending
	}

	ok, err := s.bookings.TransitionStatus(ctx, id, models.BookingPending, models.BookingCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to cancel booking: %w", err)
	}
	if !ok {
		return nil, notPending
	}

	booking.Status = models.BookingCancelled
	return booking, nil
}
