package service

import (
	"context"
	"fmt"

	"github.com/aman-churiwal/property-marketplace/internal/apperr"
	"github.com/aman-churiwal/property-marketplace/internal/cache"
	"github.com/aman-churiwal/property-marketplace/internal/models"
	"github.com/aman-churiwal/property-marketplace/internal/repository"
	"github.com/aman-churiwal/property-marketplace/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PropertyService struct {
	properties *repository.PropertyRepository
	users      *repository.UserRepository
	cache      *cache.TTLCache[any]
	logger     *zap.Logger
}

func NewPropertyService(properties *repository.PropertyRepository, users *repository.UserRepository, c *cache.TTLCache[any], logger *zap.Logger) *PropertyService {
	return &PropertyService{
		properties: properties,
		users:      users,
		cache:      c,
		logger:     logger,
	}
}

func filterKey(f repository.PropertyFilter) string {
	return cache.PropertiesKey(fmt.Sprintf("type=%s&city=%s&featured=%t&limit=%d", f.PropertyType, f.City, f.Featured, f.Limit))
}

func (s *PropertyService) List(ctx context.Context, filter repository.PropertyFilter) ([]models.PropertyListing, error) {
	v, err := s.cache.GetOrSet(ctx, filterKey(filter), 0, func(ctx context.Context) (any, error) {
		return s.properties.List(ctx, filter)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	return v.([]models.PropertyListing), nil
}

func (s *PropertyService) Get(ctx context.Context, rawID string) (*models.PropertyDetail, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, apperr.ErrNotFound
	}

	v, err := s.cache.GetOrSet(ctx, cache.PropertyKey(id.String()), 0, func(ctx context.Context) (any, error) {
		detail, err := s.properties.FindDetail(ctx, id)
		if err != nil {
			return nil, err
		}
		if detail == nil {
			return nil, apperr.ErrNotFound
		}
		return detail, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.PropertyDetail), nil
}

// Create lists a new property for hostID. Only users flagged as hosts may list.
func (s *PropertyService) Create(ctx context.Context, hostID string, in *validation.PropertyInput) (*models.Property, error) {
	user, err := s.users.FindByID(ctx, hostID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsHost {
		return nil, fmt.Errorf("only hosts can create properties: %w", apperr.ErrForbidden)
	}

	if err := apperr.Validation(in.Validate()); err != nil {
		return nil, err
	}

	property := &models.Property{HostID: hostID}
	in.Apply(property)

	if err := s.properties.Create(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to create property: %w", err)
	}

	cache.InvalidateProperty(s.cache, property.ID.String())
	s.logger.Info("property created",
		zap.String("property_id", property.ID.String()),
		zap.String("host_id", hostID),
	)

	return property, nil
}

func (s *PropertyService) Update(ctx context.Context, userID, rawID string, in *validation.PropertyInput) (*models.Property, error) {
	property, err := s.owned(ctx, userID, rawID)
	if err != nil {
		return nil, err
	}

	if err := apperr.Validation(in.Validate()); err != nil {
		return nil, err
	}
	in.Apply(property)

	if err := s.properties.Save(ctx, property); err != nil {
		return nil, fmt.Errorf("failed to update property: %w", err)
	}

	cache.InvalidateProperty(s.cache, property.ID.String())
	return property, nil
}

func (s *PropertyService) Delete(ctx context.Context, userID, rawID string) error {
	property, err := s.owned(ctx, userID, rawID)
	if err != nil {
		return err
	}

	if err := s.properties.Delete(ctx, property.ID); err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}

	cache.InvalidateProperty(s.cache, property.ID.String())
	s.logger.Info("property deleted", zap.String("property_id", property.ID.String()))
	return nil
}

func (s *PropertyService) owned(ctx context.Context, userID, rawID string) (*models.Property, error) {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return nil, apperr.ErrNotFound
	}

	property, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property == nil {
		return nil, apperr.ErrNotFound
	}
	if property.HostID != userID {
		return nil, apperr.ErrForbidden
	}
	return property, nil
}
