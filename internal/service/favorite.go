package service

import (
	"context"
	"fmt"

	"github.com/aman-churiwal/property-marketplace/internal/apperr"
	"github.com/aman-churiwal/property-marketplace/internal/cache"
	"github.com/aman-churiwal/property-marketplace/internal/models"
	"github.com/aman-churiwal/property-marketplace/internal/repository"
	"github.com/google/uuid"
)

// FavoriteService manages saved properties. Favorite counts are part of cached
// property responses, so every change invalidates them.
type FavoriteService struct {
	favorites  *repository.FavoriteRepository
	properties *repository.PropertyRepository
	cache      cache.Invalidator
}

func NewFavoriteService(favorites *repository.FavoriteRepository, properties *repository.PropertyRepository, c cache.Invalidator) *FavoriteService {
	return &FavoriteService{favorites: favorites, properties: properties, cache: c}
}

func parsePropertyID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, apperr.Validation([]string{"Property ID is required"})
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validation([]string{"Invalid property ID"})
	}
	return id, nil
}

// Add favorites a property. Adding an existing favorite succeeds.
func (s *FavoriteService) Add(ctx context.Context, userID, rawPropertyID string) error {
	id, err := parsePropertyID(rawPropertyID)
	if err != nil {
		return err
	}

	property, err := s.properties.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if property == nil {
		return apperr.ErrNotFound
	}

	if err := s.favorites.Add(ctx, userID, id); err != nil {
		return fmt.Errorf("failed to add favorite: %w", err)
	}
	cache.InvalidateProperty(s.cache, id.String())
	return nil
}

func (s *FavoriteService) Remove(ctx context.Context, userID, rawPropertyID string) error {
	id, err := parsePropertyID(rawPropertyID)
	if err != nil {
		return err
	}

	removed, err := s.favorites.Remove(ctx, userID, id)
	if err != nil {
		return fmt.Errorf("failed to remove favorite: %w", err)
	}
	if !removed {
		return apperr.ErrNotFound
	}
	cache.InvalidateProperty(s.cache, id.String())
	return nil
}

// List returns the favorited properties, most recently favorited first.
func (s *FavoriteService) List(ctx context.Context, userID string) ([]models.PropertyListing, error) {
	ids, err := s.favorites.PropertyIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	listings, err := s.properties.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]models.PropertyListing, len(listings))
	for _, l := range listings {
		byID[l.ID] = l
	}

	ordered := make([]models.PropertyListing, 0, len(listings))
	for _, id := range ids {
		if l, ok := byID[id]; ok {
			ordered = append(ordered, l)
		}
	}
	return ordered, nil
}
