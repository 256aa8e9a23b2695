package repository

import (
	"context"

	"github.com/aman-churiwal/property-marketplace/internal/models"
	"github.com/aman-churiwal/property-marketplace/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

type FavoriteRepository struct {
	db *storage.Postgres
}

func NewFavoriteRepository(db *storage.Postgres) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Add is idempotent: favoriting twice keeps a single row.
func (r *FavoriteRepository) Add(ctx context.Context, userID string, propertyID uuid.UUID) error {
	return r.db.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.Favorite{UserID: userID, PropertyID: propertyID}).Error
}

// Remove reports whether a row was deleted.
func (r *FavoriteRepository) Remove(ctx context.Context, userID string, propertyID uuid.UUID) (bool, error) {
	res := r.db.DB.WithContext(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Delete(&models.Favorite{})

	return res.RowsAffected > 0, res.Error
}

// PropertyIDs returns the user's favorites, most recent first.
func (r *FavoriteRepository) PropertyIDs(ctx context.Context, userID string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.DB.WithContext(ctx).
		Model(&models.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("property_id", &ids).Error

	return ids, err
}
