package repository

import (
	"context"
	"errors"

	"github.com/aman-churiwal/property-marketplace/internal/models"
	"github.com/aman-churiwal/property-marketplace/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository struct {
	db *storage.Postgres
}

func NewUserRepository(db *storage.Postgres) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.DB.WithContext(ctx).Create(user).Error
}

// FindByID returns nil, nil when the user does not exist.
func (r *UserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&user).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// PromoteToHost stores the onboarding details and flags the user as a host in one
// transaction. It returns gorm.ErrRecordNotFound when the user row is missing.
func (r *UserRepository) PromoteToHost(ctx context.Context, userID, phone, bio string, profile *models.HostProfile) (*models.User, error) {
	var user models.User

	err := r.db.Transaction(ctx, func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ?", userID).
			Updates(map[string]interface{}{
				"phone":   phone,
				"bio":     bio,
				"is_host": true,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		profile.UserID = userID
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"id_type", "id_number_hash", "payment_method", "account_details", "updated_at"}),
		}).Create(profile).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", userID).First(&user).Error
	})
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindSummaries loads the public host projection for ids.
func (r *UserRepository) FindSummaries(ctx context.Context, ids []string) (map[string]models.HostSummary, error) {
	out := make(map[string]models.HostSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var users []models.User
	if err := r.db.DB.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&users).Error; err != nil {
		return nil, err
	}

	for _, u := range users {
		out[u.ID] = models.HostSummary{
			ID:       u.ID,
			Name:     u.Name,
			Avatar:   u.Avatar,
			Verified: u.Verified,
			IsHost:   u.IsHost,
		}
	}
	return out, nil
}
