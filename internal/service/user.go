package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aman-churiwal/property-marketplace/internal/apperr"
	"github.com/aman-churiwal/property-marketplace/internal/identity"
	"github.com/aman-churiwal/property-marketplace/internal/models"
	"github.com/aman-churiwal/property-marketplace/internal/repository"
	"github.com/aman-churiwal/property-marketplace/internal/validation"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	users  *repository.UserRepository
	logger *zap.Logger
}

func NewUserService(users *repository.UserRepository, logger *zap.Logger) *UserService {
	return &UserService{users: users, logger: logger}
}

// EnsureUser returns the local user for p, creating it on first sight. Accounts without a
// usable email get a placeholder address derived from their ID.
func (s *UserService) EnsureUser(ctx context.Context, p *identity.Principal) (*models.User, error) {
	existing, err := s.users.FindByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	email := strings.TrimSpace(p.Email)
	if !validation.IsValidEmail(email) {
		email = p.ID + "@placeholder.local"
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		name = "User"
	}

	user := &models.User{
		ID:    p.ID,
		Email: email,
		Name:  name,
	}
	if p.AvatarURL != "" {
		avatar := p.AvatarURL
		user.Avatar = &avatar
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent request may have created the row first.
		if again, findErr := s.users.FindByID(ctx, p.ID); findErr == nil && again != nil {
			return again, nil
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user profile created", zap.String("user_id", user.ID))
	return user, nil
}

// CompleteOnboarding turns the caller into a host. The government ID number is stored
// only as a bcrypt hash.
func (s *UserService) CompleteOnboarding(ctx context.Context, p *identity.Principal, in *validation.OnboardingInput) (*models.User, error) {
	in.Normalize()
	if err := apperr.Validation(in.Validate()); err != nil {
		return nil, err
	}

	if _, err := s.EnsureUser(ctx, p); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.IDNumber), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash id number: %w", err)
	}

	profile := &models.HostProfile{
		IDType:         in.IDType,
		IDNumberHash:   string(hash),
		PaymentMethod:  in.PaymentMethod,
		AccountDetails: string(in.AccountDetails),
	}

	user, err := s.users.PromoteToHost(ctx, p.ID, in.Phone, in.Bio, profile)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to complete onboarding: %w", err)
	}

	s.logger.Info("host onboarding completed", zap.String("user_id", user.ID))
	return user, nil
}

// HostStatus reports false for unknown users.
func (s *UserService) HostStatus(ctx context.Context, userID string) (bool, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return user != nil && user.IsHost, nil
}
