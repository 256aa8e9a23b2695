package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/aman-churiwal/property-marketplace/internal/models"
	"github.com/aman-churiwal/property-marketplace/internal/storage"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PropertyFilter narrows the browse query. Zero values mean "no filter".
type PropertyFilter struct {
	PropertyType models.PropertyType
	City         string
	Featured     bool
	Limit        int
}

type PropertyRepository struct {
	db    *storage.Postgres
	users *UserRepository
}

func NewPropertyRepository(db *storage.Postgres, users *UserRepository) *PropertyRepository {
	return &PropertyRepository{db: db, users: users}
}

func (r *PropertyRepository) Create(ctx context.Context, property *models.Property) error {
	return r.db.DB.WithContext(ctx).Create(property).Error
}

func (r *PropertyRepository) Save(ctx context.Context, property *models.Property) error {
	return r.db.DB.WithContext(ctx).Save(property).Error
}

func (r *PropertyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Property{}).Error
}

// FindByID returns nil, nil when the property does not exist.
func (r *PropertyRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var property models.Property
	err := r.db.DB.WithContext(ctx).
		Where("id = ?", id).
		First(&property).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &property, nil
}

// List returns featured listings first, then the newest.
func (r *PropertyRepository) List(ctx context.Context, filter PropertyFilter) ([]models.PropertyListing, error) {
	q := r.db.DB.WithContext(ctx).Model(&models.Property{})

	if filter.PropertyType != "" {
		q = q.Where("property_type = ?", filter.PropertyType)
	}
	if city := strings.TrimSpace(filter.City); city != "" {
		q = q.Where("LOWER(city) LIKE ?", "%"+strings.ToLower(city)+"%")
	}
	if filter.Featured {
		q = q.Where("featured = ?", true)
	}
	if filter.Limit > 0 {
		q = q.Limit(filter.Limit)
	}

	var properties []models.Property
	if err := q.Order("featured DESC").Order("created_at DESC").Find(&properties).Error; err != nil {
		return nil, err
	}

	return r.decorate(ctx, properties, false)
}

// ListByIDs returns the listings for ids, newest first.
func (r *PropertyRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]models.PropertyListing, error) {
	if len(ids) == 0 {
		return []models.PropertyListing{}, nil
	}

	var properties []models.Property
	if err := r.db.DB.WithContext(ctx).
		Where("id IN ?", ids).
		Order("created_at DESC").
		Find(&properties).Error; err != nil {
		return nil, err
	}

	return r.decorate(ctx, properties, false)
}

// FindDetail returns the property with its host, counts and the ten latest reviews.
func (r *PropertyRepository) FindDetail(ctx context.Context, id uuid.UUID) (*models.PropertyDetail, error) {
	property, err := r.FindByID(ctx, id)
	if err != nil || property == nil {
		return nil, err
	}

	listings, err := r.decorate(ctx, []models.Property{*property}, true)
	if err != nil {
		return nil, err
	}

	var reviews []models.Review
	if err := r.db.DB.WithContext(ctx).
		Where("property_id = ?", id).
		Order("created_at DESC").
		Limit(10).
		Find(&reviews).Error; err != nil {
		return nil, err
	}

	authorIDs := make([]string, 0, len(reviews))
	for _, rv := range reviews {
		authorIDs = append(authorIDs, rv.UserID)
	}
	authors, err := r.users.FindSummaries(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	detail := &models.PropertyDetail{
		PropertyListing: listings[0],
		Reviews:         make([]models.ReviewWithAuthor, 0, len(reviews)),
	}
	for _, rv := range reviews {
		author := authors[rv.UserID]
		detail.Reviews = append(detail.Reviews, models.ReviewWithAuthor{
			Review: rv,
			User:   models.ReviewAuthor{ID: rv.UserID, Name: author.Name, Avatar: author.Avatar},
		})
	}

	return detail, nil
}

type propertyCount struct {
	PropertyID uuid.UUID
	Count      int64
}

func (r *PropertyRepository) countBy(ctx context.Context, table string, ids []uuid.UUID) (map[uuid.UUID]int64, error) {
	var rows []propertyCount
	if err := r.db.DB.WithContext(ctx).
		Table(table).
		Select("property_id, COUNT(*) AS count").
		Where("property_id IN ?", ids).
		Group("property_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[uuid.UUID]int64, len(rows))
	for _, row := range rows {
		out[row.PropertyID] = row.Count
	}
	return out, nil
}

func (r *PropertyRepository) decorate(ctx context.Context, properties []models.Property, withBookings bool) ([]models.PropertyListing, error) {
	listings := make([]models.PropertyListing, 0, len(properties))
	if len(properties) == 0 {
		return listings, nil
	}

	ids := make([]uuid.UUID, 0, len(properties))
	hostIDs := make([]string, 0, len(properties))
	for _, p := range properties {
		ids = append(ids, p.ID)
		hostIDs = append(hostIDs, p.HostID)
	}

	hosts, err := r.users.FindSummaries(ctx, hostIDs)
	if err != nil {
		return nil, err
	}
	reviews, err := r.countBy(ctx, "reviews", ids)
	if err != nil {
		return nil, err
	}
	favorites, err := r.countBy(ctx, "favorites", ids)
	if err != nil {
		return nil, err
	}
	var bookings map[uuid.UUID]int64
	if withBookings {
		if bookings, err = r.countBy(ctx, "bookings", ids); err != nil {
			return nil, err
		}
	}

	for _, p := range properties {
		listing := models.PropertyListing{
			Property: p,
			Count: models.PropertyCounts{
				Reviews:   reviews[p.ID],
				Favorites: favorites[p.ID],
				Bookings:  bookings[p.ID],
			},
		}
		if host, ok := hosts[p.HostID]; ok {
			listing.Host = &host
		}
		listings = append(listings, listing)
	}

	return listings, nil
}
