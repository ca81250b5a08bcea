package usecase

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"lupain/internal/domain/entity"
	"lupain/internal/domain/repository"
	"lupain/internal/domain/service"
	"lupain/pkg/errors"
	"lupain/pkg/logger"
)

// overFetchFactor compensates for the client-side filter pass: the store is
// asked for this many times the requested page so enough candidates survive
// filtering.
const overFetchFactor = 5

const defaultLimit = 20

type PropertyUseCase struct {
	propertyRepo repository.PropertyRepository
	storage      service.ObjectStorage
}

func NewPropertyUseCase(propertyRepo repository.PropertyRepository, storage service.ObjectStorage) *PropertyUseCase {
	return &PropertyUseCase{
		propertyRepo: propertyRepo,
		storage:      storage,
	}
}

type CreatePropertyInput struct {
	Title             string
	Description       string
	Type              string
	Price             *float64
	Currency          string
	Location          *entity.Location
	Features          *entity.Features
	ContactInfo       *entity.ContactInfo
	Images            []string
	DefaultImageIndex int
}

// NewPropertyID mints the identity before any image upload so every object
// stored for one creation request shares the property's key prefix, even
// though the record write happens after the uploads.
func NewPropertyID() string {
	return uuid.New().String()
}

func (uc *PropertyUseCase) CreateProperty(ctx context.Context, id, ownerID string, input CreatePropertyInput) (*entity.Property, error) {
	if input.Title == "" || input.Description == "" || input.Type == "" {
		return nil, errors.BadRequest("title, description and type are required", nil)
	}
	if input.Price == nil {
		return nil, errors.BadRequest("price is required", nil)
	}
	if *input.Price < 0 {
		return nil, errors.BadRequest("price must not be negative", nil)
	}
	if input.Location == nil || input.Features == nil || input.ContactInfo == nil {
		return nil, errors.BadRequest("location, features and contactInfo are required", nil)
	}

	currency := input.Currency
	if currency == "" {
		currency = "PHP"
	}

	now := time.Now()
	property := &entity.Property{
		ID:                id,
		Title:             input.Title,
		Description:       input.Description,
		Type:              input.Type,
		Price:             *input.Price,
		Currency:          currency,
		Status:            entity.StatusAvailable,
		Location:          *input.Location,
		Features:          *input.Features,
		ContactInfo:       *input.ContactInfo,
		Images:            input.Images,
		DefaultImageIndex: input.DefaultImageIndex,
		ViewCount:         0,
		OwnerID:           ownerID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := uc.propertyRepo.Create(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

func (uc *PropertyUseCase) GetProperty(ctx context.Context, id, callerID string, isAdmin bool) (*entity.Property, error) {
	property, err := uc.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property.OwnerID != callerID && !isAdmin {
		return nil, errors.Forbidden("You don't have permission to view this property", nil)
	}
	return property, nil
}

// GetPublicProperty is the only path that bumps the view counter. The
// increment is fire-and-forget: counting is best-effort and must never fail
// the read.
func (uc *PropertyUseCase) GetPublicProperty(ctx context.Context, id string) (*entity.Property, error) {
	property, err := uc.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property.Status != entity.StatusAvailable {
		return nil, errors.NotFound("Property", nil)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := uc.propertyRepo.IncrementViews(ctx, id); err != nil {
			logger.Warn("Failed to increment views for %s: %v", id, err)
		}
	}()

	return property, nil
}

type UpdatePropertyInput struct {
	Title             *string
	Description       *string
	Type              *string
	Price             *float64
	Currency          *string
	Status            *string
	Location          *entity.Location
	Features          *entity.Features
	ContactInfo       *entity.ContactInfo
	Images            *[]string
	DefaultImageIndex *int
}

// UpdateProperty merges the supplied fields over the stored entity. Identity,
// owner and creation time never change regardless of the payload.
func (uc *PropertyUseCase) UpdateProperty(ctx context.Context, id, callerID string, isAdmin bool, input UpdatePropertyInput) (*entity.Property, error) {
	property, err := uc.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property.OwnerID != callerID && !isAdmin {
		return nil, errors.Forbidden("You don't have permission to update this property", nil)
	}

	if input.Title != nil {
		property.Title = *input.Title
	}
	if input.Description != nil {
		property.Description = *input.Description
	}
	if input.Type != nil {
		property.Type = *input.Type
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, errors.BadRequest("price must not be negative", nil)
		}
		property.Price = *input.Price
	}
	if input.Currency != nil {
		property.Currency = *input.Currency
	}
	if input.Status != nil {
		property.Status = *input.Status
	}
	if input.Location != nil {
		property.Location = *input.Location
	}
	if input.Features != nil {
		property.Features = *input.Features
	}
	if input.ContactInfo != nil {
		property.ContactInfo = *input.ContactInfo
	}
	if input.Images != nil {
		property.Images = *input.Images
	}
	if input.DefaultImageIndex != nil {
		property.DefaultImageIndex = *input.DefaultImageIndex
	}
	property.UpdatedAt = time.Now()

	if err := uc.propertyRepo.Update(ctx, property); err != nil {
		return nil, err
	}
	return property, nil
}

// DeleteProperty removes the record and then sweeps the property's image
// namespace. The sweep is best-effort; a storage failure never blocks the
// deletion that already happened.
func (uc *PropertyUseCase) DeleteProperty(ctx context.Context, id, callerID string, isAdmin bool) error {
	property, err := uc.propertyRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if property.OwnerID != callerID && !isAdmin {
		return errors.Forbidden("You don't have permission to delete this property", nil)
	}

	removed, err := uc.propertyRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !removed {
		return errors.NotFound("Property", nil)
	}

	if err := uc.storage.DeleteByPrefix(ctx, property.ImagePrefix()); err != nil {
		logger.Warn("Failed to clean up images for %s: %v", id, err)
	}
	return nil
}

func (uc *PropertyUseCase) ListByOwner(ctx context.Context, ownerID string, opts repository.ListOptions) ([]*entity.Property, string, error) {
	items, cursor, err := uc.propertyRepo.ListByOwner(ctx, ownerID, opts)
	if err != nil {
		return nil, "", err
	}
	return sortPage(items, opts), cursor, nil
}

func (uc *PropertyUseCase) ListByType(ctx context.Context, propertyType string, opts repository.ListOptions) ([]*entity.Property, string, error) {
	items, cursor, err := uc.propertyRepo.ListByType(ctx, propertyType, opts)
	if err != nil {
		return nil, "", err
	}
	return sortPage(items, opts), cursor, nil
}

func (uc *PropertyUseCase) ListAvailable(ctx context.Context, opts repository.ListOptions) ([]*entity.Property, string, error) {
	items, cursor, err := uc.propertyRepo.ListAvailable(ctx, opts)
	if err != nil {
		return nil, "", err
	}
	return sortPage(items, opts), cursor, nil
}

func sortPage(items []*entity.Property, opts repository.ListOptions) []*entity.Property {
	// Creation-time ordering comes straight off the index; anything else is
	// re-sorted over the fetched page only.
	if opts.SortBy != "" && opts.SortBy != "createdAt" {
		SortProperties(items, opts.SortBy, opts.SortOrder)
	}
	return items
}

type FeatureFilter struct {
	Parking   bool
	Furnished bool
	Aircon    bool
	Wifi      bool
	Security  bool
}

type FilterCriteria struct {
	Query     string
	Types     []string
	PriceMin  *float64
	PriceMax  *float64
	MinArea   *float64
	MaxArea   *float64
	Location  string
	Features  *FeatureFilter
	OwnerID   string
	Status    string
	Limit     int
	SortBy    string
	SortOrder string
	Cursor    string
}

func (c FilterCriteria) hasFilters() bool {
	return len(c.Types) > 0 ||
		c.PriceMin != nil || c.PriceMax != nil ||
		c.MinArea != nil || c.MaxArea != nil ||
		c.Location != "" ||
		c.Features != nil
}

// Filter fetches a candidate superset using the index-friendly predicates
// and evaluates the rest in memory. The returned cursor is the storage-level
// continuation token from the candidate fetch, not one recomputed against the
// filtered page.
func (uc *PropertyUseCase) Filter(ctx context.Context, criteria FilterCriteria) ([]*entity.Property, string, error) {
	limit := criteria.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	candidates, cursor, err := uc.propertyRepo.FetchCandidates(ctx, repository.CandidateQuery{
		OwnerID: criteria.OwnerID,
		Status:  criteria.Status,
		Limit:   limit * overFetchFactor,
		Cursor:  criteria.Cursor,
	})
	if err != nil {
		return nil, "", err
	}

	filtersSupplied := criteria.hasFilters()

	var matched []*entity.Property
	for _, property := range candidates {
		var include bool
		if criteria.Query != "" {
			include = matchesSearch(property, criteria.Query)
			if include && filtersSupplied {
				include = matchesFilters(property, criteria)
			}
		} else if filtersSupplied {
			include = matchesFilters(property, criteria)
		} else {
			include = true
		}

		if include {
			matched = append(matched, property)
		}
	}

	if len(matched) > limit {
		matched = matched[:limit]
	}
	if criteria.SortBy != "" {
		SortProperties(matched, criteria.SortBy, criteria.SortOrder)
	}

	return matched, cursor, nil
}

// matchesSearch requires every query word to appear somewhere in the
// property's searchable text, case-insensitive.
func matchesSearch(p *entity.Property, query string) bool {
	haystack := strings.ToLower(strings.Join([]string{
		p.Title,
		p.Description,
		p.Location.Address,
		p.Location.City,
		p.Location.Province,
	}, " "))

	for _, word := range strings.Fields(strings.ToLower(query)) {
		if !strings.Contains(haystack, word) {
			return false
		}
	}
	return true
}

// matchesFilters combines the supplied filter categories with OR: a property
// matches if it satisfies at least one requested category. Bounds inside the
// price and area categories still combine with AND.
func matchesFilters(p *entity.Property, criteria FilterCriteria) bool {
	if len(criteria.Types) > 0 && matchesType(p, criteria.Types) {
		return true
	}
	if (criteria.PriceMin != nil || criteria.PriceMax != nil) && withinRange(p.Price, criteria.PriceMin, criteria.PriceMax) {
		return true
	}
	if (criteria.MinArea != nil || criteria.MaxArea != nil) && withinRange(p.Features.Area, criteria.MinArea, criteria.MaxArea) {
		return true
	}
	if criteria.Location != "" && matchesLocation(p, criteria.Location) {
		return true
	}
	if criteria.Features != nil && matchesFeatures(p, *criteria.Features) {
		return true
	}
	return false
}

func matchesType(p *entity.Property, types []string) bool {
	for _, t := range types {
		if strings.EqualFold(p.Type, t) {
			return true
		}
	}
	return false
}

func withinRange(value float64, min, max *float64) bool {
	if min != nil && value < *min {
		return false
	}
	if max != nil && value > *max {
		return false
	}
	return true
}

func matchesLocation(p *entity.Property, location string) bool {
	needle := strings.ToLower(location)
	return strings.Contains(strings.ToLower(p.Location.Address), needle) ||
		strings.Contains(strings.ToLower(p.Location.City), needle) ||
		strings.Contains(strings.ToLower(p.Location.Province), needle)
}

// matchesFeatures ORs the requested boolean features.
func matchesFeatures(p *entity.Property, f FeatureFilter) bool {
	if f.Parking && p.Features.Parking > 0 {
		return true
	}
	if f.Furnished && p.Features.Furnished {
		return true
	}
	if f.Aircon && p.Features.Aircon {
		return true
	}
	if f.Wifi && p.Features.Wifi {
		return true
	}
	if f.Security && p.Features.Security {
		return true
	}
	return false
}

// SortProperties orders the page in place. Descending is the default; ties
// keep their fetched order.
func SortProperties(items []*entity.Property, sortBy, sortOrder string) {
	ascending := sortOrder == "asc"

	key := func(p *entity.Property) float64 {
		switch sortBy {
		case "price":
			return p.Price
		case "area":
			return p.Features.Area
		case "views":
			return float64(p.ViewCount)
		default:
			return float64(p.CreatedAt.UnixNano())
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		if ascending {
			return key(items[i]) < key(items[j])
		}
		return key(items[i]) > key(items[j])
	})
}
