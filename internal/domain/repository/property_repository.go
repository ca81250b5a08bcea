package repository

import (
	"context"

	"lupain/internal/domain/entity"
)

// ListOptions controls index-backed listing. Cursor is the opaque
// continuation token from a previous page; SortBy other than creation time is
// applied in memory over the fetched page by the use case.
type ListOptions struct {
	Limit     int
	Cursor    string
	SortBy    string
	SortOrder string
}

// CandidateQuery narrows the candidate fetch for filtering to the
// index-friendly predicates only. Everything else is evaluated client-side.
type CandidateQuery struct {
	OwnerID string
	Status  string
	Limit   int
	Cursor  string
}

type PropertyRepository interface {
	// Create persists a new property and fails with a conflict if the id is
	// already taken.
	Create(ctx context.Context, property *entity.Property) error
	GetByID(ctx context.Context, id string) (*entity.Property, error)
	Update(ctx context.Context, property *entity.Property) error
	// Delete reports whether a document was actually removed.
	Delete(ctx context.Context, id string) (bool, error)
	IncrementViews(ctx context.Context, id string) error
	ListByOwner(ctx context.Context, ownerID string, opts ListOptions) ([]*entity.Property, string, error)
	ListByType(ctx context.Context, propertyType string, opts ListOptions) ([]*entity.Property, string, error)
	ListAvailable(ctx context.Context, opts ListOptions) ([]*entity.Property, string, error)
	// FetchCandidates over-fetches a superset of rows for the in-memory
	// filter pass.
	FetchCandidates(ctx context.Context, q CandidateQuery) ([]*entity.Property, string, error)
}
