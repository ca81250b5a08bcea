package repository

import (
	"context"
	"encoding/base64"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"lupain/internal/domain/entity"
	"lupain/internal/domain/repository"
	"lupain/pkg/errors"
)

type firestorePropertyRepository struct {
	client     *firestore.Client
	collection string
}

func NewFirestorePropertyRepository(client *firestore.Client, collection string) repository.PropertyRepository {
	return &firestorePropertyRepository{
		client:     client,
		collection: collection,
	}
}

func (r *firestorePropertyRepository) col() *firestore.CollectionRef {
	return r.client.Collection(r.collection)
}

func (r *firestorePropertyRepository) Create(ctx context.Context, property *entity.Property) error {
	// Conditional write: ids are freshly generated so a collision is not
	// expected, but never overwrite an existing document.
	_, err := r.col().Doc(property.ID).Create(ctx, property)
	if err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return errors.Conflict("Property id already exists", err)
		}
		return errors.Internal("Failed to create property", err)
	}
	return nil
}

func (r *firestorePropertyRepository) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	doc, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Property", err)
		}
		return nil, errors.Internal("Failed to get property", err)
	}

	var property entity.Property
	if err := doc.DataTo(&property); err != nil {
		return nil, errors.Internal("Failed to parse property data", err)
	}
	return &property, nil
}

func (r *firestorePropertyRepository) Update(ctx context.Context, property *entity.Property) error {
	_, err := r.col().Doc(property.ID).Set(ctx, property)
	if err != nil {
		return errors.Internal("Failed to update property", err)
	}
	return nil
}

func (r *firestorePropertyRepository) Delete(ctx context.Context, id string) (bool, error) {
	_, err := r.col().Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, errors.Internal("Failed to get property", err)
	}

	if _, err := r.col().Doc(id).Delete(ctx); err != nil {
		return false, errors.Internal("Failed to delete property", err)
	}
	return true, nil
}

func (r *firestorePropertyRepository) IncrementViews(ctx context.Context, id string) error {
	_, err := r.col().Doc(id).Update(ctx, []firestore.Update{
		{Path: "viewCount", Value: firestore.Increment(1)},
	})
	if err != nil {
		return errors.Internal("Failed to increment property views", err)
	}
	return nil
}

func (r *firestorePropertyRepository) ListByOwner(ctx context.Context, ownerID string, opts repository.ListOptions) ([]*entity.Property, string, error) {
	query := r.col().Query.Where("ownerId", "==", ownerID)
	return r.runList(ctx, query, opts)
}

func (r *firestorePropertyRepository) ListByType(ctx context.Context, propertyType string, opts repository.ListOptions) ([]*entity.Property, string, error) {
	query := r.col().Query.Where("type", "==", propertyType)
	return r.runList(ctx, query, opts)
}

func (r *firestorePropertyRepository) ListAvailable(ctx context.Context, opts repository.ListOptions) ([]*entity.Property, string, error) {
	query := r.col().Query.Where("status", "==", entity.StatusAvailable)
	return r.runList(ctx, query, opts)
}

func (r *firestorePropertyRepository) FetchCandidates(ctx context.Context, q repository.CandidateQuery) ([]*entity.Property, string, error) {
	query := r.col().Query
	if q.OwnerID != "" {
		query = query.Where("ownerId", "==", q.OwnerID)
	}
	if q.Status != "" {
		query = query.Where("status", "==", q.Status)
	}
	return r.runList(ctx, query, repository.ListOptions{Limit: q.Limit, Cursor: q.Cursor})
}

// runList applies the natural index ordering (creation time) plus cursor and
// limit, and hands back the next continuation token. Any sortBy other than
// creation time is re-sorted in memory by the caller over this page.
func (r *firestorePropertyRepository) runList(ctx context.Context, query firestore.Query, opts repository.ListOptions) ([]*entity.Property, string, error) {
	direction := firestore.Desc
	if (opts.SortBy == "" || opts.SortBy == "createdAt") && opts.SortOrder == "asc" {
		direction = firestore.Asc
	}
	query = query.OrderBy("createdAt", direction)

	if opts.Cursor != "" {
		after, err := decodeCursor(opts.Cursor)
		if err != nil {
			return nil, "", errors.BadRequest("Invalid cursor", err)
		}
		query = query.StartAfter(after)
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	query = query.Limit(limit)

	iter := query.Documents(ctx)
	var properties []*entity.Property
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, "", errors.Internal("Failed to iterate properties", err)
		}
		var property entity.Property
		if err := doc.DataTo(&property); err != nil {
			return nil, "", errors.Internal("Failed to parse property data", err)
		}
		properties = append(properties, &property)
	}

	cursor := ""
	if len(properties) == limit {
		cursor = encodeCursor(properties[len(properties)-1].CreatedAt)
	}
	return properties, cursor, nil
}

func encodeCursor(t time.Time) string {
	return base64.RawURLEncoding.EncodeToString([]byte(t.UTC().Format(time.RFC3339Nano)))
}

func decodeCursor(cursor string) (time.Time, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, err
	}
	return time.Parse(time.RFC3339Nano, string(raw))
}
