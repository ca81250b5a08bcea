package usecase

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"lupain/internal/domain/entity"
	"lupain/internal/domain/repository"
	"lupain/internal/domain/service"
	"lupain/pkg/errors"
)

// fakePropertyRepo is an in-memory stand-in for the store, good enough for
// the contracts the use cases rely on.
type fakePropertyRepo struct {
	mu         sync.Mutex
	items      map[string]*entity.Property
	increments int
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{items: make(map[string]*entity.Property)}
}

func (r *fakePropertyRepo) Create(ctx context.Context, property *entity.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[property.ID]; exists {
		return errors.Conflict("Property id already exists", nil)
	}
	clone := *property
	r.items[property.ID] = &clone
	return nil
}

func (r *fakePropertyRepo) GetByID(ctx context.Context, id string) (*entity.Property, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	property, ok := r.items[id]
	if !ok {
		return nil, errors.NotFound("Property", nil)
	}
	clone := *property
	return &clone, nil
}

func (r *fakePropertyRepo) Update(ctx context.Context, property *entity.Property) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *property
	r.items[property.ID] = &clone
	return nil
}

func (r *fakePropertyRepo) Delete(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)
	return true, nil
}

func (r *fakePropertyRepo) IncrementViews(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	property, ok := r.items[id]
	if !ok {
		return errors.NotFound("Property", nil)
	}
	property.ViewCount++
	r.increments++
	return nil
}

func (r *fakePropertyRepo) incrementCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.increments
}

func (r *fakePropertyRepo) viewCount(id string) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.items[id].ViewCount
}

func (r *fakePropertyRepo) list(match func(*entity.Property) bool, opts repository.ListOptions) ([]*entity.Property, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*entity.Property
	for _, property := range r.items {
		if match(property) {
			clone := *property
			out = append(out, &clone)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	limit := opts.Limit
	if limit <= 0 {
		limit = 20
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, "", nil
}

func (r *fakePropertyRepo) ListByOwner(ctx context.Context, ownerID string, opts repository.ListOptions) ([]*entity.Property, string, error) {
	return r.list(func(p *entity.Property) bool { return p.OwnerID == ownerID }, opts)
}

func (r *fakePropertyRepo) ListByType(ctx context.Context, propertyType string, opts repository.ListOptions) ([]*entity.Property, string, error) {
	return r.list(func(p *entity.Property) bool { return p.Type == propertyType }, opts)
}

func (r *fakePropertyRepo) ListAvailable(ctx context.Context, opts repository.ListOptions) ([]*entity.Property, string, error) {
	return r.list(func(p *entity.Property) bool { return p.Status == entity.StatusAvailable }, opts)
}

func (r *fakePropertyRepo) FetchCandidates(ctx context.Context, q repository.CandidateQuery) ([]*entity.Property, string, error) {
	return r.list(func(p *entity.Property) bool {
		if q.OwnerID != "" && p.OwnerID != q.OwnerID {
			return false
		}
		if q.Status != "" && p.Status != q.Status {
			return false
		}
		return true
	}, repository.ListOptions{Limit: q.Limit})
}

var _ repository.PropertyRepository = (*fakePropertyRepo)(nil)

// fakeStorage is an in-memory bucket. failPutOn, when positive, makes that
// PutObject invocation (1-based) fail.
type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string][]byte
	types     map[string]string
	failPutOn int
	puts      int
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (s *fakeStorage) PutObject(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.puts++
	if s.failPutOn > 0 && s.puts == s.failPutOn {
		return "", errors.Dependency("bucket unavailable", nil)
	}
	s.objects[key] = append([]byte(nil), data...)
	s.types[key] = contentType
	return key, nil
}

func (s *fakeStorage) GetObject(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, errors.NotFound("Object", nil)
	}
	return append([]byte(nil), data...), nil
}

func (s *fakeStorage) DeleteObject(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	delete(s.types, key)
	return nil
}

func (s *fakeStorage) DeleteByPrefix(ctx context.Context, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			delete(s.objects, key)
			delete(s.types, key)
		}
	}
	return nil
}

func (s *fakeStorage) ListObjects(ctx context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for key := range s.objects {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *fakeStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return "https://signed.example/" + key, nil
}

func (s *fakeStorage) PresignPut(ctx context.Context, key string, contentType string, ttl time.Duration) (string, error) {
	return "https://signed.example/put/" + key, nil
}

var _ service.ObjectStorage = (*fakeStorage)(nil)

// fakeProcessor passes bytes through unchanged. failOnCall, when positive,
// makes that Process invocation (1-based) fail.
type fakeProcessor struct {
	validateErr error
	processErr  error
	failOnCall  int
	calls       int
}

func (p *fakeProcessor) Process(data []byte, spec service.ResizeSpec) ([]byte, string, error) {
	p.calls++
	if p.failOnCall > 0 && p.calls == p.failOnCall {
		return nil, "", errors.Processing("Failed to process image", nil)
	}
	if p.processErr != nil {
		return nil, "", p.processErr
	}
	return data, "image/jpeg", nil
}

func (p *fakeProcessor) Validate(data []byte) error {
	return p.validateErr
}

var _ service.ImageProcessor = (*fakeProcessor)(nil)

// fakeMailer records sends.
type fakeMailer struct {
	mu   sync.Mutex
	sent []service.WelcomeMail
	fail bool
}

func (m *fakeMailer) SendWelcome(ctx context.Context, mail service.WelcomeMail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.Dependency("mail provider down", nil)
	}
	m.sent = append(m.sent, mail)
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

var _ service.Mailer = (*fakeMailer)(nil)
