// Package service applies normalization, validation, ids and timestamps on
// top of a content repository.
package service

import (
	"context"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/khanhtoandng/me-sub001/internal/content"
	"github.com/khanhtoandng/me-sub001/internal/content/repository"
)

// Service implements the CMS operations for one schema.
type Service[T content.Entity] struct {
	repo   repository.Repository[T]
	schema content.Schema[T]
	now    func() time.Time
}

func New[T content.Entity](schema content.Schema[T], repo repository.Repository[T]) *Service[T] {
	return &Service[T]{repo: repo, schema: schema, now: time.Now}
}

// NewMemory returns a Service backed by an in-memory repository.
func NewMemory[T content.Entity](schema content.Schema[T]) *Service[T] {
	return New(schema, repository.NewMemoryRepo(schema.New))
}

func (s *Service[T]) Schema() content.Schema[T] { return s.schema }

// timestamps are stored with millisecond precision in MongoDB
func (s *Service[T]) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *Service[T]) Create(ctx context.Context, e T) (T, error) {
	e.Normalize()
	if err := content.Validate(e); err != nil {
		var zero T
		return zero, err
	}
	now := s.timestamp()
	e.SetID(uuid.NewString())
	e.SetTimestamps(now, now)
	if err := s.repo.Create(ctx, e); err != nil {
		var zero T
		return zero, err
	}
	return e, nil
}

func (s *Service[T]) Get(ctx context.Context, id string) (T, error) {
	return s.repo.Get(ctx, id)
}

// List parses filters from query parameters and returns matching documents.
func (s *Service[T]) List(ctx context.Context, params url.Values) ([]T, error) {
	q, err := s.schema.Query(params)
	if err != nil {
		return nil, err
	}
	return s.repo.List(ctx, q)
}

// Update replaces the document stored under id with e. The id and creation
// time of the stored document are kept whatever e carries.
func (s *Service[T]) Update(ctx context.Context, id string, e T) (T, error) {
	var zero T
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return zero, err
	}
	e.Normalize()
	if err := content.Validate(e); err != nil {
		return zero, err
	}
	e.SetID(id)
	e.SetTimestamps(existing.Created(), s.timestamp())
	if err := s.repo.Replace(ctx, e); err != nil {
		return zero, err
	}
	return e, nil
}

func (s *Service[T]) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
