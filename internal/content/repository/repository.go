// Package repository persists content entities in MongoDB or in memory.
package repository

import (
	"context"

	"github.com/khanhtoandng/me-sub001/internal/content"
)

// Repository is the storage contract shared by every CMS collection.
// Missing documents are reported as content.ErrNotFound.
type Repository[T content.Entity] interface {
	Create(ctx context.Context, e T) error
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context, q content.Query) ([]T, error)
	// Replace overwrites the stored document with the same id.
	Replace(ctx context.Context, e T) error
	Delete(ctx context.Context, id string) error
}
