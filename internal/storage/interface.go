package storage

import (
	"context"
	"errors"
	"fmt"

	"shoppinglist-api/internal/models"
)

var (
	// ErrNotFound is returned when a scoped filter matched no document
	ErrNotFound = errors.New("document not found")
)

// Changes is a sparse update keyed by column name. Only the columns present
// are written.
type Changes map[string]interface{}

// ConstraintError is returned by stores that enforce check constraints in
// process rather than in a database engine
type ConstraintError struct {
	Table      string
	Constraint string
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("new row for %q violates check constraint %q", e.Table, e.Constraint)
}

// Store defines the interface for storage operations. Every mutation is a
// single-document operation; there are no multi-document transactions.
type Store interface {
	// List operations
	InsertList(ctx context.Context, list *models.List) error
	FindLists(ctx context.Context) ([]models.List, error)
	FindList(ctx context.Context, id string) (*models.List, error)
	UpdateList(ctx context.Context, id string, changes Changes) error
	DeleteList(ctx context.Context, id string) error

	// Item operations, scoped by owning list
	InsertItem(ctx context.Context, item *models.Item) error
	FindItems(ctx context.Context, listID string) ([]models.Item, error)
	FindItem(ctx context.Context, listID, itemID string) (*models.Item, error)
	UpdateItem(ctx context.Context, listID, itemID string, changes Changes) error
	DeleteItem(ctx context.Context, listID, itemID string) error
	DeleteItemsByList(ctx context.Context, listID string) (int64, error)
}
