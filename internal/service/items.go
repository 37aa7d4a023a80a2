package service

import (
	"context"

	"shoppinglist-api/internal/fields"
	"shoppinglist-api/internal/models"
	"shoppinglist-api/internal/storage"
	"shoppinglist-api/internal/validation"
)

// ItemService manages the items of a list. Every lookup is filtered by both
// the item ID and the owning list ID.
type ItemService struct {
	store storage.Store
	opts  options
}

// NewItemService creates an item service on top of store
func NewItemService(store storage.Store, opts ...Option) *ItemService {
	return &ItemService{store: store, opts: buildOptions(opts)}
}

func itemIDs(rawListID, rawItemID string) (string, string, error) {
	listID, err := canonicalID(rawListID, ErrInvalidListID)
	if err != nil {
		return "", "", err
	}
	itemID, err := canonicalID(rawItemID, ErrInvalidItemID)
	if err != nil {
		return "", "", err
	}
	return listID, itemID, nil
}

// List returns the items of a list. A list that does not exist has no items.
func (s *ItemService) List(ctx context.Context, rawListID string) ([]models.ItemView, error) {
	listID, err := canonicalID(rawListID, ErrInvalidListID)
	if err != nil {
		return nil, err
	}

	items, err := s.store.FindItems(ctx, listID)
	if err := storeError(s.opts.metrics, "find_items", err, nil); err != nil {
		return nil, err
	}
	return models.NewItemViews(items), nil
}

// Get returns one item of a list
func (s *ItemService) Get(ctx context.Context, rawListID, rawItemID string) (*models.ItemView, error) {
	listID, itemID, err := itemIDs(rawListID, rawItemID)
	if err != nil {
		return nil, err
	}

	item, err := s.store.FindItem(ctx, listID, itemID)
	if err := storeError(s.opts.metrics, "find_item", err, ErrItemNotFound); err != nil {
		return nil, err
	}
	view := models.NewItemView(*item)
	return &view, nil
}

// Create normalizes and validates body, then inserts a new item. The list
// is not required to exist.
func (s *ItemService) Create(ctx context.Context, rawListID string, body fields.Record) (*models.ItemView, error) {
	listID, err := canonicalID(rawListID, ErrInvalidListID)
	if err != nil {
		return nil, err
	}

	in, err := validation.ValidateItem(fields.Normalize(body), validation.Create)
	if err != nil {
		recordValidation(s.opts, "item", err)
		return nil, err
	}

	item := newItem(listID, in, s.opts.clock.Now())
	err = s.store.InsertItem(ctx, item)
	if err := storeError(s.opts.metrics, "insert_item", err, nil); err != nil {
		return nil, err
	}
	view := models.NewItemView(*item)
	return &view, nil
}

// Update writes only the supplied fields and returns the stored result
func (s *ItemService) Update(ctx context.Context, rawListID, rawItemID string, body fields.Record) (*models.ItemView, error) {
	listID, itemID, err := itemIDs(rawListID, rawItemID)
	if err != nil {
		return nil, err
	}

	in, err := validation.ValidateItem(fields.Normalize(body), validation.Update)
	if err != nil {
		recordValidation(s.opts, "item", err)
		return nil, err
	}

	err = s.store.UpdateItem(ctx, listID, itemID, itemChanges(in, s.opts.clock.Now()))
	if err := storeError(s.opts.metrics, "update_item", err, ErrItemNotFound); err != nil {
		return nil, err
	}

	item, err := s.store.FindItem(ctx, listID, itemID)
	if err := storeError(s.opts.metrics, "find_item", err, ErrItemNotFound); err != nil {
		return nil, err
	}
	view := models.NewItemView(*item)
	return &view, nil
}

// Delete removes one item of a list
func (s *ItemService) Delete(ctx context.Context, rawListID, rawItemID string) error {
	listID, itemID, err := itemIDs(rawListID, rawItemID)
	if err != nil {
		return err
	}

	err = s.store.DeleteItem(ctx, listID, itemID)
	return storeError(s.opts.metrics, "delete_item", err, ErrItemNotFound)
}
