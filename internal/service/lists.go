package service

import (
	"context"
	"errors"

	"shoppinglist-api/internal/fields"
	"shoppinglist-api/internal/logging"
	"shoppinglist-api/internal/models"
	"shoppinglist-api/internal/storage"
	"shoppinglist-api/internal/validation"

	"github.com/sirupsen/logrus"
)

// ListService manages lists
type ListService struct {
	store storage.Store
	opts  options
}

// NewListService creates a list service on top of store
func NewListService(store storage.Store, opts ...Option) *ListService {
	return &ListService{store: store, opts: buildOptions(opts)}
}

// All returns every list, newest first
func (s *ListService) All(ctx context.Context) ([]models.List, error) {
	lists, err := s.store.FindLists(ctx)
	if err := storeError(s.opts.metrics, "find_lists", err, nil); err != nil {
		return nil, err
	}
	if lists == nil {
		lists = []models.List{}
	}
	return lists, nil
}

// Get returns a list together with its items
func (s *ListService) Get(ctx context.Context, rawID string) (*models.ListDetail, error) {
	id, err := canonicalID(rawID, ErrInvalidListID)
	if err != nil {
		return nil, err
	}

	list, err := s.store.FindList(ctx, id)
	if err := storeError(s.opts.metrics, "find_list", err, ErrListNotFound); err != nil {
		return nil, err
	}

	items, err := s.store.FindItems(ctx, id)
	if err := storeError(s.opts.metrics, "find_items", err, nil); err != nil {
		return nil, err
	}

	return &models.ListDetail{List: *list, Items: models.NewItemViews(items)}, nil
}

// Create validates body and inserts a new list
func (s *ListService) Create(ctx context.Context, body fields.Record) (*models.List, error) {
	in, err := validation.ValidateList(body, validation.Create)
	if err != nil {
		recordValidation(s.opts, "list", err)
		return nil, err
	}

	list := newList(in, s.opts.clock.Now())
	err = s.store.InsertList(ctx, list)
	if err := storeError(s.opts.metrics, "insert_list", err, nil); err != nil {
		return nil, err
	}
	return list, nil
}

// Rename applies a partial update to a list and returns the stored result
func (s *ListService) Rename(ctx context.Context, rawID string, body fields.Record) (*models.List, error) {
	id, err := canonicalID(rawID, ErrInvalidListID)
	if err != nil {
		return nil, err
	}

	in, err := validation.ValidateList(body, validation.Update)
	if err != nil {
		recordValidation(s.opts, "list", err)
		return nil, err
	}

	err = s.store.UpdateList(ctx, id, listChanges(in, s.opts.clock.Now()))
	if err := storeError(s.opts.metrics, "update_list", err, ErrListNotFound); err != nil {
		return nil, err
	}

	list, err := s.store.FindList(ctx, id)
	if err := storeError(s.opts.metrics, "find_list", err, ErrListNotFound); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete removes a list. Its items stay behind unless cascading is enabled.
func (s *ListService) Delete(ctx context.Context, rawID string) error {
	id, err := canonicalID(rawID, ErrInvalidListID)
	if err != nil {
		return err
	}

	err = s.store.DeleteList(ctx, id)
	if err := storeError(s.opts.metrics, "delete_list", err, ErrListNotFound); err != nil {
		return err
	}

	if s.opts.cascade {
		n, err := s.store.DeleteItemsByList(ctx, id)
		if err := storeError(s.opts.metrics, "delete_items_by_list", err, nil); err != nil {
			logging.Logger.WithFields(logrus.Fields{
				"list_id": id,
				"error":   err.Error(),
			}).Warn("List deleted but its items were not removed")
			return nil
		}
		s.opts.metrics.CascadeDeleted(n)
	}
	return nil
}

func recordValidation(o options, entity string, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		o.metrics.ValidationFailure(entity, verr.First().Field)
	}
}
