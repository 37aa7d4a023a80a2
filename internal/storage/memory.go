package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"shoppinglist-api/internal/ids"
	"shoppinglist-api/internal/models"
	"shoppinglist-api/internal/validation"
)

// MemoryStorage provides in-memory storage for lists and items. It enforces
// the same check constraints as the SQL schema so both backends reject the
// same documents.
type MemoryStorage struct {
	mu    sync.RWMutex
	lists map[string]*models.List // maps list ID to list
	items map[string]*models.Item // maps item ID to item
}

// NewMemoryStorage creates a new in-memory storage instance
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		lists: make(map[string]*models.List),
		items: make(map[string]*models.Item),
	}
}

// InsertList stores a new list document
func (s *MemoryStorage) InsertList(ctx context.Context, list *models.List) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if list.ID == "" {
		list.ID = ids.New()
	}
	if err := checkList(list); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.lists[list.ID]; exists {
		return fmt.Errorf("duplicate list id %s", list.ID)
	}
	stored := *list
	s.lists[list.ID] = &stored
	return nil
}

// FindLists returns every list, newest first
func (s *MemoryStorage) FindLists(ctx context.Context) ([]models.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	lists := make([]models.List, 0, len(s.lists))
	for _, list := range s.lists {
		lists = append(lists, *list)
	}

	sort.Slice(lists, func(i, j int) bool {
		if lists[i].CreatedAt.Equal(lists[j].CreatedAt) {
			return lists[i].ID > lists[j].ID
		}
		return lists[i].CreatedAt.After(lists[j].CreatedAt)
	})
	return lists, nil
}

// FindList returns a list by ID
func (s *MemoryStorage) FindList(ctx context.Context, id string) (*models.List, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	list, exists := s.lists[id]
	if !exists {
		return nil, ErrNotFound
	}
	listCopy := *list
	return &listCopy, nil
}

// UpdateList applies a sparse change set to a list
func (s *MemoryStorage) UpdateList(ctx context.Context, id string, changes Changes) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	list, exists := s.lists[id]
	if !exists {
		return ErrNotFound
	}

	updated := *list
	if err := applyListChanges(&updated, changes); err != nil {
		return err
	}
	if err := checkList(&updated); err != nil {
		return err
	}
	*list = updated
	return nil
}

// DeleteList removes a list. Items that reference it are left in place.
func (s *MemoryStorage) DeleteList(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.lists[id]; !exists {
		return ErrNotFound
	}
	delete(s.lists, id)
	return nil
}

// InsertItem stores a new item document
func (s *MemoryStorage) InsertItem(ctx context.Context, item *models.Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if item.ID == "" {
		item.ID = ids.New()
	}
	if err := checkItem(item); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; exists {
		return fmt.Errorf("duplicate item id %s", item.ID)
	}
	stored := copyItem(item)
	s.items[item.ID] = stored
	return nil
}

// FindItems returns the items of a list in insertion order
func (s *MemoryStorage) FindItems(ctx context.Context, listID string) ([]models.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.Item, 0)
	for _, item := range s.items {
		if item.ListID == listID {
			items = append(items, *copyItem(item))
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID < items[j].ID
		}
		return items[i].CreatedAt.Before(items[j].CreatedAt)
	})
	return items, nil
}

// FindItem returns an item only if it belongs to the given list
func (s *MemoryStorage) FindItem(ctx context.Context, listID, itemID string) (*models.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.items[itemID]
	if !exists || item.ListID != listID {
		return nil, ErrNotFound
	}
	return copyItem(item), nil
}

// UpdateItem applies a sparse change set to an item scoped by its list
func (s *MemoryStorage) UpdateItem(ctx context.Context, listID, itemID string, changes Changes) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[itemID]
	if !exists || item.ListID != listID {
		return ErrNotFound
	}

	updated := copyItem(item)
	if err := applyItemChanges(updated, changes); err != nil {
		return err
	}
	if err := checkItem(updated); err != nil {
		return err
	}
	s.items[itemID] = updated
	return nil
}

// DeleteItem removes an item scoped by its list
func (s *MemoryStorage) DeleteItem(ctx context.Context, listID, itemID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	item, exists := s.items[itemID]
	if !exists || item.ListID != listID {
		return ErrNotFound
	}
	delete(s.items, itemID)
	return nil
}

// DeleteItemsByList removes every item of a list and reports how many went
func (s *MemoryStorage) DeleteItemsByList(ctx context.Context, listID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, item := range s.items {
		if item.ListID == listID {
			delete(s.items, id)
			deleted++
		}
	}
	return deleted, nil
}

func copyItem(item *models.Item) *models.Item {
	c := *item
	if item.Price != nil {
		p := *item.Price
		c.Price = &p
	}
	if item.Weight != nil {
		w := *item.Weight
		c.Weight = &w
	}
	return &c
}

func listColumns(l *models.List) map[string]interface{} {
	return map[string]interface{}{"name": l.Name}
}

func itemColumns(i *models.Item) map[string]interface{} {
	cols := map[string]interface{}{
		"name": i.Name,
		"qty":  i.Qty,
	}
	if i.Price != nil {
		cols["price"] = *i.Price
	}
	if i.Weight != nil {
		cols["weight"] = *i.Weight
	}
	return cols
}

func checkRow(table string, cols map[string]interface{}) error {
	for _, c := range validation.ConstraintsFor(table) {
		if !c.Holds(cols[c.Column]) {
			return &ConstraintError{Table: table, Constraint: c.Name}
		}
	}
	return nil
}

func checkList(l *models.List) error {
	return checkRow(validation.ListsTable, listColumns(l))
}

func checkItem(i *models.Item) error {
	return checkRow(validation.ItemsTable, itemColumns(i))
}
