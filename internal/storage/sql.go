package storage

import (
	"context"
	"errors"

	"shoppinglist-api/internal/models"

	"gorm.io/gorm"
)

// SQLStorage implements Store on top of GORM. It serves both the PostgreSQL
// and the SQLite dialect; check constraints are enforced by the engine.
type SQLStorage struct {
	db *gorm.DB
}

// NewSQLStorage creates a new GORM-backed storage instance
func NewSQLStorage(db *gorm.DB) *SQLStorage {
	return &SQLStorage{db: db}
}

// InsertList inserts a new list row
func (s *SQLStorage) InsertList(ctx context.Context, list *models.List) error {
	return s.db.WithContext(ctx).Create(list).Error
}

// FindLists returns every list, newest first
func (s *SQLStorage) FindLists(ctx context.Context) ([]models.List, error) {
	lists := make([]models.List, 0)
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Find(&lists).Error; err != nil {
		return nil, err
	}
	return lists, nil
}

// FindList retrieves a list by ID
func (s *SQLStorage) FindList(ctx context.Context, id string) (*models.List, error) {
	var list models.List
	if err := s.db.WithContext(ctx).First(&list, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &list, nil
}

// UpdateList writes only the columns in changes
func (s *SQLStorage) UpdateList(ctx context.Context, id string, changes Changes) error {
	if err := changes.Validate("lists"); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Model(&models.List{}).
		Where("id = ?", id).
		Updates(map[string]interface{}(changes))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteList deletes a list row. Items are not touched.
func (s *SQLStorage) DeleteList(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Delete(&models.List{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// InsertItem inserts a new item row
func (s *SQLStorage) InsertItem(ctx context.Context, item *models.Item) error {
	return s.db.WithContext(ctx).Create(item).Error
}

// FindItems returns the items of a list in insertion order
func (s *SQLStorage) FindItems(ctx context.Context, listID string) ([]models.Item, error) {
	items := make([]models.Item, 0)
	if err := s.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// FindItem retrieves an item scoped by its list
func (s *SQLStorage) FindItem(ctx context.Context, listID, itemID string) (*models.Item, error) {
	var item models.Item
	if err := s.db.WithContext(ctx).
		Where("id = ? AND list_id = ?", itemID, listID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

// UpdateItem writes only the columns in changes, scoped by list
func (s *SQLStorage) UpdateItem(ctx context.Context, listID, itemID string, changes Changes) error {
	if err := changes.Validate("items"); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).
		Model(&models.Item{}).
		Where("id = ? AND list_id = ?", itemID, listID).
		Updates(map[string]interface{}(changes))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItem deletes an item scoped by its list
func (s *SQLStorage) DeleteItem(ctx context.Context, listID, itemID string) error {
	result := s.db.WithContext(ctx).
		Where("id = ? AND list_id = ?", itemID, listID).
		Delete(&models.Item{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItemsByList deletes every item of a list
func (s *SQLStorage) DeleteItemsByList(ctx context.Context, listID string) (int64, error) {
	result := s.db.WithContext(ctx).Where("list_id = ?", listID).Delete(&models.Item{})
	return result.RowsAffected, result.Error
}
