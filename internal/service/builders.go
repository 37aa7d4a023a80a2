package service

import (
	"time"

	"shoppinglist-api/internal/models"
	"shoppinglist-api/internal/storage"
	"shoppinglist-api/internal/validation"
)

// Item defaults applied on insert
const (
	DefaultQty     int32 = 1
	DefaultChecked       = false
)

func newList(in validation.ListInput, now time.Time) *models.List {
	list := &models.List{CreatedAt: now, UpdatedAt: now}
	if in.Name != nil {
		list.Name = *in.Name
	}
	return list
}

func listChanges(in validation.ListInput, now time.Time) storage.Changes {
	changes := storage.Changes{storage.ColUpdatedAt: now}
	if in.Name != nil {
		changes[storage.ColName] = *in.Name
	}
	return changes
}

// newItem builds the insert document. price and weight are stored only when
// supplied.
func newItem(listID string, in validation.ItemInput, now time.Time) *models.Item {
	item := &models.Item{
		ListID:    listID,
		Qty:       DefaultQty,
		Checked:   DefaultChecked,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Qty != nil {
		item.Qty = *in.Qty
	}
	if in.Checked != nil {
		item.Checked = *in.Checked
	}
	if in.Notes != nil {
		item.Notes = *in.Notes
	}
	if in.Brand != nil {
		item.Brand = *in.Brand
	}
	if in.Category != nil {
		item.Category = *in.Category
	}
	if in.Price != nil {
		p := *in.Price
		item.Price = &p
	}
	if in.Weight != nil {
		w := *in.Weight
		item.Weight = &w
	}
	return item
}

// itemChanges holds exactly the supplied fields plus updated_at
func itemChanges(in validation.ItemInput, now time.Time) storage.Changes {
	changes := storage.Changes{storage.ColUpdatedAt: now}
	if in.Name != nil {
		changes[storage.ColName] = *in.Name
	}
	if in.Qty != nil {
		changes[storage.ColQty] = *in.Qty
	}
	if in.Checked != nil {
		changes[storage.ColChecked] = *in.Checked
	}
	if in.Notes != nil {
		changes[storage.ColNotes] = *in.Notes
	}
	if in.Brand != nil {
		changes[storage.ColBrand] = *in.Brand
	}
	if in.Category != nil {
		changes[storage.ColCategory] = *in.Category
	}
	if in.Price != nil {
		changes[storage.ColPrice] = *in.Price
	}
	if in.Weight != nil {
		changes[storage.ColWeight] = *in.Weight
	}
	return changes
}
