package storage

import (
	"fmt"
	"time"

	"shoppinglist-api/internal/models"
)

// Column names accepted in a change set
const (
	ColName      = "name"
	ColQty       = "qty"
	ColChecked   = "checked"
	ColNotes     = "notes"
	ColBrand     = "brand"
	ColCategory  = "category"
	ColPrice     = "price"
	ColWeight    = "weight"
	ColUpdatedAt = "updated_at"
)

var (
	listColumnSet = map[string]bool{ColName: true, ColUpdatedAt: true}
	itemColumnSet = map[string]bool{
		ColName: true, ColQty: true, ColChecked: true, ColNotes: true, ColBrand: true,
		ColCategory: true, ColPrice: true, ColWeight: true, ColUpdatedAt: true,
	}
)

// Validate rejects columns that are not updatable on the given table. id,
// list_id and created_at are never updatable.
func (c Changes) Validate(table string) error {
	allowed := itemColumnSet
	if table == "lists" {
		allowed = listColumnSet
	}
	for col := range c {
		if !allowed[col] {
			return fmt.Errorf("column %q is not updatable on %s", col, table)
		}
	}
	return nil
}

func applyListChanges(l *models.List, changes Changes) error {
	if err := changes.Validate("lists"); err != nil {
		return err
	}
	for col, v := range changes {
		var ok bool
		switch col {
		case ColName:
			l.Name, ok = v.(string)
		case ColUpdatedAt:
			l.UpdatedAt, ok = v.(time.Time)
		}
		if !ok {
			return fmt.Errorf("column %q: unexpected value type %T", col, v)
		}
	}
	return nil
}

func applyItemChanges(i *models.Item, changes Changes) error {
	if err := changes.Validate("items"); err != nil {
		return err
	}
	for col, v := range changes {
		ok := true
		switch col {
		case ColName:
			i.Name, ok = v.(string)
		case ColQty:
			i.Qty, ok = v.(int32)
		case ColChecked:
			i.Checked, ok = v.(bool)
		case ColNotes:
			i.Notes, ok = v.(string)
		case ColBrand:
			i.Brand, ok = v.(string)
		case ColCategory:
			i.Category, ok = v.(string)
		case ColPrice:
			i.Price, ok = floatPtr(v)
		case ColWeight:
			i.Weight, ok = floatPtr(v)
		case ColUpdatedAt:
			i.UpdatedAt, ok = v.(time.Time)
		}
		if !ok {
			return fmt.Errorf("column %q: unexpected value type %T", col, v)
		}
	}
	return nil
}

func floatPtr(v interface{}) (*float64, bool) {
	switch f := v.(type) {
	case nil:
		return nil, true
	case float64:
		return &f, true
	case *float64:
		if f == nil {
			return nil, true
		}
		c := *f
		return &c, true
	}
	return nil, false
}
