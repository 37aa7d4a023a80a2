package models

import (
	"time"

	"shoppinglist-api/internal/ids"

	"gorm.io/gorm"
)

// List represents a named shopping list. Items reference it by ID; the list
// does not own them in memory.
type List struct {
	ID        string    `gorm:"type:char(32);primaryKey" json:"_id"`
	Name      string    `gorm:"not null" json:"name"`
	CreatedAt time.Time `gorm:"not null;index:idx_lists_created_at,sort:desc" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// TableName pins the table name used by every dialect
func (List) TableName() string {
	return "lists"
}

// BeforeCreate hook to generate an ID if not set
func (l *List) BeforeCreate(_ *gorm.DB) error {
	if l.ID == "" {
		l.ID = ids.New()
	}
	return nil
}

// Item represents a purchasable entry belonging to exactly one list.
// Defaults are applied by the service, not by gorm default tags: gorm skips
// zero values for defaulted columns on insert, which would turn qty 0 into 1.
type Item struct {
	ID        string    `gorm:"type:char(32);primaryKey" json:"_id"`
	ListID    string    `gorm:"type:char(32);not null;index" json:"listId"`
	Name      string    `gorm:"not null" json:"name"`
	Qty       int32     `gorm:"type:integer;not null" json:"qty"`
	Checked   bool      `gorm:"not null" json:"checked"`
	Notes     string    `gorm:"not null" json:"notes"`
	Brand     string    `gorm:"not null" json:"brand"`
	Category  string    `gorm:"not null" json:"category"`
	Price     *float64  `gorm:"type:double precision" json:"price,omitempty"`
	Weight    *float64  `gorm:"type:double precision" json:"weight,omitempty"`
	CreatedAt time.Time `gorm:"not null;index:idx_items_created_at,sort:desc" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// TableName pins the table name used by every dialect
func (Item) TableName() string {
	return "items"
}

// BeforeCreate hook to generate an ID if not set
func (i *Item) BeforeCreate(_ *gorm.DB) error {
	if i.ID == "" {
		i.ID = ids.New()
	}
	return nil
}

// ItemView is the response projection of an item. Picked mirrors Checked
// for clients that still read the older field name.
type ItemView struct {
	Item
	Picked bool `json:"picked"`
}

// NewItemView projects a stored item for a response
func NewItemView(item Item) ItemView {
	return ItemView{Item: item, Picked: item.Checked}
}

// NewItemViews projects a slice of stored items
func NewItemViews(items []Item) []ItemView {
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, NewItemView(item))
	}
	return views
}

// ListDetail is a list together with its items
type ListDetail struct {
	List
	Items []ItemView `json:"items"`
}

// Response is the envelope every endpoint answers with
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// ErrorResponse is the envelope for failures. Error carries a single
// message; Details lists every field failure when validation rejected the
// body.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}
