package validation

import (
	"fmt"
	"math"
	"strings"

	"shoppinglist-api/internal/fields"
)

// Table names the rule table generates constraints for
const (
	ListsTable = "lists"
	ItemsTable = "items"
)

// TextRule constrains a text field
type TextRule struct {
	Field           string
	Column          string
	Required        bool
	RequiredMessage string
	EmptyMessage    string
	TypeMessage     string
}

// NumericRule constrains a numeric field to a lower bound
type NumericRule struct {
	Field   string
	Column  string
	Min     float64
	Integer bool
	Message string
}

// ListNameRule is the only constrained list field
var ListNameRule = TextRule{
	Field:           fields.Name,
	Column:          "name",
	Required:        true,
	RequiredMessage: MsgListNameRequired,
	EmptyMessage:    MsgListNameEmpty,
	TypeMessage:     MsgListNameType,
}

// ItemTextRules in validation order
var ItemTextRules = []TextRule{
	{Field: fields.Name, Column: "name", Required: true, RequiredMessage: MsgItemNameRequired, EmptyMessage: MsgItemNameEmpty, TypeMessage: MsgItemNameType},
	{Field: fields.Notes, Column: "notes", TypeMessage: MsgNotesType},
	{Field: fields.Brand, Column: "brand", TypeMessage: MsgBrandType},
	{Field: fields.Category, Column: "category", TypeMessage: MsgCategoryType},
}

// ItemNumericRules in validation order
var ItemNumericRules = []NumericRule{
	{Field: fields.Qty, Column: "qty", Min: 0, Integer: true, Message: MsgQtyNegative},
	{Field: fields.Price, Column: "price", Min: 0, Message: MsgPriceNegative},
	{Field: fields.Weight, Column: "weight", Min: 0, Message: MsgWeightNegative},
}

// StoreConstraint is a store-level CHECK constraint derived from the rule
// table. The store enforces it as a second line of defense; Failure is what
// a violation is reported as.
type StoreConstraint struct {
	Name    string
	Table   string
	Column  string
	Expr    string
	Failure Failure

	min     float64
	numeric bool
}

// Holds evaluates the constraint against a column value. NULL satisfies a
// CHECK, as it does in SQL.
func (c StoreConstraint) Holds(v interface{}) bool {
	if v == nil {
		return true
	}
	if c.numeric {
		f, ok := toFloat(v)
		return ok && !math.IsNaN(f) && f >= c.min
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) != ""
}

// SQL renders the constraint as a table-level CHECK clause
func (c StoreConstraint) SQL() string {
	return fmt.Sprintf("CONSTRAINT %s CHECK (%s)", c.Name, c.Expr)
}

func textConstraint(table string, r TextRule) StoreConstraint {
	return StoreConstraint{
		Name:    fmt.Sprintf("chk_%s_%s_not_blank", table, r.Column),
		Table:   table,
		Column:  r.Column,
		Expr:    fmt.Sprintf("length(trim(%s)) > 0", r.Column),
		Failure: Failure{Field: r.Field, Kind: KindRequired, Message: r.RequiredMessage},
	}
}

func numericConstraint(table string, r NumericRule) StoreConstraint {
	return StoreConstraint{
		Name:    fmt.Sprintf("chk_%s_%s_non_negative", table, r.Column),
		Table:   table,
		Column:  r.Column,
		Expr:    fmt.Sprintf("%s >= %s", r.Column, formatBound(r.Min)),
		Failure: Failure{Field: r.Field, Kind: KindNegative, Message: r.Message},
		min:     r.Min,
		numeric: true,
	}
}

func formatBound(f float64) string {
	if f == math.Trunc(f) {
		return fmt.Sprintf("%d", int64(f))
	}
	return fmt.Sprintf("%g", f)
}

// StoreConstraints returns every constraint the store must enforce
func StoreConstraints() []StoreConstraint {
	out := []StoreConstraint{textConstraint(ListsTable, ListNameRule)}
	for _, r := range ItemTextRules {
		if r.Required {
			out = append(out, textConstraint(ItemsTable, r))
		}
	}
	for _, r := range ItemNumericRules {
		out = append(out, numericConstraint(ItemsTable, r))
	}
	return out
}

// ConstraintsFor returns the constraints declared on one table
func ConstraintsFor(table string) []StoreConstraint {
	var out []StoreConstraint
	for _, c := range StoreConstraints() {
		if c.Table == table {
			out = append(out, c)
		}
	}
	return out
}

// LookupConstraint finds a constraint by its store name
func LookupConstraint(name string) (StoreConstraint, bool) {
	for _, c := range StoreConstraints() {
		if c.Name == name {
			return c, true
		}
	}
	return StoreConstraint{}, false
}

// LookupColumn finds the constraint guarding a column. An empty table
// matches any table.
func LookupColumn(table, column string) (StoreConstraint, bool) {
	for _, c := range StoreConstraints() {
		if c.Column == column && (table == "" || c.Table == table) {
			return c, true
		}
	}
	return StoreConstraint{}, false
}
