// Package validation enforces per-field constraints on normalized list and
// item records and owns the rule table the store constraints are generated
// from.
package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"shoppinglist-api/internal/fields"
)

// Mode selects create or partial-update semantics
type Mode int

const (
	Create Mode = iota
	Update
)

func (m Mode) String() string {
	if m == Update {
		return "update"
	}
	return "create"
}

// ListInput is a validated list body. Nil fields were not supplied.
type ListInput struct {
	Name *string
}

// ItemInput is a validated item body in canonical types. Nil fields were
// not supplied.
type ItemInput struct {
	Name     *string
	Qty      *int32
	Checked  *bool
	Notes    *string
	Brand    *string
	Category *string
	Price    *float64
	Weight   *float64
}

// ValidateList checks a list body
func ValidateList(rec fields.Record, mode Mode) (ListInput, error) {
	var c collector
	var in ListInput
	in.Name = checkText(&c, rec, ListNameRule, mode)
	if err := c.err(); err != nil {
		return ListInput{}, err
	}
	return in, nil
}

// ValidateItem checks a normalized item body. All failures are collected;
// clients are shown the first.
func ValidateItem(rec fields.Record, mode Mode) (ItemInput, error) {
	var c collector
	var in ItemInput

	in.Name = checkText(&c, rec, ItemTextRules[0], mode)
	in.Qty = checkQty(&c, rec, ItemNumericRules[0])
	in.Checked = checkBool(&c, rec, fields.Checked, MsgCheckedType)
	in.Notes = checkText(&c, rec, ItemTextRules[1], mode)
	in.Brand = checkText(&c, rec, ItemTextRules[2], mode)
	in.Category = checkText(&c, rec, ItemTextRules[3], mode)
	in.Price = checkNonNegative(&c, rec, ItemNumericRules[1])
	in.Weight = checkNonNegative(&c, rec, ItemNumericRules[2])

	if err := c.err(); err != nil {
		return ItemInput{}, err
	}
	return in, nil
}

func checkText(c *collector, rec fields.Record, r TextRule, mode Mode) *string {
	v, ok := rec.Get(r.Field)
	if !ok {
		if r.Required && mode == Create {
			c.add(r.Field, KindRequired, r.RequiredMessage)
		}
		return nil
	}

	s, isString := v.(string)
	if !isString {
		c.add(r.Field, KindType, r.TypeMessage)
		return nil
	}
	if !r.Required {
		return &s
	}

	s = strings.TrimSpace(s)
	if s == "" {
		if mode == Create {
			c.add(r.Field, KindRequired, r.RequiredMessage)
		} else {
			c.add(r.Field, KindEmpty, r.EmptyMessage)
		}
		return nil
	}
	return &s
}

func checkQty(c *collector, rec fields.Record, r NumericRule) *int32 {
	v, ok := rec.Get(r.Field)
	if !ok {
		return nil
	}

	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		c.add(r.Field, KindNotInteger, r.Message)
		return nil
	}

	n := math.Floor(f)
	if n < r.Min {
		c.add(r.Field, KindNegative, r.Message)
		return nil
	}
	if n > math.MaxInt32 {
		c.add(r.Field, KindOutOfRange, MsgQtyTooLarge)
		return nil
	}

	q := int32(n)
	return &q
}

func checkNonNegative(c *collector, rec fields.Record, r NumericRule) *float64 {
	v, ok := rec.Get(r.Field)
	if !ok {
		return nil
	}

	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		c.add(r.Field, KindNotNumber, r.Message)
		return nil
	}
	if f < r.Min {
		c.add(r.Field, KindNegative, r.Message)
		return nil
	}
	return &f
}

func checkBool(c *collector, rec fields.Record, field, message string) *bool {
	v, ok := rec.Get(field)
	if !ok {
		return nil
	}
	b, isBool := v.(bool)
	if !isBool {
		c.add(field, KindType, message)
		return nil
	}
	return &b
}

// toFloat accepts JSON numbers and numeric strings. Booleans are not numbers.
func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
