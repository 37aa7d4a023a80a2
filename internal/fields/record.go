// Package fields reconciles the field names and loose value types sent by
// different client generations into one canonical record shape.
package fields

// Canonical and alias field names accepted on item bodies
const (
	Name     = "name"
	Qty      = "qty"
	Quantity = "quantity"
	Checked  = "checked"
	Picked   = "picked"
	Notes    = "notes"
	Brand    = "brand"
	Category = "category"
	Price    = "price"
	Weight   = "weight"
)

// Record is a decoded JSON object body
type Record map[string]interface{}

// Get returns the value stored under key. A JSON null counts as absent.
func (r Record) Get(key string) (interface{}, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Has reports whether key carries a non-null value
func (r Record) Has(key string) bool {
	_, ok := r.Get(key)
	return ok
}

// Clone returns a shallow copy of the record
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
