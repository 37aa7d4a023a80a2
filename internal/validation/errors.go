package validation

import "strings"

// Kind classifies why a field was rejected
type Kind string

const (
	KindRequired   Kind = "required"
	KindEmpty      Kind = "empty"
	KindType       Kind = "type"
	KindNegative   Kind = "negative"
	KindNotNumber  Kind = "not_number"
	KindNotInteger Kind = "not_integer"
	KindOutOfRange Kind = "out_of_range"
)

// User-facing messages. Quantity deliberately shares one message between
// negative and non-integer input; Kind keeps them apart.
const (
	MsgListNameRequired = "List name is required"
	MsgListNameEmpty    = "List name cannot be empty"
	MsgListNameType     = "List name must be a string"

	MsgItemNameRequired = "Item name is required"
	MsgItemNameEmpty    = "Item name cannot be empty"
	MsgItemNameType     = "Item name must be a string"
	MsgQtyNegative      = "Item quantity cannot be less than 0"
	MsgQtyTooLarge      = "Item quantity is too large"
	MsgCheckedType      = "Item checked must be a boolean"
	MsgPriceNegative    = "Item price cannot be less than 0"
	MsgWeightNegative   = "Item weight cannot be less than 0"
	MsgNotesType        = "Item notes must be a string"
	MsgBrandType        = "Item brand must be a string"
	MsgCategoryType     = "Item category must be a string"
)

// Failure describes one rejected field
type Failure struct {
	Field   string `json:"field"`
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Error is returned when a record fails validation. Failures is never empty
// and keeps the order in which fields were checked.
type Error struct {
	Failures []Failure
}

func (e *Error) Error() string {
	if len(e.Failures) == 0 {
		return "validation failed"
	}
	return e.Failures[0].Message
}

// First returns the failure that is reported to clients
func (e *Error) First() Failure {
	if len(e.Failures) == 0 {
		return Failure{}
	}
	return e.Failures[0]
}

// Fields lists the rejected field names in order
func (e *Error) Fields() string {
	names := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		names = append(names, f.Field)
	}
	return strings.Join(names, ",")
}

type collector struct {
	failures []Failure
}

func (c *collector) add(field string, kind Kind, message string) {
	c.failures = append(c.failures, Failure{Field: field, Kind: kind, Message: message})
}

func (c *collector) err() error {
	if len(c.failures) == 0 {
		return nil
	}
	return &Error{Failures: c.failures}
}
