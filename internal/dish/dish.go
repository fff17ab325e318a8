// Package dish holds the dish record model: the dish types, their
// type-specific attributes, field validators, the defaults table and the
// JSON payload sent to the dish storage service.
package dish

import (
	"fmt"
	"math"
	"strconv"
)

// Type is the dish category chosen in the type selector.
type Type string

const (
	TypeNone     Type = ""
	TypePizza    Type = "pizza"
	TypeSoup     Type = "soup"
	TypeSandwich Type = "sandwich"
)

// Field names as they appear in the form, the validation state and the payload.
const (
	FieldName            = "name"
	FieldPreparationTime = "preparation_time"
	FieldType            = "type"
	FieldNoOfSlices      = "no_of_slices"
	FieldDiameter        = "diameter"
	FieldSpicinessScale  = "spiciness_scale"
	FieldSlicesOfBread   = "slices_of_bread"
)

// ZeroPreparationTime is the default preparation time. It matches the time
// format but is never a valid preparation time.
const ZeroPreparationTime = "00:00:00"

// Types returns the selector options in display order.
func Types() []Type {
	return []Type{TypeNone, TypePizza, TypeSoup, TypeSandwich}
}

// ParseType maps a raw selector value onto a Type.
// The boolean is false for values outside the known set.
func ParseType(raw string) (Type, bool) {
	switch t := Type(raw); t {
	case TypeNone, TypePizza, TypeSoup, TypeSandwich:
		return t, true
	default:
		return TypeNone, false
	}
}

// Label returns the human name shown in selectors.
func (t Type) Label() string {
	if t == TypeNone {
		return "none"
	}
	return string(t)
}

// Number is a numeric attribute value. Input that cannot be parsed is
// carried as NaN so it stays in the record and fails validation.
type Number float64

// NaN returns the not-a-number sentinel.
func NaN() Number { return Number(math.NaN()) }

// IsNaN reports whether n is the not-a-number sentinel.
func (n Number) IsNaN() bool { return math.IsNaN(float64(n)) }

// String formats n the way it is typed: "4", "30.5", "NaN".
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

// MarshalJSON encodes NaN and infinities as null.
func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
}

// Attributes is the type-specific part of a dish. Exactly one variant exists
// per Type; adding a dish type means adding a variant here and an entry in
// the defaults table.
type Attributes interface {
	Type() Type
	// Keys lists the attribute field names in display order.
	Keys() []string
	Get(key string) (Number, bool)
	// With returns a copy with key replaced.
	With(key string, v Number) (Attributes, error)

	isAttributes()
}

// ErrUnknownField is returned when a field name does not exist on the
// record or on the current attribute variant.
type ErrUnknownField struct {
	Field string
	Type  Type
}

func (e *ErrUnknownField) Error() string {
	if e.Type == TypeNone {
		return fmt.Sprintf("unknown field %q", e.Field)
	}
	return fmt.Sprintf("unknown field %q for dish type %s", e.Field, e.Type)
}

// NoAttributes is the empty variant used when no type is selected.
type NoAttributes struct{}

func (NoAttributes) Type() Type                    { return TypeNone }
func (NoAttributes) Keys() []string                { return nil }
func (NoAttributes) Get(string) (Number, bool)     { return 0, false }
func (NoAttributes) isAttributes()                 {}
func (NoAttributes) With(key string, _ Number) (Attributes, error) {
	return nil, &ErrUnknownField{Field: key}
}

// PizzaAttributes are the extra fields of a pizza.
type PizzaAttributes struct {
	NoOfSlices Number
	Diameter   Number
}

func (PizzaAttributes) Type() Type     { return TypePizza }
func (PizzaAttributes) Keys() []string { return []string{FieldNoOfSlices, FieldDiameter} }
func (PizzaAttributes) isAttributes()  {}

func (a PizzaAttributes) Get(key string) (Number, bool) {
	switch key {
	case FieldNoOfSlices:
		return a.NoOfSlices, true
	case FieldDiameter:
		return a.Diameter, true
	}
	return 0, false
}

func (a PizzaAttributes) With(key string, v Number) (Attributes, error) {
	switch key {
	case FieldNoOfSlices:
		a.NoOfSlices = v
	case FieldDiameter:
		a.Diameter = v
	default:
		return nil, &ErrUnknownField{Field: key, Type: TypePizza}
	}
	return a, nil
}

// SoupAttributes are the extra fields of a soup.
type SoupAttributes struct {
	SpicinessScale Number
}

func (SoupAttributes) Type() Type     { return TypeSoup }
func (SoupAttributes) Keys() []string { return []string{FieldSpicinessScale} }
func (SoupAttributes) isAttributes()  {}

func (a SoupAttributes) Get(key string) (Number, bool) {
	if key == FieldSpicinessScale {
		return a.SpicinessScale, true
	}
	return 0, false
}

func (a SoupAttributes) With(key string, v Number) (Attributes, error) {
	if key != FieldSpicinessScale {
		return nil, &ErrUnknownField{Field: key, Type: TypeSoup}
	}
	a.SpicinessScale = v
	return a, nil
}

// SandwichAttributes are the extra fields of a sandwich.
type SandwichAttributes struct {
	SlicesOfBread Number
}

func (SandwichAttributes) Type() Type     { return TypeSandwich }
func (SandwichAttributes) Keys() []string { return []string{FieldSlicesOfBread} }
func (SandwichAttributes) isAttributes()  {}

func (a SandwichAttributes) Get(key string) (Number, bool) {
	if key == FieldSlicesOfBread {
		return a.SlicesOfBread, true
	}
	return 0, false
}

func (a SandwichAttributes) With(key string, v Number) (Attributes, error) {
	if key != FieldSlicesOfBread {
		return nil, &ErrUnknownField{Field: key, Type: TypeSandwich}
	}
	a.SlicesOfBread = v
	return a, nil
}

// Record is the dish being built by the form. Name, PreparationTime and
// Type hold raw input text; Attributes always matches Type.
type Record struct {
	Name            string
	PreparationTime string
	Type            string
	Attributes      Attributes
}

// DefaultRecord returns the record a fresh form starts with.
func DefaultRecord() Record {
	return Record{
		Name:            "",
		PreparationTime: ZeroPreparationTime,
		Type:            string(TypeNone),
		Attributes:      NoAttributes{},
	}
}

// DishType returns the parsed Type of the record.
func (r Record) DishType() Type {
	t, _ := ParseType(r.Type)
	return t
}

// IsDecimalField reports whether key takes decimal input. Every other
// attribute takes an integer.
func IsDecimalField(key string) bool {
	return key == FieldDiameter
}
