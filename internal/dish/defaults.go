package dish

// Defaults maps each dish type to the attributes a type change resets to.
// A Defaults value is read-only after construction.
type Defaults struct {
	byType map[Type]Attributes
}

// DefaultTable returns the stock defaults: pizza 0 slices and 0.0 diameter,
// soup spiciness 5, sandwich 0 slices of bread, and nothing for no type.
func DefaultTable() Defaults {
	return NewDefaults(map[Type]Attributes{
		TypeNone:     NoAttributes{},
		TypePizza:    PizzaAttributes{NoOfSlices: 0, Diameter: 0.0},
		TypeSoup:     SoupAttributes{SpicinessScale: 5},
		TypeSandwich: SandwichAttributes{SlicesOfBread: 0},
	})
}

// NewDefaults builds a table from m. Entries whose variant does not match
// their key are ignored so a type change can never produce mismatched
// attributes.
func NewDefaults(m map[Type]Attributes) Defaults {
	byType := make(map[Type]Attributes, len(m))
	for t, a := range m {
		if a == nil || a.Type() != t {
			continue
		}
		byType[t] = a
	}
	return Defaults{byType: byType}
}

// For returns the default attributes of t. Unknown or missing types get the
// empty variant.
func (d Defaults) For(t Type) Attributes {
	if a, ok := d.byType[t]; ok {
		return a
	}
	switch t {
	case TypePizza:
		return PizzaAttributes{}
	case TypeSoup:
		return SoupAttributes{}
	case TypeSandwich:
		return SandwichAttributes{}
	default:
		return NoAttributes{}
	}
}
