package dish

import "time"

// Stored is a dish as kept by the storage service. Only the attribute
// pointers of its Type are set.
type Stored struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	PreparationTime string    `json:"preparation_time"`
	Type            Type      `json:"type"`
	NoOfSlices      *int      `json:"no_of_slices,omitempty"`
	Diameter        *float64  `json:"diameter,omitempty"`
	SpicinessScale  *int      `json:"spiciness_scale,omitempty"`
	SlicesOfBread   *int      `json:"slices_of_bread,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// Attributes returns the tagged-union view of the stored attribute fields.
func (s Stored) Attributes() Attributes {
	switch s.Type {
	case TypePizza:
		return PizzaAttributes{NoOfSlices: intNumber(s.NoOfSlices), Diameter: floatNumber(s.Diameter)}
	case TypeSoup:
		return SoupAttributes{SpicinessScale: intNumber(s.SpicinessScale)}
	case TypeSandwich:
		return SandwichAttributes{SlicesOfBread: intNumber(s.SlicesOfBread)}
	default:
		return NoAttributes{}
	}
}

func intNumber(p *int) Number {
	if p == nil {
		return NaN()
	}
	return Number(*p)
}

func floatNumber(p *float64) Number {
	if p == nil {
		return NaN()
	}
	return Number(*p)
}
