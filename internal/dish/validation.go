package dish

// FieldValidity is the validity flag of one form field.
type FieldValidity struct {
	Field string
	Valid bool
}

// Validation is the per-field validity snapshot of a record, ordered as
// name, preparation_time, type, then the attribute keys of the current type.
type Validation []FieldValidity

// Validate derives the validation state of r. It is a pure function of r.
func Validate(r Record) Validation {
	_, knownType := ParseType(r.Type)

	v := Validation{
		{Field: FieldName, Valid: IsNotEmpty(r.Name)},
		{Field: FieldPreparationTime, Valid: IsPreparationTime(r.PreparationTime)},
		{Field: FieldType, Valid: IsNotEmpty(r.Type) && knownType},
	}

	if r.Attributes == nil {
		return v
	}
	for _, key := range r.Attributes.Keys() {
		n, _ := r.Attributes.Get(key)
		v = append(v, FieldValidity{Field: key, Valid: IsPositiveNumber(n.String())})
	}
	return v
}

// Get returns the flag for field and whether the field is present.
func (v Validation) Get(field string) (valid, ok bool) {
	for _, fv := range v {
		if fv.Field == field {
			return fv.Valid, true
		}
	}
	return false, false
}

// Has reports whether field is part of the validation state.
func (v Validation) Has(field string) bool {
	_, ok := v.Get(field)
	return ok
}

// AllValid reports whether every entry is valid.
func (v Validation) AllValid() bool {
	for _, fv := range v {
		if !fv.Valid {
			return false
		}
	}
	return true
}

// Invalid lists the fields that fail their predicate.
func (v Validation) Invalid() []string {
	var out []string
	for _, fv := range v {
		if !fv.Valid {
			out = append(out, fv.Field)
		}
	}
	return out
}

// Fields lists the field names in order.
func (v Validation) Fields() []string {
	out := make([]string, 0, len(v))
	for _, fv := range v {
		out = append(out, fv.Field)
	}
	return out
}
