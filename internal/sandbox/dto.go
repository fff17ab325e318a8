package sandbox

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/alexanderramin/dishform/internal/dish"
)

type NewDishRequest struct {
	Name            string   `json:"name" validate:"required,notblank"`
	PreparationTime string   `json:"preparation_time" validate:"required,preptime"`
	Type            string   `json:"type" validate:"required,oneof=pizza soup sandwich"`
	NoOfSlices      *int     `json:"no_of_slices" validate:"required_if=Type pizza,omitempty,gt=0"`
	Diameter        *float64 `json:"diameter" validate:"required_if=Type pizza,omitempty,gt=0"`
	SpicinessScale  *int     `json:"spiciness_scale" validate:"required_if=Type soup,omitempty,min=1,max=10"`
	SlicesOfBread   *int     `json:"slices_of_bread" validate:"required_if=Type sandwich,omitempty,gt=0"`
}

// ErrorsResponse lists validation failures as groups of words, one group
// per failing field.
type ErrorsResponse struct {
	Errors [][]string `json:"errors"`
}

// ToStored copies the request into a dish, keeping only the attributes
// that belong to its type.
func (r NewDishRequest) ToStored() dish.Stored {
	d := dish.Stored{
		Name:            strings.TrimSpace(r.Name),
		PreparationTime: r.PreparationTime,
		Type:            dish.Type(r.Type),
	}
	switch d.Type {
	case dish.TypePizza:
		d.NoOfSlices = r.NoOfSlices
		d.Diameter = r.Diameter
	case dish.TypeSoup:
		d.SpicinessScale = r.SpicinessScale
	case dish.TypeSandwich:
		d.SlicesOfBread = r.SlicesOfBread
	}
	return d
}

// requestValidator adapts validator/v10 to echo.Validator.
type requestValidator struct {
	validate *validator.Validate
}

func newRequestValidator() *requestValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	validate.RegisterValidation("preptime", func(fl validator.FieldLevel) bool {
		return dish.IsPreparationTime(fl.Field().String())
	})
	validate.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return dish.IsNotEmpty(fl.Field().String())
	})
	return &requestValidator{validate: validate}
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}

// errorGroups turns validation failures into word groups such as
// ["no_of_slices", "is", "required"].
func errorGroups(err error) [][]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return [][]string{strings.Fields(err.Error())}
	}

	groups := make([][]string, 0, len(verrs))
	for _, fe := range verrs {
		groups = append(groups, append([]string{fe.Field()}, strings.Fields(describe(fe))...))
	}
	return groups
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if", "notblank":
		return "is required"
	case "oneof":
		return "must be one of " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "preptime":
		return "must be HH:MM:SS and longer than 00:00:00"
	default:
		return "is invalid"
	}
}
