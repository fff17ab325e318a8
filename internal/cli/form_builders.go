package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/dishform/internal/cli/formatter"
	"github.com/alexanderramin/dishform/internal/dish"
	"github.com/alexanderramin/dishform/internal/form"
)

// dishHuhTheme returns a huh theme using the Gruvbox palette.
func dishHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.FocusedButton = lipgloss.NewStyle().Foreground(formatter.ColorFg).Background(formatter.ColorHeader).Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().Foreground(formatter.ColorDim).Padding(0, 1)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(formatter.ColorRed)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(formatter.ColorRed)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// formValues are the raw strings behind the huh fields. The controller
// only sees them through the field validators and apply.
type formValues struct {
	name      string
	prepTime  string
	dishType  string
	slices    string
	diameter  string
	spiciness string
	bread     string
	confirm   bool
}

// newFormValues prefills the fields from r and the defaults table.
// Zero attribute defaults show as empty inputs.
func newFormValues(r dish.Record, defaults dish.Defaults) *formValues {
	v := &formValues{
		name:     r.Name,
		prepTime: r.PreparationTime,
		dishType: r.Type,
	}
	for _, t := range dish.Types() {
		attrs := defaults.For(t)
		for _, key := range attrs.Keys() {
			n, _ := attrs.Get(key)
			v.setAttribute(key, attributeText(n))
		}
	}
	return v
}

func attributeText(n dish.Number) string {
	if n.IsNaN() || n == 0 {
		return ""
	}
	return n.String()
}

func (v *formValues) attribute(key string) string {
	switch key {
	case dish.FieldNoOfSlices:
		return v.slices
	case dish.FieldDiameter:
		return v.diameter
	case dish.FieldSpicinessScale:
		return v.spiciness
	case dish.FieldSlicesOfBread:
		return v.bread
	default:
		return ""
	}
}

func (v *formValues) setAttribute(key, s string) {
	switch key {
	case dish.FieldNoOfSlices:
		v.slices = s
	case dish.FieldDiameter:
		v.diameter = s
	case dish.FieldSpicinessScale:
		v.spiciness = s
	case dish.FieldSlicesOfBread:
		v.bread = s
	}
}

// apply pushes every visible value into the controller: the common
// fields first, so the type is settled before its attributes.
func (v *formValues) apply(ctrl *form.Controller) error {
	common := []struct{ field, value string }{
		{dish.FieldName, v.name},
		{dish.FieldPreparationTime, v.prepTime},
		{dish.FieldType, v.dishType},
	}
	for _, f := range common {
		if err := ctrl.SetField(f.field, f.value); err != nil {
			return err
		}
	}

	attrs := ctrl.Snapshot().Record.Attributes
	if attrs == nil {
		return nil
	}
	for _, key := range attrs.Keys() {
		if err := ctrl.SetTypeAttribute(key, v.attribute(key)); err != nil {
			return err
		}
	}
	return nil
}

func (v *formValues) hiddenUnless(t dish.Type) func() bool {
	return func() bool { return dish.Type(v.dishType) != t }
}

// bindField forwards a huh value to the controller and reports the
// field's validity back to huh.
func bindField(ctrl *form.Controller, field, hint string) func(string) error {
	return func(s string) error {
		if err := ctrl.SetField(field, s); err != nil {
			return err
		}
		if valid, _ := ctrl.Snapshot().Validation.Get(field); !valid {
			return errors.New(hint)
		}
		return nil
	}
}

// bindAttribute is bindField for type-specific attributes. Attributes of
// a type that is no longer selected are ignored.
func bindAttribute(ctrl *form.Controller, key string) func(string) error {
	return func(s string) error {
		err := ctrl.SetTypeAttribute(key, s)
		var unknown *dish.ErrUnknownField
		if errors.As(err, &unknown) {
			return nil
		}
		if err != nil {
			return err
		}
		if valid, _ := ctrl.Snapshot().Validation.Get(key); !valid {
			return errors.New("must be a number greater than 0")
		}
		return nil
	}
}

// confirmSubmit blocks the final confirmation until the whole form is valid.
func confirmSubmit(ctrl *form.Controller, v *formValues) func(bool) error {
	return func(ok bool) error {
		if !ok {
			return nil
		}
		if err := v.apply(ctrl); err != nil {
			return err
		}
		if invalid := ctrl.Snapshot().Validation.Invalid(); len(invalid) > 0 {
			return fmt.Errorf("fix %s first", strings.Join(invalid, ", "))
		}
		return nil
	}
}

func fieldInput(title, placeholder string, value *string, validate func(string) error) *huh.Input {
	return huh.NewInput().
		Title(title).
		Placeholder(placeholder).
		Value(value).
		Validate(validate)
}

func typeOptions() []huh.Option[string] {
	types := dish.Types()
	opts := make([]huh.Option[string], 0, len(types))
	for _, t := range types {
		opts = append(opts, huh.NewOption(t.Label(), string(t)))
	}
	return opts
}

func spicinessOptions() []huh.Option[string] {
	opts := make([]huh.Option[string], 0, 10)
	for i := 1; i <= 10; i++ {
		s := strconv.Itoa(i)
		opts = append(opts, huh.NewOption(s, s))
	}
	return opts
}

// buildDishForm lays out the dish form. Only the attribute group of the
// selected type is shown.
func buildDishForm(ctrl *form.Controller, v *formValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			fieldInput("Name", "Margherita", &v.name,
				bindField(ctrl, dish.FieldName, "name is required")),
			fieldInput("Preparation time", "00:15:00", &v.prepTime,
				bindField(ctrl, dish.FieldPreparationTime, "use HH:MM:SS, longer than 00:00:00")),
			huh.NewSelect[string]().
				Title("Type").
				Options(typeOptions()...).
				Value(&v.dishType).
				Validate(bindField(ctrl, dish.FieldType, "pick a dish type")),
		),
		huh.NewGroup(
			fieldInput("Number of slices", "8", &v.slices, bindAttribute(ctrl, dish.FieldNoOfSlices)),
			fieldInput("Diameter", "30.5", &v.diameter, bindAttribute(ctrl, dish.FieldDiameter)),
		).WithHideFunc(v.hiddenUnless(dish.TypePizza)),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Spiciness scale").
				Options(spicinessOptions()...).
				Value(&v.spiciness).
				Validate(bindAttribute(ctrl, dish.FieldSpicinessScale)),
		).WithHideFunc(v.hiddenUnless(dish.TypeSoup)),
		huh.NewGroup(
			fieldInput("Slices of bread", "2", &v.bread, bindAttribute(ctrl, dish.FieldSlicesOfBread)),
		).WithHideFunc(v.hiddenUnless(dish.TypeSandwich)),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Submit dish?").
				Affirmative("Submit").
				Negative("Edit").
				Value(&v.confirm).
				Validate(confirmSubmit(ctrl, v)),
		),
	).WithTheme(dishHuhTheme()).WithShowHelp(false)
}
