package formatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/alexanderramin/dishform/internal/dish"
	"github.com/alexanderramin/dishform/internal/form"
)

const (
	SendingMessage = "Sending form data..."
	FailedMessage  = "Sending data failed!"
)

// DescribeAttributes renders the attributes of a dish as key=value pairs.
func DescribeAttributes(a dish.Attributes) string {
	switch v := a.(type) {
	case dish.PizzaAttributes:
		return fmt.Sprintf("%s=%s %s=%s", dish.FieldNoOfSlices, v.NoOfSlices, dish.FieldDiameter, v.Diameter)
	case dish.SoupAttributes:
		return fmt.Sprintf("%s=%s", dish.FieldSpicinessScale, v.SpicinessScale)
	case dish.SandwichAttributes:
		return fmt.Sprintf("%s=%s", dish.FieldSlicesOfBread, v.SlicesOfBread)
	default:
		return Dim("--")
	}
}

// FormatTypes lists the dish types with their fields and default values.
func FormatTypes(defaults dish.Defaults) string {
	rows := make([][]string, 0, len(dish.Types()))
	for _, t := range dish.Types() {
		attrs := defaults.For(t)
		fields := strings.Join(attrs.Keys(), ", ")
		if fields == "" {
			fields = Dim("--")
		}
		rows = append(rows, []string{Bold(t.Label()), fields, DescribeAttributes(attrs)})
	}
	return RenderTable([]string{"TYPE", "FIELDS", "DEFAULTS"}, rows)
}

// FormatValidation renders one row per validated field.
func FormatValidation(v dish.Validation) string {
	rows := make([][]string, 0, len(v))
	for _, fv := range v {
		rows = append(rows, []string{fv.Field, ValidityMark(fv.Valid)})
	}
	return RenderTable([]string{"FIELD", "VALID"}, rows)
}

// FormatErrors renders the failure banner followed by the error groups,
// one line per group with its tokens joined by spaces. The list is left
// out when there are no groups.
func FormatErrors(groups [][]string) string {
	var b strings.Builder
	b.WriteString(StyleRed.Bold(true).Render(FailedMessage))
	for _, group := range groups {
		b.WriteString("\n  ")
		b.WriteString(StyleRed.Render("• " + strings.Join(group, " ")))
	}
	return b.String()
}

// FormatOutcome renders the result of a finished submission.
func FormatOutcome(o form.Outcome) string {
	if o.Status == form.StatusFailed {
		return FormatErrors(o.Errors)
	}

	var b strings.Builder
	b.WriteString(StyleGreen.Render("✔ Dish submitted"))
	if len(o.Response) > 0 {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, o.Response, "", "  "); err == nil {
			b.WriteString("\n")
			b.WriteString(Dim(pretty.String()))
		}
	}
	return b.String()
}
