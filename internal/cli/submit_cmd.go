package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/dishform/internal/cli/formatter"
	"github.com/alexanderramin/dishform/internal/dish"
	"github.com/alexanderramin/dishform/internal/form"
)

// errSubmitFailed signals a failed submission after its details were printed.
var errSubmitFailed = errors.New("submission failed")

// attributeFlags maps attribute flags onto their fields.
var attributeFlags = []struct{ flag, field string }{
	{"slices", dish.FieldNoOfSlices},
	{"diameter", dish.FieldDiameter},
	{"spiciness", dish.FieldSpicinessScale},
	{"bread", dish.FieldSlicesOfBread},
}

func newSubmitCmd(app *App) *cobra.Command {
	var name, prepTime, dishType string
	attrs := make(map[string]*string, len(attributeFlags))

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Validate a dish given as flags and submit it",
		Example: `  dishform submit --name Margherita --time 00:15:00 --type pizza --slices 8 --diameter 30.5
  dishform submit --name Tomato --time 00:20:00 --type soup`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ctrl := app.newController(nil)
			defer ctrl.Close()

			for _, f := range []struct{ field, value string }{
				{dish.FieldName, name},
				{dish.FieldPreparationTime, prepTime},
				{dish.FieldType, dishType},
			} {
				if err := ctrl.SetField(f.field, f.value); err != nil {
					return err
				}
			}
			for _, af := range attributeFlags {
				if !cmd.Flags().Changed(af.flag) {
					continue
				}
				if err := ctrl.SetTypeAttribute(af.field, *attrs[af.flag]); err != nil {
					return fmt.Errorf("--%s: %w", af.flag, err)
				}
			}

			snap := ctrl.Snapshot()
			if !snap.Valid {
				fmt.Fprint(out, formatter.FormatValidation(snap.Validation))
				return fmt.Errorf("%w: %s", form.ErrFormInvalid, strings.Join(snap.Validation.Invalid(), ", "))
			}

			sub, err := ctrl.Submit(cmd.Context())
			if err != nil {
				return err
			}

			stop := func() {}
			if app.IsInteractive != nil && app.IsInteractive() {
				stop = formatter.StartSpinner(out, formatter.SendingMessage)
			}
			outcome, err := sub.Wait(cmd.Context())
			stop()
			if err != nil {
				return err
			}

			fmt.Fprintln(out, formatter.FormatOutcome(outcome))
			if outcome.Status == form.StatusFailed {
				return errSubmitFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "dish name")
	cmd.Flags().StringVar(&prepTime, "time", dish.ZeroPreparationTime, "preparation time as HH:MM:SS")
	cmd.Flags().StringVar(&dishType, "type", "", "dish type (pizza, soup, sandwich)")
	for _, af := range attributeFlags {
		attrs[af.flag] = cmd.Flags().String(af.flag, "", af.field+" for the selected type")
	}

	return cmd
}
