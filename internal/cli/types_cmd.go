package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/dishform/internal/cli/formatter"
)

func newTypesCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List dish types with their fields and defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatTypes(app.Defaults))
			return nil
		},
	}
}
