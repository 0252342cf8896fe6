package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/pumpdeploy/internal/cli/render"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var jsonOutput bool
	var yamlOutput bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the saved deployment record for a network",
		Long: `Show the addresses recorded by the last successful deployment to a network.

Examples:
  pumpdeploy show --network bsctestnet
  pumpdeploy show -n bsctestnet --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput && yamlOutput {
				return fmt.Errorf("--json and --yaml are mutually exclusive")
			}

			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer stopProgress(cmd)

			result, err := app.ShowRecord.Run(cmd.Context(), app.Config.NetworkName)
			if err != nil {
				return err
			}

			format := render.RecordFormatTable
			switch {
			case jsonOutput:
				format = render.RecordFormatJSON
			case yamlOutput:
				format = render.RecordFormatYAML
			}
			return render.NewRecordRenderer(cmd.OutOrStdout(), format).Render(result)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the record as JSON")
	cmd.Flags().BoolVar(&yamlOutput, "yaml", false, "Output the record as YAML")

	return cmd
}
