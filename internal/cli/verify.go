package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/pumpdeploy/internal/cli/render"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the recorded contracts on the block explorer",
		Long: `Retry explorer verification for the contracts in deployment-<network>.json.

Use this when verification failed or was skipped during deploy. Requires
BSCSCAN_API_KEY (or ETHERSCAN_API_KEY).

Examples:
  pumpdeploy verify --network bsctestnet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer stopProgress(cmd)

			result, err := app.VerifyRecord.Run(cmd.Context(), app.Config.NetworkName)
			if err != nil {
				return err
			}
			stopProgress(cmd)

			if err := render.NewVerifyRenderer(cmd.OutOrStdout()).Render(result); err != nil {
				return err
			}
			if failed := result.Failed(); len(failed) > 0 {
				return fmt.Errorf("%d contract(s) failed to verify", len(failed))
			}
			return nil
		},
	}

	cmd.Flags().Bool("verify-concurrent", false, "Verify both contracts in parallel")
	cmd.Flags().Duration("verify-max-elapsed", 0, "Give up retrying explorer verification after this long (default 2m)")

	return cmd
}
