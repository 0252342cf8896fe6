package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/pumpdeploy/internal/cli/render"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the factory and main contract to a network",
		Long: `Deploy PumpFunFactory and PumpFun to the selected network.

The deployer account pays for both deployments and becomes the factory's fee
recipient. Once both contracts are mined, factory ownership is transferred to
the main contract and the addresses are saved to deployment-<network>.json.
When BSCSCAN_API_KEY (or ETHERSCAN_API_KEY) is set, both contracts are then
verified on the network's block explorer.

Examples:
  pumpdeploy deploy --network bsctestnet
  pumpdeploy deploy -n localhost --non-interactive
  pumpdeploy deploy -n bsctestnet --verify-concurrent`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer stopProgress(cmd)

			network := app.Config.NetworkName
			if app.Records.RecordExists(cmd.Context(), network) {
				ok, err := app.Prompter.Confirm(fmt.Sprintf("%s already exists and will be overwritten. Continue", app.Records.RecordPath(network)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "Deployment cancelled.")
					return nil
				}
			}

			result, runErr := app.DeployProtocol.Run(cmd.Context())
			stopProgress(cmd)

			renderer := render.NewDeployRenderer(cmd.OutOrStdout())
			if runErr != nil {
				if err := renderer.RenderFailure(result, runErr); err != nil {
					return err
				}
				return runErr
			}
			return renderer.Render(result)
		},
	}

	cmd.Flags().Bool("verify-concurrent", false, "Verify both contracts in parallel")
	cmd.Flags().Duration("verify-max-elapsed", 0, "Give up retrying explorer verification after this long (default 2m)")

	return cmd
}
