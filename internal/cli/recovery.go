package cli

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/pumpdeploy/internal/cli/render"
	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
)

// NewTransferOwnershipCmd creates the transfer-ownership command
func NewTransferOwnershipCmd() *cobra.Command {
	var factory, main string

	cmd := &cobra.Command{
		Use:   "transfer-ownership",
		Short: "Hand an existing factory over to its main contract",
		Long: `Transfer ownership of an already deployed PumpFunFactory to its PumpFun
main contract. Use this after a deploy that failed at the ownership step; no
contracts are redeployed. Nothing is sent if the main contract already owns
the factory.

Examples:
  pumpdeploy transfer-ownership -n bsctestnet --factory 0x... --main 0x...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			factoryAddr, err := parseAddressFlag("factory", factory, true)
			if err != nil {
				return err
			}
			mainAddr, err := parseAddressFlag("main", main, true)
			if err != nil {
				return err
			}

			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			defer stopProgress(cmd)

			result, err := app.TransferOwnership.Run(cmd.Context(), usecase.TransferOwnershipParams{
				Factory: factoryAddr,
				Main:    mainAddr,
			})
			if err != nil {
				return err
			}
			stopProgress(cmd)

			return render.NewTransferRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&factory, "factory", "", "PumpFunFactory address (required)")
	cmd.Flags().StringVar(&main, "main", "", "PumpFun main contract address (required)")

	return cmd
}

// NewAdoptCmd creates the adopt command
func NewAdoptCmd() *cobra.Command {
	var factory, main, feeRecipient, deployer string

	cmd := &cobra.Command{
		Use:   "adopt",
		Short: "Write the deployment record for contracts that are already deployed",
		Long: `Write deployment-<network>.json for a factory and main contract deployed by
an earlier run whose record could not be saved. Both addresses must hold code
and the main contract must already own the factory.

The fee recipient and deployer default to the configured signer.

Examples:
  pumpdeploy adopt -n bsctestnet --factory 0x... --main 0x...
  pumpdeploy adopt -n bsctestnet --factory 0x... --main 0x... --deployer 0x... --fee-recipient 0x...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			params := usecase.AdoptDeploymentParams{}
			var err error
			if params.Factory, err = parseAddressFlag("factory", factory, true); err != nil {
				return err
			}
			if params.Main, err = parseAddressFlag("main", main, true); err != nil {
				return err
			}
			if params.FeeRecipient, err = parseAddressFlag("fee-recipient", feeRecipient, false); err != nil {
				return err
			}
			if params.Deployer, err = parseAddressFlag("deployer", deployer, false); err != nil {
				return err
			}

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
					fmt.Fprintln(cmd.OutOrStdout(), "Adopt cancelled.")
					return nil
				}
			}

			result, err := app.AdoptDeployment.Run(cmd.Context(), params)
			if err != nil {
				return err
			}
			stopProgress(cmd)

			return render.NewAdoptRenderer(cmd.OutOrStdout()).Render(result)
		},
	}

	cmd.Flags().StringVar(&factory, "factory", "", "PumpFunFactory address (required)")
	cmd.Flags().StringVar(&main, "main", "", "PumpFun main contract address (required)")
	cmd.Flags().StringVar(&feeRecipient, "fee-recipient", "", "Fee recipient the factory was constructed with")
	cmd.Flags().StringVar(&deployer, "deployer", "", "Account that deployed the contracts")

	return cmd
}

// parseAddressFlag validates a hex address flag; optional flags may be empty
func parseAddressFlag(name, value string, required bool) (common.Address, error) {
	if value == "" {
		if required {
			return common.Address{}, fmt.Errorf("--%s is required", name)
		}
		return common.Address{}, nil
	}
	if !common.IsHexAddress(value) {
		return common.Address{}, fmt.Errorf("--%s: %q is not a valid address", name, value)
	}
	return common.HexToAddress(value), nil
}
