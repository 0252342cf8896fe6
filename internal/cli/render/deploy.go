package render

import (
	"errors"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
)

// DeployRenderer renders the outcome of a deployment run
type DeployRenderer struct {
	out io.Writer
}

// NewDeployRenderer creates a new deploy renderer
func NewDeployRenderer(out io.Writer) *DeployRenderer {
	return &DeployRenderer{out: out}
}

// Render renders the summary of a completed run
func (r *DeployRenderer) Render(result *usecase.DeployProtocolResult) error {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, sectionHeader("Deployment Summary"))
	r.renderAddresses(result)

	if result.RecordPath != "" {
		fmt.Fprintf(r.out, "\nDeployment info saved to %s\n", result.RecordPath)
	}

	r.renderVerification(result)

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, sectionHeader("Deployment Complete"))
	fmt.Fprintf(r.out, "You can now interact with the %s contracts using the main contract address: %s\n",
		domain.MainContract.Name, addressStyle.Sprint(result.Main.Address.Hex()))

	fmt.Fprintln(r.out, "\nNext steps:")
	fmt.Fprintf(r.out, "1. Fund your account with native tokens on %s\n", result.Network)
	fmt.Fprintf(r.out, "2. Use the %s main contract to create tokens\n", domain.MainContract.Name)
	fmt.Fprintln(r.out, "3. Test buying and selling tokens through the bonding curve")

	fmt.Fprintln(r.out, "\nContract Addresses:")
	fmt.Fprintf(r.out, "- %s Main: %s\n", domain.MainContract.Name, result.Main.Address.Hex())
	fmt.Fprintf(r.out, "- %s: %s\n", domain.FactoryContract.Name, result.Factory.Address.Hex())
	fmt.Fprintf(r.out, "- Fee Recipient: %s\n", result.FeeRecipient().Hex())

	return nil
}

// RenderFailure reports how far a failed run got and how to recover
func (r *DeployRenderer) RenderFailure(result *usecase.DeployProtocolResult, runErr error) error {
	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, FormatError(fmt.Sprintf("Deployment failed on %s", result.Network)))
	fmt.Fprintf(r.out, "  %s\n", notVerifiedStyle.Sprint(runErr.Error()))

	if !result.Stage.Reached(domain.StageFactoryDeployed) || result.Factory == nil {
		fmt.Fprintln(r.out, hintStyle.Sprint("\nNo contracts were deployed."))
		return nil
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, sectionHeader("Deployed Before Failure"))
	r.renderAddresses(result)

	if !result.Stage.Reached(domain.StageMainDeployed) || result.Main == nil {
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s at %s is orphaned; no record was written",
			domain.FactoryContract.Name, result.Factory.Address.Hex())))
		return nil
	}

	fmt.Fprintln(r.out)
	switch {
	case errors.Is(runErr, domain.ErrOwnershipTransfer):
		fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%s is still owned by the deployer", domain.FactoryContract.Name)))
		fmt.Fprintln(r.out, "To finish the deployment without redeploying, run:")
		fmt.Fprintf(r.out, "  pumpdeploy transfer-ownership --network %s --factory %s --main %s\n",
			result.Network, result.Factory.Address.Hex(), result.Main.Address.Hex())
		fmt.Fprintf(r.out, "  pumpdeploy adopt --network %s --factory %s --main %s\n",
			result.Network, result.Factory.Address.Hex(), result.Main.Address.Hex())
	case errors.Is(runErr, domain.ErrPersistence):
		fmt.Fprintln(r.out, FormatWarning("Contracts are deployed but the record was not saved"))
		fmt.Fprintln(r.out, "To write the record once the problem is fixed, run:")
		fmt.Fprintf(r.out, "  pumpdeploy adopt --network %s --factory %s --main %s\n",
			result.Network, result.Factory.Address.Hex(), result.Main.Address.Hex())
	}

	return nil
}

// renderAddresses prints whichever addresses the run has produced so far
func (r *DeployRenderer) renderAddresses(result *usecase.DeployProtocolResult) {
	t := newKeyValueTable()
	t.AppendRow(table.Row{labelStyle.Sprint("Network:"), result.Network})
	if result.Factory != nil {
		t.AppendRow(table.Row{labelStyle.Sprintf("%s:", domain.FactoryContract.Name), addressStyle.Sprint(result.Factory.Address.Hex())})
	}
	if result.Main != nil {
		t.AppendRow(table.Row{labelStyle.Sprintf("%s Main Contract:", domain.MainContract.Name), addressStyle.Sprint(result.Main.Address.Hex())})
	}
	t.AppendRow(table.Row{labelStyle.Sprint("Fee Recipient:"), addressStyle.Sprint(result.FeeRecipient().Hex())})
	t.AppendRow(table.Row{labelStyle.Sprint("Deployer:"), addressStyle.Sprint(result.Deployer.Hex())})
	if result.Balance != nil {
		t.AppendRow(table.Row{labelStyle.Sprint("Deployer Balance:"), timestampStyle.Sprintf("%s wei", result.Balance.String())})
	}
	fmt.Fprintln(r.out, t.Render())
}

func (r *DeployRenderer) renderVerification(result *usecase.DeployProtocolResult) {
	fmt.Fprintln(r.out)
	if result.VerificationSkipped {
		fmt.Fprintln(r.out, skippedStyle.Sprint("Verification skipped: set BSCSCAN_API_KEY to verify contracts"))
		return
	}
	if len(result.Verifications) == 0 {
		return
	}

	fmt.Fprintln(r.out, sectionHeader("Verification"))
	renderVerifications(r.out, result.Verifications)
	for _, outcome := range result.Verifications {
		if !outcome.Succeeded() {
			fmt.Fprintf(r.out, "\nRetry with: pumpdeploy verify --network %s\n", result.Network)
			return
		}
	}
}
