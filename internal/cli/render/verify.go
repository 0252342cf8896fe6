package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// VerifyRenderer handles rendering of verification results
type VerifyRenderer struct {
	out io.Writer
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

// Render renders the outcome of re-verifying a persisted record
func (r *VerifyRenderer) Render(result *usecase.VerifyRecordResult) error {
	fmt.Fprintf(r.out, "%s\n", sectionHeader("Verification"))
	fmt.Fprintf(r.out, "Network: %s\n\n", result.Record.Network)
	renderVerifications(r.out, result.Verifications)

	failed := result.Failed()
	fmt.Fprintln(r.out)
	if len(failed) == 0 {
		fmt.Fprintln(r.out, FormatSuccess("All contracts verified"))
		return nil
	}
	fmt.Fprintln(r.out, FormatWarning(fmt.Sprintf("%d of %d contracts failed to verify", len(failed), len(result.Verifications))))
	return nil
}

// renderVerifications prints one line per contract with its status
func renderVerifications(out io.Writer, outcomes []domain.VerificationOutcome) {
	for _, outcome := range outcomes {
		fmt.Fprintf(out, "  %s %s %s\n",
			verificationIcon(outcome),
			outcome.Contract.Name,
			addressStyle.Sprint(outcome.Address.Hex()),
		)
		if outcome.Err != nil {
			fmt.Fprintf(out, "      %s\n", notVerifiedStyle.Sprintf("Error: %v", rootCause(outcome.Err)))
			continue
		}
		fmt.Fprintf(out, "      %s\n", verifiedStyle.Sprint(verificationStatus(outcome)))
		if outcome.Receipt != nil && outcome.Receipt.ExplorerURL != "" {
			fmt.Fprintf(out, "      %s\n", hintStyle.Sprint(outcome.Receipt.ExplorerURL))
		}
	}
}

func verificationIcon(outcome domain.VerificationOutcome) string {
	if outcome.Succeeded() {
		return "✅"
	}
	return "❌"
}

func verificationStatus(outcome domain.VerificationOutcome) string {
	status := "verified"
	if outcome.Receipt != nil && outcome.Receipt.AlreadyVerified {
		status = "already verified"
	}
	return cases.Title(language.English).String(status)
}

// rootCause strips the contract prefix VerificationError adds, the line already names it
func rootCause(err error) error {
	if verr, ok := err.(*domain.VerificationError); ok && verr.Err != nil {
		return verr.Err
	}
	return err
}
