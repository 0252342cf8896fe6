package render

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
)

// TransferRenderer renders an ownership repair
type TransferRenderer struct {
	out io.Writer
}

// NewTransferRenderer creates a new transfer renderer
func NewTransferRenderer(out io.Writer) *TransferRenderer {
	return &TransferRenderer{out: out}
}

// Render renders the result of transfer-ownership
func (r *TransferRenderer) Render(result *usecase.TransferOwnershipResult) error {
	if result.AlreadyAssigned {
		fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("%s %s is already owned by %s",
			domain.FactoryContract.Name, result.Factory.Hex(), result.Main.Hex())))
		return nil
	}

	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Factory ownership transferred to: %s", result.Main.Hex())))
	t := newKeyValueTable()
	t.AppendRow(table.Row{labelStyle.Sprint("Previous Owner:"), addressStyle.Sprint(result.PreviousOwner.Hex())})
	t.AppendRow(table.Row{labelStyle.Sprint("Transaction:"), addressStyle.Sprint(result.TxHash.Hex())})
	fmt.Fprintln(r.out, t.Render())
	return nil
}

// AdoptRenderer renders a record written for an existing deployment
type AdoptRenderer struct {
	out io.Writer
}

// NewAdoptRenderer creates a new adopt renderer
func NewAdoptRenderer(out io.Writer) *AdoptRenderer {
	return &AdoptRenderer{out: out}
}

// Render renders the result of adopt
func (r *AdoptRenderer) Render(result *usecase.AdoptDeploymentResult) error {
	fmt.Fprintln(r.out, FormatSuccess(fmt.Sprintf("Deployment info saved to %s", result.Path)))
	return NewRecordRenderer(r.out, RecordFormatTable).Render(&usecase.ShowRecordResult{Record: result.Record})
}
