package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
	"gopkg.in/yaml.v3"
)

// RecordFormat selects how a deployment record is printed
type RecordFormat string

const (
	RecordFormatTable RecordFormat = "table"
	RecordFormatJSON  RecordFormat = "json"
	RecordFormatYAML  RecordFormat = "yaml"
)

// RecordRenderer renders a persisted deployment record
type RecordRenderer struct {
	out    io.Writer
	format RecordFormat
}

// NewRecordRenderer creates a new record renderer
func NewRecordRenderer(out io.Writer, format RecordFormat) *RecordRenderer {
	return &RecordRenderer{
		out:    out,
		format: format,
	}
}

// Render renders the record in the selected format
func (r *RecordRenderer) Render(result *usecase.ShowRecordResult) error {
	switch r.format {
	case RecordFormatJSON:
		data, err := json.MarshalIndent(result.Record, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		fmt.Fprintln(r.out, string(data))
		return nil
	case RecordFormatYAML:
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(result.Record); err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		return enc.Close()
	}

	record := result.Record
	fmt.Fprintln(r.out, sectionHeader(fmt.Sprintf("Deployment on %s", record.Network)))

	t := newKeyValueTable()
	t.AppendRow(table.Row{labelStyle.Sprintf("%s:", domain.FactoryContract.Name), addressStyle.Sprint(record.FactoryAddress.Hex())})
	t.AppendRow(table.Row{labelStyle.Sprintf("%s Main Contract:", domain.MainContract.Name), addressStyle.Sprint(record.MainContractAddress.Hex())})
	t.AppendRow(table.Row{labelStyle.Sprint("Fee Recipient:"), addressStyle.Sprint(record.FeeRecipient.Hex())})
	t.AppendRow(table.Row{labelStyle.Sprint("Deployer:"), addressStyle.Sprint(record.DeployerAddress.Hex())})
	t.AppendRow(table.Row{labelStyle.Sprint("Deployed At:"), timestampStyle.Sprint(record.Timestamp.UTC().Format(domain.TimestampLayout))})
	fmt.Fprintln(r.out, t.Render())

	if result.Path != "" {
		fmt.Fprintf(r.out, "\n%s\n", hintStyle.Sprintf("Read from %s", result.Path))
	}
	return nil
}
