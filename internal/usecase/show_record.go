package usecase

import (
	"context"

	"github.com/trebuchet-org/pumpdeploy/internal/domain"
)

// ShowRecordResult carries a persisted record and where it was read from
type ShowRecordResult struct {
	Record *domain.DeploymentRecord
	Path   string
}

// ShowRecord is the use case for showing the deployment record of a network
type ShowRecord struct {
	records RecordRepository
	sink    ProgressSink
}

// NewShowRecord creates a new ShowRecord use case
func NewShowRecord(records RecordRepository, sink ProgressSink) *ShowRecord {
	return &ShowRecord{
		records: records,
		sink:    sink,
	}
}

// Run loads the record for network
func (uc *ShowRecord) Run(ctx context.Context, network string) (*ShowRecordResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{
		Stage:   StageCheckingDeployment,
		Message: "Loading deployment record",
	})

	record, err := uc.records.GetRecord(ctx, network)
	if err != nil {
		return nil, err
	}

	return &ShowRecordResult{
		Record: record,
		Path:   uc.records.RecordPath(network),
	}, nil
}
