package usecase

import (
	"context"
	"log/slog"

	"github.com/samber/lo"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
)

// VerifyRecordResult holds per-contract outcomes of a verification retry
type VerifyRecordResult struct {
	Record        *domain.DeploymentRecord
	Verifications []domain.VerificationOutcome
}

// Failed returns the outcomes that did not verify
func (r *VerifyRecordResult) Failed() []domain.VerificationOutcome {
	return lo.Filter(r.Verifications, func(o domain.VerificationOutcome, _ int) bool {
		return !o.Succeeded()
	})
}

// VerifyRecord re-runs explorer verification for a persisted deployment
type VerifyRecord struct {
	cfg      *config.RuntimeConfig
	records  RecordRepository
	verifier ContractVerifier
	sink     ProgressSink
	log      *slog.Logger
}

// NewVerifyRecord creates a new VerifyRecord use case
func NewVerifyRecord(
	cfg *config.RuntimeConfig,
	records RecordRepository,
	verifier ContractVerifier,
	sink ProgressSink,
	log *slog.Logger,
) *VerifyRecord {
	return &VerifyRecord{
		cfg:      cfg,
		records:  records,
		verifier: verifier,
		sink:     sink,
		log:      log,
	}
}

// Run verifies both contracts of the network's record. Individual failures
// are reported in the result, not as the returned error.
func (uc *VerifyRecord) Run(ctx context.Context, network string) (*VerifyRecordResult, error) {
	if !uc.cfg.Verification.Enabled() {
		return nil, domain.ErrVerificationNotConfigured
	}

	record, err := uc.records.GetRecord(ctx, network)
	if err != nil {
		return nil, err
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageVerifying, Message: "Verifying contracts...", Spinner: true})
	outcomes := verifyContracts(ctx, uc.verifier, verificationRequests(record), uc.cfg.Verification.Concurrent, uc.sink, uc.log)
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Verification complete"})

	return &VerifyRecordResult{
		Record:        record,
		Verifications: outcomes,
	}, nil
}
