package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sourcegraph/conc"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
)

// verificationRequests builds one request per contract of a record, in
// deployment order
func verificationRequests(record *domain.DeploymentRecord) []domain.VerificationRequest {
	return []domain.VerificationRequest{
		{
			Address:              record.FactoryAddress,
			ConstructorArguments: []any{record.FeeRecipient},
			Contract:             domain.FactoryContract,
		},
		{
			Address:              record.MainContractAddress,
			ConstructorArguments: []any{record.FactoryAddress},
			Contract:             domain.MainContract,
		},
	}
}

// verifyContracts verifies each request in its own failure domain. Outcomes
// keep the order of requests regardless of concurrency.
func verifyContracts(
	ctx context.Context,
	verifier ContractVerifier,
	requests []domain.VerificationRequest,
	concurrent bool,
	sink ProgressSink,
	log *slog.Logger,
) []domain.VerificationOutcome {
	outcomes := make([]domain.VerificationOutcome, len(requests))

	if !concurrent {
		for i, req := range requests {
			outcomes[i] = verifyOne(ctx, verifier, req)
		}
	} else {
		var wg conc.WaitGroup
		for i, req := range requests {
			wg.Go(func() {
				outcomes[i] = verifyOne(ctx, verifier, req)
			})
		}
		// A panicking verifier must not take down a deployment that already succeeded
		if r := wg.WaitAndRecover(); r != nil {
			log.Error("verification panicked", slog.String("panic", r.String()))
			for i := range outcomes {
				if outcomes[i].Receipt == nil && outcomes[i].Err == nil {
					outcomes[i] = domain.VerificationOutcome{
						Contract: requests[i].Contract,
						Address:  requests[i].Address,
						Err:      &domain.VerificationError{Contract: requests[i].Contract, Address: requests[i].Address, Err: fmt.Errorf("verifier panicked")},
					}
				}
			}
		}
	}

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			log.Warn("verification failed",
				slog.String("contract", outcome.Contract.String()),
				slog.String("address", outcome.Address.Hex()),
				slog.Any("error", outcome.Err),
			)
			sink.Error(fmt.Sprintf("Error verifying %s: %v", outcome.Contract.Name, outcome.Err))
			continue
		}
		sink.Info(fmt.Sprintf("%s verified successfully", outcome.Contract.Name))
	}

	return outcomes
}

// verifyOne isolates a single verification attempt
func verifyOne(ctx context.Context, verifier ContractVerifier, req domain.VerificationRequest) domain.VerificationOutcome {
	outcome := domain.VerificationOutcome{
		Contract: req.Contract,
		Address:  req.Address,
	}

	receipt, err := verifier.Verify(ctx, req)
	if err != nil {
		outcome.Err = &domain.VerificationError{Contract: req.Contract, Address: req.Address, Err: err}
		return outcome
	}
	outcome.Receipt = receipt
	return outcome
}
