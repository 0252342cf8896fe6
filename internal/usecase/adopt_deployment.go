package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
)

// AdoptDeploymentParams names an already deployed pair
type AdoptDeploymentParams struct {
	Factory common.Address
	Main    common.Address
	// FeeRecipient defaults to the signer when zero
	FeeRecipient common.Address
	// Deployer defaults to the signer when zero
	Deployer common.Address
}

// AdoptDeploymentResult carries the written record
type AdoptDeploymentResult struct {
	Record *domain.DeploymentRecord
	Path   string
}

// AdoptDeployment writes a record for contracts deployed by a run whose record
// could not be saved
type AdoptDeployment struct {
	cfg       *config.RuntimeConfig
	signers   SignerResolver
	ownership OwnershipManager
	checker   CodeChecker
	records   RecordRepository
	clock     Clock
	sink      ProgressSink
	log       *slog.Logger
}

// NewAdoptDeployment creates a new AdoptDeployment use case
func NewAdoptDeployment(
	cfg *config.RuntimeConfig,
	signers SignerResolver,
	ownership OwnershipManager,
	checker CodeChecker,
	records RecordRepository,
	clock Clock,
	sink ProgressSink,
	log *slog.Logger,
) *AdoptDeployment {
	return &AdoptDeployment{
		cfg:       cfg,
		signers:   signers,
		ownership: ownership,
		checker:   checker,
		records:   records,
		clock:     clock,
		sink:      sink,
		log:       log,
	}
}

// Run checks the pair on-chain and persists it
func (uc *AdoptDeployment) Run(ctx context.Context, params AdoptDeploymentParams) (*AdoptDeploymentResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageCheckingDeployment, Message: "Checking contracts on-chain", Spinner: true})
	if err := requireCode(ctx, uc.checker, params.Factory, params.Main); err != nil {
		return nil, err
	}

	owner, err := uc.ownership.Owner(ctx, params.Factory)
	if err != nil {
		return nil, fmt.Errorf("failed to read factory owner: %w", err)
	}
	if owner != params.Main {
		return nil, fmt.Errorf("factory %s is owned by %s, not %s: run transfer-ownership first",
			params.Factory.Hex(), owner.Hex(), params.Main.Hex())
	}

	deployer := params.Deployer
	feeRecipient := params.FeeRecipient
	if deployer == (common.Address{}) || feeRecipient == (common.Address{}) {
		signer, err := uc.signers.ResolveSigner(ctx)
		if err != nil {
			return nil, &domain.SignerResolutionError{Err: err}
		}
		if deployer == (common.Address{}) {
			deployer = signer.Address
		}
		if feeRecipient == (common.Address{}) {
			feeRecipient = signer.Address
		}
	}

	record := &domain.DeploymentRecord{
		Network:             uc.cfg.NetworkName,
		FactoryAddress:      params.Factory,
		MainContractAddress: params.Main,
		FeeRecipient:        feeRecipient,
		DeployerAddress:     deployer,
		Timestamp:           uc.clock().UTC(),
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageRecording, Message: "Saving deployment record"})
	path, err := uc.records.SaveRecord(ctx, record)
	if err != nil {
		return nil, &domain.PersistenceError{Path: uc.records.RecordPath(uc.cfg.NetworkName), Err: err}
	}
	uc.log.Info("deployment adopted", slog.String("network", record.Network), slog.String("path", path))

	return &AdoptDeploymentResult{
		Record: record,
		Path:   path,
	}, nil
}

// requireCode fails when any address has no deployed bytecode
func requireCode(ctx context.Context, checker CodeChecker, addresses ...common.Address) error {
	for _, addr := range addresses {
		ok, err := checker.HasCode(ctx, addr)
		if err != nil {
			return fmt.Errorf("failed to check code at %s: %w", addr.Hex(), err)
		}
		if !ok {
			return fmt.Errorf("no contract code at %s", addr.Hex())
		}
	}
	return nil
}
