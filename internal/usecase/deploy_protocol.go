package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
)

// DeployProtocolResult describes how far a deployment run got. It is returned
// alongside the error on failure so callers can report partial progress.
type DeployProtocolResult struct {
	Network  string
	Stage    domain.Stage
	Deployer common.Address
	Balance  *big.Int

	Factory         *domain.DeployedContract
	Main            *domain.DeployedContract
	OwnershipTxHash common.Hash

	Record     *domain.DeploymentRecord
	RecordPath string

	VerificationSkipped bool
	Verifications       []domain.VerificationOutcome
}

// advance moves the run forward; the state machine has no backward transitions
func (r *DeployProtocolResult) advance(next domain.Stage) {
	if r.Stage.CanAdvanceTo(next) {
		r.Stage = next
	}
}

// FeeRecipient is always the deploying identity
func (r *DeployProtocolResult) FeeRecipient() common.Address {
	return r.Deployer
}

// DeployProtocol deploys the factory and main contract, hands factory ownership
// to the main contract, records the run and optionally verifies both contracts
type DeployProtocol struct {
	cfg       *config.RuntimeConfig
	signers   SignerResolver
	deployer  ContractDeployer
	ownership OwnershipManager
	records   RecordRepository
	verifier  ContractVerifier
	clock     Clock
	sink      ProgressSink
	log       *slog.Logger
}

// NewDeployProtocol creates a new DeployProtocol use case
func NewDeployProtocol(
	cfg *config.RuntimeConfig,
	signers SignerResolver,
	deployer ContractDeployer,
	ownership OwnershipManager,
	records RecordRepository,
	verifier ContractVerifier,
	clock Clock,
	sink ProgressSink,
	log *slog.Logger,
) *DeployProtocol {
	return &DeployProtocol{
		cfg:       cfg,
		signers:   signers,
		deployer:  deployer,
		ownership: ownership,
		records:   records,
		verifier:  verifier,
		clock:     clock,
		sink:      sink,
		log:       log,
	}
}

// Run executes the deployment sequence. Any failure before the record is saved
// aborts the run; verification failures are collected per contract.
func (uc *DeployProtocol) Run(ctx context.Context) (*DeployProtocolResult, error) {
	result := &DeployProtocolResult{
		Network: uc.cfg.NetworkName,
		Stage:   domain.StageInit,
	}

	// 1. Signer
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageResolvingSigner, Message: "Resolving deployer account", Spinner: true})
	signer, err := uc.signers.ResolveSigner(ctx)
	if err != nil {
		return result, &domain.SignerResolutionError{Err: err}
	}
	result.Deployer = signer.Address
	uc.sink.Info(fmt.Sprintf("Deploying contracts with the account: %s", signer.Address.Hex()))

	// Balance is informational; an underfunded account fails at the first deploy
	balance, err := uc.signers.Balance(ctx, signer.Address)
	if err != nil {
		uc.log.Warn("failed to read deployer balance", slog.String("address", signer.Address.Hex()), slog.Any("error", err))
	} else {
		result.Balance = balance
		uc.sink.Info(fmt.Sprintf("Account balance: %s", balance.String()))
	}

	// 2. Factory, paying fees to the deployer
	feeRecipient := signer.Address
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageDeployingFactory, Message: fmt.Sprintf("Deploying %s...", domain.FactoryContract.Name), Spinner: true})
	factory, err := uc.deployer.Deploy(ctx, domain.FactoryContract, feeRecipient)
	if err != nil {
		return result, &domain.DeploymentError{Contract: domain.FactoryContract, Err: err}
	}
	result.Factory = factory
	result.advance(domain.StageFactoryDeployed)
	uc.log.Info("factory deployed", slog.String("address", factory.Address.Hex()), slog.String("tx", factory.TxHash.Hex()))
	uc.sink.Info(fmt.Sprintf("%s deployed to: %s", domain.FactoryContract.Name, factory.Address.Hex()))

	// 3. Main contract, depending on the factory
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageDeployingMain, Message: fmt.Sprintf("Deploying %s main contract...", domain.MainContract.Name), Spinner: true})
	main, err := uc.deployer.Deploy(ctx, domain.MainContract, factory.Address)
	if err != nil {
		return result, &domain.DeploymentError{Contract: domain.MainContract, Err: err}
	}
	result.Main = main
	result.advance(domain.StageMainDeployed)
	uc.log.Info("main contract deployed", slog.String("address", main.Address.Hex()), slog.String("tx", main.TxHash.Hex()))
	uc.sink.Info(fmt.Sprintf("%s main contract deployed to: %s", domain.MainContract.Name, main.Address.Hex()))

	// 4. Ownership
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageTransferringOwner, Message: "Transferring factory ownership to main contract...", Spinner: true})
	txHash, err := transferAndConfirm(ctx, uc.ownership, factory, main.Address)
	if err != nil {
		return result, err
	}
	result.OwnershipTxHash = txHash
	result.advance(domain.StageOwnershipTransferred)
	uc.sink.Info(fmt.Sprintf("Factory ownership transferred to: %s", main.Address.Hex()))

	// Addresses are on screen before persisting so a failed save can be recovered by hand
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageRecording, Message: "Saving deployment record", Metadata: result})

	// 5. Record
	record := &domain.DeploymentRecord{
		Network:             uc.cfg.NetworkName,
		FactoryAddress:      factory.Address,
		MainContractAddress: main.Address,
		FeeRecipient:        feeRecipient,
		DeployerAddress:     signer.Address,
		Timestamp:           uc.clock().UTC(),
	}
	path, err := uc.records.SaveRecord(ctx, record)
	if err != nil {
		return result, &domain.PersistenceError{Path: uc.records.RecordPath(uc.cfg.NetworkName), Err: err}
	}
	result.Record = record
	result.RecordPath = path
	result.advance(domain.StageRecorded)
	uc.sink.Info(fmt.Sprintf("Deployment info saved to %s", path))

	// 6. Verification, only with a credential
	if !uc.cfg.Verification.Enabled() {
		result.VerificationSkipped = true
	} else {
		result.advance(domain.StageVerifying)
		uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageVerifying, Message: "Verifying contracts...", Spinner: true})
		result.Verifications = verifyContracts(ctx, uc.verifier, verificationRequests(record), uc.cfg.Verification.Concurrent, uc.sink, uc.log)
	}

	result.advance(domain.StageDone)
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Deployment complete"})
	return result, nil
}

// transferAndConfirm hands ownership over and reads it back
func transferAndConfirm(ctx context.Context, ownership OwnershipManager, factory *domain.DeployedContract, newOwner common.Address) (common.Hash, error) {
	txHash, err := ownership.TransferOwnership(ctx, factory, newOwner)
	if err != nil {
		return common.Hash{}, &domain.OwnershipTransferError{Factory: factory.Address, NewOwner: newOwner, Err: err}
	}

	owner, err := ownership.Owner(ctx, factory.Address)
	if err != nil {
		return txHash, &domain.OwnershipTransferError{
			Factory:  factory.Address,
			NewOwner: newOwner,
			Err:      fmt.Errorf("failed to read owner after transfer: %w", err),
		}
	}
	if owner != newOwner {
		return txHash, &domain.OwnershipTransferError{
			Factory:  factory.Address,
			NewOwner: newOwner,
			Err:      fmt.Errorf("owner is %s after transfer", owner.Hex()),
		}
	}

	return txHash, nil
}
