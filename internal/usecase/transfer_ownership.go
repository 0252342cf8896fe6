package usecase

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
)

// TransferOwnershipParams names the pair whose ownership link is repaired
type TransferOwnershipParams struct {
	Factory common.Address
	Main    common.Address
}

// TransferOwnershipResult reports the transfer transaction
type TransferOwnershipResult struct {
	Factory         common.Address
	Main            common.Address
	PreviousOwner   common.Address
	TxHash          common.Hash
	AlreadyAssigned bool
}

// TransferOwnership hands a factory deployed by an earlier run over to its main contract
type TransferOwnership struct {
	ownership OwnershipManager
	checker   CodeChecker
	sink      ProgressSink
	log       *slog.Logger
}

// NewTransferOwnership creates a new TransferOwnership use case
func NewTransferOwnership(ownership OwnershipManager, checker CodeChecker, sink ProgressSink, log *slog.Logger) *TransferOwnership {
	return &TransferOwnership{
		ownership: ownership,
		checker:   checker,
		sink:      sink,
		log:       log,
	}
}

// Run transfers ownership unless the main contract already owns the factory
func (uc *TransferOwnership) Run(ctx context.Context, params TransferOwnershipParams) (*TransferOwnershipResult, error) {
	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageCheckingDeployment, Message: "Checking contracts on-chain", Spinner: true})
	if err := requireCode(ctx, uc.checker, params.Factory, params.Main); err != nil {
		return nil, &domain.OwnershipTransferError{Factory: params.Factory, NewOwner: params.Main, Err: err}
	}

	owner, err := uc.ownership.Owner(ctx, params.Factory)
	if err != nil {
		return nil, &domain.OwnershipTransferError{Factory: params.Factory, NewOwner: params.Main, Err: err}
	}

	result := &TransferOwnershipResult{
		Factory:       params.Factory,
		Main:          params.Main,
		PreviousOwner: owner,
	}
	if owner == params.Main {
		result.AlreadyAssigned = true
		return result, nil
	}

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageTransferringOwner, Message: "Transferring factory ownership to main contract...", Spinner: true})
	factory := &domain.DeployedContract{ID: domain.FactoryContract, Address: params.Factory}
	txHash, err := transferAndConfirm(ctx, uc.ownership, factory, params.Main)
	if err != nil {
		return nil, err
	}
	result.TxHash = txHash
	uc.log.Info("ownership transferred",
		slog.String("factory", params.Factory.Hex()),
		slog.String("owner", params.Main.Hex()),
		slog.String("tx", txHash.Hex()),
	)

	uc.sink.OnProgress(ctx, ProgressEvent{Stage: StageCompleted, Message: "Ownership transferred"})
	return result, nil
}
