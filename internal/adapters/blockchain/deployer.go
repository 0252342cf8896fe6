package blockchain

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/trebuchet-org/pumpdeploy/internal/adapters/artifacts"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
)

// Deployer sends contract creation transactions built from compiled artifacts
type Deployer struct {
	client    *Client
	signer    *PrivateKeySigner
	artifacts *artifacts.Loader
	log       *slog.Logger
}

// NewDeployer creates a new contract deployer
func NewDeployer(client *Client, signer *PrivateKeySigner, loader *artifacts.Loader, log *slog.Logger) *Deployer {
	return &Deployer{
		client:    client,
		signer:    signer,
		artifacts: loader,
		log:       log,
	}
}

// Deploy deploys contract with args and waits for a successful receipt
func (d *Deployer) Deploy(ctx context.Context, contract domain.ContractID, args ...any) (*domain.DeployedContract, error) {
	artifact, err := d.artifacts.Load(contract)
	if err != nil {
		return nil, err
	}

	backend, _, err := d.client.Connect(ctx)
	if err != nil {
		return nil, err
	}

	opts, err := d.signer.TransactOpts(ctx)
	if err != nil {
		return nil, err
	}

	address, tx, _, err := bind.DeployContract(opts, artifact.ABI, artifact.Bytecode, backend, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to send creation transaction: %w", err)
	}
	d.log.Info("creation transaction sent",
		slog.String("contract", contract.Name),
		slog.String("tx", tx.Hash().Hex()),
		slog.String("address", address.Hex()),
	)

	receipt, err := waitSuccessful(ctx, backend, opts.From, tx, d.log)
	if err != nil {
		return nil, err
	}

	return &domain.DeployedContract{
		ID:              contract,
		Address:         address,
		TxHash:          tx.Hash(),
		BlockNumber:     receipt.BlockNumber.Uint64(),
		GasUsed:         receipt.GasUsed,
		ConstructorArgs: args,
	}, nil
}

var _ usecase.ContractDeployer = (*Deployer)(nil)
