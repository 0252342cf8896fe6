package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
)

const ownableABIJSON = `[
	{"inputs":[],"name":"owner","outputs":[{"internalType":"address","name":"","type":"address"}],"stateMutability":"view","type":"function"},
	{"inputs":[{"internalType":"address","name":"newOwner","type":"address"}],"name":"transferOwnership","outputs":[],"stateMutability":"nonpayable","type":"function"}
]`

var ownableABI = func() abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(ownableABIJSON))
	if err != nil {
		panic(fmt.Sprintf("invalid Ownable ABI: %v", err))
	}
	return parsed
}()

// OwnershipAdapter drives the Ownable interface of the factory
type OwnershipAdapter struct {
	client *Client
	signer *PrivateKeySigner
	log    *slog.Logger
}

// NewOwnershipAdapter creates a new ownership adapter
func NewOwnershipAdapter(client *Client, signer *PrivateKeySigner, log *slog.Logger) *OwnershipAdapter {
	return &OwnershipAdapter{
		client: client,
		signer: signer,
		log:    log,
	}
}

func (o *OwnershipAdapter) bound(ctx context.Context, address common.Address) (Backend, *bind.BoundContract, error) {
	backend, _, err := o.client.Connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	return backend, bind.NewBoundContract(address, ownableABI, backend, backend, backend), nil
}

// TransferOwnership calls transferOwnership(newOwner) on contract and waits for it
func (o *OwnershipAdapter) TransferOwnership(ctx context.Context, contract *domain.DeployedContract, newOwner common.Address) (common.Hash, error) {
	backend, bound, err := o.bound(ctx, contract.Address)
	if err != nil {
		return common.Hash{}, err
	}

	opts, err := o.signer.TransactOpts(ctx)
	if err != nil {
		return common.Hash{}, err
	}

	tx, err := bound.Transact(opts, "transferOwnership", newOwner)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to send transferOwnership: %w", err)
	}
	o.log.Info("ownership transaction sent",
		slog.String("contract", contract.Address.Hex()),
		slog.String("new_owner", newOwner.Hex()),
		slog.String("tx", tx.Hash().Hex()),
	)

	if _, err := waitSuccessful(ctx, backend, opts.From, tx, o.log); err != nil {
		return tx.Hash(), err
	}
	return tx.Hash(), nil
}

// Owner reads owner() from contract
func (o *OwnershipAdapter) Owner(ctx context.Context, contract common.Address) (common.Address, error) {
	_, bound, err := o.bound(ctx, contract)
	if err != nil {
		return common.Address{}, err
	}

	var out []any
	if err := bound.Call(&bind.CallOpts{Context: ctx}, &out, "owner"); err != nil {
		return common.Address{}, fmt.Errorf("failed to call owner(): %w", err)
	}
	if len(out) != 1 {
		return common.Address{}, fmt.Errorf("unexpected owner() result")
	}

	return *abi.ConvertType(out[0], new(common.Address)).(*common.Address), nil
}

var _ usecase.OwnershipManager = (*OwnershipAdapter)(nil)
