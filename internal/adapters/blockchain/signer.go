package blockchain

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
)

// PrivateKeySigner signs with the key from PRIVATE_KEY
type PrivateKeySigner struct {
	client *Client
	rawKey string
	gas    config.GasHints

	once sync.Once
	key  *ecdsa.PrivateKey
	err  error
}

// NewPrivateKeySigner creates a signer for the configured key
func NewPrivateKeySigner(cfg *config.RuntimeConfig, client *Client) *PrivateKeySigner {
	s := &PrivateKeySigner{
		client: client,
		rawKey: cfg.SigningKey,
	}
	if cfg.Network != nil {
		s.gas = cfg.Network.Gas
	}
	return s
}

func (s *PrivateKeySigner) privateKey() (*ecdsa.PrivateKey, error) {
	s.once.Do(func() {
		if s.rawKey == "" {
			s.err = domain.ErrNoSigner
			return
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(s.rawKey), "0x"))
		if err != nil {
			// the key itself never appears in the error
			s.err = fmt.Errorf("invalid PRIVATE_KEY: not a valid secp256k1 hex key")
			return
		}
		s.key = key
	})
	return s.key, s.err
}

// ResolveSigner returns the deploying identity. It fails if the network is unreachable.
func (s *PrivateKeySigner) ResolveSigner(ctx context.Context) (*domain.Signer, error) {
	key, err := s.privateKey()
	if err != nil {
		return nil, err
	}
	if _, _, err := s.client.Connect(ctx); err != nil {
		return nil, err
	}
	return &domain.Signer{Address: crypto.PubkeyToAddress(key.PublicKey)}, nil
}

// Balance returns the native balance of address at the latest block
func (s *PrivateKeySigner) Balance(ctx context.Context, address common.Address) (*big.Int, error) {
	backend, _, err := s.client.Connect(ctx)
	if err != nil {
		return nil, err
	}
	balance, err := backend.BalanceAt(ctx, address, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

// TransactOpts builds transaction options applying the network's gas hints
func (s *PrivateKeySigner) TransactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	key, err := s.privateKey()
	if err != nil {
		return nil, err
	}
	_, chainID, err := s.client.Connect(ctx)
	if err != nil {
		return nil, err
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx
	if s.gas.GasLimit > 0 {
		opts.GasLimit = s.gas.GasLimit
	}
	if s.gas.GasPrice != nil {
		opts.GasPrice = new(big.Int).Set(s.gas.GasPrice)
	}
	return opts, nil
}

var _ usecase.SignerResolver = (*PrivateKeySigner)(nil)
