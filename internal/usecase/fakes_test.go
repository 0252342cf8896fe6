package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
)

var (
	deployerAddr = common.HexToAddress("0x000000000000000000000000000000000000000D")
	factoryAddr  = common.HexToAddress("0x000000000000000000000000000000000000000F")
	mainAddr     = common.HexToAddress("0x000000000000000000000000000000000000000A")
	fixedTime    = time.Date(2024, 5, 1, 12, 30, 45, 123000000, time.UTC)
)

func fixedClock() time.Time { return fixedTime }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type mockSigners struct {
	resolveFunc func(context.Context) (*domain.Signer, error)
	balanceFunc func(context.Context, common.Address) (*big.Int, error)
}

func (m *mockSigners) ResolveSigner(ctx context.Context) (*domain.Signer, error) {
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx)
	}
	return &domain.Signer{Address: deployerAddr}, nil
}

func (m *mockSigners) Balance(ctx context.Context, addr common.Address) (*big.Int, error) {
	if m.balanceFunc != nil {
		return m.balanceFunc(ctx, addr)
	}
	return big.NewInt(1e18), nil
}

type deployCall struct {
	Contract domain.ContractID
	Args     []any
}

// mockDeployer hands out factoryAddr then mainAddr
type mockDeployer struct {
	deployFunc func(context.Context, domain.ContractID, ...any) (*domain.DeployedContract, error)
	calls      []deployCall
}

func (m *mockDeployer) Deploy(ctx context.Context, contract domain.ContractID, args ...any) (*domain.DeployedContract, error) {
	m.calls = append(m.calls, deployCall{Contract: contract, Args: args})
	if m.deployFunc != nil {
		return m.deployFunc(ctx, contract, args...)
	}
	addr := factoryAddr
	if contract == domain.MainContract {
		addr = mainAddr
	}
	return &domain.DeployedContract{ID: contract, Address: addr, ConstructorArgs: args}, nil
}

type mockOwnership struct {
	transferFunc func(context.Context, *domain.DeployedContract, common.Address) (common.Hash, error)
	ownerFunc    func(context.Context, common.Address) (common.Address, error)
	owner        common.Address
	transfers    int
}

func (m *mockOwnership) TransferOwnership(ctx context.Context, contract *domain.DeployedContract, newOwner common.Address) (common.Hash, error) {
	m.transfers++
	if m.transferFunc != nil {
		return m.transferFunc(ctx, contract, newOwner)
	}
	m.owner = newOwner
	return common.HexToHash("0x01"), nil
}

func (m *mockOwnership) Owner(ctx context.Context, contract common.Address) (common.Address, error) {
	if m.ownerFunc != nil {
		return m.ownerFunc(ctx, contract)
	}
	return m.owner, nil
}

type mockChecker struct {
	code map[common.Address]bool
}

func (m *mockChecker) HasCode(_ context.Context, addr common.Address) (bool, error) {
	return m.code[addr], nil
}

type mockRecords struct {
	saveErr error
	saved   map[string]*domain.DeploymentRecord
}

func newMockRecords() *mockRecords {
	return &mockRecords{saved: map[string]*domain.DeploymentRecord{}}
}

func (m *mockRecords) SaveRecord(_ context.Context, record *domain.DeploymentRecord) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.saved[record.Network] = record
	return m.RecordPath(record.Network), nil
}

func (m *mockRecords) GetRecord(_ context.Context, network string) (*domain.DeploymentRecord, error) {
	record, ok := m.saved[network]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	return record, nil
}

func (m *mockRecords) RecordExists(_ context.Context, network string) bool {
	_, ok := m.saved[network]
	return ok
}

func (m *mockRecords) RecordPath(network string) string {
	return "deployment-" + network + ".json"
}

type mockVerifier struct {
	mu         sync.Mutex
	verifyFunc func(context.Context, domain.VerificationRequest) (*domain.VerificationReceipt, error)
	requests   []domain.VerificationRequest
}

func (m *mockVerifier) Verify(ctx context.Context, req domain.VerificationRequest) (*domain.VerificationReceipt, error) {
	m.mu.Lock()
	m.requests = append(m.requests, req)
	m.mu.Unlock()
	if m.verifyFunc != nil {
		return m.verifyFunc(ctx, req)
	}
	return &domain.VerificationReceipt{GUID: "guid"}, nil
}

// recordingSink keeps messages for assertions
type recordingSink struct {
	events []ProgressEvent
	infos  []string
	errors []string
}

func (s *recordingSink) OnProgress(_ context.Context, event ProgressEvent) {
	s.events = append(s.events, event)
}
func (s *recordingSink) Info(message string)  { s.infos = append(s.infos, message) }
func (s *recordingSink) Error(message string) { s.errors = append(s.errors, message) }

func testRuntimeConfig(apiKey string) *config.RuntimeConfig {
	return &config.RuntimeConfig{
		NetworkName: "bsctestnet",
		Network:     &config.Network{Name: "bsctestnet", ChainID: 97},
		Verification: config.VerificationConfig{
			APIKey: apiKey,
		},
	}
}

var errRevert = errors.New("execution reverted: insufficient funds for gas")
