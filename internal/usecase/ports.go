package usecase

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
)

// SignerResolver supplies the deploying identity
type SignerResolver interface {
	ResolveSigner(ctx context.Context) (*domain.Signer, error)
	Balance(ctx context.Context, address common.Address) (*big.Int, error)
}

// ContractDeployer submits a creation transaction and waits for it to be mined
type ContractDeployer interface {
	Deploy(ctx context.Context, contract domain.ContractID, args ...any) (*domain.DeployedContract, error)
}

// OwnershipManager reads and reassigns the owner of an Ownable contract
type OwnershipManager interface {
	TransferOwnership(ctx context.Context, contract *domain.DeployedContract, newOwner common.Address) (common.Hash, error)
	Owner(ctx context.Context, contract common.Address) (common.Address, error)
}

// CodeChecker checks on-chain state of contracts
type CodeChecker interface {
	HasCode(ctx context.Context, address common.Address) (bool, error)
}

// RecordRepository persists one deployment record per network
type RecordRepository interface {
	SaveRecord(ctx context.Context, record *domain.DeploymentRecord) (string, error)
	GetRecord(ctx context.Context, network string) (*domain.DeploymentRecord, error)
	RecordExists(ctx context.Context, network string) bool
	RecordPath(network string) string
}

// ContractVerifier submits source metadata to a block explorer
type ContractVerifier interface {
	Verify(ctx context.Context, req domain.VerificationRequest) (*domain.VerificationReceipt, error)
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	Names() []string
	Resolve(networkName string) (*config.Network, error)
}

// Clock returns the current time; injected so records are reproducible in tests
type Clock func() time.Time

// SystemClock is the wall clock
func SystemClock() Clock {
	return time.Now
}

// Progress tracking interfaces

// ExecutionStage represents a stage in the execution process
type ExecutionStage string

const (
	StageResolvingSigner    ExecutionStage = "Resolving signer"
	StageDeployingFactory   ExecutionStage = "Deploying factory"
	StageDeployingMain      ExecutionStage = "Deploying main contract"
	StageTransferringOwner  ExecutionStage = "Transferring ownership"
	StageRecording          ExecutionStage = "Recording"
	StageVerifying          ExecutionStage = "Verifying"
	StageCheckingDeployment ExecutionStage = "Checking deployment"
	StageCompleted          ExecutionStage = "Completed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage    ExecutionStage
	Message  string
	Spinner  bool
	Metadata any
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
