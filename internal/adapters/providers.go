package adapters

import (
	"log/slog"

	"github.com/google/wire"
	"github.com/trebuchet-org/pumpdeploy/internal/adapters/artifacts"
	"github.com/trebuchet-org/pumpdeploy/internal/adapters/blockchain"
	"github.com/trebuchet-org/pumpdeploy/internal/adapters/interactive"
	"github.com/trebuchet-org/pumpdeploy/internal/adapters/repository/records"
	"github.com/trebuchet-org/pumpdeploy/internal/adapters/verification"
	"github.com/trebuchet-org/pumpdeploy/internal/config"
	domainconfig "github.com/trebuchet-org/pumpdeploy/internal/domain/config"
	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
)

// ProvideClock provides the wall clock for record timestamps
func ProvideClock() usecase.Clock {
	return usecase.SystemClock()
}

// ProvideEtherscanVerifier provides a verifier with default retry settings
func ProvideEtherscanVerifier(cfg *domainconfig.RuntimeConfig, loader *artifacts.Loader, log *slog.Logger) *verification.EtherscanVerifier {
	return verification.NewEtherscanVerifier(cfg, loader, log)
}

// ArtifactsSet provides compiled contract artifacts
var ArtifactsSet = wire.NewSet(
	artifacts.NewLoader,
)

// BlockchainSet provides blockchain-based implementations
var BlockchainSet = wire.NewSet(
	blockchain.NewClient,

	blockchain.NewPrivateKeySigner,
	wire.Bind(new(usecase.SignerResolver), new(*blockchain.PrivateKeySigner)),

	blockchain.NewDeployer,
	wire.Bind(new(usecase.ContractDeployer), new(*blockchain.Deployer)),

	blockchain.NewOwnershipAdapter,
	wire.Bind(new(usecase.OwnershipManager), new(*blockchain.OwnershipAdapter)),

	blockchain.NewCheckerAdapter,
	wire.Bind(new(usecase.CodeChecker), new(*blockchain.CheckerAdapter)),
)

// RepositorySet provides the deployment record store
var RepositorySet = wire.NewSet(
	records.NewFileRepository,
	wire.Bind(new(usecase.RecordRepository), new(*records.FileRepository)),
)

// VerificationSet provides explorer verification
var VerificationSet = wire.NewSet(
	ProvideEtherscanVerifier,
	wire.Bind(new(usecase.ContractVerifier), new(*verification.EtherscanVerifier)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewPrompter,
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.Provider,
	config.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	ProvideClock,

	ConfigSet,
	ArtifactsSet,
	BlockchainSet,
	RepositorySet,
	VerificationSet,
	InteractiveSet,
)
