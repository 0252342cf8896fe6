package config

import (
	"fmt"
	"math/big"
	"os"
	"slices"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
)

const (
	// DefaultNetwork is used when neither flags, env nor pumpdeploy.toml select one
	DefaultNetwork = "bsctestnet"

	// DefaultExplorerAPIURL is the Etherscan multichain API endpoint
	DefaultExplorerAPIURL = "https://api.etherscan.io/v2/api"

	bscTestnetRPC = "https://data-seed-prebsc-1-s1.binance.org:8545"
	localRPC      = "http://127.0.0.1:8545"
)

// builtinNetworks are available without any config file
func builtinNetworks() map[string]config.NetworkFileConfig {
	bscURL := bscTestnetRPC
	if url := os.Getenv("BSC_TESTNET_URL"); url != "" {
		bscURL = url
	}

	return map[string]config.NetworkFileConfig{
		"bsctestnet": {
			URL:      bscURL,
			ChainID:  97,
			Gas:      2_100_000,
			GasPrice: 20_000_000_000,
		},
		"hardhat": {
			URL:     localRPC,
			ChainID: 31337,
		},
		"localhost": {
			URL:     localRPC,
			ChainID: 31337,
		},
	}
}

// NetworkResolver resolves network names to configurations
type NetworkResolver struct {
	networks map[string]config.NetworkFileConfig
}

// NewNetworkResolver merges built-in networks with the ones from pumpdeploy.toml
func NewNetworkResolver(fileCfg *config.FileConfig) *NetworkResolver {
	networks := builtinNetworks()
	if fileCfg != nil {
		for name, n := range fileCfg.Networks {
			base, ok := networks[name]
			if ok {
				n = mergeNetwork(base, n)
			}
			networks[name] = n
		}
	}
	return &NetworkResolver{networks: networks}
}

// mergeNetwork overlays non-zero file values onto a built-in network
func mergeNetwork(base, override config.NetworkFileConfig) config.NetworkFileConfig {
	if override.URL != "" {
		base.URL = override.URL
	}
	if override.ChainID != 0 {
		base.ChainID = override.ChainID
	}
	if override.Gas != 0 {
		base.Gas = override.Gas
	}
	if override.GasPrice != 0 {
		base.GasPrice = override.GasPrice
	}
	if override.ExplorerAPIURL != "" {
		base.ExplorerAPIURL = override.ExplorerAPIURL
	}
	if override.ExplorerURL != "" {
		base.ExplorerURL = override.ExplorerURL
	}
	return base
}

// Names returns all configured network names, sorted
func (r *NetworkResolver) Names() []string {
	names := lo.Keys(r.networks)
	slices.Sort(names)
	return names
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(networkName string) (*config.Network, error) {
	raw, ok := r.networks[networkName]
	if !ok {
		return nil, &domain.UnknownNetworkError{
			Name:        networkName,
			Suggestions: r.suggest(networkName),
		}
	}

	rpcURL, missingVar := expandValue(raw.URL)
	if envURL := os.Getenv(GenerateEnvVarName(networkName)); envURL != "" {
		rpcURL = envURL
		missingVar = ""
	}
	if rpcURL == "" {
		if missingVar != "" {
			return nil, fmt.Errorf("RPC URL for network %s is empty: set %s", networkName, missingVar)
		}
		return nil, fmt.Errorf("RPC URL for network %s is empty: set %s", networkName, GenerateEnvVarName(networkName))
	}

	network := &config.Network{
		Name:           networkName,
		RPCURL:         rpcURL,
		ChainID:        raw.ChainID,
		ExplorerAPIURL: os.ExpandEnv(raw.ExplorerAPIURL),
		ExplorerURL:    os.ExpandEnv(raw.ExplorerURL),
		Gas: config.GasHints{
			GasLimit: raw.Gas,
		},
	}
	if raw.GasPrice > 0 {
		network.Gas.GasPrice = big.NewInt(raw.GasPrice)
	}
	if network.ExplorerURL == "" {
		network.ExplorerURL = explorerURL(raw.ChainID)
	}

	return network, nil
}

// suggest returns configured names that fuzzily match the given one
func (r *NetworkResolver) suggest(name string) []string {
	matches := fuzzy.Find(name, r.Names())
	return lo.Map(matches, func(m fuzzy.Match, _ int) string {
		return m.Str
	})
}

// explorerURL returns the block explorer URL for well-known chains
func explorerURL(chainID uint64) string {
	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 56:
		return "https://bscscan.com"
	case 97:
		return "https://testnet.bscscan.com"
	case 137:
		return "https://polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 42161:
		return "https://arbiscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	default:
		return ""
	}
}
