package config

// FileConfig is the raw pumpdeploy.toml structure
type FileConfig struct {
	Network        string                       `toml:"network"`
	DeploymentsDir string                       `toml:"deployments_dir"`
	ArtifactsDir   string                       `toml:"artifacts_dir"`
	Networks       map[string]NetworkFileConfig `toml:"networks"`
	Etherscan      EtherscanFileConfig          `toml:"etherscan"`
	Verify         VerifyFileConfig             `toml:"verify"`
}

// NetworkFileConfig is a [networks.<name>] table
type NetworkFileConfig struct {
	URL            string `toml:"url"`
	ChainID        uint64 `toml:"chain_id"`
	Gas            uint64 `toml:"gas"`
	GasPrice       int64  `toml:"gas_price"`
	ExplorerAPIURL string `toml:"explorer_api_url"`
	ExplorerURL    string `toml:"explorer_url"`
}

// EtherscanFileConfig is the [etherscan] table
type EtherscanFileConfig struct {
	APIKey string `toml:"api_key"`
	APIURL string `toml:"api_url"`
}

// VerifyFileConfig is the [verify] table
type VerifyFileConfig struct {
	Concurrent bool   `toml:"concurrent"`
	MaxElapsed string `toml:"max_elapsed"`
}
