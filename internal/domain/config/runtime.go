package config

import (
	"math/big"
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot    string
	DeploymentsDir string
	ArtifactsDir   string

	// Network selection
	NetworkName string
	Network     *Network // nil if the network could not be resolved

	// Credentials
	SigningKey   string //nolint:gosec // hex private key loaded from the environment
	Verification VerificationConfig

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration

	// Config source tracking
	ConfigFile string // empty when running on built-in defaults
}

// Network represents network configuration
type Network struct {
	Name           string   `json:"name"`
	RPCURL         string   `json:"rpcUrl"`
	ChainID        uint64   `json:"chainId"`
	Gas            GasHints `json:"gas"`
	ExplorerAPIURL string   `json:"explorerApiUrl,omitempty"`
	ExplorerURL    string   `json:"explorerUrl,omitempty"`
}

// GasHints are optional overrides applied to every transaction; zero values
// leave estimation to the node
type GasHints struct {
	GasLimit uint64   `json:"gasLimit,omitempty"`
	GasPrice *big.Int `json:"gasPrice,omitempty"`
}

// VerificationConfig holds explorer verification settings
type VerificationConfig struct {
	APIKey     string //nolint:gosec // explorer API key loaded from the environment
	APIURL     string
	Concurrent bool
	MaxElapsed time.Duration
}

// Enabled reports whether a verification credential is configured
func (v VerificationConfig) Enabled() bool {
	return v.APIKey != ""
}

// HasSigner reports whether a signing credential is configured
func (c *RuntimeConfig) HasSigner() bool {
	return c.SigningKey != ""
}
