package config

import (
	"errors"
	"math/big"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
)

// clearCredentials isolates tests from the developer's shell
func clearCredentials(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PRIVATE_KEY", "BSCSCAN_API_KEY", "ETHERSCAN_API_KEY", "BSC_TESTNET_URL",
		"BSCTESTNET_RPC_URL", "STAGING_RPC_URL", "PUMPDEPLOY_NETWORK", "PUMPDEPLOY_PRIVATE_KEY",
	} {
		t.Setenv(key, "")
	}
}

func newTestViper(projectRoot string) *viper.Viper {
	v := SetupViper(projectRoot, nil)
	v.Set("project_root", projectRoot)
	return v
}

func TestProvider(t *testing.T) {
	t.Run("built-in defaults without config file", func(t *testing.T) {
		clearCredentials(t)
		dir := t.TempDir()

		cfg, err := Provider(newTestViper(dir))
		require.NoError(t, err)

		assert.Equal(t, "bsctestnet", cfg.NetworkName)
		require.NotNil(t, cfg.Network)
		assert.Equal(t, uint64(97), cfg.Network.ChainID)
		assert.Equal(t, bscTestnetRPC, cfg.Network.RPCURL)
		assert.Equal(t, uint64(2_100_000), cfg.Network.Gas.GasLimit)
		assert.Equal(t, 0, cfg.Network.Gas.GasPrice.Cmp(big.NewInt(20_000_000_000)))
		assert.Equal(t, "https://testnet.bscscan.com", cfg.Network.ExplorerURL)
		assert.Equal(t, dir, cfg.DeploymentsDir)
		assert.Equal(t, filepath.Join(dir, "artifacts"), cfg.ArtifactsDir)
		assert.Equal(t, 10*time.Minute, cfg.Timeout)
		assert.False(t, cfg.HasSigner())
		assert.False(t, cfg.Verification.Enabled())
		assert.Equal(t, DefaultExplorerAPIURL, cfg.Verification.APIURL)
		assert.Empty(t, cfg.ConfigFile)
	})

	t.Run("credentials from environment", func(t *testing.T) {
		clearCredentials(t)
		t.Setenv("PRIVATE_KEY", "0xabc")
		t.Setenv("BSCSCAN_API_KEY", "bsc-key")

		cfg, err := Provider(newTestViper(t.TempDir()))
		require.NoError(t, err)

		assert.Equal(t, "0xabc", cfg.SigningKey)
		assert.True(t, cfg.HasSigner())
		assert.Equal(t, "bsc-key", cfg.Verification.APIKey)
		assert.True(t, cfg.Verification.Enabled())
	})

	t.Run("config file networks and expansion", func(t *testing.T) {
		clearCredentials(t)
		t.Setenv("STAGING_URL", "https://rpc.staging.example")
		t.Setenv("MY_EXPLORER_KEY", "file-key")
		dir := t.TempDir()
		writeFile(t, dir, ConfigFileName, `
network = "staging"
deployments_dir = "deployments"

[networks.staging]
url = "${STAGING_URL}"
chain_id = 1337
gas = 3000000
explorer_api_url = "https://explorer.staging.example/api"

[etherscan]
api_key = "${MY_EXPLORER_KEY}"

[verify]
concurrent = true
max_elapsed = "30s"
`)

		cfg, err := Provider(newTestViper(dir))
		require.NoError(t, err)

		assert.Equal(t, "staging", cfg.NetworkName)
		assert.Equal(t, "https://rpc.staging.example", cfg.Network.RPCURL)
		assert.Equal(t, uint64(1337), cfg.Network.ChainID)
		assert.Equal(t, uint64(3_000_000), cfg.Network.Gas.GasLimit)
		assert.Nil(t, cfg.Network.Gas.GasPrice)
		assert.Equal(t, filepath.Join(dir, "deployments"), cfg.DeploymentsDir)
		assert.Equal(t, "file-key", cfg.Verification.APIKey)
		assert.Equal(t, "https://explorer.staging.example/api", cfg.Verification.APIURL)
		assert.True(t, cfg.Verification.Concurrent)
		assert.Equal(t, 30*time.Second, cfg.Verification.MaxElapsed)
		assert.Equal(t, filepath.Join(dir, ConfigFileName), cfg.ConfigFile)
	})

	t.Run("flag network wins over file", func(t *testing.T) {
		clearCredentials(t)
		dir := t.TempDir()
		writeFile(t, dir, ConfigFileName, `network = "bsctestnet"`)

		v := newTestViper(dir)
		v.Set("network", "localhost")

		cfg, err := Provider(v)
		require.NoError(t, err)
		assert.Equal(t, "localhost", cfg.NetworkName)
		assert.Equal(t, uint64(31337), cfg.Network.ChainID)
	})

	t.Run("dotenv file supplies credentials", func(t *testing.T) {
		clearCredentials(t)
		require.NoError(t, os.Unsetenv("PRIVATE_KEY"))
		t.Cleanup(func() { _ = os.Unsetenv("PRIVATE_KEY") })
		dir := t.TempDir()
		writeFile(t, dir, ".env", "PRIVATE_KEY=0xfromdotenv\n")

		cfg, err := Provider(newTestViper(dir))
		require.NoError(t, err)
		assert.Equal(t, "0xfromdotenv", cfg.SigningKey)
	})

	t.Run("unknown network", func(t *testing.T) {
		clearCredentials(t)
		v := newTestViper(t.TempDir())
		v.Set("network", "bsctestnt")

		_, err := Provider(v)
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrUnknownNetwork))
		assert.Contains(t, err.Error(), "did you mean 'bsctestnet'")
	})

	t.Run("invalid toml", func(t *testing.T) {
		clearCredentials(t)
		dir := t.TempDir()
		writeFile(t, dir, ConfigFileName, "network = ")

		_, err := Provider(newTestViper(dir))
		require.Error(t, err)
		assert.Contains(t, err.Error(), ConfigFileName)
	})
}

func TestNetworkResolver(t *testing.T) {
	t.Run("names are sorted", func(t *testing.T) {
		r := NewNetworkResolver(nil)
		assert.Equal(t, []string{"bsctestnet", "hardhat", "localhost"}, r.Names())
	})

	t.Run("conventional env var overrides url", func(t *testing.T) {
		clearCredentials(t)
		t.Setenv("BSCTESTNET_RPC_URL", "https://override.example")

		n, err := NewNetworkResolver(nil).Resolve("bsctestnet")
		require.NoError(t, err)
		assert.Equal(t, "https://override.example", n.RPCURL)
	})

	t.Run("missing env reference is reported", func(t *testing.T) {
		clearCredentials(t)
		t.Setenv("UNSET_STAGING_URL", "")
		r := NewNetworkResolver(&config.FileConfig{Networks: map[string]config.NetworkFileConfig{
			"staging": {URL: "${UNSET_STAGING_URL}", ChainID: 5},
		}})

		_, err := r.Resolve("staging")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "set UNSET_STAGING_URL")
	})
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}
