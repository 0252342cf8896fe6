package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
)

const (
	// ConfigFileName is the optional project configuration file
	ConfigFileName = "pumpdeploy.toml"

	defaultVerifyMaxElapsed = 2 * time.Minute
)

// projectMarkers identify a project root when walking up from the working directory
var projectMarkers = []string{ConfigFileName, "hardhat.config.js", "hardhat.config.ts", "foundry.toml"}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		projectRoot = FindProjectRoot()
	}

	LoadEnvFiles(projectRoot)

	fileCfg, configFile, err := loadFileConfig(projectRoot)
	if err != nil {
		return nil, err
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DeploymentsDir: resolvePath(projectRoot, firstNonEmpty(v.GetString("deployments_dir"), fileCfg.DeploymentsDir, ".")),
		ArtifactsDir:   resolvePath(projectRoot, firstNonEmpty(v.GetString("artifacts_dir"), fileCfg.ArtifactsDir, "artifacts")),
		NetworkName:    firstNonEmpty(v.GetString("network"), fileCfg.Network, DefaultNetwork),
		SigningKey:     firstNonEmpty(v.GetString("private_key"), os.Getenv("PRIVATE_KEY")),
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non_interactive"),
		Timeout:        v.GetDuration("timeout"),
		ConfigFile:     configFile,
	}

	networkResolver := NewNetworkResolver(fileCfg)
	network, err := networkResolver.Resolve(cfg.NetworkName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network %s: %w", cfg.NetworkName, err)
	}
	cfg.Network = network

	verification, err := resolveVerification(v, fileCfg, network)
	if err != nil {
		return nil, err
	}
	cfg.Verification = verification

	return cfg, nil
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) (*NetworkResolver, error) {
	fileCfg, _, err := loadFileConfig(cfg.ProjectRoot)
	if err != nil {
		return nil, err
	}
	return NewNetworkResolver(fileCfg), nil
}

// resolveVerification picks the explorer credential and endpoint
func resolveVerification(v *viper.Viper, fileCfg *config.FileConfig, network *config.Network) (config.VerificationConfig, error) {
	apiKey, _ := expandValue(fileCfg.Etherscan.APIKey)
	apiKey = firstNonEmpty(apiKey, os.Getenv("BSCSCAN_API_KEY"), os.Getenv("ETHERSCAN_API_KEY"))

	apiURL := firstNonEmpty(network.ExplorerAPIURL, os.ExpandEnv(fileCfg.Etherscan.APIURL), DefaultExplorerAPIURL)

	maxElapsed := defaultVerifyMaxElapsed
	if raw := firstNonEmpty(v.GetString("verify_max_elapsed"), fileCfg.Verify.MaxElapsed); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return config.VerificationConfig{}, fmt.Errorf("invalid verify max_elapsed %q: %w", raw, err)
		}
		maxElapsed = d
	}

	return config.VerificationConfig{
		APIKey:     apiKey,
		APIURL:     apiURL,
		Concurrent: v.GetBool("verify_concurrent") || fileCfg.Verify.Concurrent,
		MaxElapsed: maxElapsed,
	}, nil
}

// loadFileConfig parses pumpdeploy.toml if present
func loadFileConfig(projectRoot string) (*config.FileConfig, string, error) {
	path := filepath.Join(projectRoot, ConfigFileName)

	var fileCfg config.FileConfig
	if _, err := toml.DecodeFile(path, &fileCfg); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &config.FileConfig{}, "", nil
		}
		return nil, "", fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
	}

	return &fileCfg, path, nil
}

// FindProjectRoot walks up from the current directory looking for a project
// marker and falls back to the working directory
func FindProjectRoot() string {
	cwd, err := os.Getwd()
	if err != nil {
		return "."
	}

	dir := cwd
	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return cwd
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up environment variables
	v.SetEnvPrefix("PUMPDEPLOY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults
	v.SetDefault("timeout", "10m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("verify_concurrent", false)
	v.SetDefault("project_root", projectRoot)

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if !f.Changed {
				return
			}
			if err := v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f); err != nil {
				panic(err)
			}
		})
	}

	return v
}

func resolvePath(root, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
