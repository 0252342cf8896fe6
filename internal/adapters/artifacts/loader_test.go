package artifacts

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
)

const ownableABI = `[
	{"type":"constructor","inputs":[{"name":"feeRecipient","type":"address"}],"stateMutability":"nonpayable"},
	{"type":"function","name":"owner","inputs":[],"outputs":[{"name":"","type":"address"}],"stateMutability":"view"}
]`

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newTestLoader(root, artifactsDir string) *Loader {
	return NewLoader(&config.RuntimeConfig{
		ProjectRoot:  root,
		ArtifactsDir: filepath.Join(root, artifactsDir),
	})
}

func TestLoader_HardhatArtifact(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "artifacts", "contracts", "src", "PumpFunFactory.sol")
	writeFile(t, filepath.Join(dir, "PumpFunFactory.json"), `{
		"contractName": "PumpFunFactory",
		"sourceName": "contracts/src/PumpFunFactory.sol",
		"abi": `+ownableABI+`,
		"bytecode": "0x6080604052"
	}`)
	writeFile(t, filepath.Join(dir, "PumpFunFactory.dbg.json"), `{"_format":"hh-sol-dbg-1","buildInfo":"../../../build-info/abc123.json"}`)
	writeFile(t, filepath.Join(root, "artifacts", "build-info", "abc123.json"), `{
		"solcLongVersion": "0.8.20+commit.a1b79de6",
		"input": {"language":"Solidity","sources":{"contracts/src/PumpFunFactory.sol":{"content":"contract PumpFunFactory {}"}},"settings":{}}
	}`)

	loader := newTestLoader(root, "artifacts")

	artifact, err := loader.Load(domain.FactoryContract)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52}, artifact.Bytecode)
	assert.Len(t, artifact.ABI.Constructor.Inputs, 1)

	input, err := loader.SourceInput(domain.FactoryContract)
	require.NoError(t, err)
	assert.Equal(t, "v0.8.20+commit.a1b79de6", input.CompilerVersion)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(input.StandardJSON, &doc))
	assert.Equal(t, "Solidity", doc["language"])
	assert.Equal(t, "contracts/src/PumpFunFactory.sol:PumpFunFactory", input.ContractName)
}

func TestLoader_HardhatSourcesRoot(t *testing.T) {
	// hardhat with paths.sources = "./src" drops the contracts/ prefix
	root := t.TempDir()
	dir := filepath.Join(root, "artifacts", "src", "PumpFunFactory.sol")
	writeFile(t, filepath.Join(dir, "PumpFunFactory.json"), `{
		"contractName": "PumpFunFactory",
		"sourceName": "src/PumpFunFactory.sol",
		"abi": `+ownableABI+`,
		"bytecode": "0x6080604052"
	}`)
	writeFile(t, filepath.Join(dir, "PumpFunFactory.dbg.json"), `{"_format":"hh-sol-dbg-1","buildInfo":"../../build-info/def456.json"}`)
	writeFile(t, filepath.Join(root, "artifacts", "build-info", "def456.json"), `{
		"solcLongVersion": "0.8.20+commit.a1b79de6",
		"input": {"language":"Solidity","sources":{"src/PumpFunFactory.sol":{"content":"contract PumpFunFactory {}"}},"settings":{}}
	}`)

	loader := newTestLoader(root, "artifacts")

	artifact, err := loader.Load(domain.FactoryContract)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "PumpFunFactory.json"), artifact.Path)
	assert.Equal(t, "src/PumpFunFactory.sol", artifact.SourceName)

	input, err := loader.SourceInput(domain.FactoryContract)
	require.NoError(t, err)
	assert.Equal(t, "src/PumpFunFactory.sol:PumpFunFactory", input.ContractName)

	_, err = loader.Load(domain.MainContract)
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestLoader_FoundryArtifact(t *testing.T) {
	root := t.TempDir()
	metadata, err := json.Marshal(map[string]any{
		"compiler": map[string]any{"version": "0.8.20+commit.a1b79de6"},
		"language": "Solidity",
		"settings": map[string]any{
			"compilationTarget": map[string]string{"contracts/src/PumpFun.sol": "PumpFun"},
			"optimizer":         map[string]any{"enabled": true, "runs": 200},
		},
		"sources": map[string]any{"contracts/src/PumpFun.sol": map[string]any{"keccak256": "0x00"}},
	})
	require.NoError(t, err)

	artifact := map[string]any{
		"abi":         json.RawMessage(ownableABI),
		"bytecode":    map[string]string{"object": "0x6080"},
		"rawMetadata": string(metadata),
	}
	data, err := json.Marshal(artifact)
	require.NoError(t, err)
	writeFile(t, filepath.Join(root, "out", "PumpFun.sol", "PumpFun.json"), string(data))
	writeFile(t, filepath.Join(root, "contracts", "src", "PumpFun.sol"), "contract PumpFun {}")

	loader := newTestLoader(root, "out")

	loaded, err := loader.Load(domain.MainContract)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x60, 0x80}, loaded.Bytecode)

	input, err := loader.SourceInput(domain.MainContract)
	require.NoError(t, err)
	assert.Equal(t, "v0.8.20+commit.a1b79de6", input.CompilerVersion)

	var doc struct {
		Language string                       `json:"language"`
		Sources  map[string]map[string]string `json:"sources"`
		Settings map[string]json.RawMessage   `json:"settings"`
	}
	require.NoError(t, json.Unmarshal(input.StandardJSON, &doc))
	assert.Equal(t, "contract PumpFun {}", doc.Sources["contracts/src/PumpFun.sol"]["content"])
	assert.NotContains(t, doc.Settings, "compilationTarget")
	assert.Contains(t, doc.Settings, "optimizer")
	assert.Equal(t, "contracts/src/PumpFun.sol:PumpFun", input.ContractName)
}

func TestLoader_Errors(t *testing.T) {
	t.Run("missing artifact", func(t *testing.T) {
		_, err := newTestLoader(t.TempDir(), "artifacts").Load(domain.FactoryContract)
		assert.ErrorIs(t, err, ErrArtifactNotFound)
	})

	t.Run("empty bytecode", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, filepath.Join(root, "artifacts", "contracts", "src", "PumpFun.sol", "PumpFun.json"),
			`{"abi": [], "bytecode": "0x"}`)

		_, err := newTestLoader(root, "artifacts").Load(domain.MainContract)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no bytecode")
	})

	t.Run("unlinked libraries", func(t *testing.T) {
		_, err := decodeBytecode(json.RawMessage(`"0x6080__$abc$__"`))
		assert.Error(t, err)
	})
}

func TestLoader_EncodeConstructorArgs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "artifacts", "contracts", "src", "PumpFunFactory.sol", "PumpFunFactory.json"),
		`{"abi": `+ownableABI+`, "bytecode": "0x6080"}`)

	loader := newTestLoader(root, "artifacts")
	encoded, err := loader.EncodeConstructorArgs(domain.FactoryContract, common.HexToAddress("0x000000000000000000000000000000000000000D"))
	require.NoError(t, err)
	assert.Equal(t, "000000000000000000000000000000000000000000000000000000000000000d", encoded)
}
