package artifacts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
)

// ErrArtifactNotFound is returned when no compiled artifact exists for a contract
var ErrArtifactNotFound = errors.New("artifact not found")

// Artifact is a compiled contract ready for deployment
type Artifact struct {
	ID       domain.ContractID
	ABI      abi.ABI
	Bytecode []byte
	Path     string
	// SourceName is the compiler's path for the source file, when the artifact records it
	SourceName string

	// rawMetadata is only present in Foundry artifacts
	rawMetadata string
}

// contractName prefers the recorded source path over the configured one
func (a *Artifact) contractName() string {
	if a.SourceName == "" {
		return a.ID.String()
	}
	return a.SourceName + ":" + a.ID.Name
}

// PackConstructor ABI-encodes constructor arguments
func (a *Artifact) PackConstructor(args ...any) ([]byte, error) {
	return a.ABI.Pack("", args...)
}

// SourceInput is everything an explorer needs to recompile a contract
type SourceInput struct {
	// CompilerVersion is the long solc version prefixed with "v"
	CompilerVersion string
	// StandardJSON is the solc standard-json-input document
	StandardJSON json.RawMessage
	// ContractName is "<source>:<name>" as the compiler saw it
	ContractName string
}

// Loader reads Hardhat and Foundry artifacts from the artifacts directory
type Loader struct {
	projectRoot  string
	artifactsDir string

	mu    sync.Mutex
	cache map[domain.ContractID]*Artifact
}

// NewLoader creates a loader rooted at the configured artifacts directory
func NewLoader(cfg *config.RuntimeConfig) *Loader {
	return &Loader{
		projectRoot:  cfg.ProjectRoot,
		artifactsDir: cfg.ArtifactsDir,
		cache:        make(map[domain.ContractID]*Artifact),
	}
}

// artifactFile covers both the Hardhat and the Foundry artifact shapes
type artifactFile struct {
	ContractName string          `json:"contractName"`
	SourceName   string          `json:"sourceName"`
	ABI          json.RawMessage `json:"abi"`
	Bytecode     json.RawMessage `json:"bytecode"`
	RawMetadata  string          `json:"rawMetadata"`
}

// candidates lists the artifact paths for both toolchains, Hardhat first
func (l *Loader) candidates(id domain.ContractID) []string {
	return []string{
		filepath.Join(l.artifactsDir, filepath.FromSlash(id.Path), id.Name+".json"),
		filepath.Join(l.artifactsDir, filepath.Base(id.Path), id.Name+".json"),
	}
}

// search walks the artifacts directory for <file>.sol/<Name>.json, covering
// projects whose sources root differs from the contract path
func (l *Loader) search(id domain.ContractID) (string, error) {
	dirName := filepath.Base(filepath.FromSlash(id.Path))
	fileName := id.Name + ".json"

	var found string
	err := filepath.WalkDir(l.artifactsDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() {
			if name := d.Name(); name == "build-info" || name == "cache" {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Name() == fileName && filepath.Base(filepath.Dir(path)) == dirName {
			found = path
			return filepath.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to search artifacts in %s: %w", l.artifactsDir, err)
	}
	return found, nil
}

// locate returns the first existing candidate path, falling back to a search
func (l *Loader) locate(id domain.ContractID) (string, error) {
	for _, path := range l.candidates(id) {
		info, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to stat artifact %s: %w", path, err)
		}
		if !info.IsDir() {
			return path, nil
		}
	}
	return l.search(id)
}

// Load returns the compiled artifact for id
func (l *Loader) Load(id domain.ContractID) (*Artifact, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cached, ok := l.cache[id]; ok {
		return cached, nil
	}

	path, err := l.locate(id)
	if err != nil {
		return nil, err
	}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
		}

		artifact, err := parseArtifact(id, path, data)
		if err != nil {
			return nil, err
		}
		l.cache[id] = artifact
		return artifact, nil
	}

	return nil, fmt.Errorf("%w: %s (compile the contracts first, looked in %s)", ErrArtifactNotFound, id, l.artifactsDir)
}

func parseArtifact(id domain.ContractID, path string, data []byte) (*Artifact, error) {
	var file artifactFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	parsedABI, err := abi.JSON(bytes.NewReader(file.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI in %s: %w", path, err)
	}

	code, err := decodeBytecode(file.Bytecode)
	if err != nil {
		return nil, fmt.Errorf("invalid bytecode in %s: %w", path, err)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("artifact %s has no bytecode (abstract contract or interface?)", path)
	}

	return &Artifact{
		ID:          id,
		ABI:         parsedABI,
		Bytecode:    code,
		Path:        path,
		SourceName:  file.SourceName,
		rawMetadata: file.RawMetadata,
	}, nil
}

// decodeBytecode accepts "0x..." (Hardhat) or {"object": "0x..."} (Foundry)
func decodeBytecode(raw json.RawMessage) ([]byte, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var hex string
	if err := json.Unmarshal(raw, &hex); err != nil {
		var obj struct {
			Object string `json:"object"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil, fmt.Errorf("unsupported bytecode format")
		}
		hex = obj.Object
	}

	if strings.Contains(hex, "__") {
		return nil, fmt.Errorf("bytecode has unlinked library placeholders")
	}
	if hex == "" || hex == "0x" {
		return nil, nil
	}
	if !strings.HasPrefix(hex, "0x") {
		hex = "0x" + hex
	}
	return hexutil.Decode(hex)
}

// SourceInput returns the standard-json-input used to compile id
func (l *Loader) SourceInput(id domain.ContractID) (*SourceInput, error) {
	artifact, err := l.Load(id)
	if err != nil {
		return nil, err
	}

	input, err := l.hardhatBuildInfo(artifact)
	if err == nil {
		return input, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if artifact.rawMetadata == "" {
		return nil, fmt.Errorf("no build info or metadata found for %s", id)
	}
	return l.foundryMetadataInput(artifact)
}

// hardhatBuildInfo follows <Name>.dbg.json to the build-info file
func (l *Loader) hardhatBuildInfo(artifact *Artifact) (*SourceInput, error) {
	dbgPath := strings.TrimSuffix(artifact.Path, ".json") + ".dbg.json"
	data, err := os.ReadFile(dbgPath)
	if err != nil {
		return nil, err
	}

	var dbg struct {
		BuildInfo string `json:"buildInfo"`
	}
	if err := json.Unmarshal(data, &dbg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", dbgPath, err)
	}
	if dbg.BuildInfo == "" {
		return nil, fmt.Errorf("%s has no buildInfo reference", dbgPath)
	}

	buildInfoPath := filepath.Join(filepath.Dir(dbgPath), filepath.FromSlash(dbg.BuildInfo))
	data, err = os.ReadFile(buildInfoPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read build info %s: %w", buildInfoPath, err)
	}

	var buildInfo struct {
		SolcLongVersion string          `json:"solcLongVersion"`
		Input           json.RawMessage `json:"input"`
	}
	if err := json.Unmarshal(data, &buildInfo); err != nil {
		return nil, fmt.Errorf("failed to parse build info %s: %w", buildInfoPath, err)
	}
	if len(buildInfo.Input) == 0 || buildInfo.SolcLongVersion == "" {
		return nil, fmt.Errorf("build info %s is missing input or compiler version", buildInfoPath)
	}

	return &SourceInput{
		CompilerVersion: "v" + buildInfo.SolcLongVersion,
		StandardJSON:    buildInfo.Input,
		ContractName:    artifact.contractName(),
	}, nil
}

type solcMetadata struct {
	Compiler struct {
		Version string `json:"version"`
	} `json:"compiler"`
	Language string                     `json:"language"`
	Settings map[string]json.RawMessage `json:"settings"`
	Sources  map[string]json.RawMessage `json:"sources"`
}

type standardSource struct {
	Content string `json:"content"`
}

type standardInput struct {
	Language string                     `json:"language"`
	Sources  map[string]standardSource  `json:"sources"`
	Settings map[string]json.RawMessage `json:"settings"`
}

// foundryMetadataInput rebuilds a standard-json-input from solc metadata,
// reading sources from the project root
func (l *Loader) foundryMetadataInput(artifact *Artifact) (*SourceInput, error) {
	var meta solcMetadata
	if err := json.Unmarshal([]byte(artifact.rawMetadata), &meta); err != nil {
		return nil, fmt.Errorf("failed to parse metadata in %s: %w", artifact.Path, err)
	}
	if meta.Compiler.Version == "" {
		return nil, fmt.Errorf("metadata in %s has no compiler version", artifact.Path)
	}

	sources := make(map[string]standardSource, len(meta.Sources))
	for name := range meta.Sources {
		content, err := os.ReadFile(filepath.Join(l.projectRoot, filepath.FromSlash(name)))
		if err != nil {
			return nil, fmt.Errorf("failed to read source %s: %w", name, err)
		}
		sources[name] = standardSource{Content: string(content)}
	}

	// compilationTarget is metadata-only and rejected by solc
	settings := make(map[string]json.RawMessage, len(meta.Settings))
	for k, v := range meta.Settings {
		if k == "compilationTarget" {
			continue
		}
		settings[k] = v
	}

	language := meta.Language
	if language == "" {
		language = "Solidity"
	}
	input, err := json.Marshal(standardInput{
		Language: language,
		Sources:  sources,
		Settings: settings,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode standard json input: %w", err)
	}

	contractName := artifact.contractName()
	var target map[string]string
	if raw, ok := meta.Settings["compilationTarget"]; ok && json.Unmarshal(raw, &target) == nil {
		for source, name := range target {
			if name == artifact.ID.Name {
				contractName = source + ":" + name
			}
		}
	}

	return &SourceInput{
		CompilerVersion: "v" + meta.Compiler.Version,
		StandardJSON:    input,
		ContractName:    contractName,
	}, nil
}

// EncodeConstructorArgs returns the hex constructor argument encoding without 0x
func (l *Loader) EncodeConstructorArgs(id domain.ContractID, args ...any) (string, error) {
	artifact, err := l.Load(id)
	if err != nil {
		return "", err
	}
	if len(args) == 0 {
		return "", nil
	}
	packed, err := artifact.PackConstructor(args...)
	if err != nil {
		return "", fmt.Errorf("failed to encode constructor arguments for %s: %w", id.Name, err)
	}
	return common.Bytes2Hex(packed), nil
}
