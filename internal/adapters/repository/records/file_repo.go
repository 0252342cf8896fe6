package records

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
)

// FilePrefix and FileExt frame the network name in record file names
const (
	FilePrefix = "deployment-"
	FileExt    = ".json"
)

// FileRepository stores one deployment record per network as JSON
type FileRepository struct {
	rootDir string
	mu      sync.Mutex
}

// NewFileRepository creates a repository writing into the deployments directory
func NewFileRepository(cfg *config.RuntimeConfig) *FileRepository {
	return &FileRepository{rootDir: cfg.DeploymentsDir}
}

// RecordPath returns the record file for network
func (r *FileRepository) RecordPath(network string) string {
	return filepath.Join(r.rootDir, FilePrefix+network+FileExt)
}

// SaveRecord writes record, replacing any previous record for the network
func (r *FileRepository) SaveRecord(ctx context.Context, record *domain.DeploymentRecord) (string, error) {
	if record.Network == "" {
		return "", fmt.Errorf("record has no network")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if err := os.MkdirAll(r.rootDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create deployments directory: %w", err)
	}

	path := r.RecordPath(record.Network)
	if err := saveFile(path, record); err != nil {
		return "", err
	}
	return path, nil
}

// GetRecord reads the record for network
func (r *FileRepository) GetRecord(ctx context.Context, network string) (*domain.DeploymentRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	path := r.RecordPath(network)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: no %s (run deploy --network %s first)", domain.ErrRecordNotFound, filepath.Base(path), network)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var record domain.DeploymentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &record, nil
}

// RecordExists reports whether a record file exists for network
func (r *FileRepository) RecordExists(ctx context.Context, network string) bool {
	_, err := os.Stat(r.RecordPath(network))
	return err == nil
}

func saveFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	// Write to temp file first
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	// Atomic rename
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return err
	}
	return nil
}

var _ usecase.RecordRepository = (*FileRepository)(nil)
