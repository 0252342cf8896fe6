package records

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/pumpdeploy/internal/domain"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
)

func testRecord(factory string) *domain.DeploymentRecord {
	return &domain.DeploymentRecord{
		Network:             "bsctestnet",
		FactoryAddress:      common.HexToAddress(factory),
		MainContractAddress: common.HexToAddress("0xfb6916095ca1df60bb79ce92ce3ea74c37c5d359"),
		FeeRecipient:        common.HexToAddress("0xdbf03b407c01e7cd3cbea99509d93f8dddc8c6fb"),
		DeployerAddress:     common.HexToAddress("0xdbf03b407c01e7cd3cbea99509d93f8dddc8c6fb"),
		Timestamp:           time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestFileRepository_SaveRecord(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileRepository(&config.RuntimeConfig{DeploymentsDir: dir})
	ctx := context.Background()

	path, err := repo.SaveRecord(ctx, testRecord("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "deployment-bsctestnet.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	expected := `{
  "network": "bsctestnet",
  "factoryAddress": "0x5aAeb6053F3E94C9b9A09f33669435E7Ef1BeAed",
  "mainContractAddress": "0xfB6916095ca1df60bB79Ce92cE3Ea74c37c5d359",
  "feeRecipient": "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
  "deployerAddress": "0xdbF03B407c01E7cD3CBea99509d93f8DDDC8C6FB",
  "timestamp": "2024-05-01T12:00:00.000Z"
}
`
	assert.Equal(t, expected, string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileRepository_Overwrite(t *testing.T) {
	repo := NewFileRepository(&config.RuntimeConfig{DeploymentsDir: t.TempDir()})
	ctx := context.Background()

	_, err := repo.SaveRecord(ctx, testRecord("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"))
	require.NoError(t, err)
	_, err = repo.SaveRecord(ctx, testRecord("0x00000000000000000000000000000000000000F2"))
	require.NoError(t, err)

	record, err := repo.GetRecord(ctx, "bsctestnet")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x00000000000000000000000000000000000000F2"), record.FactoryAddress)
}

func TestFileRepository_GetRecord(t *testing.T) {
	dir := t.TempDir()
	repo := NewFileRepository(&config.RuntimeConfig{DeploymentsDir: dir})
	ctx := context.Background()

	assert.False(t, repo.RecordExists(ctx, "bsctestnet"))
	_, err := repo.GetRecord(ctx, "bsctestnet")
	assert.ErrorIs(t, err, domain.ErrRecordNotFound)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "deployment-bsctestnet.json"), []byte("{not json"), 0644))
	assert.True(t, repo.RecordExists(ctx, "bsctestnet"))
	_, err = repo.GetRecord(ctx, "bsctestnet")
	assert.Error(t, err)
}

func TestFileRepository_SaveFailure(t *testing.T) {
	dir := t.TempDir()
	// a file where the deployments directory should be
	blocked := filepath.Join(dir, "blocked")
	require.NoError(t, os.WriteFile(blocked, []byte("x"), 0644))

	repo := NewFileRepository(&config.RuntimeConfig{DeploymentsDir: blocked})
	_, err := repo.SaveRecord(context.Background(), testRecord("0x5aaeb6053f3e94c9b9a09f33669435e7ef1beaed"))
	assert.Error(t, err)
}
