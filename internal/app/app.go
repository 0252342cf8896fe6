package app

import (
	"github.com/trebuchet-org/pumpdeploy/internal/adapters/blockchain"
	"github.com/trebuchet-org/pumpdeploy/internal/adapters/interactive"
	"github.com/trebuchet-org/pumpdeploy/internal/domain/config"
	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Records  usecase.RecordRepository
	Prompter *interactive.Prompter

	// Use cases
	DeployProtocol    *usecase.DeployProtocol
	ShowRecord        *usecase.ShowRecord
	VerifyRecord      *usecase.VerifyRecord
	TransferOwnership *usecase.TransferOwnership
	AdoptDeployment   *usecase.AdoptDeployment
	ListNetworks      *usecase.ListNetworks

	client *blockchain.Client
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	records usecase.RecordRepository,
	prompter *interactive.Prompter,
	deployProtocol *usecase.DeployProtocol,
	showRecord *usecase.ShowRecord,
	verifyRecord *usecase.VerifyRecord,
	transferOwnership *usecase.TransferOwnership,
	adoptDeployment *usecase.AdoptDeployment,
	listNetworks *usecase.ListNetworks,
	client *blockchain.Client,
) (*App, error) {
	return &App{
		Config:            cfg,
		Records:           records,
		Prompter:          prompter,
		DeployProtocol:    deployProtocol,
		ShowRecord:        showRecord,
		VerifyRecord:      verifyRecord,
		TransferOwnership: transferOwnership,
		AdoptDeployment:   adoptDeployment,
		ListNetworks:      listNetworks,
		client:            client,
	}, nil
}

// Close releases the RPC connection, if one was opened
func (a *App) Close() {
	if a.client != nil {
		a.client.Close()
	}
}
