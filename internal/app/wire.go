//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/pumpdeploy/internal/adapters"
	"github.com/trebuchet-org/pumpdeploy/internal/logging"
	"github.com/trebuchet-org/pumpdeploy/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper, sink usecase.ProgressSink) (*App, error) {
	wire.Build(
		// Adapters
		adapters.AllAdapters,
		logging.LoggingSet,

		// Use cases
		usecase.NewDeployProtocol,
		usecase.NewShowRecord,
		usecase.NewVerifyRecord,
		usecase.NewTransferOwnership,
		usecase.NewAdoptDeployment,
		usecase.NewListNetworks,

		// App
		NewApp,
	)
	return nil, nil
}
