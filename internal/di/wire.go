//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"MBGate/pkg/config"
	"MBGate/pkg/server"
)

// InitializeApp wires up all dependencies and returns the application.
// The returned cleanup releases infrastructure clients in reverse order.
func InitializeApp(cfg *config.Config) (*server.App, func(), error) {
	wire.Build(
		// Infrastructure clients
		ProvideKafkaProducer,
		ProvideLogger,
		ProvideMetrics,
		ProvideHTTPClient,
		ProvideCache,
		ProvideClickHouseClient,

		// Upstream
		ProvideAuthenticator,
		ProvideBrokerClient,

		// Repositories
		ProvideSnapshotPublisher,
		ProvideSnapshotStorage,

		// Use cases
		ProvideSnapshotProcessor,
		ProvidePortfolioUseCase,

		// Presentation
		ProvidePortfolioHandler,
		ProvideHTTPServer,
		ProvideApp,
	)
	return nil, nil, nil
}
