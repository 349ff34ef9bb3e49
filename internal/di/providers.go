package di

import (
	"context"
	"fmt"
	"time"

	"MBGate/internal/domain/models"
	drepo "MBGate/internal/domain/repository"
	"MBGate/internal/handler/api"
	internalrepo "MBGate/internal/repository"
	"MBGate/internal/service/mercadobitcoin"
	"MBGate/internal/usecase"
	"MBGate/pkg/cache"
	pkgch "MBGate/pkg/clickhouse"
	"MBGate/pkg/config"
	xhttp "MBGate/pkg/http"
	pkgkafka "MBGate/pkg/kafka"
	applogger "MBGate/pkg/logger"
	"MBGate/pkg/metrics"
	"MBGate/pkg/server"
)

const serviceName = "mbgate"

func noop() {}

// ProvideKafkaProducer creates a Kafka producer when snapshots or the log
// collector need one; otherwise it returns nil.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, func(), error) {
	if !cfg.KafkaRequired() {
		return nil, noop, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, func() { _ = producer.Close() }, nil
}

// ProvideLogger creates the application logger. Error logs are aggregated
// and shipped to Kafka when the collector is enabled.
func ProvideLogger(cfg *config.Config, producer *pkgkafka.Producer) (*applogger.Logger, func(), error) {
	l, err := applogger.New(&applogger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logger: %w", err)
	}
	if !cfg.Log.Collector.Enabled || producer == nil {
		return l, noop, nil
	}

	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   cfg.Log.Collector.Interval,
		CountThreshold: cfg.Log.Collector.CountThreshold,
		Topic:          cfg.Log.Collector.Topic,
		Source:         serviceName,
		Publisher:      producer,
	})
	return l, l.RemoveCollector, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics(cfg *config.Config) drepo.Metrics {
	if !cfg.Metrics.Enabled {
		return drepo.NopMetrics{}
	}
	return metrics.New()
}

// ProvideHTTPClient creates the upstream HTTP client.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithBaseURL(cfg.MercadoBitcoin.BaseURL),
		xhttp.WithTimeout(cfg.MercadoBitcoin.Timeout),
		xhttp.WithMaxBodyBytes(cfg.MercadoBitcoin.MaxBodyBytes),
	)
}

// ProvideAuthenticator fails when credentials are missing so the process
// never starts half-configured.
func ProvideAuthenticator(
	cfg *config.Config,
	transport *xhttp.Client,
	l *applogger.Logger,
	m drepo.Metrics,
) (*mercadobitcoin.Authenticator, error) {
	creds := models.NewCredentials(cfg.MercadoBitcoin.TapiID, cfg.MercadoBitcoin.TapiSecret)
	auth, err := mercadobitcoin.NewAuthenticator(transport, creds,
		mercadobitcoin.WithLogger(l.Component("mercadobitcoin")),
		mercadobitcoin.WithMetrics(m),
	)
	if err != nil {
		return nil, fmt.Errorf("authenticator: %w", err)
	}
	return auth, nil
}

// ProvideBrokerClient creates the authenticated brokerage client.
func ProvideBrokerClient(transport *xhttp.Client, l *applogger.Logger, m drepo.Metrics) (*mercadobitcoin.Client, error) {
	client, err := mercadobitcoin.NewClient(transport,
		mercadobitcoin.WithLogger(l.Component("mercadobitcoin")),
		mercadobitcoin.WithMetrics(m),
	)
	if err != nil {
		return nil, fmt.Errorf("broker client: %w", err)
	}
	return client, nil
}

// ProvideCache creates the read cache selected by cache.type; nil for none.
func ProvideCache(cfg *config.Config) (cache.Service, func(), error) {
	var c cache.Service
	switch cfg.Cache.Type {
	case config.CacheMemory:
		c = cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize))
	case config.CacheRedis, config.CacheLayered:
		rc, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Addr),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
			cache.WithRedisPool(cfg.Cache.Redis.PoolSize, 2, 30*time.Second),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("redis cache: %w", err)
		}
		c = rc
		if cfg.Cache.Type == config.CacheLayered {
			c = cache.NewLayeredCache(rc, cfg.Cache.TTL, cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize))
		}
	default:
		return nil, noop, nil
	}
	return c, func() { _ = c.Close() }, nil
}

// ProvideClickHouseClient connects to ClickHouse when it is the snapshot
// backend; otherwise it returns nil.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, func(), error) {
	if cfg.Snapshots.Backend != config.SnapshotBackendClickHouse {
		return nil, noop, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, func() { _ = client.Close() }, nil
}

// ProvideSnapshotPublisher returns a Kafka publisher for the kafka backend.
func ProvideSnapshotPublisher(cfg *config.Config, producer *pkgkafka.Producer) drepo.SnapshotPublisher {
	if cfg.Snapshots.Backend != config.SnapshotBackendKafka || producer == nil {
		return nil
	}
	return internalrepo.NewKafkaSnapshotPublisher(producer, cfg.Kafka.Topic)
}

// ProvideSnapshotStorage returns ClickHouse storage with its schema in place.
func ProvideSnapshotStorage(ch *pkgch.Client) (drepo.SnapshotStorage, error) {
	if ch == nil {
		return nil, nil
	}
	storage := internalrepo.NewClickHouseSnapshotStorage(ch)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := storage.Init(ctx); err != nil {
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}
	return storage, nil
}

// ProvideSnapshotProcessor routes snapshots to the configured backend.
func ProvideSnapshotProcessor(
	cfg *config.Config,
	pub drepo.SnapshotPublisher,
	store drepo.SnapshotStorage,
	m drepo.Metrics,
) (*usecase.SnapshotProcessor, error) {
	return usecase.NewSnapshotProcessor(pub, store, m, cfg.Snapshots.Backend)
}

// ProvidePortfolioUseCase creates the portfolio use case.
func ProvidePortfolioUseCase(
	cfg *config.Config,
	auth *mercadobitcoin.Authenticator,
	client *mercadobitcoin.Client,
	snapshots *usecase.SnapshotProcessor,
	c cache.Service,
	l *applogger.Logger,
	m drepo.Metrics,
) *usecase.PortfolioUseCase {
	return usecase.NewPortfolioUseCase(auth, client,
		usecase.WithReadCache(c, cfg.Cache.TTL),
		usecase.WithSnapshots(snapshots, cfg.Snapshots.Timeout),
		usecase.WithPortfolioLogger(l.Component("portfolio")),
		usecase.WithPortfolioMetrics(m),
	)
}

// ProvidePortfolioHandler creates the HTTP handler.
func ProvidePortfolioHandler(l *applogger.Logger, uc *usecase.PortfolioUseCase) *api.PortfolioEchoHandler {
	return api.NewPortfolioEchoHandler(l.Component("api"), uc)
}

// ProvideHTTPServer creates the Echo server with a health check per
// optional dependency.
func ProvideHTTPServer(
	cfg *config.Config,
	l *applogger.Logger,
	h *api.PortfolioEchoHandler,
	c cache.Service,
	ch *pkgch.Client,
) *xhttp.Server {
	opts := []xhttp.ServerOption{
		xhttp.WithHost(cfg.Server.Host),
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.Server.CORS),
		xhttp.WithMetrics(cfg.Metrics.Enabled),
		xhttp.WithSlowThreshold(cfg.Server.SlowThreshold),
	}
	if c != nil {
		opts = append(opts, xhttp.WithHealthCheck("cache", c.Ping))
	}
	if ch != nil {
		opts = append(opts, xhttp.WithHealthCheck("clickhouse", ch.Health))
	}
	return xhttp.NewServer(l, h, opts...)
}

// ProvideApp assembles the application. In-flight snapshots are drained
// after the HTTP server stops and before the wire cleanup closes the
// producer and ClickHouse client they write to.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	srv *xhttp.Server,
	uc *usecase.PortfolioUseCase,
) *server.App {
	return server.New(l, srv, cfg.Server.ShutdownTimeout,
		server.ShutdownHook{Name: "portfolio", Close: func(context.Context) error {
			uc.Close()
			return nil
		}},
	)
}
