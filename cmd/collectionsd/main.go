package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/bibbank/collections/internal/application/usecase"
	"github.com/bibbank/collections/internal/domain/port"
	"github.com/bibbank/collections/internal/domain/service"
	"github.com/bibbank/collections/internal/infrastructure/config"
	"github.com/bibbank/collections/internal/infrastructure/kafka"
	"github.com/bibbank/collections/internal/infrastructure/memory"
	"github.com/bibbank/collections/internal/infrastructure/messaging"
	"github.com/bibbank/collections/internal/infrastructure/metrics"
	mongorepo "github.com/bibbank/collections/internal/infrastructure/mongo"
	pgrepo "github.com/bibbank/collections/internal/infrastructure/postgres"
	redisnotify "github.com/bibbank/collections/internal/infrastructure/redis"
	grpcPresentation "github.com/bibbank/collections/internal/presentation/grpc"
	"github.com/bibbank/collections/internal/presentation/rest"
	"github.com/bibbank/collections/pkg/auth"
	pkgkafka "github.com/bibbank/collections/pkg/kafka"
	"github.com/bibbank/collections/pkg/observability"
	pkgpostgres "github.com/bibbank/collections/pkg/postgres"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: cfg.ServiceName,
	})

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("collections-service failed", "error", err)
		os.Exit(1)
	}
	logger.Info("collections-service stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	logger.Info("starting collections-service",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"store", cfg.StoreDriver,
	)

	// --- Observability ------------------------------------------------------
	if cfg.OTLPEndpoint != "" {
		shutdown, err := observability.InitTracer(ctx, observability.TracingConfig{
			ServiceName: cfg.ServiceName,
			Endpoint:    cfg.OTLPEndpoint,
			Insecure:    cfg.OTLPInsecure,
		})
		if err != nil {
			logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }() //nolint:errcheck // best-effort tracer shutdown
		}
	}

	meterProvider, metricsHandler, err := observability.InitMetrics()
	if err != nil {
		return fmt.Errorf("init metrics: %w", err)
	}
	defer func() { _ = meterProvider.Shutdown(context.Background()) }() //nolint:errcheck // best-effort flush

	ledgerMetrics, err := metrics.NewLedgerMetrics(meterProvider)
	if err != nil {
		return fmt.Errorf("init ledger metrics: %w", err)
	}

	// --- Store --------------------------------------------------------------
	st, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer st.close()

	// --- Events -------------------------------------------------------------
	var publisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := pkgkafka.NewProducer(pkgkafka.Config{
			ClientID: cfg.ServiceName,
			Brokers:  cfg.Kafka.Brokers,
			TLS:      cfg.Kafka.TLS,
		})
		if err != nil {
			return fmt.Errorf("create kafka producer: %w", err)
		}
		defer func() { _ = producer.Close() }() //nolint:errcheck // best-effort flush
		publisher = kafka.NewEventPublisher(producer, cfg.Kafka.Topic, logger)
	} else {
		logger.Info("KAFKA_BROKERS not set, domain events are logged only")
		publisher = messaging.NewLogEventPublisher(logger)
	}

	// --- Transition rules ---------------------------------------------------
	var (
		notifier    port.RuleChangeNotifier
		ruleUpdates *redisnotify.RuleNotifier
	)
	redisClient, err := redisnotify.NewClient(ctx, cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	if redisClient != nil {
		defer func() { _ = redisClient.Close() }() //nolint:errcheck // best-effort close
		ruleUpdates = redisnotify.NewRuleNotifier(redisClient, cfg.Redis.Channel, logger)
		notifier = ruleUpdates
		st.checkers["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	rules := service.NewTransitionRuleCache(st.rules, notifier, ledgerMetrics, logger)
	if err := rules.SeedDefaults(ctx); err != nil {
		return fmt.Errorf("load transition rules: %w", err)
	}
	logger.Info("transition rules loaded", "count", rules.Size())

	// --- Use cases ----------------------------------------------------------
	ledger := usecase.NewLedger(st.cases, service.NewCaseValidator(), publisher, ledgerMetrics, logger)
	svc := usecase.NewCaseLedgerService(ledger, rules)

	// --- Auth ---------------------------------------------------------------
	jwtSvc, err := newJWTService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("initialize JWT service: %w", err)
	}

	// --- Servers ------------------------------------------------------------
	grpcServer, err := grpcPresentation.NewServer(grpcPresentation.NewCaseLedgerHandler(svc, logger), logger, jwtSvc,
		grpcPresentation.ServerOptions{
			ServiceName: cfg.ServiceName,
			TLSCertFile: cfg.TLSCertFile,
			TLSKeyFile:  cfg.TLSKeyFile,
			Reflection:  cfg.GRPCReflection,
		})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr: cfg.HTTPAddr(),
		Handler: rest.NewRouter(rest.RouterConfig{
			Service:        svc,
			JWT:            jwtSvc,
			Health:         rest.NewHealthHandler(cfg.ServiceName, st.checkers, logger),
			MetricsHandler: metricsHandler,
			RateLimitRPS:   cfg.RateLimitRPS,
			Logger:         logger,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr())
		var err error
		if cfg.TLSCertFile != "" {
			err = httpServer.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = httpServer.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	if ruleUpdates != nil {
		g.Go(func() error {
			if err := ruleUpdates.Subscribe(gctx, rules); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("rule change subscription: %w", err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutdown signal received")

		grpcServer.GracefulStop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
		return nil
	})

	return g.Wait()
}

// store holds the repositories of the configured driver together with their
// readiness checks and cleanup.
type store struct {
	cases    port.CaseRepository
	rules    port.TransitionRuleRepository
	checkers map[string]rest.Checker
	close    func()
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (*store, error) {
	connectCtx, connectCancel := context.WithTimeout(ctx, 10*time.Second)
	defer connectCancel()

	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		pgCfg := pkgpostgres.Config{
			Host:            cfg.DB.Host,
			Port:            cfg.DB.Port,
			User:            cfg.DB.User,
			Password:        cfg.DB.Password,
			Database:        cfg.DB.Name,
			SSLMode:         cfg.DB.SSLMode,
			ApplicationName: cfg.ServiceName,
		}
		pool, err := pkgpostgres.NewPool(connectCtx, pgCfg)
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		logger.Info("connected to database")

		version, err := pkgpostgres.RunMigrations(pgCfg.DSN(), cfg.MigrationsURL())
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		logger.Info("database migrations applied", "version", version)

		return &store{
			cases: pgrepo.NewCaseRepo(pool),
			rules: pgrepo.NewRuleRepo(pool),
			checkers: map[string]rest.Checker{
				"postgres": func(ctx context.Context) error { return pkgpostgres.HealthCheck(ctx, pool) },
			},
			close: pool.Close,
		}, nil

	case config.StoreDriverMongo:
		client, err := mongorepo.Connect(connectCtx, cfg.Mongo.URI)
		if err != nil {
			return nil, fmt.Errorf("connect to mongo: %w", err)
		}
		db := client.Database(cfg.Mongo.Database)
		if err := mongorepo.EnsureIndexes(connectCtx, db); err != nil {
			_ = client.Disconnect(context.Background()) //nolint:errcheck // already failing
			return nil, err
		}
		logger.Info("connected to mongo", "database", cfg.Mongo.Database)

		return &store{
			cases: mongorepo.NewCaseRepo(db),
			rules: mongorepo.NewRuleRepo(db),
			checkers: map[string]rest.Checker{
				"mongo": func(ctx context.Context) error { return mongorepo.HealthCheck(ctx, client) },
			},
			close: func() { _ = client.Disconnect(context.Background()) }, //nolint:errcheck // best-effort close
		}, nil

	default:
		logger.Warn("using in-memory store, data is lost on restart")
		return &store{
			cases:    memory.NewCaseStore(),
			rules:    memory.NewRuleStore(),
			checkers: map[string]rest.Checker{},
			close:    func() {},
		}, nil
	}
}

// newJWTService builds a validation-only JWT service: public key preferred,
// shared secret as fallback.
func newJWTService(cfg config.AuthConfig) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{Issuer: cfg.Issuer}
	switch {
	case cfg.PublicKey != "":
		jwtCfg.PublicKeyPEM = cfg.PublicKey
	case cfg.PublicKeyFile != "":
		keyData, err := auth.LoadKeyFromFile(cfg.PublicKeyFile)
		if err != nil {
			return nil, err
		}
		jwtCfg.PublicKeyPEM = string(keyData)
	default:
		jwtCfg.Secret = cfg.Secret
	}
	return auth.NewJWTService(jwtCfg)
}
