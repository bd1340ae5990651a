package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/shopadmin/backoffice/internal/api"
	"github.com/shopadmin/backoffice/internal/api/handler"
	"github.com/shopadmin/backoffice/internal/core/ports"
	"github.com/shopadmin/backoffice/internal/core/service"
	"github.com/shopadmin/backoffice/internal/infrastructure/config"
	"github.com/shopadmin/backoffice/internal/infrastructure/db/mongo"
	"github.com/shopadmin/backoffice/internal/infrastructure/db/redis"
	"github.com/shopadmin/backoffice/internal/infrastructure/db/sqlstore"
	"github.com/shopadmin/backoffice/internal/infrastructure/kafka"
	"github.com/shopadmin/backoffice/internal/infrastructure/queue"
)

const shutdownTimeout = 10 * time.Second

// Server owns the HTTP listener and every connection opened for it.
type Server struct {
	echo       *echo.Echo
	addr       string
	log        zerolog.Logger
	dispatcher *queue.Dispatcher

	closers []func(ctx context.Context) error
}

type stores struct {
	credentials ports.CredentialRepository
	roles       ports.RoleRepository
	audit       ports.AuditSink
	health      map[string]handler.Pinger
}

// New connects the configured stores, seeds reference data and builds the
// router. Anything opened before a failure is closed again.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Server, error) {
	s := &Server{addr: ":" + cfg.Port, log: log}

	st, err := s.openStores(ctx, cfg)
	if err != nil {
		_ = s.close(ctx)
		return nil, err
	}

	var roleCache ports.RoleCache
	if cfg.Redis.Addr != "" {
		rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			_ = s.close(ctx)
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return rdb.Close() })
		st.health["redis"] = redis.Pinger{Client: rdb}
		roleCache = redis.NewRoleCache(rdb, cfg.Redis.RoleCacheTTL)
	}

	sinks := queue.MultiSink{st.audit}
	if len(cfg.Kafka.Brokers) > 0 {
		publisher := kafka.NewAuditPublisher(kafka.Config{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		s.closers = append(s.closers, func(context.Context) error { return publisher.Close() })
		sinks = append(sinks, publisher)
	}
	s.dispatcher = queue.NewDispatcher(cfg.Audit.Workers, cfg.Audit.QueueSize, sinks, log)

	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authService := service.NewAuthService(st.credentials, service.NewBcryptHasher(cfg.BcryptCost), tokens, s.dispatcher, log)
	roleService := service.NewRoleService(st.roles, roleCache, log)

	if err := roleService.EnsureDefaults(ctx); err != nil {
		_ = s.close(ctx)
		return nil, fmt.Errorf("seed roles: %w", err)
	}
	if cfg.Admin.Email != "" {
		if _, err := authService.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			_ = s.close(ctx)
			return nil, fmt.Errorf("bootstrap admin: %w", err)
		}
	}

	// HTTP collectors live in a per-server registry; /metrics serves them
	// together with the process-wide service metrics.
	httpMetrics := prometheus.NewRegistry()
	s.echo = api.NewRouter(api.Dependencies{
		Auth:       authService,
		Roles:      roleService,
		Verifier:   tokens,
		Health:     st.health,
		Log:        log,
		Registerer: httpMetrics,
		Gatherer:   prometheus.Gatherers{prometheus.DefaultGatherer, httpMetrics},
	})
	return s, nil
}

func (s *Server) openStores(ctx context.Context, cfg *config.Config) (*stores, error) {
	switch cfg.Store {
	case config.StorePostgres, config.StoreSQLite:
		db, err := sqlstore.Open(ctx, cfg.Store, cfg.SQL.DSN)
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, func(context.Context) error { return sqlstore.Close(db) })
		return sqlStores(db), nil
	default:
		client, db, err := mongo.Connect(ctx, mongo.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		s.closers = append(s.closers, client.Disconnect)
		if err := mongo.EnsureIndexes(ctx, db); err != nil {
			return nil, err
		}
		return mongoStores(client, db), nil
	}
}

func sqlStores(db *gorm.DB) *stores {
	return &stores{
		credentials: sqlstore.NewCredentialRepository(db),
		roles:       sqlstore.NewRoleRepository(db),
		audit:       sqlstore.NewAuditRepository(db),
		health:      map[string]handler.Pinger{"sql": sqlstore.Pinger{DB: db}},
	}
}

func mongoStores(client *mongodriver.Client, db *mongodriver.Database) *stores {
	return &stores{
		credentials: mongo.NewCredentialRepository(db),
		roles:       mongo.NewRoleRepository(db),
		audit:       mongo.NewAuditRepository(db),
		health:      map[string]handler.Pinger{"mongodb": mongo.Pinger{Client: client}},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves HTTP until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.dispatcher.Start(context.WithoutCancel(ctx))

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.addr).Msg("http server listening")
		if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		_ = s.Shutdown()
		return err
	case <-ctx.Done():
	}
	return s.Shutdown()
}

// Shutdown stops accepting requests, drains the audit queue and closes
// every store connection.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	var errs []error
	if s.echo != nil {
		if err := s.echo.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs = append(errs, err)
		}
	}
	if s.dispatcher != nil {
		s.dispatcher.Stop()
	}
	errs = append(errs, s.close(ctx))
	s.log.Info().Msg("server stopped")
	return errors.Join(errs...)
}

// close runs the closers in reverse order of opening.
func (s *Server) close(ctx context.Context) error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

var (
	_ ports.AuditRecorder = (*queue.Dispatcher)(nil)
	_ ports.AuditSink     = (*kafka.AuditPublisher)(nil)
)
