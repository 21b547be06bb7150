package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/talentscout"
	"github.com/aretw0/talentscout/internal/config"
	"github.com/aretw0/talentscout/pkg/adapters/amqp"
	"github.com/aretw0/talentscout/pkg/adapters/file"
	"github.com/aretw0/talentscout/pkg/adapters/gemini"
	"github.com/aretw0/talentscout/pkg/adapters/langchain"
	"github.com/aretw0/talentscout/pkg/adapters/memory"
	"github.com/aretw0/talentscout/pkg/adapters/postgres"
	"github.com/aretw0/talentscout/pkg/adapters/redis"
	"github.com/aretw0/talentscout/pkg/adapters/s3"
	"github.com/aretw0/talentscout/pkg/observability"
	"github.com/aretw0/talentscout/pkg/persistence"
	"github.com/aretw0/talentscout/pkg/persistence/middleware"
	"github.com/aretw0/talentscout/pkg/ports"
	"github.com/aretw0/talentscout/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Components is everything a command needs, built from one Config.
type Components struct {
	Engine   *talentscout.Engine
	Sessions *session.Manager
	Registry *prometheus.Registry
	Logger   *slog.Logger

	closers []func() error
}

// Store is the (possibly encrypted) session store.
func (c *Components) Store() ports.StateStore {
	return c.Sessions.Store()
}

// Close releases network clients in reverse order of creation.
func (c *Components) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *Components) onClose(fn func() error) {
	c.closers = append(c.closers, fn)
}

// createEngine wires the engine and its adapters according to cfg.
// On error every client opened so far is closed.
func createEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (_ *Components, err error) {
	comps := &Components{
		Registry: prometheus.NewRegistry(),
		Logger:   logger,
	}
	defer func() {
		if err != nil {
			_ = comps.Close()
		}
	}()

	gateway, err := createGateway(ctx, cfg.Model)
	if err != nil {
		return nil, err
	}

	store, locker, err := createStore(comps, cfg)
	if err != nil {
		return nil, err
	}

	var redactor *middleware.Redactor
	if len(cfg.Report.RedactFields) > 0 {
		redactor = middleware.NewRedactor(cfg.Report.RedactFields)
	}

	writer, err := createWriter(ctx, comps, cfg.Report, redactor)
	if err != nil {
		return nil, err
	}

	comps.Registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(comps.Registry)

	opts := []talentscout.Option{
		talentscout.WithGateway(gateway),
		talentscout.WithWriter(writer),
		talentscout.WithQuestionCache(file.NewQuestionCache(cfg.Report.Dir, cfg.Report.QuestionsFile)),
		talentscout.WithLifecycleHooks(observability.Combine(metrics.Hooks(), observability.AuditHooks(logger))),
		talentscout.WithLogger(logger),
		talentscout.WithStrictJSON(!cfg.Model.StripCodeFences),
	}

	if cfg.Events.AMQPURL != "" {
		pub, err := amqp.Dial(cfg.Events.AMQPURL, cfg.Events.Exchange)
		if err != nil {
			return nil, err
		}
		comps.onClose(pub.Close)
		var publisher ports.EventPublisher = pub
		if redactor != nil {
			publisher = redactor.Publisher(publisher)
		}
		opts = append(opts, talentscout.WithPublisher(publisher))
	}

	engine, err := talentscout.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	comps.Engine = engine

	managerOpts := []session.Option{session.WithLogger(logger), session.WithLockTTL(cfg.Storage.LockTTL)}
	if locker != nil {
		managerOpts = append(managerOpts, session.WithLocker(locker))
	}
	comps.Sessions = session.NewManager(store, managerOpts...)

	logger.Debug("engine ready",
		"provider", cfg.Model.Provider,
		"model", cfg.Model.Name,
		"storage", cfg.Storage.Backend,
		"report_writers", writer.Len(),
	)
	return comps, nil
}

// createGateway selects the language model backend.
func createGateway(ctx context.Context, cfg config.Model) (ports.ModelGateway, error) {
	switch cfg.Provider {
	case "ollama":
		return langchain.NewOllama(cfg.Name, cfg.BaseURL, langchain.WithTemperature(cfg.Temperature))
	case "openai":
		model := modelName(cfg.Name, langchain.DefaultOpenAIModel)
		return langchain.NewOpenAI(model, cfg.APIKey, cfg.BaseURL, langchain.WithTemperature(cfg.Temperature))
	case "gemini":
		return gemini.New(ctx, cfg.APIKey, modelName(cfg.Name, gemini.DefaultModel), cfg.Temperature)
	case "canned":
		if cfg.CannedFile != "" {
			return memory.NewGatewayFromFile(cfg.CannedFile)
		}
		return memory.NewGatewayFromBank(memory.SampleBank())
	}
	return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
}

// modelName replaces an unset name, or the Ollama default, with the provider's default.
func modelName(name, fallback string) string {
	if name == "" || name == config.DefaultModelName {
		return fallback
	}
	return name
}

// createStore builds the session store, wrapped with encryption when a key is set.
// The locker is non-nil only for the Redis backend.
func createStore(comps *Components, cfg *config.Config) (ports.StateStore, ports.DistributedLocker, error) {
	var (
		store  ports.StateStore
		locker ports.DistributedLocker
	)
	sc := cfg.Storage
	switch sc.Backend {
	case "memory":
		store = memory.NewStore()
	case "file":
		store = file.New(sc.Dir)
	case "redis":
		rs := redis.New(sc.RedisAddr, sc.RedisPassword, sc.RedisDB, redis.WithTTL(sc.TTL))
		comps.onClose(rs.Close)
		store = rs
		locker = redis.NewLocker(rs.Client(), redis.DefaultPrefix)
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", sc.Backend)
	}

	enc, err := cfg.EncryptionConfig()
	if err != nil {
		return nil, nil, err
	}
	if enc != nil {
		store = middleware.Chain(store, middleware.NewEncryptionMiddleware(*enc))
	}
	return store, locker, nil
}

// createWriter fans the final report out to the local file and any configured archive.
// Archives leaving the machine receive redacted state.
func createWriter(ctx context.Context, comps *Components, cfg config.Report, redactor *middleware.Redactor) (*persistence.Fanout, error) {
	external := func(w ports.PersistenceWriter) ports.PersistenceWriter {
		if redactor == nil {
			return w
		}
		return redactor.Writer(w)
	}

	writers := []persistence.Named{
		{Name: "file", Writer: file.NewReportWriter(cfg.Dir, cfg.Filename)},
	}

	if cfg.S3Bucket != "" {
		archive, err := s3.New(ctx, s3.Options{
			Bucket:    cfg.S3Bucket,
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		writers = append(writers, persistence.Named{Name: "s3", Writer: external(archive)})
	}

	if cfg.PostgresURL != "" {
		pg, db, err := postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, err
		}
		comps.onClose(db.Close)
		writers = append(writers, persistence.Named{Name: "postgres", Writer: external(pg)})
	}

	return persistence.NewFanout(writers...), nil
}
