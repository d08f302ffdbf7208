package app

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"gnest/internal/config"
	"gnest/internal/domain/user"
	"gnest/internal/infra/gnest"
	"gnest/internal/infra/kafka"
	"gnest/internal/infra/logger"
	"gnest/internal/infra/pgsql"
	"gnest/internal/infra/redis"
	"gnest/internal/interfaces/controllers"
	"gnest/internal/interfaces/middlewares"
)

// Infra holds the optional backends. A nil field means the backend is
// disabled and an in-process fallback is used.
type Infra struct {
	DB       *pgsql.PGSQL
	Redis    *redis.Client
	Producer *kafka.Producer
}

type App struct {
	Config    *config.Config
	Log       *logger.LoggerService
	Infra     Infra
	Actionner *gnest.Actionner
	Router    *gin.Engine
}

func loadPgsqlConfig(cfg *config.Config) pgsql.Config {
	return pgsql.Config{
		Host:     cfg.PgSQL.Host,
		Port:     cfg.PgSQL.Port,
		User:     cfg.PgSQL.User,
		Password: cfg.PgSQL.Password,
		DBName:   cfg.PgSQL.DBName,
		SSLMode:  cfg.PgSQL.SSLMode,
		MaxIdle:  cfg.PgSQL.MaxIdle,
		MaxOpen:  cfg.PgSQL.MaxOpen,
		LogLevel: cfg.PgSQL.LogLevel,
	}
}

// Setup loads the config at path, connects the enabled backends and builds
// the app.
func Setup(path string) (*App, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	log, err := logger.NewLoggerService(cfg.Log.Env, cfg.Log.Dir)
	if err != nil {
		return nil, errors.Wrap(err, "logger")
	}

	var infra Infra
	if cfg.PgSQL.Enabled {
		pg, err := pgsql.NewPGSQL(loadPgsqlConfig(cfg))
		if err != nil {
			return nil, err
		}
		if err := pg.Migrate(&user.User{}); err != nil {
			return nil, errors.Wrap(err, "migrate")
		}
		infra.DB = pg
	}
	if cfg.Redis.Enabled {
		rc := redis.NewClient(redis.Config{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rc.Ping(context.Background()); err != nil {
			log.Log.Warn("redis unreachable at startup", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		infra.Redis = rc
	}
	if cfg.Kafka.Enabled {
		p, err := kafka.NewProducer(cfg.Kafka.Brokers, log.Log)
		if err != nil {
			return nil, err
		}
		infra.Producer = p
	}

	return New(cfg, log, infra)
}

// New wires the class registry, injector and actionner over infra and
// mounts the routes on a gin engine.
func New(cfg *config.Config, log *logger.LoggerService, infra Infra) (*App, error) {
	if log == nil {
		log = logger.NewNop()
	}
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	var repo user.Repository = user.NewMemoryRepository()
	var revoker user.Revoker
	var counter middlewares.Counter = middlewares.NewMemoryCounter()
	var publisher middlewares.Publisher = &middlewares.LogPublisher{Logger: log}
	checks := map[string]controllers.Pinger{}
	if infra.DB != nil {
		repo = user.NewUserRepository(infra.DB.DB)
		checks["pgsql"] = infra.DB
	}
	if infra.Redis != nil {
		revoker = infra.Redis
		counter = infra.Redis
		checks["redis"] = infra.Redis
	}
	if infra.Producer != nil {
		publisher = infra.Producer
	}

	classes := gnest.NewRegistry()
	if err := controllers.Register(classes, checks); err != nil {
		return nil, err
	}
	if err := middlewares.Register(classes); err != nil {
		return nil, err
	}

	service := user.NewUserService(repo, user.NewTokenIssuer(cfg.SecretKey), revoker)
	if cfg.Admin.UserName != "" {
		if _, err := service.EnsureAdmin(context.Background(), cfg.Admin.UserName, cfg.Admin.Password); err != nil {
			return nil, errors.Wrap(err, "seed admin")
		}
	}
	in := gnest.NewInjector().Provide(cfg, log, service, service.Tokens, middlewares.AuditTopic(cfg.Kafka.AuditTopic))
	gnest.ProvideAs[middlewares.Counter](in, counter)
	gnest.ProvideAs[middlewares.Publisher](in, publisher)

	actionner := gnest.New(classes, in,
		map[string]string{gnest.ControllerArea: controllers.Namespace},
		nil,
		gnest.WithLogger(log.Log),
	)
	configured := make([]gnest.Entry, len(cfg.Dispatch.Middlewares))
	for i, m := range cfg.Dispatch.Middlewares {
		configured[i] = gnest.Entry{Key: m.Name, Value: m.Class}
	}
	actionner.PushMiddlewareList(configured, true)
	// configured aliases win over the built-in ones
	actionner.PushMiddleware(middlewares.Aliases(), false)
	actionner.PushNamespace(cfg.Dispatch.Namespaces)

	engine := gin.New()
	engine.Use(middlewares.Recovery(log), middlewares.AccessLog(log), middlewares.CORS())

	a := &App{
		Config:    cfg,
		Log:       log,
		Infra:     infra,
		Actionner: actionner,
		Router:    engine,
	}
	a.routes()
	return a, nil
}

// Close releases the backends.
func (a *App) Close() {
	if a.Infra.Producer != nil {
		if err := a.Infra.Producer.Close(); err != nil {
			a.Log.Log.Warn("close kafka producer", zap.Error(err))
		}
	}
	if a.Infra.Redis != nil {
		if err := a.Infra.Redis.Close(); err != nil {
			a.Log.Log.Warn("close redis", zap.Error(err))
		}
	}
	if a.Infra.DB != nil {
		if err := a.Infra.DB.Close(); err != nil {
			a.Log.Log.Warn("close pgsql", zap.Error(err))
		}
	}
	_ = a.Log.Sync()
}
