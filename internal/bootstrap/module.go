package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"labqms/internal/bootstrap/config"
	"labqms/internal/bootstrap/database"
	"labqms/internal/bootstrap/logging"
	cacheinfra "labqms/internal/infrastructure/cache"
	sqliterepo "labqms/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "labqms/internal/infrastructure/persistence/sqlite/uow"
	"labqms/internal/ports"
	"labqms/internal/usecase/audit"
	"labqms/internal/usecase/docs"
	"labqms/internal/usecase/investigation"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewQualityRepository,
			fx.As(new(ports.QualityRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewAuditRepository,
			fx.As(new(ports.AuditLog)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLiteCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(provideRecorder),
	fx.Provide(investigation.NewService),
	fx.Provide(docs.NewService),
	fx.Provide(audit.NewService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func provideRecorder(cfg config.Config, log ports.AuditLog) *audit.Recorder {
	return audit.NewRecorder(log, audit.Identity{
		UserID:    cfg.Audit.Actor,
		UserRole:  cfg.Audit.ActorRole,
		UserName:  cfg.Audit.Actor,
		IPAddress: cfg.Audit.SourceIP,
	})
}
