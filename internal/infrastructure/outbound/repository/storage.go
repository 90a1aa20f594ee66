package repository

import (
	"context"
	"fmt"
	"log/slog"

	ports "yatube/internal/domain/ports/output"
	group_repository "yatube/internal/domain/ports/output/group"
	post_repository "yatube/internal/domain/ports/output/post"
	user_repository "yatube/internal/domain/ports/output/user"
	"yatube/internal/infrastructure/config"
	group_memory "yatube/internal/infrastructure/outbound/repository/group/memory"
	group_postgres "yatube/internal/infrastructure/outbound/repository/group/postgres"
	"yatube/internal/infrastructure/outbound/repository/memory"
	post_memory "yatube/internal/infrastructure/outbound/repository/post/memory"
	post_postgres "yatube/internal/infrastructure/outbound/repository/post/postgres"
	"yatube/internal/infrastructure/outbound/repository/postgres"
	user_memory "yatube/internal/infrastructure/outbound/repository/user/memory"
	user_postgres "yatube/internal/infrastructure/outbound/repository/user/postgres"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Storage bundles the repositories of one backend.
type Storage struct {
	Posts      post_repository.Repository
	Groups     group_repository.Repository
	Users      user_repository.Repository
	UnitOfWork postgres.UnitOfWork

	pool *pgxpool.Pool
}

// Open connects the backend named by kind. Postgres migrations run first when
// cfg.AutoMigrate is set.
func Open(ctx context.Context, kind string, cfg config.Database, log ports.Logger, metrics ports.MetricsProvider) (*Storage, error) {
	switch kind {
	case config.StorageMemory:
		log.Warn("Using in-memory storage, data is lost on restart")
		posts := post_memory.NewPostRepository(log)
		groups := group_memory.NewGroupRepository(log)
		users := user_memory.NewUserRepository(log)
		return &Storage{
			Posts:      posts,
			Groups:     groups,
			Users:      users,
			UnitOfWork: memory.NewUnitOfWork(posts, groups, users),
		}, nil
	case config.StoragePostgres:
		return openPostgres(ctx, cfg, log, metrics)
	default:
		return nil, fmt.Errorf("unknown storage %q", kind)
	}
}

func openPostgres(ctx context.Context, cfg config.Database, log ports.Logger, metrics ports.MetricsProvider) (*Storage, error) {
	dsn, err := cfg.DSN()
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := postgres.Migrate(dsn, cfg.MigrationsPath, false, log); err != nil {
			return nil, err
		}
	}

	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres pool config: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolConfig.MaxConns = cfg.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	log.Info("Connected to Postgres", slog.String("host", poolConfig.ConnConfig.Host), slog.String("database", poolConfig.ConnConfig.Database))

	return &Storage{
		Posts:      post_postgres.NewPostRepository(pool, log, metrics),
		Groups:     group_postgres.NewGroupRepository(pool, log, metrics),
		Users:      user_postgres.NewUserRepository(pool, log, metrics),
		UnitOfWork: postgres.NewPostgresUOW(pool, log, metrics),
		pool:       pool,
	}, nil
}

func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
