package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spacenow-app/spacenow/pkg/config"
)

func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	poolCfg.MinConns = int32(cfg.MinConns)
	poolCfg.MaxConns = int32(cfg.MaxConns)
	poolCfg.MaxConnLifetime = cfg.MaxLifetime
	return pgxpool.NewWithConfig(ctx, poolCfg)
}
