package db

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"notifyhub/pkg/config"
)

const (
	applicationName = "notifyhub"

	defaultMaxConns       = 10
	defaultMinConns       = 2
	defaultMaxConnIdle    = time.Minute
	defaultSlowQuery      = 100 * time.Millisecond
	defaultConnectTimeout = 5 * time.Second
)

// DSN builds the connection URL. User and password are escaped, so any
// characters are allowed in them.
func DSN(cfg config.DBConfig) string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	q := url.Values{}
	q.Set("sslmode", sslMode)
	q.Set("application_name", applicationName)

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Path:     "/" + cfg.Name,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// PoolConfig turns cfg into a pool config with the slow query tracer attached.
func PoolConfig(cfg config.DBConfig, logger *zap.Logger) (*pgxpool.Config, error) {
	poolCfg, err := pgxpool.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}

	poolCfg.MaxConns = orDefault(cfg.MaxConns, defaultMaxConns)
	poolCfg.MinConns = min(orDefault(cfg.MinConns, defaultMinConns), poolCfg.MaxConns)
	poolCfg.MaxConnIdleTime = orDefault(cfg.MaxConnIdle, defaultMaxConnIdle)
	poolCfg.ConnConfig.ConnectTimeout = orDefault(cfg.ConnectTimeout, defaultConnectTimeout)
	poolCfg.ConnConfig.Tracer = NewSlowQueryTracer(logger, orDefault(cfg.SlowQuery, defaultSlowQuery))
	return poolCfg, nil
}

func NewConnection(cfg config.DBConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := PoolConfig(cfg, logger)
	if err != nil {
		return nil, err
	}

	logger.Info("Initializing PostgreSQL connection pool",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("db", cfg.Name),
		zap.Int32("max_conns", poolCfg.MaxConns),
	)

	ctx, cancel := context.WithTimeout(context.Background(), poolCfg.ConnConfig.ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}
	// 连接池是懒连接的，ping 一次确认数据库可达
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	logger.Info("PostgreSQL connection established successfully")
	return pool, nil
}

func orDefault[T int32 | time.Duration](v, def T) T {
	if v <= 0 {
		return def
	}
	return v
}
