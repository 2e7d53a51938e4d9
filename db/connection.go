package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"github.com/sebuszqo/ExpenseTracker/internal/config"
	"github.com/sebuszqo/ExpenseTracker/internal/logger"
)

const pingTimeout = 10 * time.Second

// DBService represents a service that interacts with a database.
type DBService struct {
	DB  *sql.DB
	log zerolog.Logger
}

// NewDBService opens a database/sql handle backed by the pgx driver, applies the
// pool settings from cfg and pings the server.
func NewDBService(cfg config.DatabaseConfig, log zerolog.Logger) (*DBService, error) {
	connConfig, err := pgx.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("could not parse db connection string: %w", err)
	}

	if cfg.Trace {
		connConfig.Tracer = logger.NewPgxTracer(log)
	}

	db := stdlib.OpenDB(*connConfig)

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not connect to the database: %w", err)
	}

	log.Info().Str("database", connConfig.Database).Str("host", connConfig.Host).Msg("connected to the database")
	return &DBService{DB: db, log: log}, nil
}

// Health checks the health of the database connection by pinging the database.
// It returns a map with keys indicating various health statistics.
func (s *DBService) Health(ctx context.Context) map[string]string {
	stats := make(map[string]string)

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := s.DB.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("db down: %v", err)
		return stats
	}

	dbStats := s.DB.Stats()
	stats["status"] = "up"
	stats["message"] = "It's healthy"
	stats["open_connections"] = fmt.Sprint(dbStats.OpenConnections)
	stats["in_use"] = fmt.Sprint(dbStats.InUse)
	stats["idle"] = fmt.Sprint(dbStats.Idle)
	stats["wait_count"] = fmt.Sprint(dbStats.WaitCount)
	return stats
}

// Close closes the database connection.
func (s *DBService) Close() error {
	s.log.Info().Msg("closing database connection")
	return s.DB.Close()
}
