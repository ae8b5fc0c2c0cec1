package database

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lunchlog/config"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

type DB struct {
	SQL   *gorm.DB
	Cache Cache
	log   logger.Logger
}

func New(config config.Config) (DB, error) {
	log := logger.New("database").Function("New")

	db := &DB{log: log}

	if err := db.initializeDB(config); err != nil {
		return DB{}, log.Err("failed to initialize database", err, "driver", config.DatabaseDriver)
	}

	if err := db.initializeCacheDB(config); err != nil {
		_ = db.Close()
		return DB{}, log.Err("failed to initialize cache database", err)
	}

	return *db, nil
}

// NewSQLOnly opens the relational database without the cache clients.
func NewSQLOnly(config config.Config) (DB, error) {
	log := logger.New("database").Function("NewSQLOnly")
	db := &DB{log: log}

	if err := db.initializeDB(config); err != nil {
		return DB{}, log.Err("failed to initialize database", err)
	}

	return *db, nil
}

func gormConfig() *gorm.Config {
	// Slow queries only.
	sqlLog := gormLogger.New(
		slog.NewLogLogger(slog.Default().Handler(), slog.LevelWarn),
		gormLogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogger.Warn,
			IgnoreRecordNotFoundError: true,
			ParameterizedQueries:      true,
		},
	)

	return &gorm.Config{
		Logger:                 sqlLog,
		SkipDefaultTransaction: true,
		NowFunc:                func() time.Time { return time.Now().UTC() },
	}
}

func (s *DB) initializeDB(cfg config.Config) error {
	if cfg.DatabaseDriver == config.DriverSQLite {
		db, err := OpenSQLite(cfg.DatabaseName)
		if err != nil {
			return err
		}
		s.SQL = db
		return nil
	}

	return s.initializePostgresDB(gormConfig(), cfg)
}

const (
	postgresMaxIdleConns    = 10
	postgresMaxOpenConns    = 50
	postgresConnMaxLifetime = time.Hour
	connectTimeout          = 10 * time.Second
)

func postgresDSN(cfg config.Config) (string, error) {
	missing := ""
	switch {
	case cfg.DatabaseHost == "":
		missing = "DB_HOST"
	case cfg.DatabaseName == "":
		missing = "DB_NAME"
	case cfg.DatabaseUser == "":
		missing = "DB_USER"
	}
	if missing != "" {
		return "", fmt.Errorf("%s is required for postgres", missing)
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=UTC",
		cfg.DatabaseHost, cfg.DatabasePort, cfg.DatabaseUser, cfg.DatabasePassword, cfg.DatabaseName,
	), nil
}

func (s *DB) initializePostgresDB(gormConfig *gorm.Config, cfg config.Config) error {
	log := s.log.Function("initializePostgresDB")

	dsn, err := postgresDSN(cfg)
	if err != nil {
		return log.Err("invalid postgres configuration", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		return log.Err("failed to open postgres", err, "host", cfg.DatabaseHost, "database", cfg.DatabaseName)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return log.Err("failed to get postgres pool", err)
	}
	sqlDB.SetMaxIdleConns(postgresMaxIdleConns)
	sqlDB.SetMaxOpenConns(postgresMaxOpenConns)
	sqlDB.SetConnMaxLifetime(postgresConnMaxLifetime)

	s.SQL = db

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := s.Ping(ctx); err != nil {
		return log.Err("postgres is unreachable", err, "host", cfg.DatabaseHost, "port", cfg.DatabasePort)
	}

	log.Info("Connected to postgres", "host", cfg.DatabaseHost, "database", cfg.DatabaseName)
	return nil
}

// OpenSQLite opens a SQLite database at path. An empty path or ":memory:"
// yields a private in-memory database. A single connection is used so that
// writers serialize the same way row locks do on PostgreSQL.
func OpenSQLite(path string) (*gorm.DB, error) {
	log := logger.New("database").Function("OpenSQLite")

	dsn := path
	if dsn == "" || dsn == ":memory:" {
		dsn = "file::memory:"
	}

	db, err := gorm.Open(sqlite.Open(dsn+"?_foreign_keys=on&_busy_timeout=5000"), gormConfig())
	if err != nil {
		return nil, log.Err("failed to open SQLite database", err, "path", path)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, log.Err("failed to get database from GORM", err)
	}
	sqlDB.SetMaxOpenConns(1)

	return db, nil
}

func (s *DB) Close() error {
	s.Cache.close()

	if s.SQL == nil {
		return nil
	}
	sqlDB, err := s.SQL.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping checks the relational database, then valkey when connected.
func (s *DB) Ping(ctx context.Context) error {
	sqlDB, err := s.SQL.DB()
	if err != nil {
		return err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("sql: %w", err)
	}

	if s.Cache.General != nil {
		if err := s.Cache.General.Do(ctx, s.Cache.General.B().Ping().Build()).Error(); err != nil {
			return fmt.Errorf("valkey: %w", err)
		}
	}
	return nil
}

func (s *DB) SQLWithContext(ctx context.Context) *gorm.DB {
	return s.SQL.WithContext(ctx)
}
