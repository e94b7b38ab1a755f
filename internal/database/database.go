package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/QL1STY/Badminton-IPBA-Project/internal/config"
	"github.com/charmbracelet/log"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var _ DB = (*Client)(nil) // Ensure Client implements DB

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = gorm.ErrRecordNotFound

// Client wraps the gorm.DB instance.
type Client struct {
	db *gorm.DB
}

// New opens the database described by cfg. It does not migrate the schema, call Migrate for that.
func New(cfg *config.DatabaseConfig) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("missing database config")
	}

	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	var (
		db  *gorm.DB
		err error
	)
	switch cfg.Driver {
	case config.DatabaseDriverPostgres:
		db, err = gorm.Open(postgres.Open(cfg.DSN), gormCfg)
	default:
		db, err = gorm.Open(sqlite.Open(sqliteDSN(cfg.Path)), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	if cfg.Driver != config.DatabaseDriverPostgres {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql db: %w", err)
		}
		// sqlite has a single writer, serialize everything through one connection
		sqlDB.SetMaxOpenConns(1)
	}

	log.Debug("database opened", "driver", db.Dialector.Name())
	return &Client{db: db}, nil
}

// sqliteDSN enables foreign keys on every connection so ON DELETE CASCADE applies.
func sqliteDSN(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Migrate creates or updates the schema.
func (c *Client) Migrate() error {
	if err := c.db.AutoMigrate(
		&User{},
		&Post{},
		&Tournament{},
		&Registration{},
		&Winner{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (c *Client) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (c *Client) isPostgres() bool {
	return c.db.Dialector.Name() == "postgres"
}
