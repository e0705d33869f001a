package database

import (
	"fmt"
	"strings"
	"time"

	"wiz-academy/pkg/log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

type Config interface {
	Host() string
	Port() string
	User() string
	Password() string
	Name() string
	SSLMode() string
	MaxOpenConns() int
	MaxIdleConns() int
	ConnMaxLifetime() time.Duration
	EnableLog() bool
	LogLevel() string
}

func getDSN(cfg Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host(),
		cfg.User(),
		cfg.Password(),
		cfg.Name(),
		cfg.Port(),
		cfg.SSLMode())
}

func getNamingStrategy() schema.NamingStrategy {
	return schema.NamingStrategy{
		SingularTable: false, // spells, wizards; roles sets its own table name
		NoLowerCase:   false,
	}
}

func gormLogLevel(cfg Config) logger.LogLevel {
	if !cfg.EnableLog() {
		return logger.Silent
	}
	switch strings.ToLower(cfg.LogLevel()) {
	case "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	case "silent":
		return logger.Silent
	default:
		return logger.Warn
	}
}

func newLogger(l log.Logger, cfg Config) logger.Interface {
	return logger.New(l, logger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormLogLevel(cfg),
		IgnoreRecordNotFoundError: true, // not-found is a normal outcome of GET ?id=
		ParameterizedQueries:      true,
		Colorful:                  false,
	})
}

// Connect opens the academy store and applies the pool settings.
func Connect(cfg Config, l log.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  getDSN(cfg),
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		NamingStrategy: getNamingStrategy(),
		Logger:         newLogger(l, cfg),
	})
	if err != nil {
		return nil, err
	}

	sDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sDB.SetMaxIdleConns(cfg.MaxIdleConns())
	sDB.SetMaxOpenConns(cfg.MaxOpenConns())
	sDB.SetConnMaxLifetime(cfg.ConnMaxLifetime())

	return db, nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sDB, err := db.DB()
	if err != nil {
		return err
	}
	return sDB.Close()
}
