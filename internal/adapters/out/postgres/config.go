package postgres

import (
	"fmt"
	"time"
)

// Config holds the connection settings. It is parsed from the environment by
// github.com/caarlos0/env as part of the application config.
type Config struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME" envDefault:"tracking"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"10"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"30m"`
	SlowQuery       time.Duration `env:"DB_SLOW_QUERY" envDefault:"200ms"`

	RetryAttempts int           `env:"DB_CONNECT_RETRIES" envDefault:"3"`
	RetryInterval time.Duration `env:"DB_RETRY_INTERVAL" envDefault:"2s"`
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}
