package redis

import "time"

// Config enables Redis when URL is set. Without it the application keeps
// locks in process and publishes events to the log only.
type Config struct {
	// URL has the form redis://:password@localhost:6379/0.
	URL            string        `env:"REDIS_URL"`
	RetryAttempts  int           `env:"REDIS_RETRY_ATTEMPTS" envDefault:"3"`
	RetryInterval  time.Duration `env:"REDIS_RETRY_INTERVAL" envDefault:"2s"`
	ConnectTimeout time.Duration `env:"REDIS_CONNECT_TIMEOUT" envDefault:"30s"`

	// LockTTL expires a package lock left behind by a crashed writer.
	LockTTL       time.Duration `env:"REDIS_LOCK_TTL" envDefault:"30s"`
	LockPrefix    string        `env:"REDIS_LOCK_PREFIX" envDefault:"tracking:lock:package:"`
	EventsChannel string        `env:"REDIS_EVENTS_CHANNEL" envDefault:"tracking.package-events"`
}

func (c Config) Enabled() bool {
	return c.URL != ""
}
