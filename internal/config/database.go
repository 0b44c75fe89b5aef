package config

import (
	"time"
)

// DatabaseConfig is the MongoDB connection of the admin audit trail. An
// empty URI disables it.
type DatabaseConfig struct {
	URI            string        `yaml:"uri"`
	Database       string        `yaml:"database"`
	MaxPoolSize    int           `yaml:"max_pool_size"`
	MinPoolSize    int           `yaml:"min_pool_size"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	SocketTimeout  time.Duration `yaml:"socket_timeout"`
	RunMigrations  bool          `yaml:"run_migrations"`
}

func (c *DatabaseConfig) Enabled() bool {
	return c.URI != ""
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		URI:            getEnv("MONGODB_URI", ""),
		Database:       getEnv("MONGODB_DATABASE", "yelocar"),
		MaxPoolSize:    getEnvAsInt("MONGODB_MAX_POOL_SIZE", 20),
		MinPoolSize:    getEnvAsInt("MONGODB_MIN_POOL_SIZE", 2),
		ConnectTimeout: getEnvAsDuration("MONGODB_CONNECT_TIMEOUT", 10*time.Second),
		SocketTimeout:  getEnvAsDuration("MONGODB_SOCKET_TIMEOUT", 30*time.Second),
		RunMigrations:  getEnvAsBool("MONGODB_RUN_MIGRATIONS", true),
	}
}
