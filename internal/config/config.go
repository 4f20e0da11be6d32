package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all service configuration.
type Config struct {
	Server  ServerConfig
	Logger  LoggerConfig
	Storage StorageConfig
	Redis   RedisConfig
}

type ServerConfig struct {
	Addr string
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type StorageConfig struct {
	// Driver selects the store backend: mysql, sqlite, or memory.
	Driver     string
	MySQLDSN   string
	SQLitePath string
}

type RedisConfig struct {
	// Enabled turns on the duplicate-request guard for lease creation.
	Enabled bool
	Addr    string
}

// Load loads configuration using Viper.
// Config file name: config.yaml — searched in ./config, ., /etc/rental-ledger/
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("/etc/rental-ledger/")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}

	cfg.Server.Addr = viper.GetString("server.addr")
	cfg.Logger.Level = viper.GetString("logger.level")
	cfg.Logger.Encoding = viper.GetString("logger.encoding")

	cfg.Storage.Driver = viper.GetString("storage.driver")
	cfg.Storage.MySQLDSN = viper.GetString("storage.mysql_dsn")
	cfg.Storage.SQLitePath = viper.GetString("storage.sqlite_path")

	cfg.Redis.Enabled = viper.GetBool("redis.enabled")
	cfg.Redis.Addr = viper.GetString("redis.addr")

	return cfg, nil
}

func setDefaults() {
	viper.SetDefault("server.addr", ":8080")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "json")
	viper.SetDefault("storage.driver", "sqlite")
	viper.SetDefault("storage.mysql_dsn", "root:root@tcp(localhost:3306)/rental?parseTime=true")
	viper.SetDefault("storage.sqlite_path", "data/rental-ledger.db")
	viper.SetDefault("redis.enabled", false)
	viper.SetDefault("redis.addr", "localhost:6379")
}
