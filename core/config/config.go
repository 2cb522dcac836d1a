package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RedisConfig struct {
	URL string `mapstructure:"url"`
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type SchedulerConfig struct {
	// SweepIntervalMinutes is how often elapsed accepted meetings are
	// swept into completed.
	SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes"`
	Concurrency          int `mapstructure:"concurrency"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

var (
	cfg  *Config
	once sync.Once
)

// Load reads .env then config.yaml (if present), with env vars taking
// precedence via viper's automatic env binding.
func Load() (*Config, error) {
	var loadErr error
	once.Do(func() {
		_ = godotenv.Load()

		v := viper.New()
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")

		v.SetDefault("server.host", "0.0.0.0")
		v.SetDefault("server.port", 7070)
		v.SetDefault("database.host", "localhost")
		v.SetDefault("database.port", 5432)
		v.SetDefault("database.user", "postgres")
		v.SetDefault("database.dbname", "guidia")
		v.SetDefault("database.sslmode", "disable")
		v.SetDefault("redis.url", "redis://localhost:6379/0")
		v.SetDefault("scheduler.sweep_interval_minutes", 5)
		v.SetDefault("scheduler.concurrency", 10)

		v.SetEnvPrefix("GUIDIA")
		v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		v.AutomaticEnv()

		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				loadErr = fmt.Errorf("read config: %w", err)
				return
			}
		}

		c := &Config{}
		if err := v.Unmarshal(c); err != nil {
			loadErr = fmt.Errorf("unmarshal config: %w", err)
			return
		}
		cfg = c
	})
	if loadErr != nil {
		return nil, loadErr
	}
	return cfg, nil
}

// Get returns the loaded config. Panics if Load was never called.
func Get() *Config {
	if cfg == nil {
		panic("config: not initialized")
	}
	return cfg
}

// GetSafe returns the config and whether it has been initialized.
func GetSafe() (*Config, bool) {
	return cfg, cfg != nil
}
