package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

type AppConfig struct {
	API      *APIConfig      `mapstructure:"api"`
	Gin      *GinConfig      `mapstructure:"gin"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	Redis    *RedisConfig    `mapstructure:"redis"`
	RabbitMQ *RabbitMQConfig `mapstructure:"rabbitmq"`
	Presence *PresenceConfig `mapstructure:"presence"`
}

type APIConfig struct {
	Environment        string        `mapstructure:"environment"`
	Port               string        `mapstructure:"port"`
	BaseURL            string        `mapstructure:"base_url"`
	JWTSigningKey      string        `mapstructure:"jwt_signing_key"`
	TokenTTL           time.Duration `mapstructure:"token_ttl"`
	AllowedCORSDomains []string      `mapstructure:"allowed_cors_domains"`
	RequestTimeout     time.Duration `mapstructure:"request_timeout"`
	LogLevel           string        `mapstructure:"log_level"`
}

type GinConfig struct {
	Mode string `mapstructure:"mode"`
}

type PostgresConfig struct {
	Host         string `mapstructure:"host"`
	Port         string `mapstructure:"port"`
	User         string `mapstructure:"user"`
	Password     string `mapstructure:"password"`
	DB           string `mapstructure:"db"`
	SSLMode      string `mapstructure:"sslmode"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode)
}

// RedisConfig is optional; an empty Addr disables the menu cache.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	MenuTTL  time.Duration `mapstructure:"menu_ttl"`
}

// RabbitMQConfig is optional; an empty URL disables broker publishing.
type RabbitMQConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
}

type PresenceConfig struct {
	RadiusMeters float64 `mapstructure:"radius_meters"`
}

// Every key needs a default, otherwise AutomaticEnv cannot override it on Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.environment", "development")
	v.SetDefault("api.jwt_signing_key", "")
	v.SetDefault("api.allowed_cors_domains", []string{})
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "venues")
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("rabbitmq.url", "")
	v.SetDefault("api.port", "8080")
	v.SetDefault("api.base_url", "localhost:8080")
	v.SetDefault("api.token_ttl", 24*time.Hour)
	v.SetDefault("api.request_timeout", 10*time.Second)
	v.SetDefault("api.log_level", "info")
	v.SetDefault("gin.mode", "debug")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 20)
	v.SetDefault("redis.menu_ttl", 5*time.Minute)
	v.SetDefault("rabbitmq.exchange", "venue.events")
	v.SetDefault("presence.radius_meters", 50.0)
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Load reads the YAML file at path; environment variables such as API_PORT or
// POSTGRES_HOST override it.
func Load(path string) (*AppConfig, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*AppConfig, error) {
	conf := &AppConfig{
		API:      &APIConfig{},
		Gin:      &GinConfig{},
		Postgres: &PostgresConfig{},
		Redis:    &RedisConfig{},
		RabbitMQ: &RabbitMQConfig{},
		Presence: &PresenceConfig{},
	}

	if err := v.Unmarshal(conf); err != nil {
		return nil, fmt.Errorf("v.Unmarshal -> %w", err)
	}

	if conf.API.JWTSigningKey == "" {
		return nil, fmt.Errorf("api.jwt_signing_key is required")
	}

	return conf, nil
}

// Watch calls onChange with the re-read config whenever the file changes.
func Watch(path string, onChange func(*AppConfig)) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		return
	}

	v.OnConfigChange(func(fsnotify.Event) {
		conf, err := decode(v)
		if err != nil {
			return
		}
		onChange(conf)
	})
	v.WatchConfig()
}
