package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	RedisURL          string
	RedisPingTimeout  time.Duration
	CORSAllowOrigins  string
	JWTSecret         string
	ReportCacheTTL    time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// IsDevelopment reports whether the service runs in the development environment.
func (c Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("LOGBOOK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Logbook API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("redis.ping_timeout", "5s")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("report.cache_ttl", "10m")

	ttl, err := durationValue(v, "report.cache_ttl")
	if err != nil {
		return Config{}, fmt.Errorf("invalid report cache ttl: %w", err)
	}

	connLifetime, err := durationValue(v, "database.conn_max_lifetime")
	if err != nil {
		return Config{}, fmt.Errorf("invalid database conn max lifetime: %w", err)
	}

	pingTimeout, err := durationValue(v, "redis.ping_timeout")
	if err != nil {
		return Config{}, fmt.Errorf("invalid redis ping timeout: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		DBMaxOpenConns:    v.GetInt("database.max_open_conns"),
		DBMaxIdleConns:    v.GetInt("database.max_idle_conns"),
		DBConnMaxLifetime: connLifetime,
		RedisURL:          v.GetString("redis.url"),
		RedisPingTimeout:  pingTimeout,
		CORSAllowOrigins:  v.GetString("cors.allow_origins"),
		JWTSecret:         v.GetString("jwt.secret"),
		ReportCacheTTL:    ttl,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

func durationValue(v *viper.Viper, key string) (time.Duration, error) {
	return time.ParseDuration(v.GetString(key))
}
