package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Session  SessionConfig
	Admin    AdminConfig
	Checkout CheckoutConfig
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
	SeedOnStartup  bool
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	Schema   string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

type SessionConfig struct {
	Secret    string
	KeyPrefix string
	TTL       time.Duration
}

type AdminConfig struct {
	DefaultKey string
}

type CheckoutConfig struct {
	RateLimit  int
	RateWindow time.Duration
}

// IsDevelopment reports whether the server runs outside production
func (c *Config) IsDevelopment() bool {
	return c.Server.Env != "production"
}

func Load() *Config {
	// Populate the process environment first so AutomaticEnv sees .env values too
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env into environment: %v", err)
	}

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_ENV", "development")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5173")
	viper.SetDefault("SEED_ON_STARTUP", true)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SCHEMA", "public")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SESSION_KEY_PREFIX", "scentsationz_universal_v4")
	viper.SetDefault("SESSION_TTL_HOURS", 24*30)
	viper.SetDefault("ADMIN_DEFAULT_KEY", "Khazina123")
	viper.SetDefault("CHECKOUT_RATE_LIMIT", 10)
	viper.SetDefault("CHECKOUT_RATE_WINDOW_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Printf("Warning: Could not read config file: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			Env:            viper.GetString("SERVER_ENV"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
			SeedOnStartup:  viper.GetBool("SEED_ON_STARTUP"),
		},
		Database: DatabaseConfig{
			Host:     viper.GetString("DB_HOST"),
			Port:     viper.GetString("DB_PORT"),
			User:     viper.GetString("DB_USER"),
			Password: viper.GetString("DB_PASSWORD"),
			Database: viper.GetString("DB_DATABASE"),
			Schema:   viper.GetString("DB_SCHEMA"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Session: SessionConfig{
			Secret:    viper.GetString("SESSION_SECRET"),
			KeyPrefix: viper.GetString("SESSION_KEY_PREFIX"),
			TTL:       time.Duration(viper.GetInt("SESSION_TTL_HOURS")) * time.Hour,
		},
		Admin: AdminConfig{
			DefaultKey: viper.GetString("ADMIN_DEFAULT_KEY"),
		},
		Checkout: CheckoutConfig{
			RateLimit:  viper.GetInt("CHECKOUT_RATE_LIMIT"),
			RateWindow: time.Duration(viper.GetInt("CHECKOUT_RATE_WINDOW_SECONDS")) * time.Second,
		},
	}
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
