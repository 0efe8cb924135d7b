package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	DatabaseURL      string        `validate:"required"`
	Port             string        `validate:"required,numeric"`
	JWTSecret        string        `validate:"required"`
	TokenTTL         time.Duration `validate:"gt=0"`
	BcryptCost       int           `validate:"min=4,max=31"`
	HidePasswordHash bool
	DBAutoMigrate    bool
	RabbitMQURL      string `validate:"omitempty,url"`
	LogLevel         string `validate:"oneof=trace debug info warn warning error fatal panic"`
}

// Load reads an optional .env file, then the environment, and validates the result.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	v.SetDefault("PORT", "5000")
	v.SetDefault("TOKEN_TTL", "1h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("HIDE_PASSWORD_HASH", false)
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("JWT_SECRET", "")
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:      v.GetString("DATABASE_URL"),
		Port:             v.GetString("PORT"),
		JWTSecret:        v.GetString("JWT_SECRET"),
		TokenTTL:         v.GetDuration("TOKEN_TTL"),
		BcryptCost:       v.GetInt("BCRYPT_COST"),
		HidePasswordHash: v.GetBool("HIDE_PASSWORD_HASH"),
		DBAutoMigrate:    v.GetBool("DB_AUTO_MIGRATE"),
		RabbitMQURL:      v.GetString("RABBITMQ_URL"),
		LogLevel:         strings.ToLower(v.GetString("LOG_LEVEL")),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ListenAddr is the address passed to fiber.App.Listen.
func (c *Config) ListenAddr() string {
	return ":" + c.Port
}

// SetupLogger configures the global logrus logger.
func (c *Config) SetupLogger() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
}
