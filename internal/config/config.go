package config

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port                          string        `mapstructure:"PORT"`
	DatabasePath                  string        `mapstructure:"DATABASE_PATH"`
	JWTSecret                     string        `mapstructure:"JWT_SECRET"`
	TokenTTL                      time.Duration `mapstructure:"TOKEN_TTL"`
	CORSOrigin                    string        `mapstructure:"CORS_ORIGIN"`
	MetricsEnabled                bool          `mapstructure:"METRICS_ENABLED"`
	LogLevel                      string        `mapstructure:"LOG_LEVEL"`
	AuthRatePerMinute             int           `mapstructure:"AUTH_RATE_PER_MINUTE"`
	DiscordClientID               string        `mapstructure:"DISCORD_CLIENT_ID"`
	DiscordClientSecret           string        `mapstructure:"DISCORD_CLIENT_SECRET"`
	DiscordRedirectURL            string        `mapstructure:"DISCORD_REDIRECT_URL"`
	DiscordBotToken               string        `mapstructure:"DISCORD_BOT_TOKEN"`
	DiscordNotificationsChannelID string        `mapstructure:"DISCORD_NOTIFICATIONS_CHANNEL_ID"`
}

// DiscordLoginEnabled reports whether Discord single sign-on is configured.
func (c *Config) DiscordLoginEnabled() bool {
	return c.DiscordClientID != "" && c.DiscordClientSecret != ""
}

// LoadConfig reads .env (when present) and the environment.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("DATABASE_PATH", "itinerary.db")
	v.SetDefault("TOKEN_TTL", "168h")
	v.SetDefault("CORS_ORIGIN", "*")
	v.SetDefault("METRICS_ENABLED", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("AUTH_RATE_PER_MINUTE", 10)
	v.SetDefault("DISCORD_REDIRECT_URL", "http://127.0.0.1:8080/auth/discord/callback")

	for _, key := range []string{
		"JWT_SECRET",
		"DISCORD_CLIENT_ID",
		"DISCORD_CLIENT_SECRET",
		"DISCORD_BOT_TOKEN",
		"DISCORD_NOTIFICATIONS_CHANNEL_ID",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	return &config, nil
}

// Validate reports every problem that prevents the server from starting.
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Errorf("invalid port %q: must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}

	if c.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("invalid TOKEN_TTL %s", c.TokenTTL))
	}

	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH cannot be empty"))
	}

	if c.AuthRatePerMinute < 1 {
		errs = append(errs, fmt.Errorf("invalid AUTH_RATE_PER_MINUTE %d", c.AuthRatePerMinute))
	}

	return errors.Join(errs...)
}
