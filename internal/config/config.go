package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
)

// Config holds the full service configuration, parsed once from environment
// variables at process start and passed by reference into constructors. Core
// logic never reads the environment directly.
type Config struct {
	AppName      string `env:"APP_NAME"      envDefault:"Cinematic"`
	HTTPAddr     string `env:"HTTP_ADDR"     envDefault:":8000"`
	FrontendHost string `env:"FRONTEND_HOST" envDefault:"http://localhost:3000"`

	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"cinematic"`

	Token  TokenConfig
	SMTP   SMTPConfig
	Stripe StripeConfig

	VideoOutputDir    string `env:"VIDEO_OUTPUT_DIR"    envDefault:"static/output_video"`
	VideoGeneratorURL string `env:"VIDEO_GENERATOR_URL" envDefault:"http://localhost:5000"`
}

// TokenConfig holds JWT issuance settings.
type TokenConfig struct {
	SecretKey             string        `env:"SECRET_KEY"`
	AccessTokenExpiresIn  time.Duration `env:"ACCESS_TOKEN_EXPIRES_IN"  envDefault:"30m"`
	RefreshTokenExpiresIn time.Duration `env:"REFRESH_TOKEN_EXPIRES_IN" envDefault:"1440m"`
}

// SMTPConfig holds outbound email settings.
type SMTPConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" envDefault:"587"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

// StripeConfig holds payment gateway credentials.
type StripeConfig struct {
	SecretKey      string `env:"STRIPE_SECRET_KEY"`
	PublishableKey string `env:"STRIPE_PUBLISHABLE_KEY"`
	WebhookSecret  string `env:"STRIPE_WEBHOOK_SECRET"`
}

// New parses the configuration from environment variables.
func New(logger *zerolog.Logger) *Config {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate configuration")
	}

	return &cfg
}

// validate checks that required settings are present.
func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("missing MONGO_URI environment variable")
	}
	if c.Token.SecretKey == "" {
		return fmt.Errorf("missing SECRET_KEY environment variable")
	}
	if c.Token.AccessTokenExpiresIn <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_EXPIRES_IN must be positive")
	}
	if c.Token.RefreshTokenExpiresIn <= 0 {
		return fmt.Errorf("REFRESH_TOKEN_EXPIRES_IN must be positive")
	}

	return nil
}
