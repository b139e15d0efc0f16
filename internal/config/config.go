package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL    string        `env:"DATABASE_URL,required" validate:"required"`
	JWTSecret      string        `env:"JWT_SECRET,required" validate:"required,min=16"`
	JWTExpiry      time.Duration `env:"JWT_EXPIRY" envDefault:"12h" validate:"gt=0"`
	ServiceRoleKey string        `env:"SERVICE_ROLE_KEY,required" validate:"required,min=16"`
	Port           int           `env:"PORT" envDefault:"8080" validate:"min=1,max=65535"`
	LogLevel       string        `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn warning error"`
	AppEnv         string        `env:"APP_ENV" envDefault:"production" validate:"oneof=development staging production test"`

	ResendAPIKey  string `env:"RESEND_API_KEY,required" validate:"required"`
	ResendBaseURL string `env:"RESEND_BASE_URL" envDefault:"https://api.resend.com" validate:"url"`
	EmailFrom     string `env:"EMAIL_FROM" envDefault:"Inmobiliaria Web <onboarding@resend.dev>" validate:"required"`
	EmailTo       string `env:"EMAIL_TO" envDefault:"contacto@inmobiliaria.example" validate:"required,email"`
	EmailTimezone string `env:"EMAIL_TIMEZONE" envDefault:"America/Tijuana" validate:"required"`
	// EmailSenderURL points the queue drainer at the send-contact-email
	// function over HTTP. Empty means the drainer sends in-process.
	EmailSenderURL string `env:"EMAIL_SENDER_URL" validate:"omitempty,url"`

	EmailQueueBatchSize    int           `env:"EMAIL_QUEUE_BATCH_SIZE" envDefault:"10" validate:"min=1,max=100"`
	EmailQueuePollInterval time.Duration `env:"EMAIL_QUEUE_POLL_INTERVAL" envDefault:"0s" validate:"gte=0"`

	DeepSeekAPIKey  string `env:"DEEPSEEK_API_KEY,required" validate:"required"`
	DeepSeekBaseURL string `env:"DEEPSEEK_BASE_URL" envDefault:"https://api.deepseek.com" validate:"url"`
	DeepSeekModel   string `env:"DEEPSEEK_MODEL" envDefault:"deepseek-chat" validate:"required"`

	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS" envDefault:"1" validate:"gt=0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"5" validate:"min=1"`
	// TrustedProxies are the addresses or CIDRs allowed to set
	// X-Forwarded-For. Empty means the peer address is always used.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:"," validate:"dive,cidr|ip"`

	DBMaxOpenConns     int `env:"DB_MAX_OPEN_CONNS" envDefault:"25"`
	DBMaxIdleConns     int `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	DBConnMaxLifetimeS int `env:"DB_CONN_MAX_LIFETIME_S" envDefault:"300"`
	DBConnMaxIdleTimeS int `env:"DB_CONN_MAX_IDLE_TIME_S" envDefault:"60"`
}

// Load reads an optional .env file, parses the environment and validates the
// result. Variables already set in the environment win over .env values.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return parse(env.Options{})
}

func parse(opts env.Options) (*Config, error) {
	cfg, err := env.ParseAsWithOptions[Config](opts)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config.Load: validate: %w", err)
	}
	if _, err := time.LoadLocation(cfg.EmailTimezone); err != nil {
		return nil, fmt.Errorf("config.Load: EMAIL_TIMEZONE: %w", err)
	}
	return &cfg, nil
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}
