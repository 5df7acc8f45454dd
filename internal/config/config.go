package config

import (
	"fmt"
	"time"

	"gymease-service/internal/pkg/jwt"

	"github.com/caarlos0/env/v11"
)

type AppConfig struct {
	// Server
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:":8000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	PublicRPS       float64       `env:"PUBLIC_RATE_LIMIT_RPS" envDefault:"5"`
	PublicBurst     int           `env:"PUBLIC_RATE_LIMIT_BURST" envDefault:"10"`

	// Storage
	DatabaseURL   string `env:"DATABASE_URL,required,notEmpty"`
	RunMigrations bool   `env:"RUN_MIGRATIONS" envDefault:"true"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass     string `env:"REDIS_PASS"`

	// Business calendar: promo windows and session days are judged in this zone.
	Timezone string `env:"TIMEZONE" envDefault:"Asia/Jakarta"`

	JWT jwt.Config

	// QR payment gateway
	QRGatewayURL     string        `env:"QR_GATEWAY_URL"`
	QRGatewayKey     string        `env:"QR_GATEWAY_API_KEY"`
	QRCallbackSecret string        `env:"QR_CALLBACK_SECRET"`
	QRTTL            time.Duration `env:"QR_TTL" envDefault:"15m"`
	ExpiryInterval   time.Duration `env:"TRANSACTION_EXPIRY_INTERVAL" envDefault:"1m"`

	// Notifications
	WhatsAppURL   string `env:"WHATSAPP_API_URL"`
	WhatsAppToken string `env:"WHATSAPP_API_TOKEN"`

	TelegramBotToken  string `env:"TELEGRAM_BOT_TOKEN"`
	LogTelegramChatID int64  `env:"LOG_TELEGRAM_CHAT_ID"`

	// Initial staff account
	AdminUsername string `env:"ADMIN_USERNAME" envDefault:"admin"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"admin@gymease.local"`
}

// Load loads environment variables into AppConfig.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves the business timezone.
func (c *AppConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}
