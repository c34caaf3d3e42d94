package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env           string `env:"APP_ENV" env-default:"development"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL" env-default:"http://localhost:8080"`

	HTTP     HTTPConfig
	Database DatabaseConfig
	Session  SessionConfig
	Checkout CheckoutConfig
	SMTP     SMTPConfig
	Telegram TelegramConfig
	Google   GoogleConfig
	Admin    AdminConfig
}

type HTTPConfig struct {
	Addr         string        `env:"HTTP_ADDR" env-default:":8080"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"10s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"20s"`
	IdleTimeout  time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"60s"`
}

type DatabaseConfig struct {
	DSN      string `env:"DB_DSN"`
	Host     string `env:"DB_HOST" env-default:"localhost"`
	Port     int    `env:"DB_PORT" env-default:"5432"`
	User     string `env:"DB_USER" env-default:"postgres"`
	Password string `env:"DB_PASSWORD" env-default:"postgres"`
	Name     string `env:"DB_NAME" env-default:"stride"`
	SSLMode  string `env:"DB_SSLMODE" env-default:"disable"`
}

type SessionConfig struct {
	Secret string        `env:"SESSION_SECRET" env-default:"dev-insecure"`
	TTL    time.Duration `env:"SESSION_TTL" env-default:"168h"`
}

type CheckoutConfig struct {
	// StrictVariants makes a cart line with no resolvable variant fail the
	// whole checkout instead of being dropped.
	StrictVariants bool `env:"CHECKOUT_STRICT_VARIANTS" env-default:"true"`
}

type SMTPConfig struct {
	Host        string `env:"SMTP_HOST"`
	Port        string `env:"SMTP_PORT"`
	User        string `env:"SMTP_USER"`
	Pass        string `env:"SMTP_PASS"`
	NotifyEmail string `env:"ORDER_NOTIFY_EMAIL"`
}

type TelegramConfig struct {
	BotToken string `env:"TELEGRAM_BOT_TOKEN"`
	ChatIDs  string `env:"TELEGRAM_CHAT_IDS"`
}

type GoogleConfig struct {
	ClientID     string `env:"GOOGLE_CLIENT_ID"`
	ClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
}

type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL"`
	Password string `env:"ADMIN_PASSWORD"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env config: %w", err)
	}
	return &cfg, nil
}

// DSN builds the postgres connection string unless DB_DSN overrides it.
func (c DatabaseConfig) BuildDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

func (c *Config) IsDev() bool {
	return c.Env == "" || c.Env == "development" || c.Env == "dev"
}
