package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (port, DB connection, etc.), security settings
// - default: Values common across all environments (timeouts, lending policy, etc.)
// -----------------------------------------------------------------------------

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	CORS    CORSConfig
	Log     LogConfig
	JWT     JWTConfig
	Cookie  CookieConfig
	Lending LendingConfig
	Notify  NotifyConfig
}

type ServerConfig struct {
	Port string `envconfig:"PORT" required:"true"`
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
	TimeZone string `envconfig:"DB_TIMEZONE" default:"UTC"`
}

type CORSConfig struct {
	AllowOrigins     []string      `envconfig:"CORS_ALLOW_ORIGINS" default:"http://localhost:3000,http://localhost:8080"`
	AllowMethods     []string      `envconfig:"CORS_ALLOW_METHODS" default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
	AllowHeaders     []string      `envconfig:"CORS_ALLOW_HEADERS" default:"Origin,Content-Type,Accept,Authorization"`
	ExposeHeaders    []string      `envconfig:"CORS_EXPOSE_HEADERS" default:"Content-Length"`
	AllowCredentials bool          `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
	MaxAge           time.Duration `envconfig:"CORS_MAX_AGE" default:"12h"`
}

type LogConfig struct {
	Level          string `envconfig:"LOG_LEVEL" default:"info"`
	TimeFormat     string `envconfig:"LOG_TIME_FORMAT" default:"2006-01-02 15:04:05.000"`
	TimeZone       string `envconfig:"LOG_TIMEZONE" default:"UTC"`
	TimeZoneOffset int    `envconfig:"LOG_TIMEZONE_OFFSET" default:"0"`
}

type JWTConfig struct {
	Secret               string `envconfig:"JWT_SECRET" required:"true"`
	AccessTokenDuration  string `envconfig:"JWT_ACCESS_TOKEN_DURATION" default:"15m"`
	RefreshTokenDuration string `envconfig:"JWT_REFRESH_TOKEN_DURATION" default:"720h"`
}

type CookieConfig struct {
	Domain   string `envconfig:"COOKIE_DOMAIN" default:""`
	Secure   bool   `envconfig:"COOKIE_SECURE" default:"false"`
	SameSite string `envconfig:"COOKIE_SAME_SITE" default:"Lax"`
}

// LendingConfig carries the circulation policy knobs. The defaults match the
// library's standing policy; they exist as env vars so a deployment can tighten
// or loosen circulation without a rebuild.
type LendingConfig struct {
	LoanPeriodDays       int   `envconfig:"LENDING_LOAN_PERIOD_DAYS" default:"14"`
	MaxRenewals          int   `envconfig:"LENDING_MAX_RENEWALS" default:"2"`
	MaxOpenLoans         int   `envconfig:"LENDING_MAX_OPEN_LOANS" default:"3"`
	DailyFineCents       int64 `envconfig:"LENDING_DAILY_FINE_CENTS" default:"50"`
	MaxFineCents         int64 `envconfig:"LENDING_MAX_FINE_CENTS" default:"2000"`
	ReservationWaitDays  int   `envconfig:"LENDING_RESERVATION_WAIT_DAYS" default:"7"`
	PickupWindowDays     int   `envconfig:"LENDING_PICKUP_WINDOW_DAYS" default:"3"`
	MaxLiveReservations  int   `envconfig:"LENDING_MAX_LIVE_RESERVATIONS" default:"5"`
	MembershipTermMonths int   `envconfig:"LENDING_MEMBERSHIP_TERM_MONTHS" default:"12"`
}

type NotifyConfig struct {
	// Channel selects the notifier implementation: "log" or "telegram".
	Channel        string `envconfig:"NOTIFY_CHANNEL" default:"log"`
	TelegramToken  string `envconfig:"NOTIFY_TELEGRAM_TOKEN" default:""`
	TelegramChatID int64  `envconfig:"NOTIFY_TELEGRAM_CHAT_ID" default:"0"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&timezone=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode, c.TimeZone,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Server: ServerConfig{
			Port: "8889", // Test port
		},
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
			TimeZone: "UTC",
		},
		Log: LogConfig{
			Level:      "error", // Error level only for tests
			TimeFormat: "2006-01-02 15:04:05.000",
		},
		JWT: JWTConfig{
			Secret:               "test-secret",
			AccessTokenDuration:  "15m",
			RefreshTokenDuration: "720h",
		},
		Lending: DefaultLendingConfig(),
		Notify:  NotifyConfig{Channel: "log"},
	}
}

func DefaultLendingConfig() LendingConfig {
	return LendingConfig{
		LoanPeriodDays:       14,
		MaxRenewals:          2,
		MaxOpenLoans:         3,
		DailyFineCents:       50,
		MaxFineCents:         2000,
		ReservationWaitDays:  7,
		PickupWindowDays:     3,
		MaxLiveReservations:  5,
		MembershipTermMonths: 12,
	}
}
