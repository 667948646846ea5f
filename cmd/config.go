package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/commission"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

type Config struct {
	HTTPPort   string `mapstructure:"HTTP_PORT"`
	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASSWORD"`
	DBName     string `mapstructure:"DB_NAME"`
	DBSslMode  string `mapstructure:"DB_SSLMODE"`

	JWTSecret string `mapstructure:"JWT_SECRET"`

	DeliveryFee           string `mapstructure:"DELIVERY_FEE"`
	DefaultCommissionRate string `mapstructure:"DEFAULT_COMMISSION_RATE"`

	PaymentBaseURL  string `mapstructure:"PAYMENT_BASE_URL"`
	PaymentKeyID    string `mapstructure:"PAYMENT_KEY_ID"`
	PaymentSecret   string `mapstructure:"PAYMENT_SECRET"`
	PaymentCurrency string `mapstructure:"PAYMENT_CURRENCY"`

	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPushChannel string `mapstructure:"REDIS_PUSH_CHANNEL"`

	KafkaBrokers          string `mapstructure:"KAFKA_BROKERS"`
	KafkaOrderEventsTopic string `mapstructure:"KAFKA_ORDER_EVENTS_TOPIC"`

	PushTimeout         time.Duration `mapstructure:"PUSH_TIMEOUT"`
	RebroadcastSchedule string        `mapstructure:"REBROADCAST_SCHEDULE"`
	RebroadcastAfter    time.Duration `mapstructure:"REBROADCAST_AFTER"`
	ReconcileSchedule   string        `mapstructure:"RECONCILE_SCHEDULE"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
}

func defaults() map[string]any {
	return map[string]any{
		"HTTP_PORT":                "8080",
		"DB_HOST":                  "localhost",
		"DB_PORT":                  "5432",
		"DB_USER":                  "",
		"DB_PASSWORD":              "",
		"DB_NAME":                  "dispatch",
		"DB_SSLMODE":               "disable",
		"JWT_SECRET":               "",
		"DELIVERY_FEE":             "50",
		"DEFAULT_COMMISSION_RATE":  "15",
		"PAYMENT_BASE_URL":         "",
		"PAYMENT_KEY_ID":           "",
		"PAYMENT_SECRET":           "",
		"PAYMENT_CURRENCY":         "INR",
		"REDIS_ADDR":               "",
		"REDIS_PUSH_CHANNEL":       "dispatch:push",
		"KAFKA_BROKERS":            "",
		"KAFKA_ORDER_EVENTS_TOPIC": "order-events",
		"PUSH_TIMEOUT":             "2s",
		"REBROADCAST_SCHEDULE":     "*/30 * * * * *",
		"REBROADCAST_AFTER":        "1m",
		"RECONCILE_SCHEDULE":       "0 */5 * * * *",
		"LOG_LEVEL":                "info",
	}
}

// LoadConfig loads optional .env files into the environment and decodes the
// environment over the defaults. Variables already set win over .env.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	v := viper.New()
	for key, value := range defaults() {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var errList []error
	if c.JWTSecret == "" {
		errList = append(errList, errs.NewValueIsRequiredError("JWT_SECRET"))
	}
	if c.PaymentSecret == "" {
		errList = append(errList, errs.NewValueIsRequiredError("PAYMENT_SECRET"))
	}
	if _, err := c.Fee(); err != nil {
		errList = append(errList, fmt.Errorf("DELIVERY_FEE: %w", err))
	}
	if _, err := c.CommissionRate(); err != nil {
		errList = append(errList, fmt.Errorf("DEFAULT_COMMISSION_RATE: %w", err))
	}
	if c.PushTimeout <= 0 {
		errList = append(errList, errs.NewValueIsInvalidError("PUSH_TIMEOUT"))
	}
	if _, err := c.SlogLevel(); err != nil {
		errList = append(errList, err)
	}
	return errors.Join(errList...)
}

func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

func (c Config) Fee() (kernel.Money, error) {
	return kernel.MoneyFromString(c.DeliveryFee)
}

func (c Config) CommissionRate() (commission.Rate, error) {
	d, err := decimal.NewFromString(c.DefaultCommissionRate)
	if err != nil {
		return commission.Rate{}, errs.NewValueIsInvalidErrorWithCause("DEFAULT_COMMISSION_RATE", err)
	}
	return commission.NewRate(d)
}

// Brokers splits KAFKA_BROKERS; empty disables event publishing.
func (c Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("LOG_LEVEL", err)
	}
	return level, nil
}
