package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port              string
	Store             string
	MongoURL          string
	MongoDatabase     string
	MongoTransactions bool
	JWTSecret         string
	JWTTTL            time.Duration
	StripeKey         string
	StripeWebhookKey  string
	StripeSuccessURL  string
	StripeCancelURL   string
	CheckoutCurrency  string
	UploadDir         string
	CORSOrigins       []string
	LogLevel          string
	LogFormat         string
}

// Load reads configuration from the environment, seeded by envFile when it exists.
func Load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("STORE", StoreMongo)
	v.SetDefault("MONGO_DATABASE", "storefront")
	v.SetDefault("MONGO_TRANSACTIONS", false)
	v.SetDefault("JWT_TTL", "72h")
	v.SetDefault("STRIPE_SUCCESS_URL", "http://localhost:3000/success")
	v.SetDefault("STRIPE_CANCEL_URL", "http://localhost:3000/cancel")
	v.SetDefault("CHECKOUT_CURRENCY", "usd")
	v.SetDefault("UPLOAD_DIR", "uploads")
	v.SetDefault("CORS_ORIGINS", "*")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			v.SetConfigFile(envFile)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		}
	}
	v.AutomaticEnv()

	mongoURL := v.GetString("MONGO_URL")
	if mongoURL == "" {
		mongoURL = v.GetString("MONGO_PUBLIC_URL")
	}

	cfg := &Config{
		Port:              v.GetString("PORT"),
		Store:             strings.ToLower(v.GetString("STORE")),
		MongoURL:          mongoURL,
		MongoDatabase:     v.GetString("MONGO_DATABASE"),
		MongoTransactions: v.GetBool("MONGO_TRANSACTIONS"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTTTL:            v.GetDuration("JWT_TTL"),
		StripeKey:         v.GetString("STRIPE_KEY"),
		StripeWebhookKey:  v.GetString("STRIPE_WEBHOOK_SECRET"),
		StripeSuccessURL:  v.GetString("STRIPE_SUCCESS_URL"),
		StripeCancelURL:   v.GetString("STRIPE_CANCEL_URL"),
		CheckoutCurrency:  strings.ToLower(v.GetString("CHECKOUT_CURRENCY")),
		UploadDir:         v.GetString("UPLOAD_DIR"),
		CORSOrigins:       splitList(v.GetString("CORS_ORIGINS")),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	switch c.Store {
	case StoreMongo:
		if c.MongoURL == "" {
			return errors.New("MONGO_URL is required when STORE=mongo")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown STORE %q", c.Store)
	}
	return nil
}

// ConfigureLogging applies the log level and format to the standard logrus logger.
func (c *Config) ConfigureLogging() {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logrus.Warnf("ConfigureLogging: unknown log level %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)
	if c.LogFormat == "json" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
