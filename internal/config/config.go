// Package config loads the storefront configuration from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Sink names accepted in ORDER_SINKS.
const (
	SinkSheet    = "sheet"
	SinkDatabase = "database"
)

// Config is the deployment configuration of the storefront.
type Config struct {
	AppPort string

	DatabaseDriver string
	DatabaseDSN    string

	RabbitMQURL string

	JWTSecret      string
	DealerPassword string

	CatalogFeedURL string

	OrderSinks      []string
	OrderSinkURL    string
	OrderSinkMode   string
	SinkGranularity string

	RequireAddress bool
	RequirePincode bool

	PaymentEnabled bool
	PaymentKeyID   string
	Currency       string

	StoreName      string
	WhatsAppNumber string

	OrderIDFormat string
	SessionTTL    time.Duration
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "storefront.db")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("JWT_SECRET", "change-me")
	v.SetDefault("DEALER_PASSWORD", "dealer2024")
	v.SetDefault("CATALOG_FEED_URL", "")
	v.SetDefault("ORDER_SINKS", SinkDatabase)
	v.SetDefault("ORDER_SINK_URL", "")
	v.SetDefault("ORDER_SINK_MODE", "fire_and_forget")
	v.SetDefault("SINK_GRANULARITY", "per_line")
	v.SetDefault("REQUIRE_ADDRESS", true)
	v.SetDefault("REQUIRE_PINCODE", false)
	v.SetDefault("PAYMENT_ENABLED", false)
	v.SetDefault("PAYMENT_KEY_ID", "")
	v.SetDefault("CURRENCY", "INR")
	v.SetDefault("STORE_NAME", "Akash Traders & Sai Collection")
	v.SetDefault("WHATSAPP_NUMBER", "918624091826")
	v.SetDefault("ORDER_ID_FORMAT", "timestamp")
	v.SetDefault("SESSION_TTL", "24h")
}

// Load reads the configuration from environment variables over the defaults.
func Load() (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:         v.GetString("APP_PORT"),
		DatabaseDriver:  strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:     v.GetString("DATABASE_DSN"),
		RabbitMQURL:     v.GetString("RABBITMQ_URL"),
		JWTSecret:       v.GetString("JWT_SECRET"),
		DealerPassword:  v.GetString("DEALER_PASSWORD"),
		CatalogFeedURL:  v.GetString("CATALOG_FEED_URL"),
		OrderSinks:      splitList(v.GetString("ORDER_SINKS")),
		OrderSinkURL:    v.GetString("ORDER_SINK_URL"),
		OrderSinkMode:   strings.ToLower(v.GetString("ORDER_SINK_MODE")),
		SinkGranularity: strings.ToLower(v.GetString("SINK_GRANULARITY")),
		RequireAddress:  v.GetBool("REQUIRE_ADDRESS"),
		RequirePincode:  v.GetBool("REQUIRE_PINCODE"),
		PaymentEnabled:  v.GetBool("PAYMENT_ENABLED"),
		PaymentKeyID:    v.GetString("PAYMENT_KEY_ID"),
		Currency:        strings.ToUpper(v.GetString("CURRENCY")),
		StoreName:       v.GetString("STORE_NAME"),
		WhatsAppNumber:  v.GetString("WHATSAPP_NUMBER"),
		OrderIDFormat:   strings.ToLower(v.GetString("ORDER_ID_FORMAT")),
		SessionTTL:      v.GetDuration("SESSION_TTL"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HasSink reports whether the named sink is enabled.
func (c *Config) HasSink(name string) bool {
	for _, s := range c.OrderSinks {
		if s == name {
			return true
		}
	}
	return false
}

// Validate rejects configurations that cannot run.
func (c *Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case "sqlite", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.DatabaseDriver))
	}
	for _, s := range c.OrderSinks {
		if s != SinkSheet && s != SinkDatabase {
			errs = append(errs, fmt.Errorf("unknown order sink %q", s))
		}
	}
	if c.HasSink(SinkSheet) && c.OrderSinkURL == "" {
		errs = append(errs, errors.New("ORDER_SINK_URL is required for the sheet sink"))
	}
	if len(c.OrderSinks) == 0 && c.WhatsAppNumber == "" {
		errs = append(errs, errors.New("at least one order sink or a WHATSAPP_NUMBER is required"))
	}
	switch c.OrderSinkMode {
	case "fire_and_forget", "confirmed":
	default:
		errs = append(errs, fmt.Errorf("unknown ORDER_SINK_MODE %q", c.OrderSinkMode))
	}
	switch c.SinkGranularity {
	case "per_line", "per_order":
	default:
		errs = append(errs, fmt.Errorf("unknown SINK_GRANULARITY %q", c.SinkGranularity))
	}
	switch c.OrderIDFormat {
	case "timestamp", "sequence":
	default:
		errs = append(errs, fmt.Errorf("unknown ORDER_ID_FORMAT %q", c.OrderIDFormat))
	}
	if c.PaymentEnabled && c.PaymentKeyID == "" {
		errs = append(errs, errors.New("PAYMENT_KEY_ID is required when PAYMENT_ENABLED is set"))
	}
	if c.DealerPassword == "" {
		errs = append(errs, errors.New("DEALER_PASSWORD must not be empty"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
