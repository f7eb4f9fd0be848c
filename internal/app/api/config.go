package api

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/storefront-admin/internal/domains/orders/adapters/workflows"
	"github.com/Apurer/storefront-admin/internal/domains/orders/domain"
)

// Config carries environment-driven settings for the API, the worker and the waybill CLI.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	BackendURL                 string        `envconfig:"BACKEND_URL" default:"http://localhost:4000"`
	BackendToken               string        `envconfig:"BACKEND_TOKEN"`
	BackendTimeout             time.Duration `envconfig:"BACKEND_TIMEOUT" default:"10s"`
	BackendRetryMaxAttempts    int           `envconfig:"BACKEND_RETRY_MAX_ATTEMPTS" default:"3"`
	BackendRetryInitialBackoff time.Duration `envconfig:"BACKEND_RETRY_INITIAL_INTERVAL" default:"200ms"`
	BackendRetryMaxBackoff     time.Duration `envconfig:"BACKEND_RETRY_MAX_INTERVAL" default:"2s"`
	ResyncTimeout              time.Duration `envconfig:"RESYNC_TIMEOUT" default:"15s"`

	TaxRate         decimal.Decimal `envconfig:"TAX_RATE" default:"0.05"`
	Currency        string          `envconfig:"CURRENCY" default:"₹"`
	WaybillPageSize string          `envconfig:"WAYBILL_PAGE_SIZE" default:"A4"`
	InvoicePrefix   string          `envconfig:"INVOICE_PREFIX" default:"INV"`

	PostgresDSN string `envconfig:"POSTGRES_DSN"`

	TemporalAddress   string `envconfig:"TEMPORAL_ADDRESS"`
	TemporalNamespace string `envconfig:"TEMPORAL_NAMESPACE"`
	TemporalDisabled  bool   `envconfig:"TEMPORAL_DISABLED"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"order-events"`

	pageSize domain.PageSize
}

// LoadConfig reads an optional .env file, then the environment, applies defaults, and validates.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.BackendURL) == "" {
		return errors.New("BACKEND_URL must not be empty")
	}
	if c.TaxRate.IsNegative() {
		return fmt.Errorf("TAX_RATE must not be negative, got %s", c.TaxRate)
	}
	if c.BackendRetryMaxAttempts <= 0 {
		return errors.New("BACKEND_RETRY_MAX_ATTEMPTS must be a positive integer")
	}
	size, err := domain.ParsePageSize(c.WaybillPageSize)
	if err != nil {
		return fmt.Errorf("WAYBILL_PAGE_SIZE: %w", err)
	}
	c.pageSize = size
	if c.TemporalAddress == "" {
		c.TemporalAddress = client.DefaultHostPort
	}
	if c.TemporalNamespace == "" {
		c.TemporalNamespace = client.DefaultNamespace
	}
	brokers := c.KafkaBrokers[:0]
	for _, b := range c.KafkaBrokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.KafkaBrokers = brokers
	return nil
}

// PageSize is the parsed WAYBILL_PAGE_SIZE.
func (c Config) PageSize() domain.PageSize {
	return c.pageSize
}

// RetryPolicy is the inline executor policy built from the BACKEND_RETRY_* keys.
func (c Config) RetryPolicy() workflows.RetryPolicy {
	return workflows.RetryPolicy{
		MaxAttempts:     c.BackendRetryMaxAttempts,
		InitialInterval: c.BackendRetryInitialBackoff,
		MaxInterval:     c.BackendRetryMaxBackoff,
	}
}
