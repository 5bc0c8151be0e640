package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"delivery-scheduler/internal/domain"
)

// Config хранит все параметры приложения
type Config struct {
	Database   DatabaseConfig   `mapstructure:"database"`
	RabbitMQ   RabbitMQConfig   `mapstructure:"rabbitmq"`
	POS        POSConfig        `mapstructure:"pos"`
	Storefront StorefrontConfig `mapstructure:"storefront"`
	Reconcile  ReconcileConfig  `mapstructure:"reconcile"`
	HTTP       HTTPConfig       `mapstructure:"http"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"sslmode"`
}

type RabbitMQConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	VHost    string `mapstructure:"vhost"`
	UseTLS   bool   `mapstructure:"use_tls"`
	Exchange string `mapstructure:"exchange"`
}

type POSConfig struct {
	IntegrationAPI string        `mapstructure:"integration_api"`
	MerchantID     string        `mapstructure:"merchant_id"`
	APIKey         string        `mapstructure:"api_key"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type StorefrontConfig struct {
	ShopURL     string        `mapstructure:"shop_url"`
	APIVersion  string        `mapstructure:"api_version"`
	AccessToken string        `mapstructure:"access_token"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type ReconcileConfig struct {
	Timezone    string `mapstructure:"timezone"`
	OrderPrefix string `mapstructure:"order_prefix"`
}

type HTTPConfig struct {
	Port int `mapstructure:"port"`
}

const envPrefix = "DELIVERY"

func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "delivery")
	v.SetDefault("database.sslmode", "disable")

	v.SetDefault("rabbitmq.host", "localhost")
	v.SetDefault("rabbitmq.port", 5672)
	v.SetDefault("rabbitmq.user", "")
	v.SetDefault("rabbitmq.password", "")
	v.SetDefault("rabbitmq.vhost", "/")
	v.SetDefault("rabbitmq.use_tls", false)
	v.SetDefault("rabbitmq.exchange", "dispatch_tasks")

	v.SetDefault("pos.integration_api", "")
	v.SetDefault("pos.merchant_id", "")
	v.SetDefault("pos.api_key", "")
	v.SetDefault("pos.timeout", 30*time.Second)

	v.SetDefault("storefront.shop_url", "")
	v.SetDefault("storefront.api_version", "2024-01")
	v.SetDefault("storefront.access_token", "")
	v.SetDefault("storefront.timeout", 30*time.Second)

	v.SetDefault("reconcile.timezone", "Local")
	v.SetDefault("reconcile.order_prefix", "SHOP")

	v.SetDefault("http.port", 3000)
}

// LoadConfig reads path (if non-empty) and overlays DELIVERY_* environment
// variables, e.g. DELIVERY_POS_API_KEY.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// FindConfig returns the first existing candidate, or fs.ErrNotExist.
func FindConfig() (string, error) {
	candidates := []string{"config.yaml", "config.yml", "deploy/config.example.yaml"}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fs.ErrNotExist
}

// Location resolves the reconcile timezone used for day boundaries.
func (c ReconcileConfig) Location() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("reconcile.timezone: %w", err)
	}
	return loc, nil
}

func (c POSConfig) Validate() error {
	return firstMissing(
		param{"pos.api_key", c.APIKey},
		param{"pos.merchant_id", c.MerchantID},
		param{"pos.integration_api", c.IntegrationAPI},
	)
}

func (c StorefrontConfig) Validate() error {
	return firstMissing(
		param{"storefront.shop_url", c.ShopURL},
		param{"storefront.api_version", c.APIVersion},
		param{"storefront.access_token", c.AccessToken},
	)
}

func (c DatabaseConfig) Validate() error {
	return firstMissing(
		param{"database.host", c.Host},
		param{"database.user", c.User},
		param{"database.database", c.Database},
	)
}

func (c RabbitMQConfig) Validate() error {
	return firstMissing(
		param{"rabbitmq.host", c.Host},
		param{"rabbitmq.user", c.User},
	)
}

type param struct{ name, value string }

func firstMissing(ps ...param) error {
	for _, p := range ps {
		if strings.TrimSpace(p.value) == "" {
			return &domain.ConfigurationError{Param: p.name}
		}
	}
	return nil
}

// IsNotExist reports whether err came from a missing config file.
func IsNotExist(err error) bool {
	var nf viper.ConfigFileNotFoundError
	return errors.Is(err, fs.ErrNotExist) || errors.As(err, &nf)
}
