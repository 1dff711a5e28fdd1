package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// APIServerConfig represents the analysis API server configuration
type APIServerConfig struct {
	Server         ServerConfig         `mapstructure:"server"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Auth           AuthConfig           `mapstructure:"auth"`
	MarketData     MarketDataConfig     `mapstructure:"market_data"`
	Generator      GeneratorConfig      `mapstructure:"generator"`
	PaymentGateway PaymentGatewayConfig `mapstructure:"payment_gateway"`
	Custodian      CustodianConfig      `mapstructure:"custodian"`
	Revenue        RevenueConfig        `mapstructure:"revenue"`
	Logging        LoggingConfig        `mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// AuthConfig contains JWT verification settings.
// Token issuance is handled by an external identity service; the API only
// verifies tokens and extracts the subject.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// MarketDataConfig contains settings for the market data providers
type MarketDataConfig struct {
	PrimaryURL   string        `mapstructure:"primary_url"`
	FallbackURL  string        `mapstructure:"fallback_url"`
	SentimentURL string        `mapstructure:"sentiment_url"`
	APIKey       string        `mapstructure:"api_key"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

// GeneratorConfig contains settings for the AI text generation backend
type GeneratorConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	APIKey    string        `mapstructure:"api_key"`
	Model     string        `mapstructure:"model"`
	MaxTokens int           `mapstructure:"max_tokens"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// PaymentGatewayConfig contains settings for the external payment processor
type PaymentGatewayConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	IPNSecret  string        `mapstructure:"ipn_secret"`
	SuccessURL string        `mapstructure:"success_url"`
	CancelURL  string        `mapstructure:"cancel_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// CustodianConfig contains settings for the custodial wallet provider
type CustodianConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	PlatformWallet string        `mapstructure:"platform_wallet"`
	PayoutAsset    string        `mapstructure:"payout_asset"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// StakeholderConfig describes one configured revenue recipient.
type StakeholderConfig struct {
	Wallet   string `mapstructure:"wallet"`
	Share    string `mapstructure:"share"`
	Category string `mapstructure:"category"`
	Active   bool   `mapstructure:"active"`
}

// RevenueConfig contains revenue distribution settings.
// Stakeholder entries configured here are seeded into the database by the
// migration runner; the engine reads the database at distribution time.
type RevenueConfig struct {
	EnforceShareSum bool                `mapstructure:"enforce_share_sum"`
	Stakeholders    []StakeholderConfig `mapstructure:"stakeholders"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// LoadAPIServer loads API server configuration from file
func LoadAPIServer(configPath string) (*APIServerConfig, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setAPIServerDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config APIServerConfig
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateAPIServer(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setAPIServerDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.database", "analysis_api")

	// Market data defaults
	viper.SetDefault("market_data.primary_url", "https://api.coingecko.com/api/v3")
	viper.SetDefault("market_data.fallback_url", "https://api.coinpaprika.com/v1")
	viper.SetDefault("market_data.sentiment_url", "https://api.alternative.me/fng/")
	viper.SetDefault("market_data.timeout", "10s")

	// Generator defaults
	viper.SetDefault("generator.base_url", "https://api.openai.com/v1")
	viper.SetDefault("generator.model", "gpt-4o-mini")
	viper.SetDefault("generator.max_tokens", 2000)
	viper.SetDefault("generator.timeout", "60s")

	// Payment gateway defaults
	viper.SetDefault("payment_gateway.base_url", "https://api.nowpayments.io/v1")
	viper.SetDefault("payment_gateway.timeout", "15s")

	// Custodian defaults
	viper.SetDefault("custodian.timeout", "15s")
	viper.SetDefault("custodian.payout_asset", "USDT")

	// Revenue defaults
	viper.SetDefault("revenue.enforce_share_sum", true)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output_path", "stdout")
}

func validateAPIServer(config *APIServerConfig) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if config.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if config.Revenue.EnforceShareSum {
		if err := ValidateStakeholderShares(config.Revenue.Stakeholders); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStakeholderShares checks that active stakeholder shares sum to 100.
// The distribution engine applies each percentage independently at runtime, so
// a misconfigured total silently over- or under-pays; catching it at load time
// is the only safe place.
func ValidateStakeholderShares(entries []StakeholderConfig) error {
	sum := decimal.Zero
	for _, e := range entries {
		if !e.Active {
			continue
		}
		share, err := decimal.NewFromString(e.Share)
		if err != nil {
			return fmt.Errorf("invalid stakeholder share %q for wallet %s: %w", e.Share, e.Wallet, err)
		}
		if share.IsNegative() || share.GreaterThan(decimal.NewFromInt(100)) {
			return fmt.Errorf("stakeholder share %s for wallet %s out of range [0,100]", share, e.Wallet)
		}
		sum = sum.Add(share)
	}
	if len(entries) > 0 && !sum.Equal(decimal.NewFromInt(100)) {
		return fmt.Errorf("active stakeholder shares sum to %s, expected 100", sum)
	}
	return nil
}

// GetConnectionString returns a PostgreSQL connection string
func (c *DatabaseConfig) GetConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
