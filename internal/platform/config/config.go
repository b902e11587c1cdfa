package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/SscSPs/ledger_posting_service/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"
)

// Config holds application configuration.
type Config struct {
	DBDriver           string   `mapstructure:"DB_DRIVER"`
	DatabaseURL        string   `mapstructure:"PGSQL_URL"`
	SQLitePath         string   `mapstructure:"SQLITE_PATH"`
	Port               string   `mapstructure:"PORT"`
	IsProduction       bool     `mapstructure:"IS_PRODUCTION"`
	EnableDBCheck      bool     `mapstructure:"ENABLE_DB_CHECK"`
	JWTSecret          string   `mapstructure:"JWT_SECRET"`
	RateLimit          string   `mapstructure:"RATE_LIMIT"`
	CORSAllowedOrigins []string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	CurrencyPrecision  int32    `mapstructure:"CURRENCY_PRECISION"`

	// Account role mapping
	AccountsReceivable string `mapstructure:"LEDGER_ACCOUNT_RECEIVABLE"`
	SalesRevenue       string `mapstructure:"LEDGER_SALES_REVENUE"`
	SalesTaxPayable    string `mapstructure:"LEDGER_SALES_TAX_PAYABLE"`
	AccountsPayable    string `mapstructure:"LEDGER_ACCOUNTS_PAYABLE"`
	CashOnHand         string `mapstructure:"LEDGER_CASH_ON_HAND"`
	POSFallbackCash    string `mapstructure:"LEDGER_POS_FALLBACK_CASH"`
	POSFallbackSales   string `mapstructure:"LEDGER_POS_FALLBACK_SALES"`
}

var keys = []string{
	"DB_DRIVER", "PGSQL_URL", "SQLITE_PATH", "PORT", "IS_PRODUCTION", "ENABLE_DB_CHECK", "JWT_SECRET",
	"RATE_LIMIT", "CORS_ALLOWED_ORIGINS", "CURRENCY_PRECISION",
	"LEDGER_ACCOUNT_RECEIVABLE", "LEDGER_SALES_REVENUE", "LEDGER_SALES_TAX_PAYABLE",
	"LEDGER_ACCOUNTS_PAYABLE", "LEDGER_CASH_ON_HAND", "LEDGER_POS_FALLBACK_CASH", "LEDGER_POS_FALLBACK_SALES",
}

func setDefaults(v *viper.Viper) {
	roles := domain.DefaultRoleMapping()
	v.SetDefault("DB_DRIVER", DriverPostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("SQLITE_PATH", "data/ledger.db")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("JWT_SECRET", defaultJWTSecret)
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("CURRENCY_PRECISION", 2)
	v.SetDefault("LEDGER_ACCOUNT_RECEIVABLE", roles.Codes[domain.RoleAccountsReceivable])
	v.SetDefault("LEDGER_SALES_REVENUE", roles.Codes[domain.RoleSalesRevenue])
	v.SetDefault("LEDGER_SALES_TAX_PAYABLE", roles.Codes[domain.RoleSalesTaxPayable])
	v.SetDefault("LEDGER_ACCOUNTS_PAYABLE", roles.Codes[domain.RoleAccountsPayable])
	v.SetDefault("LEDGER_CASH_ON_HAND", roles.Codes[domain.RoleCashOnHand])
	v.SetDefault("LEDGER_POS_FALLBACK_CASH", "")
	v.SetDefault("LEDGER_POS_FALLBACK_SALES", "")
}

// LoadConfig loads configuration from environment variables, a .env file and an optional
// YAML file named by CONFIG_FILE. Environment variables win over the file, which wins over defaults.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
	}
	return load(v)
}

// LoadConfigFile is LoadConfig with an explicit YAML file, used by tests and tooling.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about; bind them so env-only values are picked up.
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	// Env values arrive as one comma separated string, YAML may give a list.
	if raw, ok := v.Get("CORS_ALLOWED_ORIGINS").(string); ok {
		cfg.CORSAllowedOrigins = splitOrigins(strings.Split(raw, ","))
	} else {
		cfg.CORSAllowedOrigins = splitOrigins(v.GetStringSlice("CORS_ALLOWED_ORIGINS"))
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))

	if cfg.JWTSecret == defaultJWTSecret {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	if cfg.DBDriver == DriverPostgres && cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that would otherwise fail later at startup.
func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case DriverPostgres:
		if c.IsProduction && c.DatabaseURL == "" {
			errs = append(errs, errors.New("PGSQL_URL is required in production"))
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	if c.CurrencyPrecision < 0 || c.CurrencyPrecision > 8 {
		errs = append(errs, fmt.Errorf("CURRENCY_PRECISION must be between 0 and 8, got %d", c.CurrencyPrecision))
	}
	if c.IsProduction && c.JWTSecret == defaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET must be set in production"))
	}
	if err := c.RoleMapping().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// RoleMapping builds the account role mapping from configuration.
func (c *Config) RoleMapping() domain.RoleMapping {
	mapping := domain.RoleMapping{
		Codes: map[domain.AccountRole]string{
			domain.RoleAccountsReceivable: c.AccountsReceivable,
			domain.RoleSalesRevenue:       c.SalesRevenue,
			domain.RoleSalesTaxPayable:    c.SalesTaxPayable,
			domain.RoleAccountsPayable:    c.AccountsPayable,
			domain.RoleCashOnHand:         c.CashOnHand,
		},
		Fallbacks: map[domain.AccountRole]string{},
	}
	if c.POSFallbackCash != "" {
		mapping.Fallbacks[domain.RoleCashOnHand] = c.POSFallbackCash
	}
	if c.POSFallbackSales != "" {
		mapping.Fallbacks[domain.RoleSalesRevenue] = c.POSFallbackSales
	}
	return mapping
}

func splitOrigins(list []string) []string {
	var origins []string
	for _, origin := range list {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
