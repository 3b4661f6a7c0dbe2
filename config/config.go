package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	configFileEnvName = "STOREFRONT_CONFIG_FILE"
	envPrefix         = "STOREFRONT"
)

type tlsFiles struct {
	CAFile   string `mapstructure:"ca_file"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

type topics struct {
	CartEvents string `mapstructure:"cart_events"`
}

type groups struct {
	ProductPopularity string `mapstructure:"product_popularity"`
}

type broker struct {
	SeedBrokers        []string `mapstructure:"seed_brokers"`
	SchemaRegistryURLs []string `mapstructure:"schema_registry_urls"`
	Topics             topics   `mapstructure:"topics"`
	Groups             groups   `mapstructure:"groups"`
	TLS                tlsFiles `mapstructure:"tls"`
}

// Enabled reports whether cart events and popularity are configured.
func (b broker) Enabled() bool {
	return len(b.SeedBrokers) != 0
}

type Config struct {
	LogLevel        slog.Level      `mapstructure:"log_level"`
	HTTPServerAddr  string          `mapstructure:"http_server_addr"`
	ShutdownTimeout time.Duration   `mapstructure:"shutdown_timeout"`
	SQLDB           string          `mapstructure:"sql_db"`
	SeedCatalog     bool            `mapstructure:"seed_catalog"`
	TaxRate         decimal.Decimal `mapstructure:"tax_rate"`
	Broker          broker          `mapstructure:"broker"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("http_server_addr", ":8080")
	v.SetDefault("shutdown_timeout", "10s")
	v.SetDefault("sql_db", "")
	v.SetDefault("seed_catalog", true)
	v.SetDefault("tax_rate", "0.08")
	v.SetDefault("broker.seed_brokers", []string{})
	v.SetDefault("broker.schema_registry_urls", []string{})
	v.SetDefault("broker.topics.cart_events", "cart-events")
	v.SetDefault("broker.groups.product_popularity", "product-popularity")
	v.SetDefault("broker.tls.ca_file", "")
	v.SetDefault("broker.tls.cert_file", "")
	v.SetDefault("broker.tls.key_file", "")
}

// Load reads the config for a command and exits the process on failure.
//
// A .env file in the working directory is applied to the environment first.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		die(err)
	}

	cfg, err := LoadFile(getConfigFilepath())
	if err != nil {
		die(err)
	}
	return cfg
}

// LoadFile reads the YAML file at path over the defaults, empty path
// skips the file. STOREFRONT_* variables override both.
func LoadFile(path string) (Config, error) {
	const op = "config.LoadFile"

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	var cfg Config
	if err := v.UnmarshalExact(&cfg, viper.DecodeHook(decodeHook())); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("%s: %w", op, err)
	}
	return cfg, nil
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		decimalHookFunc(),
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// decimalHookFunc accepts YAML numbers as well as strings for decimals.
func decimalHookFunc() mapstructure.DecodeHookFuncType {
	decimalType := reflect.TypeOf(decimal.Decimal{})
	return func(_ reflect.Type, t reflect.Type, data any) (any, error) {
		if t != decimalType {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return decimal.NewFromString(strings.TrimSpace(v))
		case float64:
			return decimal.NewFromFloat(v), nil
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case int64:
			return decimal.NewFromInt(v), nil
		default:
			return data, nil
		}
	}
}

func (c Config) Validate() error {
	var errs []error

	if c.HTTPServerAddr == "" {
		errs = append(errs, errors.New("http_server_addr: required"))
	}

	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("shutdown_timeout: must be positive"))
	}

	if c.TaxRate.IsNegative() || c.TaxRate.GreaterThanOrEqual(decimal.NewFromInt(1)) {
		errs = append(errs, fmt.Errorf("tax_rate: %s is out of [0, 1)", c.TaxRate))
	}

	if c.Broker.Enabled() {
		if len(c.Broker.SchemaRegistryURLs) == 0 {
			errs = append(errs, errors.New("broker.schema_registry_urls: required with seed_brokers"))
		}
		if c.Broker.Topics.CartEvents == "" {
			errs = append(errs, errors.New("broker.topics.cart_events: required with seed_brokers"))
		}
		if c.Broker.Groups.ProductPopularity == "" {
			errs = append(errs, errors.New("broker.groups.product_popularity: required with seed_brokers"))
		}
	}

	return errors.Join(errs...)
}

func getConfigFilepath() string {
	cmdLine := pflag.NewFlagSet(os.Args[0], pflag.ExitOnError)
	cmdLine.ParseErrorsWhitelist.UnknownFlags = true
	arg := cmdLine.String("config", "", "config file")
	_ = cmdLine.Parse(os.Args[1:])
	env, ok := os.LookupEnv(configFileEnvName)
	if ok {
		return env
	}
	return *arg
}

func die(err error) {
	fmt.Printf("failed to load config: %v\n", err)
	os.Exit(2)
}

func (c Config) Print() {
	tamplate := `
	General:
	LogLevel=%q
	HTTPServerAddr=%q
	ShutdownTimeout=%q
	SQLDB=%q
	SeedCatalog=%t
	TaxRate=%q

	BrokerConfig:
	SeedBrokers=%q
	SchemaRegistryURLs=%q
	Topics:
		CartEvents=%q
	Groups:
		ProductPopularity=%q
	TLS:
		CAFile=%q
		CertFile=%q
		KeyFile=%q

`
	fmt.Println("Loaded config:")
	fmt.Printf(
		strings.TrimLeft(tamplate, "\n"),
		c.LogLevel,
		c.HTTPServerAddr,
		c.ShutdownTimeout,
		redactDSN(c.SQLDB),
		c.SeedCatalog,
		c.TaxRate,
		c.Broker.SeedBrokers,
		c.Broker.SchemaRegistryURLs,
		c.Broker.Topics.CartEvents,
		c.Broker.Groups.ProductPopularity,
		c.Broker.TLS.CAFile,
		c.Broker.TLS.CertFile,
		c.Broker.TLS.KeyFile,
	)
}

// redactDSN hides the password of a URL style DSN.
func redactDSN(dsn string) string {
	scheme, rest, ok := strings.Cut(dsn, "://")
	if !ok {
		return dsn
	}
	creds, host, ok := strings.Cut(rest, "@")
	if !ok {
		return dsn
	}
	user, _, hasPass := strings.Cut(creds, ":")
	if !hasPass {
		return dsn
	}
	return scheme + "://" + user + ":***@" + host
}
