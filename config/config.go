package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	dc "github.com/ncobase/pager/data/config"
	lc "github.com/ncobase/pager/logging/logger/config"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "PAGER"

// EnvConfigPath names the variable holding the config file path.
const EnvConfigPath = EnvPrefix + "_CONFIG"

// Logger is the logger section.
type Logger = lc.Config

// Data is the data source section.
type Data = dc.Config

// Config represents the service configuration.
type Config struct {
	AppName string       `json:"app_name" yaml:"app_name" validate:"required"`
	Host    string       `json:"host" yaml:"host"`
	Port    int          `json:"port" yaml:"port" validate:"min=1,max=65535"`
	Logger  *Logger      `json:"logger" yaml:"logger" validate:"required"`
	Data    *Data        `json:"data" yaml:"data" validate:"required"`
	Paging  *Paging      `json:"paging" yaml:"paging" validate:"required"`
	Viper   *viper.Viper `json:"-" yaml:"-" validate:"-"`
}

var validate = validator.New()

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, len(verrs))
			for i, fe := range verrs {
				fields[i] = fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag())
			}
			return fmt.Errorf("invalid config: %s: %w", strings.Join(fields, ", "), err)
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app_name", "pager")
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("port", 8080)
	v.SetDefault("paging.items_per_page", DefaultItemsPerPage)
	v.SetDefault("paging.max_hits", DefaultMaxHits)
	v.SetDefault("paging.hosted_engine", DefaultHostedEngine)
}

// LoadConfig loads the configuration. An empty configPath falls back to
// PAGER_CONFIG, then to config.yaml in the usual locations; with no file at
// all the configuration comes from defaults and the environment.
func LoadConfig(configPath string) (*Config, error) {
	// a missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if configPath == "" {
		configPath = os.Getenv(EnvConfigPath)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.pager")
		v.AddConfigPath("/etc/pager")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{
		AppName: v.GetString("app_name"),
		Host:    v.GetString("host"),
		Port:    v.GetInt("port"),
		Logger:  lc.GetConfig(v),
		Data:    dc.GetConfig(v),
		Paging:  getPagingConfig(v),
		Viper:   v,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
