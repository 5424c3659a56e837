package config

import (
	"github.com/spf13/viper"
)

// Config data config struct
type Config struct {
	*Database `yaml:"database" json:"database"`
	*Search   `yaml:"search" json:"search"`
}

// GetConfig returns data config
func GetConfig(v *viper.Viper) *Config {
	return &Config{
		Database: getDatabaseConfig(v),
		Search:   getSearchConfig(v),
	}
}
