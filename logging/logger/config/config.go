package config

import (
	"github.com/spf13/viper"
)

// Config configuration struct
type Config struct {
	Level      int    `json:"level" yaml:"level"`
	Format     string `json:"format" yaml:"format"`
	Output     string `json:"output" yaml:"output"`
	OutputFile string `json:"output_file" yaml:"output_file"`
}

// GetConfig returns the logger configuration
func GetConfig(v *viper.Viper) *Config {
	if !v.IsSet("logger") {
		return &Config{Level: 4, Format: "text", Output: "stdout"}
	}

	return &Config{
		Level:      v.GetInt("logger.level"),
		Format:     v.GetString("logger.format"),
		Output:     v.GetString("logger.output"),
		OutputFile: v.GetString("logger.output_file"),
	}
}
