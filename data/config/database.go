package config

import (
	"time"

	"github.com/spf13/viper"
)

// Database database config struct
type Database struct {
	Master *DBNode `json:"master" yaml:"master"`
}

// DBNode represents a single database node configuration
type DBNode struct {
	Driver          string        `json:"driver" yaml:"driver"`
	Source          string        `json:"source" yaml:"source"`
	MaxIdleConn     int           `json:"max_idle_conn" yaml:"max_idle_conn"`
	MaxOpenConn     int           `json:"max_open_conn" yaml:"max_open_conn"`
	ConnMaxLifeTime time.Duration `json:"conn_max_life_time" yaml:"conn_max_life_time"`
}

// getDatabaseConfig reads database configurations
func getDatabaseConfig(v *viper.Viper) *Database {
	return &Database{
		Master: &DBNode{
			Driver:          getStringOrDefault(v, "data.database.master.driver", "sqlite"),
			Source:          getStringOrDefault(v, "data.database.master.source", "file::memory:?cache=shared"),
			MaxIdleConn:     getIntOrDefault(v, "data.database.master.max_idle_conn", 2),
			MaxOpenConn:     getIntOrDefault(v, "data.database.master.max_open_conn", 10),
			ConnMaxLifeTime: v.GetDuration("data.database.master.max_life_time"),
		},
	}
}

func getStringOrDefault(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getIntOrDefault(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		return v.GetInt(key)
	}
	return def
}
