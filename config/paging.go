package config

import "github.com/spf13/viper"

// Defaults for the paging section.
const (
	DefaultItemsPerPage = 5
	DefaultMaxHits      = 1000
	DefaultHostedEngine = "elasticsearch"
)

// Paging holds request defaults shared by every endpoint.
type Paging struct {
	// ItemsPerPage is used when a request has no itemsPerPage. 0 returns everything.
	ItemsPerPage int    `json:"items_per_page" yaml:"items_per_page" validate:"gte=0"`
	MaxHits      int    `json:"max_hits" yaml:"max_hits" validate:"gt=0"`
	HostedEngine string `json:"hosted_engine" yaml:"hosted_engine" validate:"oneof=elasticsearch opensearch"`
}

func getPagingConfig(v *viper.Viper) *Paging {
	return &Paging{
		ItemsPerPage: v.GetInt("paging.items_per_page"),
		MaxHits:      v.GetInt("paging.max_hits"),
		HostedEngine: v.GetString("paging.hosted_engine"),
	}
}
