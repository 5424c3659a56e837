package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Search represents search engine configuration
type Search struct {
	IndexPrefix   string         `yaml:"index_prefix" json:"index_prefix"`
	Meilisearch   *Meilisearch   `yaml:"meilisearch" json:"meilisearch"`
	Elasticsearch *Elasticsearch `yaml:"elasticsearch" json:"elasticsearch"`
	OpenSearch    *OpenSearch    `yaml:"opensearch" json:"opensearch"`
}

// getSearchConfig reads search configurations
func getSearchConfig(v *viper.Viper) *Search {
	return &Search{
		IndexPrefix:   getSearchIndexPrefix(v),
		Meilisearch:   getMeilisearchConfigs(v),
		Elasticsearch: getElasticsearchConfigs(v),
		OpenSearch:    getOpenSearchConfigs(v),
	}
}

// getSearchIndexPrefix gets search index prefix
func getSearchIndexPrefix(v *viper.Viper) string {
	if v.IsSet("data.search.index_prefix") {
		return v.GetString("data.search.index_prefix")
	}
	return getDefaultIndexPrefix(v)
}

// getDefaultIndexPrefix builds default index prefix from app info
func getDefaultIndexPrefix(v *viper.Viper) string {
	appName := v.GetString("app_name")
	environment := v.GetString("environment")

	if appName != "" && environment != "" {
		return strings.ToLower(fmt.Sprintf("%s-%s", appName, environment))
	}

	return strings.ToLower(appName)
}

// lookup prefers `data.search.<engine>.<key>` and falls back to `data.<engine>.<key>`.
func lookup(v *viper.Viper, engine, key string) string {
	if s := v.GetString(fmt.Sprintf("data.search.%s.%s", engine, key)); s != "" {
		return s
	}
	return v.GetString(fmt.Sprintf("data.%s.%s", engine, key))
}

func lookupSlice(v *viper.Viper, engine, key string) []string {
	if s := v.GetStringSlice(fmt.Sprintf("data.search.%s.%s", engine, key)); len(s) > 0 {
		return s
	}
	return v.GetStringSlice(fmt.Sprintf("data.%s.%s", engine, key))
}

// OpenSearch opensearch config struct
type OpenSearch struct {
	Addresses       []string `json:"addresses" yaml:"addresses"`
	Username        string   `json:"username" yaml:"username"`
	Password        string   `json:"password" yaml:"password"`
	InsecureSkipTLS bool     `json:"insecure_skip_tls" yaml:"insecure_skip_tls"`
	Index           string   `json:"index" yaml:"index"`
}

// getOpenSearchConfigs reads OpenSearch configurations
func getOpenSearchConfigs(v *viper.Viper) *OpenSearch {
	insecureSkipTLS := v.GetBool("data.search.opensearch.insecure_skip_tls")
	if !v.IsSet("data.search.opensearch.insecure_skip_tls") {
		insecureSkipTLS = v.GetBool("data.opensearch.insecure_skip_tls")
	}

	return &OpenSearch{
		Addresses:       lookupSlice(v, "opensearch", "addresses"),
		Username:        lookup(v, "opensearch", "username"),
		Password:        lookup(v, "opensearch", "password"),
		InsecureSkipTLS: insecureSkipTLS,
		Index:           lookup(v, "opensearch", "index"),
	}
}

// Elasticsearch elasticsearch config struct
type Elasticsearch struct {
	Addresses []string `json:"addresses" yaml:"addresses"`
	Username  string   `json:"username" yaml:"username"`
	Password  string   `json:"password" yaml:"password"`
	Index     string   `json:"index" yaml:"index"`
}

// getElasticsearchConfigs reads Elasticsearch configurations
func getElasticsearchConfigs(v *viper.Viper) *Elasticsearch {
	return &Elasticsearch{
		Addresses: lookupSlice(v, "elasticsearch", "addresses"),
		Username:  lookup(v, "elasticsearch", "username"),
		Password:  lookup(v, "elasticsearch", "password"),
		Index:     lookup(v, "elasticsearch", "index"),
	}
}

// Meilisearch meilisearch config struct
type Meilisearch struct {
	Host   string `json:"host" yaml:"host"`
	APIKey string `json:"api_key" yaml:"api_key"`
	Index  string `json:"index" yaml:"index"`
}

// getMeilisearchConfigs reads Meilisearch configurations
func getMeilisearchConfigs(v *viper.Viper) *Meilisearch {
	return &Meilisearch{
		Host:   lookup(v, "meilisearch", "host"),
		APIKey: lookup(v, "meilisearch", "api_key"),
		Index:  lookup(v, "meilisearch", "index"),
	}
}
