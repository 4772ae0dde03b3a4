package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/gophblog/internal/flagx"
	"github.com/dmitrijs2005/gophblog/internal/timex"
)

// JsonConfig is the on-disk shape of the JSON configuration file. Durations
// accept strings such as "300s" as well as integer nanoseconds. Pointer
// fields distinguish "absent" from an explicit zero.
type JsonConfig struct {
	EndpointAddrGRPC            string          `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP            string          `json:"endpoint_addr_http"`
	DatabaseDSN                 string          `json:"database_dsn"`
	SecretKey                   string          `json:"secret_key"`
	SigningAlgorithm            string          `json:"signing_algorithm"`
	AccessTokenValidityDuration *timex.Duration `json:"access_token_validity_duration"`
	PostsCacheTTL               *timex.Duration `json:"posts_cache_ttl"`
	PostsCacheMaxEntries        *int            `json:"posts_cache_max_entries"`
	BcryptCost                  *int            `json:"bcrypt_cost"`
	CORSAllowedOrigins          []string        `json:"cors_allowed_origins"`
	GinMode                     string          `json:"gin_mode"`
	LogLevel                    string          `json:"log_level"`
}

// parseJson overlays values from the file named by -c/-config. Keys missing
// from the file leave the current value alone. Without the flag it does
// nothing.
func parseJson(config *Config) error {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])

	// nothing to load
	if jsonConfigFile == "" {
		return nil
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return err
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return err
	}

	overlay(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	overlay(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.SecretKey, c.SecretKey)
	overlay(&config.SigningAlgorithm, c.SigningAlgorithm)
	overlay(&config.GinMode, c.GinMode)
	overlay(&config.LogLevel, c.LogLevel)

	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.PostsCacheTTL != nil {
		config.PostsCacheTTL = c.PostsCacheTTL.Duration
	}
	if c.PostsCacheMaxEntries != nil {
		config.PostsCacheMaxEntries = *c.PostsCacheMaxEntries
	}
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	return nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
