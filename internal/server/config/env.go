package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// dotenvFile is loaded, when present, before the environment is read.
// Variables already set in the process environment win over the file.
var dotenvFile = ".env"

// Environment variable names.
const (
	envGRPCAddr         = "GOPHBLOG_GRPC_ADDR"
	envHTTPAddr         = "GOPHBLOG_HTTP_ADDR"
	envDatabaseDSN      = "GOPHBLOG_DATABASE_DSN"
	envSecretKey        = "GOPHBLOG_SECRET_KEY"
	envSigningAlgorithm = "GOPHBLOG_SIGNING_ALGORITHM"
	envAccessTokenTTL   = "GOPHBLOG_ACCESS_TOKEN_TTL"
	envPostsCacheTTL    = "GOPHBLOG_POSTS_CACHE_TTL"
	envPostsCacheMax    = "GOPHBLOG_POSTS_CACHE_MAX_ENTRIES"
	envBcryptCost       = "GOPHBLOG_BCRYPT_COST"
	envCORSOrigins      = "GOPHBLOG_CORS_ALLOWED_ORIGINS"
	envGinMode          = "GOPHBLOG_GIN_MODE"
	envLogLevel         = "GOPHBLOG_LOG_LEVEL"
)

// parseEnv overlays GOPHBLOG_* variables on config. Durations use
// time.ParseDuration syntax ("60m"), origins are comma separated.
func parseEnv(config *Config) error {
	if err := godotenv.Load(dotenvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotenvFile, err)
	}

	setString(&config.EndpointAddrGRPC, envGRPCAddr)
	setString(&config.EndpointAddrHTTP, envHTTPAddr)
	setString(&config.DatabaseDSN, envDatabaseDSN)
	setString(&config.SecretKey, envSecretKey)
	setString(&config.SigningAlgorithm, envSigningAlgorithm)
	setString(&config.GinMode, envGinMode)
	setString(&config.LogLevel, envLogLevel)

	if err := setDuration(&config.AccessTokenValidityDuration, envAccessTokenTTL); err != nil {
		return err
	}
	if err := setDuration(&config.PostsCacheTTL, envPostsCacheTTL); err != nil {
		return err
	}
	if err := setInt(&config.PostsCacheMaxEntries, envPostsCacheMax); err != nil {
		return err
	}
	if err := setInt(&config.BcryptCost, envBcryptCost); err != nil {
		return err
	}

	if v, ok := os.LookupEnv(envCORSOrigins); ok {
		config.CORSAllowedOrigins = splitList(v)
	}
	return nil
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setDuration(dst *time.Duration, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = d
	return nil
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = n
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
