// Package config reads the server settings from APIDOCS_* environment
// variables. Invalid values log a warning and fall back to the default.
package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"
)

const (
	defaultPort        = "8000"
	defaultSearchLimit = 20
	defaultRankLimit   = 10

	// MaxRankLimit caps rank_endpoints result sizes.
	MaxRankLimit = 50
)

// Config holds the settings read at startup.
type Config struct {
	// SpecPath is the specification file. Empty selects the embedded sample.
	SpecPath string
	// FallbackEmbedded loads the embedded sample when SpecPath fails to load.
	// Off by default: a broken SpecPath stops startup.
	FallbackEmbedded bool

	Transport string
	Addr      string

	// SearchLimit caps the results returned by the search_endpoints tool.
	SearchLimit int
	// RankLimit is the default size of rank_endpoints results.
	RankLimit int

	// URIScheme prefixes resource URIs (<scheme>://api/...).
	URIScheme string
}

// Load reads the configuration from the environment.
func Load() *Config {
	port := envString("PORT", defaultPort)

	cfg := &Config{
		SpecPath:         envString("APIDOCS_SPEC", ""),
		FallbackEmbedded: envBool("APIDOCS_FALLBACK_EMBEDDED", false),
		Transport:        envTransport("APIDOCS_TRANSPORT"),
		Addr:             envString("APIDOCS_ADDR", ":"+port),
		SearchLimit:      envInt("APIDOCS_SEARCH_LIMIT", defaultSearchLimit),
		RankLimit:        envInt("APIDOCS_RANK_LIMIT", defaultRankLimit),
		URIScheme:        envString("APIDOCS_URI_SCHEME", "apidocs"),
	}
	if cfg.RankLimit > MaxRankLimit {
		log.Printf("Warning: APIDOCS_RANK_LIMIT=%d exceeds %d, capping", cfg.RankLimit, MaxRankLimit)
		cfg.RankLimit = MaxRankLimit
	}
	return cfg
}

// Default returns the configuration used when no variables are set.
func Default() *Config {
	return &Config{
		Transport:   TransportStdio,
		Addr:        ":" + defaultPort,
		SearchLimit: defaultSearchLimit,
		RankLimit:   defaultRankLimit,
		URIScheme:   "apidocs",
	}
}

func envString(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Warning: invalid bool %s=%q, using default %v", key, v, fallback)
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("Warning: invalid int %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}

func envTransport(key string) string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	switch v {
	case "":
		return TransportStdio
	case TransportStdio, TransportHTTP:
		return v
	default:
		log.Printf("Warning: unknown transport %s=%q, using %s", key, v, TransportStdio)
		return TransportStdio
	}
}
