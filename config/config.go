// Package config loads the runtime configuration cmd/depcollect binds to
// cobra/pflag flags and environment variables. There is no file-based
// config: every setting is flag- or env-backed.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"github.com/artifactgraph/depcollect/collector"
)

// Config carries every setting a depcollect run needs beyond the
// collaborators themselves: the collection core's bounded-error knobs,
// the two asymmetry-affecting session flags, and the ambient stack's
// timeout/retry/exporter settings.
type Config struct {
	// MaxExceptions and MaxCycles mirror collector.Session's bounds;
	// negative means unbounded.
	MaxExceptions int
	MaxCycles     int

	// IgnoreArtifactDescriptorRepositories and VerbosePremanaged mirror
	// the matching Session fields.
	IgnoreArtifactDescriptorRepositories bool
	VerbosePremanaged                    bool

	// Debug enables the transformer's stats map and diagnostic-level
	// console verbosity.
	Debug bool

	// DescriptorTimeoutSeconds bounds one descriptor-fetch HTTP round
	// trip; RetryAttempts bounds the resilient HTTP client's retry
	// budget for both descriptor fetches and version listing.
	DescriptorTimeoutSeconds int
	RetryAttempts            int

	// OTLPEndpoint is the collector endpoint SetupTracing exports spans
	// to; empty disables OTLP export, and spans then go to the stdout
	// exporter only when Debug is set (otherwise tracing is off).
	OTLPEndpoint string

	// CacheDir is the disk cache's root directory for descriptor and
	// version-listing responses; empty disables the HTTP response
	// cache entirely (every fetch goes to the network).
	CacheDir string

	// CacheMaxAgeMinutes bounds how long a cached response is served
	// before the HTTP layer re-fetches it.
	CacheMaxAgeMinutes int
}

// Environment variable names LoadFromEnvironment reads.
const (
	EnvMaxExceptions = "DEPCOLLECT_MAX_EXCEPTIONS"
	EnvMaxCycles     = "DEPCOLLECT_MAX_CYCLES"
	EnvIgnoreRepos   = "DEPCOLLECT_IGNORE_DESCRIPTOR_REPOSITORIES"
	EnvVerbose       = "DEPCOLLECT_VERBOSE_PREMANAGED"
	EnvDebug         = "DEPCOLLECT_DEBUG"
	EnvTimeout       = "DEPCOLLECT_DESCRIPTOR_TIMEOUT_SECONDS"
	EnvRetries       = "DEPCOLLECT_RETRY_ATTEMPTS"
	EnvOTLPEndpoint  = "DEPCOLLECT_OTLP_ENDPOINT"
	EnvCacheDir      = "DEPCOLLECT_CACHE_DIR"
	EnvCacheMaxAge   = "DEPCOLLECT_CACHE_MAX_AGE_MINUTES"
)

// Default returns the configuration a bare CLI invocation runs with:
// collector.DefaultMaxExceptions/DefaultMaxCycles, a 30s descriptor
// timeout, 3 retries, and no OTLP endpoint (no tracing unless Debug is
// set, which selects the stdout exporter).
func Default() *Config {
	return &Config{
		MaxExceptions:            collector.DefaultMaxExceptions,
		MaxCycles:                collector.DefaultMaxCycles,
		DescriptorTimeoutSeconds: 30,
		RetryAttempts:            3,
		CacheDir:                 defaultCacheDir(),
		CacheMaxAgeMinutes:       30,
	}
}

// defaultCacheDir places the disk cache under the per-user cache
// directory; an unresolvable user cache dir disables caching by
// default rather than failing configuration loading.
func defaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "depcollect")
}

// LoadFromEnvironment overlays any DEPCOLLECT_* environment variable onto
// a Default config. Flags are applied on top by the command layer.
func LoadFromEnvironment() *Config {
	cfg := Default()

	if v, ok := lookupInt(EnvMaxExceptions); ok {
		cfg.MaxExceptions = v
	}
	if v, ok := lookupInt(EnvMaxCycles); ok {
		cfg.MaxCycles = v
	}
	if v, ok := lookupBool(EnvIgnoreRepos); ok {
		cfg.IgnoreArtifactDescriptorRepositories = v
	}
	if v, ok := lookupBool(EnvVerbose); ok {
		cfg.VerbosePremanaged = v
	}
	if v, ok := lookupBool(EnvDebug); ok {
		cfg.Debug = v
	}
	if v, ok := lookupInt(EnvTimeout); ok {
		cfg.DescriptorTimeoutSeconds = v
	}
	if v, ok := lookupInt(EnvRetries); ok {
		cfg.RetryAttempts = v
	}
	if v := os.Getenv(EnvOTLPEndpoint); v != "" {
		cfg.OTLPEndpoint = v
	}
	if v := os.Getenv(EnvCacheDir); v != "" {
		cfg.CacheDir = v
	}
	if v, ok := lookupInt(EnvCacheMaxAge); ok {
		cfg.CacheMaxAgeMinutes = v
	}

	return cfg
}

func lookupInt(name string) (int, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func lookupBool(name string) (bool, bool) {
	raw := os.Getenv(name)
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
