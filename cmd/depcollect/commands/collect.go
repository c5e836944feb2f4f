// Package commands implements depcollect's cobra subcommands: one
// constructor per subcommand, flags bound onto an options struct, the
// command body delegating to a library package rather than doing work
// itself.
package commands

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/artifactgraph/depcollect/artifact"
	"github.com/artifactgraph/depcollect/auth"
	"github.com/artifactgraph/depcollect/cache"
	"github.com/artifactgraph/depcollect/cmd/depcollect/cli"
	"github.com/artifactgraph/depcollect/cmd/depcollect/output"
	"github.com/artifactgraph/depcollect/collector"
	"github.com/artifactgraph/depcollect/config"
	"github.com/artifactgraph/depcollect/descriptor"
	httpclient "github.com/artifactgraph/depcollect/http"
	"github.com/artifactgraph/depcollect/observability"
	"github.com/artifactgraph/depcollect/policy"
	"github.com/artifactgraph/depcollect/rangeresolve"
	"github.com/artifactgraph/depcollect/repository"
	"github.com/artifactgraph/depcollect/resilience"
	"github.com/artifactgraph/depcollect/transform"
)

// CollectOptions binds the collect command's flags.
type CollectOptions struct {
	Repos                 []string
	RepoAuth              []string
	Output                string
	MaxExceptions         int
	MaxCycles             int
	IgnoreDescriptorRepos bool
	VerbosePremanaged     bool
	Debug                 bool
	NoCache               bool
	RefreshCache          bool
	ExcludeScopes         []string
}

// NewCollectCommand builds the `depcollect collect` subcommand: it runs
// one Collect call against the default HTTP-backed collaborators and
// prints the resulting graph as a text tree or JSON.
func NewCollectCommand(console *output.Console) *cobra.Command {
	opts := &CollectOptions{}

	cmd := &cobra.Command{
		Use:   "collect <group:id:version>",
		Short: "Collect the transitive dependency graph for one artifact",
		Long: `Resolves and walks the transitive dependency graph rooted at the given
artifact coordinate, printing the resulting tree.

Examples:
  depcollect collect com.example:widget:1.0.0 --repo https://repo.example.com
  depcollect collect com.example:widget:[1,2) --repo https://repo.example.com --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCollect(cmd, console, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Repos, "repo", nil, "Repository URL to resolve against (repeatable)")
	cmd.Flags().StringArrayVar(&opts.RepoAuth, "repo-auth", nil,
		"Credentials for a --repo, as <url>=bearer:<token>, <url>=basic:<user>:<pass>, or <url>=apikey:<key> (repeatable)")
	cmd.Flags().StringVar(&opts.Output, "output", "text", "Output format: text or json")
	cmd.Flags().IntVar(&opts.MaxExceptions, "max-exceptions", 0, "Override the configured exception bound (0 keeps the config default)")
	cmd.Flags().IntVar(&opts.MaxCycles, "max-cycles", 0, "Override the configured cycle bound (0 keeps the config default)")
	cmd.Flags().BoolVar(&opts.IgnoreDescriptorRepos, "ignore-descriptor-repositories", false, "Do not aggregate a descriptor's declared repositories")
	cmd.Flags().BoolVar(&opts.VerbosePremanaged, "verbose-premanaged", false, "Attach pre-management original values to each node")
	cmd.Flags().BoolVar(&opts.Debug, "debug", false, "Enable the transformer's debug stats and diagnostic logging")
	cmd.Flags().BoolVar(&opts.NoCache, "no-cache", false, "Bypass the on-disk descriptor/version cache for this run")
	cmd.Flags().BoolVar(&opts.RefreshCache, "refresh-cache", false, "Re-read each entry from the on-disk cache instead of a process-local in-memory copy")
	cmd.Flags().StringArrayVar(&opts.ExcludeScopes, "exclude-scope", nil, "Do not descend into dependencies of this scope, e.g. test or provided (repeatable)")

	return cmd
}

func runCollect(cmd *cobra.Command, console *output.Console, coordinate string, opts *CollectOptions) error {
	rootArtifact, versionSpec, err := parseCoordinate(coordinate)
	if err != nil {
		return err
	}

	if len(opts.Repos) == 0 {
		return fmt.Errorf("at least one --repo is required")
	}

	cfg := config.LoadFromEnvironment()
	if opts.MaxExceptions != 0 {
		cfg.MaxExceptions = opts.MaxExceptions
	}
	if opts.MaxCycles != 0 {
		cfg.MaxCycles = opts.MaxCycles
	}
	if opts.IgnoreDescriptorRepos {
		cfg.IgnoreArtifactDescriptorRepositories = true
	}
	if opts.VerbosePremanaged {
		cfg.VerbosePremanaged = true
	}
	if opts.Debug {
		cfg.Debug = true
	}

	logLevel := observability.InfoLevel
	if cfg.Debug {
		logLevel = observability.DebugLevel
	}
	logger := observability.NewLogger(os.Stderr, logLevel)

	if cfg.OTLPEndpoint != "" || cfg.Debug {
		tracerCfg := observability.DefaultTracerConfig()
		tracerCfg.ServiceVersion = cli.Version
		if cfg.OTLPEndpoint != "" {
			tracerCfg.ExporterType = "otlp"
			tracerCfg.OTLPEndpoint = cfg.OTLPEndpoint
		}
		tp, terr := observability.SetupTracing(cmd.Context(), tracerCfg)
		if terr != nil {
			logger.Warn("tracing setup failed: {Error}; continuing untraced", terr)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = observability.ShutdownTracing(shutdownCtx, tp)
			}()
		}
	}

	clientCfg := httpclient.DefaultConfig()
	clientCfg.Logger = logger
	if cfg.DescriptorTimeoutSeconds > 0 {
		clientCfg.Timeout = time.Duration(cfg.DescriptorTimeoutSeconds) * time.Second
	}
	if cfg.RetryAttempts > 0 {
		clientCfg.RetryConfig = httpclient.DefaultRetryConfig()
		clientCfg.RetryConfig.MaxRetries = cfg.RetryAttempts
	}
	clientCfg.EnableTracing = cfg.Debug || cfg.OTLPEndpoint != ""
	breakerCfg := resilience.DefaultCircuitBreakerConfig()
	clientCfg.CircuitBreakerConfig = &breakerCfg
	limiterCfg := resilience.DefaultTokenBucketConfig()
	clientCfg.RateLimiterConfig = &limiterCfg
	httpClient := httpclient.NewClient(clientCfg)

	var responseCache *cache.MultiTierCache
	if cfg.CacheDir != "" && !opts.NoCache {
		disk, err := cache.NewDiskCache(cfg.CacheDir, 512*1024*1024)
		if err != nil {
			logger.Warn("disk cache unavailable at {Dir}: {Error}; continuing without an HTTP response cache", cfg.CacheDir, err)
		} else {
			responseCache = cache.NewMultiTierCache(cache.NewMemoryCache(1000, 64*1024*1024), disk)
		}
	}

	if responseCache != nil {
		if sizeBytes, maxBytes, derr := responseCache.DiskUsage(); derr == nil {
			logger.Debug("disk cache at {Dir}: {Size} of {Max} bytes used", cfg.CacheDir, sizeBytes, maxBytes)
		}
	}

	repoAuth, err := parseRepoAuth(opts.RepoAuth)
	if err != nil {
		return err
	}

	repos, sources := buildRepositories(opts.Repos, repoAuth, httpClient, logger, responseCache)

	descriptorReader := descriptor.NewHTTPReader(descriptor.HTTPReaderConfig{HTTPClient: httpClient, Authenticators: repoAuth, Logger: logger, Cache: responseCache})
	rangeResolver := rangeresolve.NewDefault(sources, logger)
	repoManager := repository.NewDefaultManager()
	conflictResolver := transform.NewConflictResolver()

	if opts.NoCache {
		cmd.SetContext(cache.WithCacheContext(cmd.Context(), &cache.SourceCacheContext{NoCache: true}))
	} else if cfg.CacheMaxAgeMinutes > 0 || opts.RefreshCache {
		cacheCtx := cache.NewSourceCacheContext()
		if cfg.CacheMaxAgeMinutes > 0 {
			cacheCtx.MaxAge = time.Duration(cfg.CacheMaxAgeMinutes) * time.Minute
		}
		cacheCtx.RefreshMemoryCache = opts.RefreshCache
		cmd.SetContext(cache.WithCacheContext(cmd.Context(), cacheCtx))
	}

	session := collector.NewSession(descriptorReader, rangeResolver, repoManager, conflictResolver)
	if len(opts.ExcludeScopes) > 0 {
		session.Traverser = policy.NewScopeTraverser(opts.ExcludeScopes...)
	}
	session.MaxExceptions = cfg.MaxExceptions
	session.MaxCycles = cfg.MaxCycles
	session.IgnoreArtifactDescriptorRepositories = cfg.IgnoreArtifactDescriptorRepositories
	session.VerbosePremanaged = cfg.VerbosePremanaged
	session.Debug = cfg.Debug
	session.Logger = logger

	driver := collector.NewDriver(session)

	rootDep := &artifact.Dependency{Artifact: rootArtifact.WithVersion(versionSpec)}
	req := collector.Request{
		Root:         rootDep,
		Repositories: repos,
	}

	result, err := driver.Collect(cmd.Context(), req)
	if result == nil {
		if err != nil {
			return err
		}
		return nil
	}

	switch strings.ToLower(opts.Output) {
	case "json":
		if jerr := output.PrintJSON(cmd.OutOrStdout(), result); jerr != nil {
			return jerr
		}
	default:
		output.PrintTree(console, result)
	}

	return err
}

func parseCoordinate(coordinate string) (artifact.Artifact, string, error) {
	parts := strings.Split(coordinate, ":")
	if len(parts) < 3 {
		return artifact.Artifact{}, "", fmt.Errorf("invalid coordinate %q: expected group:id:version", coordinate)
	}
	group, id, version := parts[0], parts[1], parts[len(parts)-1]
	a := artifact.New(group, id, version)
	if len(parts) == 4 {
		a.Classifier = parts[2]
	}
	return a, version, nil
}

func buildRepositories(urls []string, repoAuth map[string]auth.Authenticator, httpClient *httpclient.Client, logger observability.Logger, responseCache *cache.MultiTierCache) ([]repository.Repository, []*repository.SourceRepository) {
	repos := make([]repository.Repository, 0, len(urls))
	sources := make([]*repository.SourceRepository, 0, len(urls))
	for i, u := range urls {
		repo := repository.Repository{ID: fmt.Sprintf("repo-%d", i), URL: u, Kind: repository.KindRemote}
		repos = append(repos, repo)
		sources = append(sources, repository.NewSourceRepository(repository.SourceConfig{
			Repository: repo, Authenticator: repoAuth[u], HTTPClient: httpClient, Logger: logger, Cache: responseCache,
		}))
	}
	return repos, sources
}

// parseRepoAuth turns each --repo-auth entry into an auth.Authenticator
// keyed by repository URL, so a private --repo can carry its own
// credentials.
func parseRepoAuth(entries []string) (map[string]auth.Authenticator, error) {
	result := make(map[string]auth.Authenticator, len(entries))
	for _, entry := range entries {
		url, scheme, found := strings.Cut(entry, "=")
		if !found {
			return nil, fmt.Errorf("invalid --repo-auth %q: want <url>=<scheme>:<credentials>", entry)
		}

		kind, cred, found := strings.Cut(scheme, ":")
		if !found {
			return nil, fmt.Errorf("invalid --repo-auth %q: want <url>=<scheme>:<credentials>", entry)
		}

		switch strings.ToLower(kind) {
		case "bearer":
			result[url] = auth.NewBearerAuthenticator(cred)
		case "apikey":
			result[url] = auth.NewAPIKeyAuthenticator(cred)
		case "basic":
			user, pass, found := strings.Cut(cred, ":")
			if !found {
				return nil, fmt.Errorf("invalid --repo-auth %q: basic scheme wants <url>=basic:<user>:<pass>", entry)
			}
			result[url] = auth.NewBasicAuthenticator(user, pass)
		default:
			return nil, fmt.Errorf("invalid --repo-auth %q: unknown scheme %q (want bearer, basic, or apikey)", entry, kind)
		}
	}
	return result, nil
}
