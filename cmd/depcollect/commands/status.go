package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/artifactgraph/depcollect/cache"
	"github.com/artifactgraph/depcollect/cmd/depcollect/output"
	"github.com/artifactgraph/depcollect/config"
	httpclient "github.com/artifactgraph/depcollect/http"
	"github.com/artifactgraph/depcollect/observability"
)

// StatusOptions binds the status command's flags.
type StatusOptions struct {
	Repos    []string
	RepoAuth []string
	Timeout  time.Duration
	Output   string
}

// NewStatusCommand builds the `depcollect status` subcommand: it probes
// every configured repository and the on-disk cache without performing
// a collection, so source reachability can be checked independently of
// a real run.
func NewStatusCommand(console *output.Console) *cobra.Command {
	opts := &StatusOptions{}

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report repository reachability and cache health",
		Long: `Checks that every --repo responds to an HTTP HEAD request and, if an
on-disk response cache is configured, reports its current usage.

Example:
  depcollect status --repo https://repo.example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, console, opts)
		},
	}

	cmd.Flags().StringArrayVar(&opts.Repos, "repo", nil, "Repository URL to probe (repeatable)")
	cmd.Flags().StringArrayVar(&opts.RepoAuth, "repo-auth", nil,
		"Credentials for a --repo, as <url>=bearer:<token>, <url>=basic:<user>:<pass>, or <url>=apikey:<key> (repeatable)")
	cmd.Flags().DurationVar(&opts.Timeout, "timeout", 5*time.Second, "Per-repository probe timeout")
	cmd.Flags().StringVar(&opts.Output, "output", "text", "Output format: text or json")

	return cmd
}

func runStatus(cmd *cobra.Command, console *output.Console, opts *StatusOptions) error {
	cfg := config.LoadFromEnvironment()

	repoAuth, err := parseRepoAuth(opts.RepoAuth)
	if err != nil {
		return err
	}

	checker := observability.NewHealthChecker()
	for i, repoURL := range opts.Repos {
		checker.Register(observability.HTTPSourceHealthCheck(fmt.Sprintf("repo-%d:%s", i, repoURL), repoURL, opts.Timeout, repoAuth[repoURL]))
	}
	checker.Register(observability.CollectorReadyCheck("collector-ready", httpclient.GetGlobalClient().BreakerStats))

	if cfg.CacheDir != "" {
		disk, err := cache.NewDiskCache(cfg.CacheDir, 512*1024*1024)
		if err == nil {
			if sizeBytes, sizeErr := disk.Size(); sizeErr == nil {
				checker.Register(observability.CacheHealthCheck("disk-cache", sizeBytes, disk.MaxSize()))
			}
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	results := checker.Check(ctx)
	overall := checker.OverallStatus(ctx)

	if opts.Output == "json" {
		payload := map[string]any{"status": overall, "checks": results}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	console.Printf("overall: %s\n", overall)
	for name, result := range results {
		console.Printf("  %-40s %-10s %s\n", name, result.Status, result.Message)
	}

	if overall == observability.HealthStatusUnhealthy {
		return fmt.Errorf("one or more health checks failed")
	}
	return nil
}
