package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/artifactgraph/depcollect/auth"
	"github.com/artifactgraph/depcollect/cache"
	depcollecthttp "github.com/artifactgraph/depcollect/http"
	"github.com/artifactgraph/depcollect/observability"
)

// SourceRepository is a remote artifact repository reachable over HTTP,
// exposing the one operation the collector's default range resolver
// needs: version listing. Descriptor fetch lives in the descriptor
// package.
type SourceRepository struct {
	repo          Repository
	authenticator auth.Authenticator
	httpClient    *depcollecthttp.Client
	logger        observability.Logger
	cache         *cache.MultiTierCache
}

// SourceConfig configures a SourceRepository.
type SourceConfig struct {
	Repository    Repository
	Authenticator auth.Authenticator
	HTTPClient    *depcollecthttp.Client
	Logger        observability.Logger

	// Cache, when set, holds version-listing responses across
	// collection runs, keyed by repository URL and endpoint hash.
	Cache *cache.MultiTierCache
}

// NewSourceRepository constructs a SourceRepository, defaulting the HTTP
// client and logger when the config leaves them nil.
func NewSourceRepository(cfg SourceConfig) *SourceRepository {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = depcollecthttp.NewClient(nil)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = observability.NewNullLogger()
	}

	return &SourceRepository{
		repo:          cfg.Repository,
		authenticator: cfg.Authenticator,
		httpClient:    httpClient,
		logger:        logger,
		cache:         cfg.Cache,
	}
}

// Repository returns the underlying Repository descriptor.
func (s *SourceRepository) Repository() Repository {
	return s.repo
}

type versionListResponse struct {
	Versions []string `json:"versions"`
}

// ListVersions returns every known version string for the given
// group:id coordinate published by this repository.
func (s *SourceRepository) ListVersions(ctx context.Context, group, id string) ([]string, error) {
	endpoint, err := s.versionsURL(group, id)
	if err != nil {
		return nil, fmt.Errorf("build versions url: %w", err)
	}

	cacheCtx := cache.FromContext(ctx)
	useCache := s.cache != nil && (cacheCtx == nil || !cacheCtx.NoCache)
	maxAge := 30 * time.Minute
	if cacheCtx != nil {
		maxAge = cacheCtx.MaxAge
	}
	cacheKey := cache.ComputeHash(endpoint, false)

	if useCache {
		if body, hit, err := cacheCtx.Getter(s.cache)(ctx, s.repo.URL, cacheKey, maxAge); err == nil && hit {
			var decoded versionListResponse
			if err := json.Unmarshal(body, &decoded); err == nil {
				return decoded.Versions, nil
			}
		}
	}

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build versions request: %w", err)
	}
	if s.authenticator != nil {
		if err := s.authenticator.Authenticate(req); err != nil {
			return nil, fmt.Errorf("authenticate versions request: %w", err)
		}
	}

	resp, err := s.httpClient.DoWithRetry(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch versions from %s: %w", s.repo.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 404 {
		return nil, nil
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("fetch versions from %s: unexpected status %d", s.repo.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read versions body from %s: %w", s.repo.URL, err)
	}

	var decoded versionListResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode versions from %s: %w", s.repo.URL, err)
	}

	if useCache && (cacheCtx == nil || !cacheCtx.DirectDownload) {
		if err := s.cache.Set(ctx, s.repo.URL, cacheKey, bytes.NewReader(body), maxAge, nil); err != nil {
			s.logger.VerboseContext(ctx, "versions cache write failed for {Repository}: {Error}", s.repo.URL, err)
		}
	}

	return decoded.Versions, nil
}

func (s *SourceRepository) versionsURL(group, id string) (string, error) {
	base, err := url.Parse(s.repo.URL)
	if err != nil {
		return "", err
	}
	base.Path = strings.TrimSuffix(base.Path, "/") + fmt.Sprintf("/%s/%s/versions", group, id)
	return base.String(), nil
}
