package descriptor

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

	"github.com/artifactgraph/depcollect/artifact"
	"github.com/artifactgraph/depcollect/auth"
	"github.com/artifactgraph/depcollect/cache"
	depcollecthttp "github.com/artifactgraph/depcollect/http"
	"github.com/artifactgraph/depcollect/observability"
	"github.com/artifactgraph/depcollect/repository"
)

// wireDependency is the JSON shape of a dependency entry within a
// descriptor document.
type wireDependency struct {
	Group      string   `json:"group"`
	ID         string   `json:"id"`
	Classifier string   `json:"classifier,omitempty"`
	Extension  string   `json:"extension,omitempty"`
	Version    string   `json:"version"`
	Scope      string   `json:"scope,omitempty"`
	Optional   *bool    `json:"optional,omitempty"`
	Exclusions []string `json:"exclusions,omitempty"` // "group:id" pairs
}

func (w wireDependency) toDependency() artifact.Dependency {
	ext := w.Extension
	if ext == "" {
		ext = "jar"
	}
	dep := artifact.Dependency{
		Artifact: artifact.Artifact{
			Group: w.Group, ID: w.ID, Classifier: w.Classifier, Extension: ext, Version: w.Version,
		},
		Scope: w.Scope,
	}
	if w.Optional != nil {
		if *w.Optional {
			dep.Optional = artifact.OptionalTrue
		} else {
			dep.Optional = artifact.OptionalFalse
		}
	}
	for _, raw := range w.Exclusions {
		parts := strings.SplitN(raw, ":", 2)
		if len(parts) != 2 {
			continue
		}
		dep.Exclusions = append(dep.Exclusions, artifact.Exclusion{Group: parts[0], ID: parts[1]})
	}
	return dep
}

type wireRepository struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type wireArtifactRef struct {
	Group      string `json:"group"`
	ID         string `json:"id"`
	Classifier string `json:"classifier,omitempty"`
	Extension  string `json:"extension,omitempty"`
	Version    string `json:"version"`
}

func (w wireArtifactRef) toArtifact() artifact.Artifact {
	ext := w.Extension
	if ext == "" {
		ext = "jar"
	}
	return artifact.Artifact{Group: w.Group, ID: w.ID, Classifier: w.Classifier, Extension: ext, Version: w.Version}
}

// wireDescriptor is the JSON shape of a descriptor document.
type wireDescriptor struct {
	Artifact            wireArtifactRef   `json:"artifact"`
	Dependencies        []wireDependency  `json:"dependencies"`
	ManagedDependencies []wireDependency  `json:"managedDependencies"`
	Repositories        []wireRepository  `json:"repositories"`
	Relocations         []wireArtifactRef `json:"relocations"`
	Aliases             []wireArtifactRef `json:"aliases"`
}

func (w wireDescriptor) toDescriptor() *Descriptor {
	d := &Descriptor{Artifact: w.Artifact.toArtifact()}
	for _, dep := range w.Dependencies {
		d.Dependencies = append(d.Dependencies, dep.toDependency())
	}
	for _, dep := range w.ManagedDependencies {
		d.ManagedDependencies = append(d.ManagedDependencies, dep.toDependency())
	}
	for _, r := range w.Repositories {
		d.Repositories = append(d.Repositories, repository.Repository{ID: r.ID, URL: r.URL})
	}
	for _, r := range w.Relocations {
		d.Relocations = append(d.Relocations, r.toArtifact())
	}
	for _, a := range w.Aliases {
		d.Aliases = append(d.Aliases, a.toArtifact())
	}
	return d
}

// HTTPReader fetches descriptors over HTTP, trying each repository in
// order until one answers. It is the default Reader, grounded on the
// resilient depcollect/http.Client and optional per-repository
// authentication.
type HTTPReader struct {
	httpClient     *depcollecthttp.Client
	authenticators map[string]auth.Authenticator // keyed by repository URL
	logger         observability.Logger
	cache          *cache.MultiTierCache
}

// HTTPReaderConfig configures an HTTPReader.
type HTTPReaderConfig struct {
	HTTPClient     *depcollecthttp.Client
	Authenticators map[string]auth.Authenticator
	Logger         observability.Logger

	// Cache, when set, holds the raw descriptor JSON for each fetched
	// URL across collection runs, keyed by repository URL and a hash of
	// the descriptor endpoint. A nil Cache disables caching.
	Cache *cache.MultiTierCache
}

// NewHTTPReader constructs the default descriptor reader.
func NewHTTPReader(cfg HTTPReaderConfig) *HTTPReader {
	client := cfg.HTTPClient
	if client == nil {
		client = depcollecthttp.NewClient(nil)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = observability.NewNullLogger()
	}
	return &HTTPReader{httpClient: client, authenticators: cfg.Authenticators, logger: logger, cache: cfg.Cache}
}

// ReadDescriptor implements Reader.
func (r *HTTPReader) ReadDescriptor(ctx context.Context, req Request) (*Descriptor, error) {
	ctx, span := observability.StartDescriptorFetchSpan(ctx, req.Artifact.Group, req.Artifact.ID, req.Artifact.Version)
	defer span.End()

	start := time.Now()
	coordinate := req.Artifact.Group + ":" + req.Artifact.ID
	defer func() {
		observability.DescriptorFetchDuration.WithLabelValues(coordinate).Observe(time.Since(start).Seconds())
	}()

	var lastErr error
	for _, repo := range req.Repositories {
		d, err := r.readFrom(ctx, repo, req.Artifact)
		if err != nil {
			lastErr = err
			r.logger.VerboseContext(ctx, "descriptor fetch: {Repository} failed for {Artifact}: {Error}", repo.URL, req.Artifact.String(), err)
			continue
		}
		observability.DescriptorFetchesTotal.WithLabelValues("success").Inc()
		return d, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("descriptor fetch %s: no repositories configured", req.Artifact.String())
	}
	observability.DescriptorFetchesTotal.WithLabelValues("failure").Inc()
	observability.EndSpanWithError(span, lastErr)
	return nil, lastErr
}

func (r *HTTPReader) readFrom(ctx context.Context, repo repository.Repository, a artifact.Artifact) (*Descriptor, error) {
	endpoint, err := descriptorURL(repo, a)
	if err != nil {
		return nil, fmt.Errorf("build descriptor url: %w", err)
	}

	cacheCtx := cache.FromContext(ctx)
	useCache := r.cache != nil && (cacheCtx == nil || !cacheCtx.NoCache)
	maxAge := 30 * time.Minute
	if cacheCtx != nil {
		maxAge = cacheCtx.MaxAge
	}
	cacheKey := cache.ComputeHash(endpoint, false)

	if useCache {
		if body, hit, err := cacheCtx.Getter(r.cache)(ctx, repo.URL, cacheKey, maxAge); err == nil && hit {
			observability.SetAttributes(ctx, observability.AttrCacheHit.Bool(true))
			var wire wireDescriptor
			if err := json.Unmarshal(body, &wire); err == nil {
				return wire.toDescriptor(), nil
			}
		}
	}
	observability.SetAttributes(ctx, observability.AttrCacheHit.Bool(false))

	httpReq, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build descriptor request: %w", err)
	}
	if authr, ok := r.authenticators[repo.URL]; ok {
		if err := authr.Authenticate(httpReq); err != nil {
			return nil, fmt.Errorf("authenticate descriptor request: %w", err)
		}
	}
	if cacheCtx != nil && cacheCtx.SessionID != "" {
		httpReq.Header.Set("X-Cache-Session-Id", cacheCtx.SessionID)
	}

	resp, err := r.httpClient.DoWithRetry(ctx, httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch descriptor from %s: %w", repo.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("descriptor not found at %s", repo.URL)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch descriptor from %s: unexpected status %d", repo.URL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read descriptor body from %s: %w", repo.URL, err)
	}

	var wire wireDescriptor
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("decode descriptor from %s: %w", repo.URL, err)
	}

	if useCache && (cacheCtx == nil || !cacheCtx.DirectDownload) {
		if err := r.cache.Set(ctx, repo.URL, cacheKey, bytes.NewReader(body), maxAge, nil); err != nil {
			r.logger.VerboseContext(ctx, "descriptor cache write failed for {Repository}: {Error}", repo.URL, err)
		}
	}

	return wire.toDescriptor(), nil
}

func descriptorURL(repo repository.Repository, a artifact.Artifact) (string, error) {
	base, err := url.Parse(repo.URL)
	if err != nil {
		return "", err
	}
	base.Path = strings.TrimSuffix(base.Path, "/") + fmt.Sprintf("/%s/%s/%s/descriptor.json", a.Group, a.ID, a.Version)
	return base.String(), nil
}
