// Package providers talks to repository hosts: it builds clone URLs, lists releases and
// picks the release asset that fits the running platform.
package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"orbiter/internal/config"
	"orbiter/internal/logger"
)

var (
	// ErrNoRelease is returned when no release fits the requested version.
	ErrNoRelease = errors.New("no matching release")
	// ErrNoAsset is returned when no asset survives filtering.
	ErrNoAsset = errors.New("no matching release asset")
	// ErrUnsupportedOS is returned when the built-in asset patterns have no entry for the OS.
	ErrUnsupportedOS = errors.New("unsupported os")
	// ErrUnsupportedArch is returned when the built-in asset patterns have no entry for the arch.
	ErrUnsupportedArch = errors.New("unsupported architecture")
	// ErrUnexpectedStatus is returned for non-2xx release listing responses.
	ErrUnexpectedStatus = errors.New("unexpected http status")
)

// UserAgent identifies orbiter to provider APIs.
const UserAgent = "orbiter"

// Release is one tagged release as returned by a provider, newest first.
type Release struct {
	TagName string  `json:"tag_name"`
	Assets  []Asset `json:"assets"`
}

// Asset is one downloadable file attached to a release.
type Asset struct {
	Name               string `json:"name"`
	ContentType        string `json:"content_type"`
	BrowserDownloadURL string `json:"browser_download_url"`
}

var defaultAPIBase = map[config.Provider]string{
	config.GitHub: "https://api.github.com",
	config.GitLab: "https://gitlab.com",
	config.Gitee:  "https://gitee.com",
}

var hosts = map[config.Provider]string{
	config.GitHub: "github.com",
	config.GitLab: "gitlab.com",
	config.Gitee:  "gitee.com",
}

// CloneURL returns the https clone URL of repo on provider.
func CloneURL(provider config.Provider, repo string) string {
	host, ok := hosts[provider]
	if !ok {
		host = hosts[config.GitHub]
	}
	return fmt.Sprintf("https://%s/%s", host, strings.Trim(repo, "/"))
}

// Client lists releases. It never times out: a release listing blocks for as long as the
// host takes to answer.
type Client struct {
	HTTP      *http.Client
	UserAgent string
	// APIBase overrides the API root per provider, e.g. for GitHub Enterprise or tests.
	APIBase map[config.Provider]string

	cache *lru.Cache[string, []Release]
}

// NewClient returns a Client with an unbounded timeout and a small in-process cache of
// release listings, so payloads sharing a repository cost one API call per run.
func NewClient() *Client {
	cache, err := lru.New[string, []Release](64)
	if err != nil {
		// only a non-positive size fails
		panic(err)
	}
	return &Client{
		HTTP:      &http.Client{},
		UserAgent: UserAgent,
		cache:     cache,
	}
}

// ReleasesURL returns the release listing endpoint of repo.
func (c *Client) ReleasesURL(provider config.Provider, repo string) string {
	base := defaultAPIBase[provider]
	if override, ok := c.APIBase[provider]; ok {
		base = override
	}
	base = strings.TrimRight(base, "/")
	repo = strings.Trim(repo, "/")

	switch provider {
	case config.GitLab:
		return fmt.Sprintf("%s/api/v4/projects/%s/releases", base, url.PathEscape(repo))
	case config.Gitee:
		return fmt.Sprintf("%s/api/v5/repos/%s/releases", base, repo)
	default:
		return fmt.Sprintf("%s/repos/%s/releases", base, repo)
	}
}

// Releases lists the releases of repo, newest first as returned by the provider.
func (c *Client) Releases(ctx context.Context, provider config.Provider, repo string) ([]Release, error) {
	endpoint := c.ReleasesURL(provider, repo)
	if c.cache != nil {
		if cached, ok := c.cache.Get(endpoint); ok {
			logger.Debug("[DEBUG] Using cached release listing for %s\n", endpoint)
			return cached, nil
		}
	}
	logger.Debug("[DEBUG] Fetching releases from URL: %s\n", endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("User-Agent", c.userAgent())

	httpClient := c.HTTP
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET error fetching releases for %s: %w", repo, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Warn("[WARN] Failed to close HTTP response body: %v\n", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("release listing for %s: %w: %s", repo, ErrUnexpectedStatus, resp.Status)
	}

	var releases []Release
	switch provider {
	case config.GitLab:
		releases, err = decodeGitLab(resp.Body)
	default:
		releases, err = decodeGitHub(resp.Body)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode release listing for %s: %w", repo, err)
	}
	logger.Debug("[DEBUG] %s has %d releases\n", repo, len(releases))

	if c.cache != nil {
		c.cache.Add(endpoint, releases)
	}
	return releases, nil
}

func (c *Client) userAgent() string {
	if c.UserAgent == "" {
		return UserAgent
	}
	return c.UserAgent
}
