package installer

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"orbiter/internal/config"
	"orbiter/internal/logger"
	"orbiter/internal/platform"
	"orbiter/internal/providers"
)

// InitToken is replaced in resource URLs by the trimmed output of the payload's init hook.
const InitToken = "{init}"

// GitFunc runs git with args in dir.
type GitFunc func(ctx context.Context, dir string, args ...string) error

// Acquirer fetches the content of a concrete resource.
type Acquirer struct {
	HTTP     *http.Client
	Releases *providers.Client
	Git      GitFunc
	OS       platform.OS
	Arch     platform.Arch
}

// NewAcquirer returns an Acquirer for env using HTTP clients without timeouts and the
// git binary on PATH.
func NewAcquirer(env platform.Env) *Acquirer {
	return &Acquirer{
		HTTP:     &http.Client{},
		Releases: providers.NewClient(),
		Git:      runGit,
		OS:       env.OS,
		Arch:     env.Arch,
	}
}

// Acquire fetches res. Downloads land in stagingDir and are then moved into installDir,
// and the final file path is returned. A cloned repository replaces installDir as a whole
// and yields an empty path, since there is no single asset to extract.
//
// initOutput, when non-nil, is substituted for InitToken in Location URLs.
func (a *Acquirer) Acquire(ctx context.Context, res config.Resource, initOutput *string, stagingDir, installDir string) (string, error) {
	switch {
	case res.Repo != nil && res.Repo.FromRelease:
		asset, err := a.Releases.ReleaseAsset(ctx, *res.Repo, a.OS, a.Arch)
		if err != nil {
			return "", err
		}
		logger.Info("[INFO] Selected release asset %s\n", asset.Name)
		return a.fetch(ctx, asset.BrowserDownloadURL, stagingDir, installDir)

	case res.Repo != nil:
		if err := a.clone(ctx, *res.Repo, stagingDir, installDir); err != nil {
			return "", err
		}
		return "", nil

	case res.Location != "":
		location := res.Location
		if initOutput != nil {
			location = strings.ReplaceAll(location, InitToken, strings.TrimSpace(*initOutput))
		}
		return a.fetch(ctx, location, stagingDir, installDir)

	default:
		return "", fmt.Errorf("empty resource")
	}
}

func (a *Acquirer) fetch(ctx context.Context, rawURL, stagingDir, installDir string) (string, error) {
	client := a.HTTP
	if client == nil {
		client = &http.Client{}
	}
	staged, err := downloadFile(ctx, client, rawURL, stagingDir)
	if err != nil {
		return "", err
	}
	return moveInto(staged, installDir)
}

// clone clones repo into stagingDir, renames the clone to installDir and checks out
// repo.Ver when set.
func (a *Acquirer) clone(ctx context.Context, repo config.Repo, stagingDir, installDir string) error {
	cloneURL := providers.CloneURL(repo.ProviderOrDefault(), repo.Repo)
	name := filepath.Base(strings.TrimSuffix(strings.Trim(repo.Repo, "/"), ".git"))

	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return fmt.Errorf("failed to create staging dir %s: %w", stagingDir, err)
	}
	logger.Info("[INFO] Cloning %s\n", cloneURL)
	if err := a.Git(ctx, stagingDir, "clone", cloneURL, name); err != nil {
		return fmt.Errorf("git clone %s: %w", cloneURL, err)
	}

	if err := os.Rename(filepath.Join(stagingDir, name), installDir); err != nil {
		return fmt.Errorf("failed to move clone of %s to %s: %w", repo.Repo, installDir, err)
	}

	if repo.Ver != "" {
		logger.Info("[INFO] Checking out %s\n", repo.Ver)
		if err := a.Git(ctx, installDir, "checkout", "-q", repo.Ver); err != nil {
			return fmt.Errorf("git checkout %s: %w", repo.Ver, err)
		}
	}
	return nil
}

func runGit(ctx context.Context, dir string, args ...string) error {
	return runTool(ctx, dir, "git", args...)
}
