package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"orbiter/internal/config"
	"orbiter/internal/logger"
)

// SelfRepo is the repository orbiter updates itself from.
const SelfRepo = "orbiter-rs/orbiter"

// Update removes the entry point of p and moves its current dir to archive_<timestamp>.
// The next pipeline run treats p as not installed and installs it again.
func (in *Installer) Update(p config.Payload) (string, error) {
	logger.Info("[INFO] Updating %s...\n", p.ID)

	currentDir := in.Layout.CurrentDir(p.ID)
	if _, err := os.Stat(currentDir); err != nil {
		return "", fmt.Errorf("%s is not installed: %w", p.ID, err)
	}

	if p.Exec != nil {
		_, name, _ := p.Exec.EntryPoint()
		if err := in.Entries.Remove(name); err != nil {
			return "", err
		}
	}

	archiveDir := in.Layout.ArchiveDir(p.ID, in.now())
	if err := os.Rename(currentDir, archiveDir); err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", currentDir, err)
	}
	logger.Info("[INFO] Archived %s to %s\n", p.ID, archiveDir)
	return archiveDir, nil
}

// SelfUpdate downloads the release asset of orbiter matching this platform into the
// directory holding exe.
func (a *Acquirer) SelfUpdate(ctx context.Context, exe string) (string, error) {
	repo := config.Repo{Repo: SelfRepo, FromRelease: true}
	asset, err := a.Releases.ReleaseAsset(ctx, repo, a.OS, a.Arch)
	if err != nil {
		return "", fmt.Errorf("self-update: %w", err)
	}

	dir := filepath.Dir(exe)
	logger.Info("[INFO] Downloading %s into %s\n", asset.Name, dir)
	return a.fetch(ctx, asset.BrowserDownloadURL, dir, dir)
}
