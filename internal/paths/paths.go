// Package paths owns orbiter's on-disk layout:
//
//	<home>/payloads/<id>/.__orbiter__          staging area and "processed" marker
//	<home>/payloads/<id>/current               live install
//	<home>/payloads/<id>/archive_<timestamp>   installs moved aside by update
//	<home>/dashboard/bin/<name>                shims and symlinks
package paths

import (
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvHome overrides the orbiter home directory
	EnvHome = "ORBITER_HOME"

	// EnvConfig overrides the payload file location
	EnvConfig = "ORBITER_CONFIG"
)

// Directory and file names below the home directory.
const (
	DefaultHomeDir    = ".orbiter"
	DefaultConfigFile = ".orbiter.config.yml"
	PayloadsDir       = "payloads"
	CurrentDir        = "current"
	PayloadConfigDir  = ".__orbiter__"
	DashboardDir      = "dashboard"
	BinDir            = "bin"
	ArchivePrefix     = "archive_"

	// ArchiveTimeFormat renders as YYYY-MM-DD_HH:MM:SS in local time.
	ArchiveTimeFormat = "2006-01-02_15:04:05"
)

// Layout resolves every path below one orbiter home.
type Layout struct {
	Home string
}

// New returns the layout rooted at the resolved home directory.
func New() Layout {
	return Layout{Home: HomeDir()}
}

// HomeDir returns $ORBITER_HOME when it names an existing path, else ~/.orbiter.
func HomeDir() string {
	if dir := existingEnv(EnvHome); dir != "" {
		return dir
	}
	return filepath.Join(xdg.Home, DefaultHomeDir)
}

// ConfigPath returns $ORBITER_CONFIG when it names an existing file, else ~/.orbiter.config.yml.
func ConfigPath() string {
	if file := existingEnv(EnvConfig); file != "" {
		return file
	}
	return filepath.Join(xdg.Home, DefaultConfigFile)
}

func existingEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		return ""
	}
	if _, err := os.Stat(v); err != nil {
		return ""
	}
	return v
}

// PayloadDir is the root of everything stored for payload id.
func (l Layout) PayloadDir(id string) string {
	return filepath.Join(l.Home, PayloadsDir, id)
}

// ConfigDir is the staging directory and processed marker of payload id.
func (l Layout) ConfigDir(id string) string {
	return filepath.Join(l.PayloadDir(id), PayloadConfigDir)
}

// CurrentDir is the live install of payload id.
func (l Layout) CurrentDir(id string) string {
	return filepath.Join(l.PayloadDir(id), CurrentDir)
}

// ArchiveDir is where update moves the install of payload id at time t.
func (l Layout) ArchiveDir(id string, t time.Time) string {
	return filepath.Join(l.PayloadDir(id), ArchivePrefix+t.Local().Format(ArchiveTimeFormat))
}

// BinDir is the directory exposed on PATH.
func (l Layout) BinDir() string {
	return filepath.Join(l.Home, DashboardDir, BinDir)
}

// Installed reports whether both the config dir and the current dir of id exist. This is
// the only signal the pipeline uses to skip the install stages.
func (l Layout) Installed(id string) bool {
	return isDir(l.ConfigDir(id)) && isDir(l.CurrentDir(id))
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
