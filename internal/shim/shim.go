// Package shim exposes installed executables on PATH, either as a small POSIX wrapper
// script or as a symlink in the managed bin directory.
package shim

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"orbiter/internal/logger"
	"orbiter/internal/platform"
)

// ErrNoMatch is returned when a run target matches no file.
var ErrNoMatch = errors.New("no file matches")

// Manager writes entry points into BinDir.
type Manager struct {
	BinDir string
}

// Create resolves run (a path or glob, relative to dir unless absolute) to exactly one
// file, marks it executable and exposes it as name in the bin directory.
func (m Manager) Create(dir, run, name string, useSymlink bool) (string, error) {
	target, err := ResolveSingle(dir, run)
	if err != nil {
		return "", err
	}
	if err := makeExecutable(target); err != nil {
		return "", err
	}
	if err := os.MkdirAll(m.BinDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create bin dir %s: %w", m.BinDir, err)
	}

	entry := m.Path(name)
	if useSymlink {
		_ = os.Remove(entry)
		if err := os.Symlink(target, entry); err != nil {
			return "", fmt.Errorf("failed to symlink %s to %s: %w", entry, target, err)
		}
		logger.Info("[INFO] Linked %s -> %s\n", entry, target)
		return entry, nil
	}

	if err := os.WriteFile(entry, []byte(Script(name, target)), 0o755); err != nil {
		return "", fmt.Errorf("failed to write shim %s: %w", entry, err)
	}
	// WriteFile keeps the mode of an existing file
	if err := os.Chmod(entry, 0o755); err != nil {
		return "", err
	}
	logger.Info("[INFO] Created shim %s for %s\n", entry, target)
	return entry, nil
}

// Remove deletes the entry point called name. A missing entry is not an error.
func (m Manager) Remove(name string) error {
	err := os.Remove(m.Path(name))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove entry point %s: %w", name, err)
	}
	return nil
}

// Path is the location of the entry point called name. Only the last element of name is
// used, so a glob such as **/bin/nvim exposes "nvim".
func (m Manager) Path(name string) string {
	return filepath.Join(m.BinDir, filepath.Base(name))
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]`)

// FuncName turns an entry point name into a shell function name.
func FuncName(name string) string {
	fn := nonIdent.ReplaceAllString(filepath.Base(name), "_")
	if fn == "" || (fn[0] >= '0' && fn[0] <= '9') {
		fn = "_" + fn
	}
	return fn
}

// Script renders the wrapper for target exposed as name. The function runs in a subshell
// that prepends the binary's directory to PATH, so the change never leaks into a shell
// that sources the file. The binary is called through $bindir because the function
// usually shares its name. The trailing call makes the file work both when executed and
// when sourced.
func Script(name, target string) string {
	fn := FuncName(name)
	return fmt.Sprintf(`#!/bin/sh

%[1]s() {
    (
        bindir=%[2]s
        PATH="$bindir":"$PATH"
        "$bindir"/%[3]s "$@"
    )
}

%[1]s "$@"
`, fn, platform.Quote(filepath.Dir(target)), platform.Quote(filepath.Base(target)))
}

// ResolveSingle resolves pattern against dir and returns the canonical absolute path of
// the first match. Patterns without wildcards are taken literally.
func ResolveSingle(dir, pattern string) (string, error) {
	matches, err := Resolve(dir, pattern)
	if err != nil {
		return "", err
	}
	return matches[0], nil
}

// Resolve expands pattern (supporting **) against dir and canonicalizes every match.
// Zero matches is ErrNoMatch.
func Resolve(dir, pattern string) ([]string, error) {
	if !hasMeta(pattern) {
		path := pattern
		if !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		canonical, err := canonicalize(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("%w %s", ErrNoMatch, path)
			}
			return nil, err
		}
		return []string{canonical}, nil
	}

	var matches []string
	if filepath.IsAbs(pattern) {
		found, err := doublestar.FilepathGlob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		matches = found
	} else {
		rel := strings.TrimPrefix(filepath.ToSlash(pattern), "./")
		found, err := doublestar.Glob(os.DirFS(dir), rel)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		for _, f := range found {
			matches = append(matches, filepath.Join(dir, filepath.FromSlash(f)))
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w %s in %s", ErrNoMatch, pattern, dir)
	}

	out := make([]string, 0, len(matches))
	for _, match := range matches {
		canonical, err := canonicalize(match)
		if err != nil {
			return nil, err
		}
		out = append(out, canonical)
	}
	return out, nil
}

func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

func makeExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return os.Chmod(path, info.Mode().Perm()|0o111)
}
