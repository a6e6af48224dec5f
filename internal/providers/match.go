package providers

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"orbiter/internal/config"
	"orbiter/internal/logger"
	"orbiter/internal/platform"
)

// Built-in asset name patterns, matched against lower-cased names.
var (
	osPatterns = map[platform.OS]string{
		platform.Linux:   `(linux|linux-gnu)`,
		platform.MacOS:   `(darwin|mac|macos|osx|os-x)`,
		platform.Windows: `(windows|cygwin|[-_]win|win64|win32)`,
	}
	archPatterns = map[platform.Arch]string{
		platform.X86_64:  `(x86_64|amd64|intel|linux64)`,
		platform.Aarch64: `(arm64|aarch64)`,
	}
)

// OSPattern returns the built-in asset pattern for os.
func OSPattern(os platform.OS) (*regexp.Regexp, error) {
	p, ok := osPatterns[os]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOS, os)
	}
	return regexp.MustCompile(p), nil
}

// ArchPattern returns the built-in asset pattern for arch. amd64 and arm64 are accepted.
func ArchPattern(arch platform.Arch) (*regexp.Regexp, error) {
	p, ok := archPatterns[platform.NormalizeArch(string(arch))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedArch, arch)
	}
	return regexp.MustCompile(p), nil
}

// SelectRelease picks the release tagged ver (case-insensitive) or, without ver, the first
// release whose tag does not mention "nightly".
func SelectRelease(releases []Release, ver string) (Release, error) {
	for _, rel := range releases {
		if ver != "" {
			if strings.EqualFold(rel.TagName, ver) {
				return rel, nil
			}
			continue
		}
		if !strings.Contains(rel.TagName, "nightly") {
			return rel, nil
		}
	}
	if ver != "" {
		return Release{}, fmt.Errorf("%w: tag %q", ErrNoRelease, ver)
	}
	return Release{}, fmt.Errorf("%w: only nightly or no releases", ErrNoRelease)
}

// SelectAsset picks the asset to download from a release.
//
// Checksum files (names containing "sha256") are never candidates. A binaryPattern, when
// given, alone decides the candidates. Otherwise assets whose lower-cased name matches the
// OS pattern OR the arch pattern are candidates, and if none do every remaining asset is.
// The first candidate in provider order wins.
func SelectAsset(assets []Asset, binaryPattern string, os platform.OS, arch platform.Arch) (Asset, error) {
	var pool []Asset
	for _, a := range assets {
		if !strings.Contains(a.Name, "sha256") {
			pool = append(pool, a)
		}
	}

	var candidates []Asset
	if binaryPattern != "" {
		re, err := regexp.Compile(binaryPattern)
		if err != nil {
			return Asset{}, fmt.Errorf("invalid binary_pattern %q: %w", binaryPattern, err)
		}
		for _, a := range pool {
			if re.MatchString(a.Name) {
				candidates = append(candidates, a)
			}
		}
	} else {
		reOS, err := OSPattern(os)
		if err != nil {
			return Asset{}, err
		}
		reArch, err := ArchPattern(arch)
		if err != nil {
			return Asset{}, err
		}
		for _, a := range pool {
			name := strings.ToLower(a.Name)
			if reOS.MatchString(name) || reArch.MatchString(name) {
				candidates = append(candidates, a)
			}
		}
		if len(candidates) == 0 {
			logger.Debug("[DEBUG] No asset matches %s or %s, falling back to all assets\n", os, arch)
			candidates = pool
		}
	}

	if len(candidates) == 0 {
		return Asset{}, ErrNoAsset
	}
	return candidates[0], nil
}

// ReleaseAsset lists the releases of repo and picks the asset for os/arch.
func (c *Client) ReleaseAsset(ctx context.Context, repo config.Repo, os platform.OS, arch platform.Arch) (Asset, error) {
	releases, err := c.Releases(ctx, repo.ProviderOrDefault(), repo.Repo)
	if err != nil {
		return Asset{}, err
	}
	rel, err := SelectRelease(releases, repo.Ver)
	if err != nil {
		return Asset{}, fmt.Errorf("%s: %w", repo.Repo, err)
	}
	logger.Debug("[DEBUG] Release tag: %s with %d assets\n", rel.TagName, len(rel.Assets))

	asset, err := SelectAsset(rel.Assets, repo.BinaryPattern, os, arch)
	if err != nil {
		return Asset{}, fmt.Errorf("%s@%s: %w", repo.Repo, rel.TagName, err)
	}
	logger.Debug("[DEBUG] Found matching asset: %s\n", asset.Name)
	return asset, nil
}
