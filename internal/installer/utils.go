package installer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"orbiter/internal/logger"
)

// ErrDownload is returned when a resource cannot be fetched.
var ErrDownload = errors.New("download failed")

// DefaultFileName names a download when neither the response nor the URL provide a name.
const DefaultFileName = "tmp.bin"

var contentDispositionFilename = regexp.MustCompile(`filename=(.*$)`)

// downloadFile GETs rawURL and saves the body as stagingDir/<name>, where name comes from
// the Content-Disposition header, else the last segment of the final (post-redirect) URL,
// else DefaultFileName. It returns the saved path.
func downloadFile(ctx context.Context, client *http.Client, rawURL, stagingDir string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDownload, rawURL, err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: GET %s: %v", ErrDownload, rawURL, err)
	}
	// Ensure the response body stream is closed when the function returns.
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			logger.Error("[ERROR] Failed to close response body: %s\n", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: GET %s: %s", ErrDownload, rawURL, resp.Status)
	}

	name := resourceName(resp)
	destPath := filepath.Join(stagingDir, name)
	logger.Info("[INFO] Downloading %s to %s\n", rawURL, destPath)

	if err := os.MkdirAll(stagingDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create staging dir %s: %w", stagingDir, err)
	}
	out, err := os.Create(destPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file %s: %w", destPath, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil {
			logger.Error("[ERROR] Failed to close destination file: %s\n", cerr)
		}
	}()

	// Copy the entire response body into the destination file
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", fmt.Errorf("%w: failed to write response to %s: %v", ErrDownload, destPath, err)
	}

	logger.Debug("[DEBUG] Downloaded %s\n", destPath)
	return destPath, nil
}

// resourceName infers the file name of a download.
func resourceName(resp *http.Response) string {
	if cd := resp.Header.Get("Content-Disposition"); cd != "" {
		if m := contentDispositionFilename.FindStringSubmatch(cd); m != nil {
			name := strings.Trim(strings.TrimSpace(m[1]), `"'`)
			if name = filepath.Base(name); name != "" && name != "." && name != "/" {
				return name
			}
		}
		logger.Debug("[DEBUG] Content-Disposition without filename: %s\n", cd)
	}
	u := resp.Request.URL
	if u == nil {
		return DefaultFileName
	}
	return nameFromURL(u)
}

// nameFromURL returns the last path segment of u, or DefaultFileName when it is empty.
func nameFromURL(u *url.URL) string {
	segments := strings.Split(u.Path, "/")
	if last := segments[len(segments)-1]; last != "" {
		return last
	}
	return DefaultFileName
}

// moveInto renames path into dir, creating dir when missing, and returns the new path.
func moveInto(path, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	dest := filepath.Join(dir, filepath.Base(path))
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("failed to move %s to %s: %w", path, dest, err)
	}
	return dest, nil
}

// copyFile copies a file from src to dst, preserving permissions.
// It creates any missing directories in the destination path.
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source failed: %w", err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("mkdir failed: %w", err)
	}

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create target failed: %w", err)
	}
	defer func() {
		cerr := out.Close()
		if err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy failed: %w", err)
	}

	// Preserve the source mode
	if stat, err2 := os.Stat(src); err2 == nil {
		return os.Chmod(dst, stat.Mode())
	}
	return nil
}

// copyTree copies the contents of src into dst, recreating symlinks as symlinks.
func copyTree(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case d.IsDir():
			return os.MkdirAll(target, 0o755)
		case d.Type()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			_ = os.Remove(target)
			return os.Symlink(link, target)
		default:
			return copyFile(path, target)
		}
	})
}
