package installer

import (
	"archive/tar"    // For reading .tar archives
	"archive/zip"    // For reading .zip archives
	"compress/bzip2" // For reading .bz2 compressed data
	"compress/gzip"  // For reading .gz compressed data
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bodgit/sevenzip"         // For reading .7z archives
	"github.com/h2non/filetype"          // For sniffing archive kinds from content
	"github.com/h2non/filetype/types"    // Sniff result type
	"github.com/klauspost/compress/zstd" // For reading .zst compressed data
	"github.com/xi2/xz"                  // For reading .xz compressed data

	"orbiter/internal/logger"
)

// Kind is an archive format the extractor knows how to unpack.
type Kind string

const (
	KindUnknown Kind = ""
	KindZip     Kind = "zip"
	KindTar     Kind = "tar"
	KindGzip    Kind = "gz"
	KindXz      Kind = "xz"
	KindBzip2   Kind = "bz2"
	KindZstd    Kind = "zst"
	Kind7z      Kind = "7z"
	KindDeb     Kind = "deb"
	KindDmg     Kind = "dmg"
)

// errNotTar marks a compressed stream that does not hold a tar archive.
var errNotTar = errors.New("not a tar archive")

// ToolFunc runs an external program (ar, hdiutil) in dir.
type ToolFunc func(ctx context.Context, dir, name string, args ...string) error

// Extractor unpacks downloaded assets into an install directory.
type Extractor struct {
	Tool ToolFunc
}

// NewExtractor returns an Extractor that runs external programs from PATH.
func NewExtractor() *Extractor {
	return &Extractor{Tool: runTool}
}

// DetectKind sniffs the archive kind of path from its content. When the content is not
// recognized at all, the file extension decides (disk images carry no usable magic in
// their first bytes). A recognized but unsupported kind, such as a bare executable,
// yields KindUnknown and the sniffed type name.
func DetectKind(path string) (Kind, string, error) {
	t, err := filetype.MatchFile(path)
	if err != nil {
		return KindUnknown, "", fmt.Errorf("failed to sniff %s: %w", path, err)
	}

	if t == types.Unknown {
		if strings.EqualFold(filepath.Ext(path), ".dmg") {
			return KindDmg, "dmg", nil
		}
		return KindUnknown, "", nil
	}

	switch t.Extension {
	case "zip":
		return KindZip, t.Extension, nil
	case "tar":
		return KindTar, t.Extension, nil
	case "gz":
		return KindGzip, t.Extension, nil
	case "xz":
		return KindXz, t.Extension, nil
	case "bz2":
		return KindBzip2, t.Extension, nil
	case "zst":
		return KindZstd, t.Extension, nil
	case "7z":
		return Kind7z, t.Extension, nil
	case "deb", "ar":
		return KindDeb, t.Extension, nil
	default:
		return KindUnknown, t.Extension, nil
	}
}

// Extract unpacks asset into dest according to its sniffed kind. Unsupported kinds are
// logged and skipped; the asset then stays in dest as is.
func (e *Extractor) Extract(ctx context.Context, asset, dest string) error {
	kind, sniffed, err := DetectKind(asset)
	if err != nil {
		return err
	}
	logger.Debug("[DEBUG] %s sniffed as %q\n", asset, sniffed)

	switch kind {
	case KindZip:
		return extractZip(asset, dest)
	case KindTar, KindGzip, KindXz, KindBzip2, KindZstd:
		return extractCompressed(asset, dest, kind)
	case Kind7z:
		return extract7z(asset, dest)
	case KindDeb:
		return e.extractDeb(ctx, asset, dest)
	case KindDmg:
		return e.extractDmg(ctx, asset, dest)
	default:
		if sniffed == "" {
			sniffed = "unknown"
		}
		logger.Warn("[WARN] Unsupported archive kind %s for %s, skipping extraction\n", sniffed, asset)
		return nil
	}
}

// safeJoin joins name onto dest, rejecting entries that would land outside dest, either by
// name or by walking through a symlink that already exists below dest.
func safeJoin(dest, name string) (string, error) {
	root := filepath.Clean(dest)
	target := filepath.Join(root, name)
	if !within(root, target) {
		return "", fmt.Errorf("archive entry %q escapes %s", name, dest)
	}

	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return "", err
	}
	parent, err := resolveExisting(filepath.Dir(target))
	if err != nil {
		return "", err
	}
	if !within(realRoot, parent) {
		return "", fmt.Errorf("archive entry %q escapes %s through a symlink", name, dest)
	}
	return target, nil
}

// within reports whether path is root or below it. Both must be clean.
func within(root, path string) bool {
	return path == root || strings.HasPrefix(path, root+string(os.PathSeparator))
}

// resolveExisting resolves symlinks in the longest existing prefix of path and appends the
// missing remainder unchanged.
func resolveExisting(path string) (string, error) {
	rest := ""
	for {
		resolved, err := filepath.EvalSymlinks(path)
		if err == nil {
			return filepath.Join(resolved, rest), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(path)
		if parent == path {
			return "", err
		}
		rest = filepath.Join(filepath.Base(path), rest)
		path = parent
	}
}

func writeEntry(target string, mode os.FileMode, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	// never write through a link left by an earlier member
	if info, err := os.Lstat(target); err == nil && info.Mode()&os.ModeSymlink != 0 {
		if err := os.Remove(target); err != nil {
			return err
		}
	}
	if mode.Perm() == 0 {
		mode = 0o644
	}
	outFile, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(outFile, r); err != nil {
		outFile.Close()
		return err
	}
	return outFile.Close()
}

// writeSymlink creates target pointing at link. Links whose destination, resolved from the
// directory holding target, leaves dest are rejected.
func writeSymlink(dest, target, link string) error {
	resolved := link
	if !filepath.IsAbs(link) {
		resolved = filepath.Join(filepath.Dir(target), link)
	}
	if !within(filepath.Clean(dest), filepath.Clean(resolved)) {
		return fmt.Errorf("archive symlink %s -> %s escapes %s", target, link, dest)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	_ = os.Remove(target)
	return os.Symlink(link, target)
}

// extractCompressed handles tar and compressed tar variants. A compressed stream that is
// not a tar archive is written out decompressed, named after the asset minus its extension.
func extractCompressed(src, dest string, kind Kind) error {
	logger.Debug("[DEBUG] uncompressing %s to %s\n", src, dest)
	err := withDecompressed(src, kind, func(r io.Reader) error {
		return extractTar(r, dest)
	})
	if !errors.Is(err, errNotTar) || kind == KindTar {
		return err
	}

	target := filepath.Join(dest, strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)))
	logger.Debug("[DEBUG] %s is a plain compressed file, writing %s\n", src, target)
	return withDecompressed(src, kind, func(r io.Reader) error {
		return writeEntry(target, 0o755, r)
	})
}

func withDecompressed(src string, kind Kind, fn func(io.Reader) error) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	var reader io.Reader = f
	switch kind {
	case KindGzip:
		gr, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer gr.Close()
		reader = gr
	case KindBzip2:
		reader = bzip2.NewReader(f)
	case KindXz:
		xzr, err := xz.NewReader(f, 0)
		if err != nil {
			return err
		}
		reader = xzr
	case KindZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return err
		}
		defer zr.Close()
		reader = zr
	}
	return fn(reader)
}

func extractTar(r io.Reader, dest string) error {
	tr := tar.NewReader(r)
	entries := 0

	// Iterate over each file in the archive
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break // End of archive
		}
		if err != nil {
			if entries == 0 {
				return fmt.Errorf("%w: %v", errNotTar, err)
			}
			return err
		}
		entries++

		target, err := safeJoin(dest, hdr.Name)
		if err != nil {
			return err
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(target, hdr.FileInfo().Mode(), tr); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := writeSymlink(dest, target, hdr.Linkname); err != nil {
				return err
			}
		default:
			logger.Debug("[DEBUG] Skipping tar entry %s of type %c\n", hdr.Name, hdr.Typeflag)
		}
	}
	if entries == 0 {
		return errNotTar
	}
	return nil
}

// extractZip extracts a .zip archive
func extractZip(src, dest string) error {
	r, err := zip.OpenReader(src)
	if err != nil {
		return err
	}
	defer r.Close()

	for _, f := range r.File {
		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		if f.Mode()&os.ModeSymlink != 0 {
			link, rerr := io.ReadAll(rc)
			rc.Close()
			if rerr != nil {
				return rerr
			}
			if err := writeSymlink(dest, target, string(link)); err != nil {
				return err
			}
			continue
		}
		err = writeEntry(target, f.Mode(), rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// extract7z handles .7z extraction using the sevenzip library
func extract7z(src, dest string) error {
	r, err := sevenzip.OpenReader(src)
	if err != nil {
		return fmt.Errorf("failed to open 7z archive: %w", err)
	}
	defer r.Close()

	for _, f := range r.File {
		target, err := safeJoin(dest, f.Name)
		if err != nil {
			return err
		}
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeEntry(target, f.Mode(), rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// extractDeb splits a Debian package with ar, then unpacks every tarball it contained.
func (e *Extractor) extractDeb(ctx context.Context, src, dest string) error {
	if err := e.Tool(ctx, dest, "ar", "x", src); err != nil {
		return fmt.Errorf("ar x %s: %w", src, err)
	}
	tarballs, err := filepath.Glob(filepath.Join(dest, "*.tar*"))
	if err != nil {
		return err
	}
	for _, tarball := range tarballs {
		kind, _, err := DetectKind(tarball)
		if err != nil {
			return err
		}
		if kind == KindUnknown {
			kind = KindTar
		}
		logger.Debug("[DEBUG] Extracting deb member %s\n", tarball)
		if err := extractCompressed(tarball, dest, kind); err != nil {
			return fmt.Errorf("failed to extract %s: %w", filepath.Base(tarball), err)
		}
	}
	return nil
}

// extractDmg mounts a disk image, copies its content into dest and unmounts it.
func (e *Extractor) extractDmg(ctx context.Context, src, dest string) error {
	mountPoint, err := os.MkdirTemp("", "orbiter-dmg-")
	if err != nil {
		return err
	}
	defer os.Remove(mountPoint)

	if err := e.Tool(ctx, dest, "hdiutil", "attach", "-nobrowse", "-readonly", "-mountpoint", mountPoint, src); err != nil {
		return fmt.Errorf("hdiutil attach %s: %w", src, err)
	}
	defer func() {
		if err := e.Tool(context.WithoutCancel(ctx), dest, "hdiutil", "detach", mountPoint); err != nil {
			logger.Warn("[WARN] Failed to detach %s: %v\n", mountPoint, err)
		}
	}()

	return copyTree(mountPoint, dest)
}

func runTool(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	logger.Debug("[DEBUG] Running command: %s %s\n", name, strings.Join(args, " "))
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%v\nOutput: %s", err, output)
	}
	return nil
}
