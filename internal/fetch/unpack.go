package fetch

import (
	"archive/tar"
	"archive/zip"
	"compress/bzip2"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/conn-castle/toolbelt/internal/errs"
	"github.com/conn-castle/toolbelt/internal/messages"
)

// Format is an archive container recognized by filename suffix.
type Format string

// Recognized formats. FormatRaw is a single file copied as-is.
const (
	FormatTarGz  Format = "tar.gz"
	FormatTarZst Format = "tar.zst"
	FormatTarLz4 Format = "tar.lz4"
	FormatTarBz2 Format = "tar.bz2"
	FormatTarXz  Format = "tar.xz"
	FormatTar    Format = "tar"
	FormatZip    Format = "zip"
	FormatRaw    Format = "raw"
)

var suffixFormats = []struct {
	suffix string
	format Format
}{
	{".tar.gz", FormatTarGz},
	{".tgz", FormatTarGz},
	{".tar.zst", FormatTarZst},
	{".tzst", FormatTarZst},
	{".tar.lz4", FormatTarLz4},
	{".tar.bz2", FormatTarBz2},
	{".tbz2", FormatTarBz2},
	{".tar.xz", FormatTarXz},
	{".txz", FormatTarXz},
	{".tar", FormatTar},
	{".zip", FormatZip},
}

// DetectFormat returns the format implied by filename.
func DetectFormat(filename string) Format {
	lower := strings.ToLower(filename)
	for _, sf := range suffixFormats {
		if strings.HasSuffix(lower, sf.suffix) {
			return sf.format
		}
	}
	return FormatRaw
}

// unpack extracts archive into dest according to its filename.
func (f *Fetcher) unpack(ctx context.Context, archive string, filename string, dest string) error {
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return fmt.Errorf(messages.FetchUnpackFmt, errs.ErrUnpackFailed, filename, err)
	}
	format := DetectFormat(filename)
	switch format {
	case FormatZip:
		return unzip(ctx, archive, dest)
	case FormatTarXz:
		return f.untarExternal(ctx, archive, dest)
	case FormatRaw:
		return copyRaw(archive, filepath.Join(dest, filename))
	}

	file, err := os.Open(archive)
	if err != nil {
		return fmt.Errorf(messages.FetchUnpackFmt, errs.ErrUnpackFailed, filename, err)
	}
	defer func() { _ = file.Close() }()

	var r io.Reader
	switch format {
	case FormatTarGz:
		gz, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf(messages.FetchUnpackFmt, errs.ErrUnpackFailed, filename, err)
		}
		defer func() { _ = gz.Close() }()
		r = gz
	case FormatTarZst:
		dec, err := zstd.NewReader(file)
		if err != nil {
			return fmt.Errorf(messages.FetchUnpackFmt, errs.ErrUnpackFailed, filename, err)
		}
		defer dec.Close()
		r = dec
	case FormatTarLz4:
		r = lz4.NewReader(file)
	case FormatTarBz2:
		r = bzip2.NewReader(file)
	default:
		r = file
	}
	if err := untar(ctx, r, dest); err != nil {
		return fmt.Errorf(messages.FetchUnpackFmt, errs.ErrUnpackFailed, filename, err)
	}
	return nil
}

func untar(ctx context.Context, r io.Reader, dest string) error {
	tr := tar.NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
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
			if err := writeEntry(target, tr, hdr.FileInfo().Mode()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := writeSymlink(hdr.Name, target, hdr.Linkname); err != nil {
				return err
			}
		case tar.TypeLink:
			src, err := safeJoin(dest, hdr.Linkname)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return err
			}
			if err := os.Link(src, target); err != nil {
				return err
			}
		default:
			// Devices, fifos and global headers carry nothing an install root needs.
		}
	}
}

func unzip(ctx context.Context, archive string, dest string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return fmt.Errorf(messages.FetchUnpackFmt, errs.ErrUnpackFailed, filepath.Base(archive), err)
	}
	defer func() { _ = zr.Close() }()

	for _, file := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := extractZipEntry(dest, file); err != nil {
			return fmt.Errorf(messages.FetchUnpackFmt, errs.ErrUnpackFailed, filepath.Base(archive), err)
		}
	}
	return nil
}

func extractZipEntry(dest string, file *zip.File) error {
	target, err := safeJoin(dest, file.Name)
	if err != nil {
		return err
	}
	mode := file.Mode()
	if mode.IsDir() {
		return os.MkdirAll(target, 0o755)
	}
	rc, err := file.Open()
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	if mode&os.ModeSymlink != 0 {
		linkname, err := io.ReadAll(io.LimitReader(rc, 4096))
		if err != nil {
			return err
		}
		return writeSymlink(file.Name, target, string(linkname))
	}
	return writeEntry(target, rc, mode)
}

// safeJoin resolves name under dest, rejecting absolute and escaping paths.
func safeJoin(dest string, name string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(strings.TrimPrefix(name, "./")))
	if clean == "." {
		return dest, nil
	}
	if !filepath.IsLocal(clean) {
		return "", fmt.Errorf(messages.FetchUnsafePathFmt, name)
	}
	return filepath.Join(dest, clean), nil
}

// writeSymlink creates a symlink whose target stays inside the extraction dir.
func writeSymlink(name string, target string, linkname string) error {
	if filepath.IsAbs(linkname) {
		return fmt.Errorf(messages.FetchUnsafeLinkFmt, name, linkname)
	}
	resolved := filepath.Join(filepath.Dir(filepath.FromSlash(name)), filepath.FromSlash(linkname))
	if !filepath.IsLocal(resolved) {
		return fmt.Errorf(messages.FetchUnsafeLinkFmt, name, linkname)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	_ = os.Remove(target)
	return os.Symlink(linkname, target)
}

// writeEntry writes a regular file with executable bits normalized to 0755 or 0644.
func writeEntry(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	perm := os.FileMode(0o644)
	if mode.Perm()&0o111 != 0 {
		perm = 0o755
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Chmod(target, perm)
}

func copyRaw(src string, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf(messages.FetchUnpackFmt, errs.ErrUnpackFailed, filepath.Base(dst), err)
	}
	defer func() { _ = in.Close() }()
	if err := writeEntry(dst, in, 0o644); err != nil {
		return fmt.Errorf(messages.FetchUnpackFmt, errs.ErrUnpackFailed, filepath.Base(dst), err)
	}
	return nil
}

// untarExternal delegates xz archives to the system tar.
func (f *Fetcher) untarExternal(ctx context.Context, archive string, dest string) error {
	for _, dep := range []string{"tar", "xz"} {
		if _, err := f.sys.LookPath(dep); err != nil {
			return fmt.Errorf(messages.FetchMissingToolFmt, errs.ErrMissingDependency, dep, filepath.Base(archive))
		}
	}
	if out, err := f.sys.Run(ctx, dest, nil, "tar", "-xJf", archive, "-C", dest); err != nil {
		return fmt.Errorf(messages.FetchExternalUnpackFmt, errs.ErrUnpackFailed, filepath.Base(archive), err, strings.TrimSpace(string(out)))
	}
	return nil
}
