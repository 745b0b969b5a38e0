// Package fetch downloads artifacts into ephemeral workspaces and unpacks them.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/conn-castle/toolbelt/internal/errs"
	"github.com/conn-castle/toolbelt/internal/locate"
	"github.com/conn-castle/toolbelt/internal/messages"
)

// System abstracts the external commands used for formats handled outside the process.
type System interface {
	LookPath(file string) (string, error)
	Run(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error)
}

// RealSystem implements System with os/exec.
type RealSystem struct{}

// LookPath searches PATH for an executable named file.
func (RealSystem) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// Run executes name in dir and returns its combined output. A nil env inherits the process environment.
func (RealSystem) Run(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if env != nil {
		cmd.Env = env
	}
	return cmd.CombinedOutput()
}

// Options configure a Fetcher.
type Options struct {
	HTTPClient       *http.Client
	MaxDownloadBytes int64
	// Offline makes every download fail with errs.ErrNetwork.
	Offline  bool
	System   System
	Progress io.Writer
}

// Fetcher downloads and unpacks artifact references.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
	offline  bool
	sys      System
	progress io.Writer
	sleep    func(time.Duration)
}

// New returns a Fetcher for opts.
func New(opts Options) *Fetcher {
	f := &Fetcher{
		client:   opts.HTTPClient,
		maxBytes: opts.MaxDownloadBytes,
		offline:  opts.Offline,
		sys:      opts.System,
		progress: opts.Progress,
		sleep:    time.Sleep,
	}
	if f.client == nil {
		f.client = &http.Client{Timeout: 10 * time.Minute}
	}
	if f.maxBytes <= 0 {
		f.maxBytes = DefaultMaxDownloadBytes
	}
	if f.sys == nil {
		f.sys = RealSystem{}
	}
	if f.progress == nil {
		f.progress = io.Discard
	}
	return f
}

// Payload is an unpacked artifact inside a workspace.
type Payload struct {
	// Root is the payload root after descending through single-directory wrappers.
	Root      string
	Ref       locate.Reference
	Workspace *Workspace
	owned     bool
}

// Close removes the workspace when the payload owns it.
func (p *Payload) Close() error {
	if p == nil || !p.owned {
		return nil
	}
	return p.Workspace.Close()
}

// Fetch downloads ref into a new workspace under base and unpacks it. The
// workspace is removed on failure; on success the caller must Close the payload.
func (f *Fetcher) Fetch(ctx context.Context, base string, ref locate.Reference) (*Payload, error) {
	ws, err := NewWorkspace(base, "fetch")
	if err != nil {
		return nil, err
	}
	payload, err := f.FetchInto(ctx, ws, ref)
	if err != nil {
		_ = ws.Close()
		return nil, err
	}
	payload.owned = true
	return payload, nil
}

// FetchInto downloads and unpacks ref inside an existing workspace.
func (f *Fetcher) FetchInto(ctx context.Context, ws *Workspace, ref locate.Reference) (*Payload, error) {
	if f.offline {
		return nil, fmt.Errorf(messages.FetchOfflineFmt, errs.ErrNetwork, ref.URL)
	}
	filename := ref.Filename
	if strings.TrimSpace(filename) == "" || filename != filepath.Base(filename) {
		return nil, fmt.Errorf(messages.FetchInvalidFilenameFmt, errs.ErrDownloadFailed, ref.Filename)
	}

	downloadDir := filepath.Join(ws.Dir, "download")
	if err := os.MkdirAll(downloadDir, 0o755); err != nil {
		return nil, fmt.Errorf(messages.FetchDownloadFmt, errs.ErrDownloadFailed, ref.URL, err)
	}
	archive := filepath.Join(downloadDir, filename)
	file, err := os.Create(archive)
	if err != nil {
		return nil, fmt.Errorf(messages.FetchDownloadFmt, errs.ErrDownloadFailed, ref.URL, err)
	}
	_, _ = fmt.Fprintf(f.progress, messages.FetchDownloadingFmt, ref.URL)
	if err := f.download(ctx, ref.URL, file); err != nil {
		_ = file.Close()
		return nil, err
	}
	if err := file.Close(); err != nil {
		return nil, fmt.Errorf(messages.FetchDownloadFmt, errs.ErrDownloadFailed, ref.URL, err)
	}
	if ref.Checksum != "" {
		if err := verifyChecksum(archive, ref.Checksum); err != nil {
			return nil, err
		}
	}

	extractDir := filepath.Join(ws.Dir, "payload")
	if err := f.unpack(ctx, archive, filename, extractDir); err != nil {
		return nil, err
	}
	root, err := PayloadRoot(extractDir)
	if err != nil {
		return nil, err
	}
	return &Payload{Root: root, Ref: ref, Workspace: ws}, nil
}

// PayloadRoot descends from dir while it holds exactly one entry that is a directory.
func PayloadRoot(dir string) (string, error) {
	for {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return "", fmt.Errorf(messages.FetchUnpackFmt, errs.ErrUnpackFailed, filepath.Base(dir), err)
		}
		if len(entries) == 0 {
			return "", fmt.Errorf(messages.FetchEmptyArchiveFmt, errs.ErrPayloadLayoutMismatch, dir)
		}
		if len(entries) != 1 || !entries[0].IsDir() {
			return dir, nil
		}
		dir = filepath.Join(dir, entries[0].Name())
	}
}

// RequireEntries checks that every relative path exists under root.
func RequireEntries(root string, rels []string) error {
	for _, rel := range rels {
		if !filepath.IsLocal(filepath.FromSlash(rel)) {
			return fmt.Errorf(messages.FetchPayloadMissingFmt, errs.ErrPayloadLayoutMismatch, rel, root)
		}
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel))); err != nil {
			return fmt.Errorf(messages.FetchPayloadMissingFmt, errs.ErrPayloadLayoutMismatch, rel, root)
		}
	}
	return nil
}
