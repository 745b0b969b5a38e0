package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conn-castle/toolbelt/internal/messages"
)

// WorkspacesDir is the directory under the state dir that holds workspaces.
const WorkspacesDir = "workspaces"

// Workspace is an ephemeral directory owned by one operation.
type Workspace struct {
	Dir string
}

// NewWorkspace creates a fresh workspace under base/workspaces.
func NewWorkspace(base string, prefix string) (*Workspace, error) {
	parent := filepath.Join(base, WorkspacesDir)
	if err := os.MkdirAll(parent, 0o700); err != nil {
		return nil, fmt.Errorf(messages.FetchCreateWorkspaceFmt, parent, err)
	}
	dir, err := os.MkdirTemp(parent, prefix+"-*")
	if err != nil {
		return nil, fmt.Errorf(messages.FetchCreateWorkspaceFmt, parent, err)
	}
	return &Workspace{Dir: dir}, nil
}

// Close removes the workspace and everything in it. It is safe to call twice.
func (w *Workspace) Close() error {
	if w == nil || w.Dir == "" {
		return nil
	}
	dir := w.Dir
	w.Dir = ""
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf(messages.FetchRemoveWorkspaceFmt, dir, err)
	}
	return nil
}

// WithWorkspace creates a workspace, runs fn, and removes the workspace on
// every exit path, including a panic in fn or cancellation of ctx.
func WithWorkspace(ctx context.Context, base string, prefix string, fn func(ctx context.Context, ws *Workspace) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}
	ws, err := NewWorkspace(base, prefix)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := ws.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(ctx, ws)
}
