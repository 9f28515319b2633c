package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/sergeknystautas/tfsclient/internal/tfs"
)

// ErrWorkspaceNotCreated is returned by Open when the tool refused to create
// the session workspace.
var ErrWorkspaceNotCreated = errors.New("workspace not created")

// Session is a Client whose workspace exists on the server for the lifetime
// of the session. Close must be called; With does that automatically.
type Session struct {
	*Client
	closeOnce sync.Once
}

// Open prepares the client (license, version gate) and makes sure the
// session workspace exists, creating it only when it is missing.
func Open(ctx context.Context, opts Options) (*Session, error) {
	c := NewClient(opts)

	if opts.AcceptEULA {
		if err := c.AcceptEULA(ctx); err != nil {
			return nil, fmt.Errorf("accepting license: %w", err)
		}
	}

	if opts.MinToolVersion != "" {
		v, err := c.ToolVersion(ctx)
		if err != nil {
			return nil, fmt.Errorf("checking tf version: %w", err)
		}
		if err := tfs.CheckToolVersion(v, opts.MinToolVersion); err != nil {
			return nil, err
		}
	}

	if err := c.ensureWorkspace(ctx); err != nil {
		return nil, err
	}
	return &Session{Client: c}, nil
}

func (c *Client) ensureWorkspace(ctx context.Context) error {
	lookup := c.LookupWorkspace(ctx, c.workspace)
	switch lookup.State {
	case WorkspaceFound:
		c.log.Debug("workspace already exists", zap.String("computer", lookup.Info.Computer))
		return nil
	case WorkspaceLookupError:
		return fmt.Errorf("looking up workspace %s: %w", c.workspace, lookup.Err)
	}

	c.log.Debug("no workspace on this host, creating one")
	created, err := c.CreateWorkspace(ctx, c.workspace)
	if err != nil {
		return fmt.Errorf("creating workspace %s: %w", c.workspace, err)
	}
	if !created {
		return fmt.Errorf("%w: %s", ErrWorkspaceNotCreated, c.workspace)
	}
	return nil
}

// Close deletes the session workspace. Failures are logged, never returned:
// nobody is waiting on the cleanup. Calling Close again does nothing.
func (s *Session) Close(ctx context.Context) {
	s.closeOnce.Do(func() {
		deleted, err := s.DeleteWorkspace(ctx, s.workspace)
		switch {
		case err != nil:
			s.log.Warn("workspace teardown failed", zap.Error(err))
		case !deleted:
			s.log.Warn("workspace teardown rejected by server")
		default:
			s.log.Debug("workspace deleted")
		}
	})
}

// With opens a session, runs fn and closes the session on every exit path,
// including panics. Teardown runs even if ctx is already cancelled.
func With(ctx context.Context, opts Options, fn func(ctx context.Context, s *Session) error) error {
	s, err := Open(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close(context.WithoutCancel(ctx))
	return fn(ctx, s)
}
