package session

import (
	"context"
	"strings"

	"github.com/sergeknystautas/tfsclient/internal/tfs"
)

// LookupState is the result kind of LookupWorkspace.
type LookupState int

const (
	WorkspaceFound LookupState = iota
	WorkspaceNotFound
	WorkspaceLookupError
)

func (s LookupState) String() string {
	switch s {
	case WorkspaceFound:
		return "found"
	case WorkspaceNotFound:
		return "not found"
	default:
		return "error"
	}
}

// WorkspaceLookup is the tri-state answer to "does this workspace exist".
type WorkspaceLookup struct {
	State LookupState
	Info  tfs.WorkspaceInfo // set when State is WorkspaceFound
	Err   error             // set when State is WorkspaceLookupError
}

const noWorkspaceSentinel = "No workspace matching"

// LookupWorkspace checks whether name exists. The tool reports a missing
// workspace either with exit code 0 or 1 depending on whether the host has
// any workspaces at all; both count as not found.
func (c *Client) LookupWorkspace(ctx context.Context, name string) WorkspaceLookup {
	res, err := c.run(ctx, c.builder.Workspaces(name))
	if err != nil {
		return WorkspaceLookup{State: WorkspaceLookupError, Err: err}
	}

	out := tfs.Classify(res.Lines, res.ExitCode)
	if strings.HasPrefix(strings.TrimSpace(out.Detail), noWorkspaceSentinel) {
		return WorkspaceLookup{State: WorkspaceNotFound}
	}
	if out.Kind == tfs.OutcomeFailure {
		return WorkspaceLookup{State: WorkspaceLookupError, Err: &tfs.ExecutionError{
			Command:  "workspaces",
			Detail:   out.Detail,
			ExitCode: res.ExitCode,
		}}
	}
	if out.Kind == tfs.OutcomeEmpty {
		return WorkspaceLookup{State: WorkspaceNotFound}
	}

	info, err := tfs.ParseWorkspaceListing(res.Lines)
	if err != nil {
		return WorkspaceLookup{State: WorkspaceLookupError, Err: err}
	}
	return WorkspaceLookup{State: WorkspaceFound, Info: info}
}
