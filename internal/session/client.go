// Package session drives the tf client on behalf of one ephemeral workspace.
// A Client composes commands, runs them and routes the output through the
// matching parser. A Session adds the workspace lifecycle around a Client.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"go.uber.org/zap"

	"github.com/sergeknystautas/tfsclient/internal/logging"
	"github.com/sergeknystautas/tfsclient/internal/metrics"
	"github.com/sergeknystautas/tfsclient/internal/runner"
	"github.com/sergeknystautas/tfsclient/internal/tfs"
	"github.com/sergeknystautas/tfsclient/internal/vcs"
)

// Options configure a Client.
type Options struct {
	// ToolPath is the tf executable; "tf" from PATH when empty.
	ToolPath string
	// Flavor selects the client syntax, see vcs.FlavorEverywhere.
	Flavor      string
	ServerURL   string
	Credentials vcs.Credentials
	// WorkspacePrefix is the stable part of the generated workspace name.
	WorkspacePrefix string
	// AcceptEULA runs the license acceptance step when a session opens.
	AcceptEULA bool
	// MinToolVersion is a semver constraint checked when a session opens.
	MinToolVersion string
	// CommandTimeout bounds every tf invocation when > 0. The process group
	// is killed when it expires.
	CommandTimeout time.Duration

	// Executor runs commands; an instrumented ExecRunner when nil.
	Executor runner.Executor
	// IDs generates the workspace suffix; UUIDGenerator when nil.
	IDs IDGenerator
}

// Client runs tf commands against one server in one workspace. It holds no
// locks: calls on the same Client must not overlap.
type Client struct {
	exec      runner.Executor
	builder   vcs.CommandBuilder
	history   *tfs.HistoryParser
	workspace string
	log       *zap.Logger
}

// NewClient generates the workspace name and prepares the command builder.
// It does not touch the server.
func NewClient(opts Options) *Client {
	ids := opts.IDs
	if ids == nil {
		ids = UUIDGenerator{}
	}
	exec := opts.Executor
	if exec == nil {
		inst := runner.Instrument(runner.NewExecRunner())
		inst.Redact = vcs.RedactArgs
		inst.Timeout = opts.CommandTimeout
		exec = inst
	}

	name := WorkspaceName(opts.WorkspacePrefix, ids)
	builder := vcs.NewCommandBuilder(opts.Flavor, vcs.Target{
		ToolPath:    opts.ToolPath,
		ServerURL:   opts.ServerURL,
		Workspace:   name,
		Credentials: opts.Credentials,
	})

	return &Client{
		exec:      exec,
		builder:   builder,
		history:   tfs.NewHistoryParser(),
		workspace: name,
		log:       logging.Named("session").With(zap.String("workspace", name)),
	}
}

// WorkspaceName returns the generated workspace name.
func (c *Client) WorkspaceName() string {
	return c.workspace
}

// run executes cmd and returns the raw result.
func (c *Client) run(ctx context.Context, cmd vcs.Command) (*runner.Result, error) {
	res, err := c.exec.Run(ctx, cmd.Name, cmd.Args...)
	if err != nil {
		return nil, fmt.Errorf("tf %s: %w", cmd.Subcommand, err)
	}
	return res, nil
}

// interpret runs cmd and applies the per-command output policy.
func (c *Client) interpret(ctx context.Context, cmd vcs.Command) (tfs.Outcome, error) {
	res, err := c.run(ctx, cmd)
	if err != nil {
		return tfs.Outcome{}, err
	}
	return tfs.Interpret(cmd.Subcommand, res.Lines, res.ExitCode)
}

// GetProperties returns the properties of the item addressed by itemspec.
func (c *Client) GetProperties(ctx context.Context, itemspec string) (tfs.ItemProperties, error) {
	out, err := c.interpret(ctx, c.builder.Info(itemspec))
	if err != nil {
		return nil, err
	}
	return tfs.ParseItemProperties(out.Lines), nil
}

// GetDirectoryFiles lists folder at version. An empty folder yields an empty
// slice, not an error.
func (c *Client) GetDirectoryFiles(ctx context.Context, folder, version string) ([]tfs.FileEntry, error) {
	out, err := c.interpret(ctx, c.builder.Dir(folder, version))
	if err != nil {
		return nil, err
	}
	if out.Kind == tfs.OutcomeEmpty {
		return []tfs.FileEntry{}, nil
	}
	return tfs.ParseDirectoryListing(out.Lines), nil
}

// GetFile returns the content of path at version, lines joined with "\n".
func (c *Client) GetFile(ctx context.Context, path, version string) (string, error) {
	out, err := c.interpret(ctx, c.builder.Print(path, version))
	if err != nil {
		return "", err
	}
	return strings.Join(out.Lines, "\n"), nil
}

// GetHistory returns changesets for itemspec, newest first, starting at
// startVersion. limit <= 0 means all of them. Missing history is an error.
func (c *Client) GetHistory(ctx context.Context, itemspec, startVersion string, limit int) ([]tfs.Changeset, error) {
	out, err := c.interpret(ctx, c.builder.History(itemspec, startVersion, limit))
	if err != nil {
		return nil, err
	}
	history, err := c.history.Parse(strings.Join(out.Lines, ""))
	if err != nil {
		return nil, fmt.Errorf("parsing history of %s: %w", itemspec, err)
	}
	return history, nil
}

// GetWorkspaceProperties describes the named workspace.
func (c *Client) GetWorkspaceProperties(ctx context.Context, name string) (tfs.WorkspaceInfo, error) {
	out, err := c.interpret(ctx, c.builder.Workspaces(name))
	if err != nil {
		return tfs.WorkspaceInfo{}, err
	}
	return tfs.ParseWorkspaceListing(out.Lines)
}

// CreateWorkspace creates a workspace. Tool-reported failures return false
// without an error; the error is reserved for commands that could not run.
func (c *Client) CreateWorkspace(ctx context.Context, name string) (bool, error) {
	return c.workspaceCommand(ctx, "create", c.builder.NewWorkspace(name), fmt.Sprintf("Workspace '%s' created.", name))
}

// DeleteWorkspace deletes a workspace with the same conventions as CreateWorkspace.
func (c *Client) DeleteWorkspace(ctx context.Context, name string) (bool, error) {
	return c.workspaceCommand(ctx, "delete", c.builder.DeleteWorkspace(name), fmt.Sprintf("Workspace '%s' deleted.", name))
}

func (c *Client) workspaceCommand(ctx context.Context, action string, cmd vcs.Command, want string) (bool, error) {
	res, err := c.run(ctx, cmd)
	if err != nil {
		metrics.RecordWorkspace(action, false)
		return false, err
	}
	ok := res.ExitCode == 0 && res.FirstLine() == want
	metrics.RecordWorkspace(action, ok)
	if !ok {
		c.log.Warn("workspace command rejected",
			zap.String("action", action),
			zap.Int("exit_code", res.ExitCode),
			zap.String("output", res.FirstLine()))
	}
	return ok, nil
}

// MapWorkingFolder maps serverPath to localPath in the session workspace.
func (c *Client) MapWorkingFolder(ctx context.Context, serverPath, localPath string) error {
	if _, err := c.interpret(ctx, c.builder.MapFolder(serverPath, localPath)); err != nil {
		return err
	}
	c.log.Debug("working folder mapped", zap.String("server_path", serverPath), zap.String("local_path", localPath))
	return nil
}

// AcceptEULA accepts the client license non-interactively. The tool's answer
// is not checked; later commands fail loudly if the license is still pending.
func (c *Client) AcceptEULA(ctx context.Context) error {
	cmd, ok := c.builder.AcceptEULA()
	if !ok {
		return nil
	}
	res, err := c.run(ctx, cmd)
	if err != nil {
		return err
	}
	if res.ExitCode != 0 {
		c.log.Warn("eula acceptance returned non-zero", zap.Int("exit_code", res.ExitCode), zap.String("output", res.FirstLine()))
	}
	return nil
}

// ToolVersion reads the client version from its banner. The banner command
// may exit non-zero, so only the text is considered.
func (c *Client) ToolVersion(ctx context.Context) (*semver.Version, error) {
	res, err := c.run(ctx, c.builder.Version())
	if err != nil {
		return nil, err
	}
	return tfs.ParseToolVersion(res.Lines)
}
