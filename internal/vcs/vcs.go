// Package vcs composes command lines for the Team Foundation version control
// client. It produces argument vectors only; running them is up to the caller.
package vcs

// Command is a ready-to-run invocation.
type Command struct {
	// Name is the executable to run.
	Name string
	// Subcommand is the tf command ("dir", "history", ...), used for output
	// interpretation and metrics.
	Subcommand string
	// Args excludes Name and starts with Subcommand.
	Args []string
}

// Credentials identify the session against the server.
type Credentials struct {
	User     string
	Password string
}

// Target is everything a builder needs besides per-command arguments.
type Target struct {
	// ToolPath is the tf executable, e.g. "/opt/tee/tf" or "tf".
	ToolPath  string
	ServerURL string
	Workspace string
	Credentials
}

// CommandBuilder generates tf invocations. Every server command has the shape
//
//	tf <command> /server:<url> [/workspace:<name>] /login:<user>,<password> <args> /noprompt
type CommandBuilder interface {
	// Info returns the command for item properties of an itemspec.
	Info(itemspec string) Command
	// Dir returns the command listing a folder at a versionspec.
	Dir(folder, version string) Command
	// Print returns the command writing a file's content to stdout.
	Print(path, version string) Command
	// History returns the XML history command. limit <= 0 means unlimited.
	History(itemspec, version string, limit int) Command
	// Workspaces returns the command describing the named workspace.
	Workspaces(name string) Command
	// NewWorkspace returns the command creating a workspace.
	NewWorkspace(name string) Command
	// DeleteWorkspace returns the command deleting a workspace.
	DeleteWorkspace(name string) Command
	// MapFolder returns the command mapping a server path to a local folder
	// in the session workspace.
	MapFolder(serverPath, localPath string) Command
	// AcceptEULA returns the license acceptance command, or false when the
	// client has no such step.
	AcceptEULA() (Command, bool)
	// Version returns the command printing the client banner.
	Version() Command
}
