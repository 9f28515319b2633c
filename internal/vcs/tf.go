package vcs

import (
	"fmt"
	"strings"
)

// DefaultVersion is the versionspec for the latest version ("tip").
const DefaultVersion = "T"

// TFCommandBuilder implements CommandBuilder for Team Explorer Everywhere.
type TFCommandBuilder struct {
	target Target
}

// Target returns the builder's target.
func (b *TFCommandBuilder) Target() Target {
	return b.target
}

func (b *TFCommandBuilder) Info(itemspec string) Command {
	return b.server("info", true, itemspec)
}

func (b *TFCommandBuilder) Dir(folder, version string) Command {
	return b.server("dir", true, folder, "/version:"+versionOrTip(version))
}

func (b *TFCommandBuilder) Print(path, version string) Command {
	return b.server("print", true, path, "/version:"+versionOrTip(version))
}

func (b *TFCommandBuilder) History(itemspec, version string, limit int) Command {
	args := []string{itemspec, "/recursive", "/format:xml", "/version:" + versionOrTip(version)}
	if limit > 0 {
		args = append(args, fmt.Sprintf("/stopafter:%d", limit))
	}
	return b.server("history", true, args...)
}

func (b *TFCommandBuilder) Workspaces(name string) Command {
	return b.server("workspaces", false, name)
}

func (b *TFCommandBuilder) NewWorkspace(name string) Command {
	return b.server("workspace", false, "/new", name)
}

func (b *TFCommandBuilder) DeleteWorkspace(name string) Command {
	return b.server("workspace", false, "/delete", name)
}

func (b *TFCommandBuilder) MapFolder(serverPath, localPath string) Command {
	return b.server("workfold", true, "/map", serverPath, localPath)
}

func (b *TFCommandBuilder) AcceptEULA() (Command, bool) {
	return Command{Name: b.target.ToolPath, Subcommand: "eula", Args: []string{"eula", "/accept"}}, true
}

func (b *TFCommandBuilder) Version() Command {
	return Command{Name: b.target.ToolPath, Subcommand: "help", Args: []string{"help"}}
}

// server composes a command addressed to the server. The workspace option is
// added only for commands that operate inside the session workspace.
func (b *TFCommandBuilder) server(subcommand string, useWorkspace bool, args ...string) Command {
	argv := []string{subcommand, "/server:" + b.target.ServerURL}
	if useWorkspace && b.target.Workspace != "" {
		argv = append(argv, "/workspace:"+b.target.Workspace)
	}
	if b.target.User != "" || b.target.Password != "" {
		argv = append(argv, fmt.Sprintf("/login:%s,%s", b.target.User, b.target.Password))
	}
	argv = append(argv, args...)
	argv = append(argv, "/noprompt")
	return Command{Name: b.target.ToolPath, Subcommand: subcommand, Args: argv}
}

func versionOrTip(version string) string {
	if version == "" {
		return DefaultVersion
	}
	return version
}

// RedactArgs masks the password of a /login option for logging.
func RedactArgs(args []string) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		if rest, ok := strings.CutPrefix(arg, "/login:"); ok {
			user, _, _ := strings.Cut(rest, ",")
			arg = "/login:" + user + ",****"
		}
		out[i] = arg
	}
	return out
}
