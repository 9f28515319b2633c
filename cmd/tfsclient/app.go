package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sergeknystautas/tfsclient/internal/config"
	"github.com/sergeknystautas/tfsclient/internal/logging"
	"github.com/sergeknystautas/tfsclient/internal/metrics"
	"github.com/sergeknystautas/tfsclient/internal/runner"
	"github.com/sergeknystautas/tfsclient/internal/session"
	"github.com/sergeknystautas/tfsclient/internal/tfs"
	"github.com/sergeknystautas/tfsclient/internal/version"
)

var errWorkspaceMissing = errors.New("workspace not found")

// app carries everything a subcommand needs. The zero value plus writers is
// the production setup; tests replace the executor and prompts.
type app struct {
	stdout      io.Writer
	stderr      io.Writer
	interactive bool

	executor runner.Executor
	ids      session.IDGenerator

	promptPassword func(server, user string) (string, error)
	promptLogin    func(server string, user, password *string) error

	style      *termStyle
	errs       *termStyle
	jsonOutput bool
	cfg        *config.Config
}

type cmdFlags struct {
	configPath string
	json       bool
	version    string
	limit      int
}

type command struct {
	args int
	run  func(a *app, ctx context.Context, args []string, fl cmdFlags) error
}

var commands = map[string]command{
	"info":      {args: 1, run: (*app).info},
	"dir":       {args: 1, run: (*app).dir},
	"print":     {args: 1, run: (*app).print},
	"history":   {args: 1, run: (*app).history},
	"workspace": {args: 1, run: (*app).workspace},
	"version":   {args: 0, run: (*app).version},
	"login":     {args: 0, run: (*app).login},
}

// run executes one subcommand and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	a.style = newTermStyle(a.stdout)
	a.errs = newTermStyle(a.stderr)
	if a.promptPassword == nil {
		a.promptPassword = promptPassword
	}
	if a.promptLogin == nil {
		a.promptLogin = promptLogin
	}

	if len(args) == 0 {
		printUsage(a.stderr)
		return 1
	}

	name := args[0]
	switch name {
	case "help", "-h", "--help":
		printUsage(a.stdout)
		return 0
	}

	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(a.stderr, "Unknown command: %s\n\n", name)
		printUsage(a.stderr)
		return 1
	}

	fl, positional, err := parseFlags(name, args[1:])
	if err != nil {
		a.errs.Error(fmt.Sprintf("%s: %v", name, err))
		return 2
	}
	if len(positional) != cmd.args {
		a.errs.Error(fmt.Sprintf("%s: expected %d argument(s), got %d", name, cmd.args, len(positional)))
		return 2
	}
	a.jsonOutput = fl.json

	if err := a.loadConfig(fl.configPath); err != nil {
		a.errs.Error(err.Error())
		return 1
	}
	defer a.finish()

	if err := cmd.run(a, ctx, positional, fl); err != nil {
		logging.L().Debug("command failed", zap.String("command", name), zap.Error(err))
		a.errs.Error(err.Error())
		return 1
	}
	return 0
}

// parseFlags accepts flags before, between and after positional arguments.
func parseFlags(name string, args []string) (cmdFlags, []string, error) {
	var fl cmdFlags
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&fl.configPath, "config", "", "config file")
	fs.BoolVar(&fl.json, "json", false, "print JSON")
	fs.StringVar(&fl.version, "version", "", "versionspec, e.g. T, C42 or D2013-04-07")
	fs.IntVar(&fl.limit, "limit", 0, "maximum number of changesets")

	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return fl, nil, err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
	if fl.limit < 0 {
		return fl, nil, fmt.Errorf("-limit must be >= 0")
	}
	return fl, positional, nil
}

func (a *app) loadConfig(flagPath string) error {
	path, err := config.ResolvePath(flagPath)
	if err != nil {
		return err
	}
	cfg, err := config.LoadOrEnv(path)
	if err != nil {
		return err
	}
	if err := logging.Init(cfg.Log); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	a.cfg = cfg
	return nil
}

func (a *app) finish() {
	if a.cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(a.cfg.MetricsTextfile); err != nil {
			logging.L().Warn("failed to write metrics textfile", zap.String("path", a.cfg.MetricsTextfile), zap.Error(err))
		}
	}
	_ = logging.Sync()
}

// sessionOptions asks for a missing password when someone is at the keyboard.
func (a *app) sessionOptions() (session.Options, error) {
	if a.cfg.User != "" && a.cfg.Password == "" && a.interactive {
		password, err := a.promptPassword(a.cfg.Server, a.cfg.User)
		if err != nil {
			return session.Options{}, err
		}
		a.cfg.Password = password
	}
	opts := a.cfg.SessionOptions()
	opts.Executor = a.executor
	opts.IDs = a.ids
	return opts, nil
}

func (a *app) withSession(ctx context.Context, fn func(ctx context.Context, s *session.Session) error) error {
	opts, err := a.sessionOptions()
	if err != nil {
		return err
	}
	return session.With(ctx, opts, fn)
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) info(ctx context.Context, args []string, _ cmdFlags) error {
	return a.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		props, err := s.GetProperties(ctx, args[0])
		if err != nil {
			return err
		}
		if a.jsonOutput {
			return a.printJSON(props)
		}

		keys := make([]string, 0, len(props))
		for k := range props {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		a.style.Println(a.style.Cyan(args[0]))
		for _, k := range keys {
			a.style.KeyValue(k, props[k])
		}
		return nil
	})
}

func (a *app) dir(ctx context.Context, args []string, fl cmdFlags) error {
	return a.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		entries, err := s.GetDirectoryFiles(ctx, args[0], fl.version)
		if err != nil {
			return err
		}
		if a.jsonOutput {
			return a.printJSON(entries)
		}

		if len(entries) == 0 {
			a.style.Println(a.style.Dim("(empty)"))
			return nil
		}
		for _, e := range entries {
			if e.IsDir() {
				a.style.Println(a.style.Cyan(e.Name + "/"))
			} else {
				a.style.Println(e.Name)
			}
		}
		return nil
	})
}

func (a *app) print(ctx context.Context, args []string, fl cmdFlags) error {
	return a.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		content, err := s.GetFile(ctx, args[0], fl.version)
		if err != nil {
			return err
		}
		if a.jsonOutput {
			return a.printJSON(map[string]string{"path": args[0], "content": content})
		}
		a.style.Println(content)
		return nil
	})
}

func (a *app) history(ctx context.Context, args []string, fl cmdFlags) error {
	return a.withSession(ctx, func(ctx context.Context, s *session.Session) error {
		changesets, err := s.GetHistory(ctx, args[0], fl.version, fl.limit)
		if err != nil {
			return err
		}
		if a.jsonOutput {
			return a.printJSON(changesets)
		}

		for i, cs := range changesets {
			if i > 0 {
				a.style.Blank()
			}
			a.style.Printf("%s  %s  %s\n",
				a.style.Yellow(fmt.Sprintf("C%d", cs.Version)),
				cs.Author,
				a.style.Dim(cs.Date.UTC().Format(time.DateTime)))
			if cs.HasComment {
				a.style.Printf("    %s\n", cs.Comment)
			}
			for _, ch := range cs.Changes {
				a.style.Bullet(fmt.Sprintf("%-8s %s", ch.ChangeType, a.style.Cyan(ch.ServerItem)))
			}
		}
		return nil
	})
}

// workspace looks a workspace up without creating one of our own.
func (a *app) workspace(ctx context.Context, args []string, _ cmdFlags) error {
	opts, err := a.sessionOptions()
	if err != nil {
		return err
	}
	lookup := session.NewClient(opts).LookupWorkspace(ctx, args[0])
	if lookup.State == session.WorkspaceLookupError {
		return lookup.Err
	}

	if a.jsonOutput {
		out := struct {
			Name      string             `json:"name"`
			State     string             `json:"state"`
			Workspace *tfs.WorkspaceInfo `json:"workspace,omitempty"`
		}{Name: args[0], State: lookup.State.String()}
		if lookup.State == session.WorkspaceFound {
			out.Workspace = &lookup.Info
		}
		if err := a.printJSON(out); err != nil {
			return err
		}
	}

	if lookup.State == session.WorkspaceNotFound {
		return fmt.Errorf("%w: %s", errWorkspaceMissing, args[0])
	}
	if !a.jsonOutput {
		a.style.KeyValue("Workspace", lookup.Info.Name)
		a.style.KeyValue("Owner", lookup.Info.Owner)
		a.style.KeyValue("Computer", lookup.Info.Computer)
		if lookup.Info.Comment != "" {
			a.style.KeyValue("Comment", lookup.Info.Comment)
		}
	}
	return nil
}

func (a *app) version(ctx context.Context, _ []string, _ cmdFlags) error {
	opts, err := a.sessionOptions()
	if err != nil {
		return err
	}
	v, err := session.NewClient(opts).ToolVersion(ctx)
	if err != nil {
		return err
	}
	compatErr := tfs.CheckToolVersion(v, a.cfg.MinToolVersion)

	if a.jsonOutput {
		return a.printJSON(map[string]any{
			"tfsclient":  version.Version,
			"tf":         v.String(),
			"compatible": compatErr == nil,
		})
	}
	a.style.KeyValue("tfsclient", version.Version)
	a.style.KeyValue("tf", v.String())
	if compatErr != nil {
		a.style.Warn(compatErr.Error())
	}
	return nil
}

// login stores a password in the secrets file next to the config.
func (a *app) login(_ context.Context, _ []string, _ cmdFlags) error {
	if !a.interactive {
		return fmt.Errorf("login needs an interactive terminal; set %s instead", config.EnvPassword)
	}

	user := a.cfg.User
	var password string
	if err := a.promptLogin(a.cfg.Server, &user, &password); err != nil {
		return err
	}

	path := config.SecretsPathFor(a.cfg.Path())
	secrets, err := config.LoadSecrets(path)
	if err != nil {
		return err
	}
	secrets.SetPassword(a.cfg.Server, user, password)
	if err := config.SaveSecrets(path, secrets); err != nil {
		return err
	}

	if user != a.cfg.User {
		a.cfg.User = user
		if err := a.cfg.Save(); err != nil {
			return err
		}
	}

	a.style.Success(fmt.Sprintf("Password for %s stored in %s", user, path))
	return nil
}
