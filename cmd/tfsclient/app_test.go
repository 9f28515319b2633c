package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/sergeknystautas/tfsclient/internal/config"
	"github.com/sergeknystautas/tfsclient/internal/runner"
	"github.com/sergeknystautas/tfsclient/internal/session"
	"github.com/sergeknystautas/tfsclient/internal/tfs"
)

var (
	existingWorkspace = runner.Result{Lines: []string{
		"Collection: http://server/defaultcollection/",
		"Workspace        Owner Computer Comment",
		"---------------- ----- -------- -------",
		"tfsclient_test01 user  BUILDBOX",
	}}
	deletedWorkspace = runner.Result{Lines: []string{"Workspace 'tfsclient_test01' deleted."}}
)

// testApp wires an app to a stubbed tf and a config file in a temp dir.
func testApp(t *testing.T, configYAML string, responses ...runner.Result) (*app, *runner.Stub, *bytes.Buffer, *bytes.Buffer, string) {
	t.Helper()
	for _, name := range []string{config.EnvConfigPath, config.EnvServer, config.EnvUser, config.EnvPassword, config.EnvToolPath} {
		t.Setenv(name, "")
	}

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(configYAML), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	stub := &runner.Stub{Responses: responses}
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	a := &app{
		stdout:   stdout,
		stderr:   stderr,
		executor: stub,
		ids:      session.IDFunc(func() string { return "test01" }),
	}
	return a, stub, stdout, stderr, configPath
}

const basicConfig = "server: http://server/defaultcollection\n"

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		positional []string
		want       cmdFlags
		wantErr    bool
	}{
		{
			name:       "no flags",
			args:       []string{"$/p"},
			positional: []string{"$/p"},
		},
		{
			name:       "json flag before target",
			args:       []string{"-json", "$/p"},
			positional: []string{"$/p"},
			want:       cmdFlags{json: true},
		},
		{
			name:       "flags after target (should still work)",
			args:       []string{"$/p", "--json", "-version", "C42", "-limit", "5"},
			positional: []string{"$/p"},
			want:       cmdFlags{json: true, version: "C42", limit: 5},
		},
		{
			name:       "config in the middle",
			args:       []string{"-config", "/tmp/c.yaml", "$/p"},
			positional: []string{"$/p"},
			want:       cmdFlags{configPath: "/tmp/c.yaml"},
		},
		{
			name:    "unknown flag",
			args:    []string{"-recursive", "$/p"},
			wantErr: true,
		},
		{
			name:    "negative limit",
			args:    []string{"-limit", "-1", "$/p"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fl, positional, err := parseFlags("history", tt.args)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFlags() error = %v", err)
			}
			if fl != tt.want {
				t.Errorf("flags = %+v, want %+v", fl, tt.want)
			}
			if !reflect.DeepEqual(positional, tt.positional) {
				t.Errorf("positional = %v, want %v", positional, tt.positional)
			}
		})
	}
}

func TestRun_Usage(t *testing.T) {
	a, _, stdout, stderr, _ := testApp(t, basicConfig)

	if code := a.run(context.Background(), []string{"help"}); code != 0 {
		t.Errorf("help exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "Usage:") {
		t.Errorf("help output missing usage:\n%s", stdout)
	}

	if code := a.run(context.Background(), []string{"checkin"}); code != 1 {
		t.Errorf("unknown command exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "Unknown command: checkin") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_WrongArgumentCount(t *testing.T) {
	a, stub, _, stderr, configPath := testApp(t, basicConfig)

	if code := a.run(context.Background(), []string{"dir", "-config", configPath}); code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr.String(), "expected 1 argument(s)") {
		t.Errorf("stderr = %q", stderr)
	}
	if len(stub.Calls()) != 0 {
		t.Errorf("tf was invoked %d times", len(stub.Calls()))
	}
}

func TestRun_MissingServer(t *testing.T) {
	a, _, _, stderr, _ := testApp(t, basicConfig)
	missing := filepath.Join(t.TempDir(), "none.yaml")

	if code := a.run(context.Background(), []string{"dir", "$/p", "-config", missing}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "server is required") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_Dir(t *testing.T) {
	a, stub, stdout, _, configPath := testApp(t, basicConfig,
		existingWorkspace,
		runner.Result{Lines: []string{"$/p:", "$src", "build.xml", "", "2 item(s)."}},
		deletedWorkspace,
	)

	if code := a.run(context.Background(), []string{"dir", "$/p", "-config", configPath}); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if got, want := stdout.String(), "src/\nbuild.xml\n"; got != want {
		t.Errorf("stdout = %q, want %q", got, want)
	}

	calls := stub.Calls()
	if len(calls) != 3 {
		t.Fatalf("tf calls = %d, want 3 (lookup, dir, delete)", len(calls))
	}
	if !strings.Contains(calls[1].Line(), "/workspace:tfsclient_test01") {
		t.Errorf("dir call = %q", calls[1].Line())
	}
}

func TestRun_DirJSON(t *testing.T) {
	a, _, stdout, _, configPath := testApp(t, basicConfig,
		existingWorkspace,
		runner.Result{Lines: []string{"No items found under $/p"}},
		deletedWorkspace,
	)

	if code := a.run(context.Background(), []string{"dir", "-json", "$/p", "-config", configPath}); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	var entries []tfs.FileEntry
	if err := json.Unmarshal(stdout.Bytes(), &entries); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if entries == nil || len(entries) != 0 {
		t.Errorf("entries = %#v, want empty list", entries)
	}
}

func TestRun_HistoryJSON(t *testing.T) {
	a, stub, stdout, _, configPath := testApp(t, basicConfig,
		existingWorkspace,
		runner.Result{Lines: []string{
			`<?xml version="1.0" encoding="utf-8"?><history>`,
			`<changeset id="12" committer="DOMAIN\dev" date="2013-04-07T23:55:48.973+0530">`,
			`<comment>fix build</comment>`,
			`<item change-type="edit" server-item="$/p/build.xml"/>`,
			`</changeset></history>`,
		}},
		deletedWorkspace,
	)

	code := a.run(context.Background(), []string{"history", "$/p", "-limit", "1", "-json", "-config", configPath})
	if code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}

	var changesets []tfs.Changeset
	if err := json.Unmarshal(stdout.Bytes(), &changesets); err != nil {
		t.Fatalf("invalid JSON %q: %v", stdout, err)
	}
	if len(changesets) != 1 || changesets[0].Version != 12 || changesets[0].Comment != "fix build" {
		t.Errorf("changesets = %+v", changesets)
	}
	if !strings.Contains(stub.Calls()[1].Line(), "/stopafter:1") {
		t.Errorf("history call = %q", stub.Calls()[1].Line())
	}
}

func TestRun_PrintFailureStillTearsDown(t *testing.T) {
	a, stub, _, stderr, configPath := testApp(t, basicConfig,
		existingWorkspace,
		runner.Result{Lines: []string{"No items match $/p/missing.txt"}, ExitCode: 1},
		deletedWorkspace,
	)

	if code := a.run(context.Background(), []string{"print", "$/p/missing.txt", "-config", configPath}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), "No items match $/p/missing.txt") {
		t.Errorf("stderr = %q", stderr)
	}
	calls := stub.Calls()
	if last := calls[len(calls)-1]; !strings.Contains(last.Line(), "/delete tfsclient_test01") {
		t.Errorf("last call = %q, want workspace delete", last.Line())
	}
}

func TestRun_Workspace(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		a, stub, stdout, _, configPath := testApp(t, basicConfig, existingWorkspace)
		if code := a.run(context.Background(), []string{"workspace", "tfsclient_test01", "-config", configPath}); code != 0 {
			t.Fatalf("exit code = %d, want 0", code)
		}
		if !strings.Contains(stdout.String(), "BUILDBOX") {
			t.Errorf("stdout = %q", stdout)
		}
		if len(stub.Calls()) != 1 {
			t.Errorf("workspace lookup must not create a session workspace, got %d calls", len(stub.Calls()))
		}
	})

	t.Run("missing", func(t *testing.T) {
		a, _, stdout, _, configPath := testApp(t, basicConfig, runner.Result{
			Lines:    []string{"No workspace matching other on computer BUILDBOX found in Team Foundation Server http://server/defaultcollection."},
			ExitCode: 1,
		})
		if code := a.run(context.Background(), []string{"workspace", "other", "-json", "-config", configPath}); code != 1 {
			t.Errorf("exit code = %d, want 1", code)
		}
		if !strings.Contains(stdout.String(), `"state": "not found"`) {
			t.Errorf("stdout = %q", stdout)
		}
	})
}

func TestRun_PromptsForMissingPassword(t *testing.T) {
	a, stub, _, _, configPath := testApp(t, basicConfig+"user: builder\n",
		runner.Result{Lines: []string{"Team Explorer Everywhere Command Line Client (Version 14.134.0.201905301616)"}},
	)
	a.interactive = true
	a.promptPassword = func(server, user string) (string, error) {
		if user != "builder" {
			t.Errorf("prompted for %q", user)
		}
		return "typed", nil
	}

	if code := a.run(context.Background(), []string{"version", "-config", configPath}); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if line := stub.Calls()[0].Line(); line != "tf help" {
		t.Errorf("version call = %q", line)
	}
	if a.cfg.Password != "typed" {
		t.Errorf("password = %q, want prompted value", a.cfg.Password)
	}
}

func TestRun_Login(t *testing.T) {
	a, _, stdout, _, configPath := testApp(t, basicConfig)
	a.interactive = true
	a.promptLogin = func(server string, user, password *string) error {
		*user = `DOMAIN\builder`
		*password = "s3cret"
		return nil
	}

	if code := a.run(context.Background(), []string{"login", "-config", configPath}); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout.String(), "stored") {
		t.Errorf("stdout = %q", stdout)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}
	if cfg.User != `DOMAIN\builder` || cfg.Password != "s3cret" {
		t.Errorf("after login user = %q password = %q", cfg.User, cfg.Password)
	}
}

func TestRun_LoginNeedsTerminal(t *testing.T) {
	a, _, _, stderr, configPath := testApp(t, basicConfig)
	if code := a.run(context.Background(), []string{"login", "-config", configPath}); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr.String(), config.EnvPassword) {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRun_WritesMetricsTextfile(t *testing.T) {
	promPath := filepath.Join(t.TempDir(), "tfsclient.prom")
	a, _, _, _, configPath := testApp(t, basicConfig+"metrics_textfile: "+promPath+"\n",
		runner.Result{Lines: []string{"No workspace matching tfsclient_test01 on computer BUILDBOX found."}, ExitCode: 1},
		runner.Result{Lines: []string{"Workspace 'tfsclient_test01' created."}},
		runner.Result{Lines: []string{"$/p:", "a.txt"}},
		deletedWorkspace,
	)

	if code := a.run(context.Background(), []string{"dir", "$/p", "-config", configPath}); code != 0 {
		t.Fatalf("exit code = %d, want 0", code)
	}
	data, err := os.ReadFile(promPath)
	if err != nil {
		t.Fatalf("metrics textfile not written: %v", err)
	}
	if !strings.Contains(string(data), "tfsclient_workspaces_total") {
		t.Errorf("textfile missing workspace counter:\n%s", data)
	}
}
