package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"
)

func main() {
	if len(os.Args) < 2 {
		printUsage(os.Stdout)
		os.Exit(1)
	}

	// Interrupts cancel the running tf process; the session workspace is still
	// deleted on the way out.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		stdout:      os.Stdout,
		stderr:      os.Stderr,
		interactive: term.IsTerminal(int(os.Stdin.Fd())),
	}
	code := a.run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "tfsclient - read-only access to Team Foundation Server through the tf client")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tfsclient <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  info <itemspec>       Show last-modified, size and encoding of an item")
	fmt.Fprintln(w, "  dir <folder>          List a server folder (-version V)")
	fmt.Fprintln(w, "  print <path>          Print a file's content (-version V)")
	fmt.Fprintln(w, "  history <itemspec>    Show changesets, newest first (-version V, -limit N)")
	fmt.Fprintln(w, "  workspace <name>      Look up a workspace on the server")
	fmt.Fprintln(w, "  version               Show tfsclient and tf client versions")
	fmt.Fprintln(w, "  login                 Store a password for the configured server")
	fmt.Fprintln(w, "  help                  Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags (all commands):")
	fmt.Fprintln(w, "  -config <path>        Config file (default $TFSCLIENT_CONFIG or ~/.tfsclient/config.yaml)")
	fmt.Fprintln(w, "  -json                 Print machine-readable JSON")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  tfsclient dir '$/project/src'")
	fmt.Fprintln(w, "  tfsclient print '$/project/build.xml' -version C42")
	fmt.Fprintln(w, "  tfsclient history '$/project' -limit 10 -json")
}
