package runner

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sergeknystautas/tfsclient/internal/logging"
	"github.com/sergeknystautas/tfsclient/internal/metrics"
)

// Instrumented wraps an Executor with debug logging and metrics. The first
// argument is taken as the subcommand label.
type Instrumented struct {
	next Executor
	// Redact rewrites arguments before they are logged.
	Redact func(args []string) []string
	// Timeout bounds each call when > 0.
	Timeout time.Duration
}

// Instrument wraps next.
func Instrument(next Executor) *Instrumented {
	return &Instrumented{next: next}
}

// Run implements Executor.
func (i *Instrumented) Run(ctx context.Context, name string, args ...string) (*Result, error) {
	if i.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.Timeout)
		defer cancel()
	}

	command := ""
	if len(args) > 0 {
		command = args[0]
	}
	logged := args
	if i.Redact != nil {
		logged = i.Redact(args)
	}
	log := logging.Named("runner")
	log.Debug("executing", zap.String("cmd", name+" "+strings.Join(logged, " ")))

	start := time.Now()
	res, err := i.next.Run(ctx, name, args...)
	elapsed := time.Since(start)

	switch {
	case err != nil:
		metrics.RecordCommand(command, metrics.OutcomeError, elapsed)
		log.Error("command did not complete", zap.String("command", command), zap.Error(err))
	case res.ExitCode != 0:
		metrics.RecordCommand(command, metrics.OutcomeExitCode, elapsed)
		// Non-zero exits are routine (missing workspace, help banner); the
		// caller decides whether they matter.
		log.Info("command exited non-zero",
			zap.String("command", command),
			zap.Int("exit_code", res.ExitCode),
			zap.String("output", res.FirstLine()))
	default:
		metrics.RecordCommand(command, metrics.OutcomeOK, elapsed)
		log.Debug("command succeeded",
			zap.String("command", command),
			zap.Int("lines", len(res.Lines)),
			zap.Duration("elapsed", elapsed))
	}
	return res, err
}
