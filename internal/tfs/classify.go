package tfs

import "strings"

// OutcomeKind is the verdict of Classify.
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeFailure
	OutcomeEmpty
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	case OutcomeEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Outcome is the classified result of one tool invocation.
type Outcome struct {
	Kind   OutcomeKind
	Lines  []string
	Detail string // first output line for failures and empty sentinels
}

// Prefixes the tool prints with exit code 0 when there is nothing to report.
var emptySentinels = []string{
	"No items found",
	"No items match",
	"No workspace matching",
	"No history entries",
}

// IsEmptySentinel reports whether line is one of the tool's "nothing found" messages.
func IsEmptySentinel(line string) bool {
	line = strings.TrimSpace(line)
	for _, prefix := range emptySentinels {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// Classify inspects the exit code and first output line. It does not apply any
// per-command policy; see Interpret.
func Classify(lines []string, exitCode int) Outcome {
	first := firstLine(lines)
	if exitCode != 0 {
		return Outcome{Kind: OutcomeFailure, Lines: lines, Detail: first}
	}
	if len(lines) > 0 && IsEmptySentinel(first) {
		return Outcome{Kind: OutcomeEmpty, Lines: lines, Detail: first}
	}
	return Outcome{Kind: OutcomeSuccess, Lines: lines}
}

// EmptyHandling says what an empty sentinel means for a given command.
type EmptyHandling int

const (
	// EmptyAsError promotes the sentinel to an ExecutionError.
	EmptyAsError EmptyHandling = iota
	// EmptyAsResult turns the sentinel into an empty result.
	EmptyAsResult
	// EmptyIgnored treats the output as regular content (file bodies may
	// legitimately start with any text).
	EmptyIgnored
)

// SingleLineHandling says what a one-line successful output means.
type SingleLineHandling int

const (
	SingleLineParse SingleLineHandling = iota
	SingleLineEmpty
	SingleLineError
)

// Policy is the per-command interpretation of successful but degenerate output.
type Policy struct {
	Empty      EmptyHandling
	SingleLine SingleLineHandling
}

// The tool is not consistent across commands: an empty folder is an empty
// listing, but missing history is an error. Both are kept as observed.
var policies = map[string]Policy{
	"dir":        {Empty: EmptyAsResult, SingleLine: SingleLineEmpty},
	"history":    {Empty: EmptyAsError, SingleLine: SingleLineError},
	"info":       {Empty: EmptyAsError},
	"workspaces": {Empty: EmptyAsError},
	"print":      {Empty: EmptyIgnored},
	"workspace":  {Empty: EmptyIgnored},
	"workfold":   {Empty: EmptyIgnored},
	"eula":       {Empty: EmptyIgnored},
}

// PolicyFor returns the policy for a tf subcommand. Unknown commands treat
// sentinels as errors.
func PolicyFor(command string) Policy {
	if p, ok := policies[command]; ok {
		return p
	}
	return Policy{Empty: EmptyAsError}
}

// Interpret classifies output and applies the command's policy. The returned
// outcome is either OutcomeSuccess or OutcomeEmpty; failures come back as
// *ExecutionError.
func Interpret(command string, lines []string, exitCode int) (Outcome, error) {
	out := Classify(lines, exitCode)
	policy := PolicyFor(command)

	if out.Kind == OutcomeFailure {
		return out, &ExecutionError{Command: command, Detail: out.Detail, ExitCode: exitCode}
	}

	if out.Kind == OutcomeEmpty {
		switch policy.Empty {
		case EmptyAsResult:
			return out, nil
		case EmptyAsError:
			return out, &ExecutionError{Command: command, Detail: out.Detail, ExitCode: exitCode}
		default:
			out = Outcome{Kind: OutcomeSuccess, Lines: lines}
		}
	}

	if len(lines) == 1 {
		switch policy.SingleLine {
		case SingleLineEmpty:
			return Outcome{Kind: OutcomeEmpty, Lines: lines, Detail: lines[0]}, nil
		case SingleLineError:
			return out, &ExecutionError{Command: command, Detail: lines[0], ExitCode: exitCode}
		}
	}

	return out, nil
}

func firstLine(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}
