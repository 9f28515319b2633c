package tfs

import (
	"errors"
	"fmt"
)

var (
	// ErrExecution matches errors reported by the tool itself.
	ErrExecution = errors.New("tf command failed")
	// ErrFormat matches output that does not have the expected shape.
	ErrFormat = errors.New("unexpected tf output")
	// ErrXMLSyntax matches history output that is not well-formed XML.
	ErrXMLSyntax = errors.New("malformed xml")
)

// ExecutionError carries the first output line of a rejected command.
type ExecutionError struct {
	Command  string
	Detail   string
	ExitCode int
}

func (e *ExecutionError) Error() string {
	if e.Command == "" {
		return e.Detail
	}
	return fmt.Sprintf("tf %s: %s", e.Command, e.Detail)
}

func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecution
}

// FormatError reports structurally unexpected output.
type FormatError struct {
	What   string
	Detail string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%s: %s", e.What, e.Detail)
}

func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// XMLSyntaxError is returned by HistoryParser when the decoder rejects the
// document. Line is the line at which the decoder stopped.
type XMLSyntaxError struct {
	Message string
	Line    int
}

func (e *XMLSyntaxError) Error() string {
	return fmt.Sprintf("XML error: %s at line %d", e.Message, e.Line)
}

func (e *XMLSyntaxError) Is(target error) bool {
	return target == ErrXMLSyntax
}

func formatErrorf(what, format string, args ...any) error {
	return &FormatError{What: what, Detail: fmt.Sprintf(format, args...)}
}
