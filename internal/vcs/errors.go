package vcs

import (
	"errors"
	"strconv"
	"strings"
)

// Kind classifies a failure. Every Kind is usable as an errors.Is target.
type Kind string

const (
	// InvalidArgument is returned before any command is issued.
	InvalidArgument Kind = "invalid argument"
	// NotFound is returned for an unknown revision, branch or working copy.
	NotFound Kind = "not found"
	// ToolError means the external process failed or could not be started.
	ToolError Kind = "tool error"
	// MalformedOutput means the tool's output did not have the expected shape.
	MalformedOutput Kind = "malformed output"
	// MalformedDate is a MalformedOutput raised by the date parser.
	MalformedDate Kind = "malformed date"
)

func (k Kind) Error() string {
	return string(k)
}

// Error is a classified failure of operation Op.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// E builds an *Error. err may be nil.
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	var inner *Error
	if errors.As(e.Err, &inner) && inner.Kind == e.Kind {
		b.WriteString(e.Err.Error())
		return b.String()
	}
	b.WriteString(string(e.Kind))
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches a Kind target. MalformedDate also matches MalformedOutput.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	if !ok {
		return false
	}
	if k == e.Kind {
		return true
	}
	return e.Kind == MalformedDate && k == MalformedOutput
}

// KindOf returns the Kind of the first *Error in err's chain, or "" if none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// ExitError is a tool run that ended with a non-zero exit status.
type ExitError struct {
	Code   int
	Stderr string
}

func (e *ExitError) Error() string {
	if e.Stderr != "" {
		return e.Stderr
	}
	return "exit status " + strconv.Itoa(e.Code)
}

// IsExitError reports whether err comes from a tool that ran and failed,
// as opposed to one that could not start or was cancelled.
func IsExitError(err error) bool {
	var e *ExitError
	return errors.As(err, &e)
}
