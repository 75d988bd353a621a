package withdefaults

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes.
const (
	CodeSchemaMismatch  = "schema_mismatch"
	CodeUnsupportedMode = "unsupported_mode"
	CodeNotFound        = "not_found"
)

// Sentinels matched by errors.Is against any Issue or Issues carrying the
// corresponding code.
var (
	ErrSchemaMismatch  = errors.New("withdefaults: schema mismatch")
	ErrUnsupportedMode = errors.New("withdefaults: unsupported mode")
	ErrNotFound        = errors.New("withdefaults: not found")
)

var codeSentinels = map[string]error{
	CodeSchemaMismatch:  ErrSchemaMismatch,
	CodeUnsupportedMode: ErrUnsupportedMode,
	CodeNotFound:        ErrNotFound,
}

// Issue represents a single retrieval failure.
type Issue struct {
	Path    string // Schema or instance path (for example: /top/name).
	Code    string // One of the codes listed above.
	Message string
	Cause   error // Optional: underlying error.
}

func (it Issue) Error() string {
	b := &strings.Builder{}
	b.WriteString(it.Code)
	if it.Path != "" {
		fmt.Fprintf(b, " at %s", it.Path)
	}
	if it.Message != "" {
		fmt.Fprintf(b, ": %s", it.Message)
	}
	return b.String()
}

// Is matches the sentinel for the issue code.
func (it Issue) Is(target error) bool {
	s, ok := codeSentinels[it.Code]
	return ok && s == target
}

func (it Issue) Unwrap() error { return it.Cause }

// Issues is a collection of failures that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss[i].Error())
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Is reports whether any issue matches target.
func (iss Issues) Is(target error) bool {
	for _, it := range iss {
		if errors.Is(it, target) {
			return true
		}
	}
	return false
}

// AsIssues extracts Issues from an error using errors.As internally. A lone
// Issue is returned as a one-element list.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	var it Issue
	if errors.As(err, &it) {
		return Issues{it}, true
	}
	return nil, false
}

func singleIssue(code, path, msg string) Issues {
	return Issues{{Code: code, Path: path, Message: msg}}
}

func schemaMismatch(path, format string, args ...any) Issues {
	return singleIssue(CodeSchemaMismatch, path, fmt.Sprintf(format, args...))
}

func unsupportedMode(mode string) Issues {
	return singleIssue(CodeUnsupportedMode, "", fmt.Sprintf("with-defaults mode %q is not supported", mode))
}

func notFound(path string) Issues {
	return singleIssue(CodeNotFound, path, "no such schema node")
}
