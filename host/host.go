// Package host provides the default object.Host implementation used by
// the command-line driver and REPL: it writes program output and error
// reports to an io.Writer pair and resolves load: paths against the
// filesystem. The specification treats the host as an external
// collaborator the execution core never depends on directly — this is
// simply the concrete collaborator wired into cmd/finch and package
// repl.
package host

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Console is a filesystem/terminal-backed object.Host.
type Console struct {
	Out     io.Writer
	Err     io.Writer
	BaseDir string

	errored bool
}

// NewConsole creates a Console writing output to out and error reports
// to errOut, resolving load: paths relative to baseDir.
func NewConsole(out, errOut io.Writer, baseDir string) *Console {
	return &Console{Out: out, Err: errOut, BaseDir: baseDir}
}

// Output implements object.Host.
func (c *Console) Output(text string) {
	fmt.Fprint(c.Out, text)
}

// Error implements object.Host.
func (c *Console) Error(message string) {
	c.errored = true
	fmt.Fprintln(c.Err, "error:", message)
}

// Errored reports whether Error has been called since the Console was
// created or last reset, so a driver can compute a process exit code
// from top-level errors reported during execution, not just from
// parse/compile failures returned directly.
func (c *Console) Errored() bool { return c.errored }

// ResetErrored clears the errored flag, for a driver that runs several
// source files on one Console and wants an independent exit status per
// file.
func (c *Console) ResetErrored() { c.errored = false }

// LoadModule implements object.Host by reading path (resolved against
// BaseDir if it is not already absolute) from disk.
func (c *Console) LoadModule(path string) (string, bool) {
	if !filepath.IsAbs(path) && c.BaseDir != "" {
		path = filepath.Join(c.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Buffer is an object.Host that accumulates output and error text in
// memory instead of writing it immediately, for callers (such as the
// REPL) that need to inspect what one evaluation produced before
// displaying it. LoadModule still reads from the filesystem.
type Buffer struct {
	BaseDir string

	out strings.Builder
	err strings.Builder
}

// Output implements object.Host.
func (b *Buffer) Output(text string) { b.out.WriteString(text) }

// Error implements object.Host.
func (b *Buffer) Error(message string) { fmt.Fprintln(&b.err, message) }

// LoadModule implements object.Host.
func (b *Buffer) LoadModule(path string) (string, bool) {
	if !filepath.IsAbs(path) && b.BaseDir != "" {
		path = filepath.Join(b.BaseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}

// Written returns every string passed to Output so far.
func (b *Buffer) Written() string { return b.out.String() }

// Errors returns every message passed to Error so far, one per line.
func (b *Buffer) Errors() string { return b.err.String() }

// Reset clears accumulated output and error text for reuse across
// evaluations.
func (b *Buffer) Reset() {
	b.out.Reset()
	b.err.Reset()
}
