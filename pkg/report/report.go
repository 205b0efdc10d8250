// Package report emits per-file source diagnostics and counts them.
// The count is the sticky error signal that decides whether any output
// artifact survives the run.
package report

import (
	"fmt"
	"io"
)

type Reporter struct {
	file  string
	out   io.Writer
	count int
}

func New(file string, out io.Writer) *Reporter {
	return &Reporter{file: file, out: out}
}

// Errorf writes one diagnostic as "File <name>, line <n>: <message>"
// and bumps the error count.
func (r *Reporter) Errorf(line int, format string, args ...any) {
	fmt.Fprintf(r.out, "File %s, line %d: %s\n", r.file, line, fmt.Sprintf(format, args...))
	r.count++
}

func (r *Reporter) HasErrors() bool {
	return r.count > 0
}

func (r *Reporter) Count() int {
	return r.count
}

func (r *Reporter) File() string {
	return r.file
}
