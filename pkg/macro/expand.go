package macro

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/glog"

	"goasm/pkg/lex"
	"goasm/pkg/report"
	"goasm/pkg/utils"
)

// Expand scans src line by line, collecting macro definitions into t and
// replacing invocations with the stored bodies. Comment and blank lines
// pass through unchanged. The returned bool is true when no error was
// reported; the output stream must be discarded when it is false.
func Expand(src string, t *Table, rep *report.Reporter) (string, bool) {
	start := rep.Count()

	lines := strings.Split(src, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}

	var out []string
	var cur *Macro
	curLine := 0

	for i, raw := range lines {
		lineNo := i + 1
		if len(raw) > lex.MaxLineLen {
			rep.Errorf(lineNo, "line is longer than %d characters", lex.MaxLineLen)
			continue
		}

		first := lex.FirstWord(raw)

		if cur != nil {
			switch first {
			case "mcro":
				rep.Errorf(lineNo, "nested macro definition inside '%s'", cur.Name)
			case "mcroend":
				if rest := strings.TrimSpace(raw); rest != "mcroend" {
					rep.Errorf(lineNo, "unexpected text after mcroend")
					continue
				}
				if len(cur.Lines) == 0 {
					rep.Errorf(lineNo, "macro '%s' has an empty body", cur.Name)
					cur = nil
					continue
				}
				glog.V(2).Infof("defined macro %s (%d lines)", cur.Name, len(cur.Lines))
				t.Define(*cur)
				cur = nil
			default:
				cur.Lines = append(cur.Lines, raw)
			}
			continue
		}

		switch first {
		case "mcro":
			fields := strings.Fields(raw)
			if len(fields) != 2 {
				rep.Errorf(lineNo, "invalid macro definition")
				continue
			}
			name := fields[1]
			if lex.IsReserved(name) || lex.IsRegister(name) {
				rep.Errorf(lineNo, "macro name '%s' is a reserved word", name)
				continue
			}
			if !lex.IsIdentifier(name) {
				rep.Errorf(lineNo, "'%s' is not a legal macro name", name)
				continue
			}
			if _, exists := t.Lookup(name); exists {
				rep.Errorf(lineNo, "macro '%s' is already defined", name)
				continue
			}
			cur = &Macro{Name: name}
			curLine = lineNo
		case "mcroend":
			rep.Errorf(lineNo, "mcroend without a matching mcro")
		default:
			if m, ok := t.Lookup(first); ok {
				out = append(out, m.Lines...)
				continue
			}
			out = append(out, raw)
		}
	}

	if cur != nil {
		rep.Errorf(curLine, "macro '%s' is not closed at end of file", cur.Name)
	}

	if len(out) == 0 {
		return "", rep.Count() == start
	}
	return strings.Join(out, "\n") + "\n", rep.Count() == start
}

// ExpandFile reads <basename>.as, expands it, and writes <basename>.am.
// Any failure returns an error; when expansion or the write fails the
// intermediate is also removed. A source that cannot be read leaves any
// existing intermediate untouched. Line diagnostics go to stderr.
func ExpandFile(basename string, t *Table, stderr io.Writer) error {
	srcPath := utils.ArtifactPath(basename, utils.SourceExt)
	amPath := utils.ArtifactPath(basename, utils.ExpandedExt)

	src, err := os.ReadFile(srcPath)
	if err != nil {
		return fmt.Errorf("cannot open %s: %w", srcPath, err)
	}

	glog.V(1).Infof("expanding macros in %s", srcPath)
	rep := report.New(srcPath, stderr)
	out, ok := Expand(string(src), t, rep)
	if !ok {
		os.Remove(amPath)
		return fmt.Errorf("macro expansion of %s failed", srcPath)
	}
	if err := os.WriteFile(amPath, []byte(out), 0644); err != nil {
		os.Remove(amPath)
		return fmt.Errorf("cannot write %s: %w", amPath, err)
	}
	return nil
}
