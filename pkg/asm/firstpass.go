package asm

import (
	"strings"

	"github.com/golang/glog"

	"goasm/pkg/lex"
)

// FirstPass scans the expanded source, binding labels, encoding
// directives and instructions into the images, and recording pending
// label references. Source errors go to the reporter and scanning
// continues; the returned error is non-nil only for the fatal memory
// condition.
func (a *Assembler) FirstPass(src string) error {
	glog.V(1).Infof("beginning first pass of %s", a.rep.File())

	lines := strings.Split(src, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	for i, raw := range lines {
		if err := a.firstPassLine(raw, i+1); err != nil {
			return err
		}
	}

	for _, s := range a.syms.Symbols() {
		if s.Section == SectionUnresolved {
			a.rep.Errorf(s.Offset, "label '%s' is declared as an entry but never defined", s.Name)
		}
	}

	glog.V(1).Infof("first pass done: ic=%d dc=%d symbols=%d pending=%d",
		len(a.ins), len(a.data), len(a.syms.Symbols()), len(a.pending))
	return nil
}

func (a *Assembler) firstPassLine(raw string, line int) error {
	if len(raw) > lex.MaxLineLen {
		a.rep.Errorf(line, "line is longer than %d characters", lex.MaxLineLen)
		return nil
	}
	text := strings.TrimSpace(raw)
	if text == "" || text[0] == ';' {
		return nil
	}

	label := ""
	if first := lex.FirstWord(text); strings.HasSuffix(first, ":") {
		name := first[:len(first)-1]
		if !lex.IsIdentifier(name) || lex.IsReserved(name) || lex.IsRegister(name) {
			a.rep.Errorf(line, "'%s' is not a legal label name", name)
			return nil
		}
		if _, ok := a.macros.Lookup(name); ok {
			a.rep.Errorf(line, "label '%s' collides with a macro name", name)
			return nil
		}
		label = name
		text = strings.TrimSpace(text[len(first):])
		if text == "" {
			a.rep.Errorf(line, "no content after the label")
			return nil
		}
	}

	if text[0] == '.' {
		return a.directive(label, text, line)
	}

	mnemonic := lex.FirstWord(text)
	args := strings.TrimSpace(text[len(mnemonic):])
	if label != "" {
		if err := a.syms.Define(label, SectionIns, len(a.ins)); err != nil {
			a.rep.Errorf(line, "%v", err)
			return nil
		}
	}
	return a.encodeInstruction(mnemonic, args, line)
}
