package asm

import (
	"strings"

	"goasm/pkg/lex"
)

// directive dispatches a line whose content starts with '.'. The label,
// if any, has already been validated but not yet bound; .entry and
// .extern ignore it by the conventions of this assembly language.
func (a *Assembler) directive(label, text string, line int) error {
	word := lex.FirstWord(text)
	name := word[1:]
	if name == "" {
		a.rep.Errorf(line, "missing directive name after '.'")
		return nil
	}
	args := strings.TrimSpace(text[len(word):])

	switch name {
	case "data", "string", "mat":
	case "entry", "extern":
	default:
		a.rep.Errorf(line, "'.%s' is not a valid directive", name)
		return nil
	}
	if args == "" {
		a.rep.Errorf(line, "missing parameters after '.%s'", name)
		return nil
	}

	switch name {
	case "entry":
		a.directiveEntry(args, line)
		return nil
	case "extern":
		a.directiveExtern(args, line)
		return nil
	}

	if label != "" {
		if err := a.syms.Define(label, SectionData, len(a.data)); err != nil {
			a.rep.Errorf(line, "%v", err)
			return nil
		}
	}
	switch name {
	case "data":
		return a.directiveData(args, line)
	case "string":
		return a.directiveString(args, line)
	default:
		return a.directiveMat(args, line)
	}
}

func (a *Assembler) directiveData(args string, line int) error {
	if err := lex.ValidCommas(args); err != nil {
		a.rep.Errorf(line, "%v", err)
		return nil
	}
	for _, tok := range lex.SplitArgs(args) {
		v, err := lex.ParseNum(tok, lex.Data)
		if err != nil {
			a.rep.Errorf(line, "%v", err)
			return nil
		}
		if err := a.appendData(Word(v & 0x3FF)); err != nil {
			return err
		}
	}
	return nil
}

func (a *Assembler) directiveString(args string, line int) error {
	if args[0] != '"' {
		a.rep.Errorf(line, "missing opening '\"'")
		return nil
	}
	closing := strings.LastIndexByte(args, '"')
	if closing == 0 {
		a.rep.Errorf(line, "missing closing '\"'")
		return nil
	}
	if strings.TrimSpace(args[closing+1:]) != "" {
		a.rep.Errorf(line, "unexpected text after the closing '\"'")
		return nil
	}
	for i := 1; i < closing; i++ {
		c := args[i]
		if c <= 31 || c >= 127 {
			a.rep.Errorf(line, "illegal character in string")
			return nil
		}
		if err := a.appendData(Word(c)); err != nil {
			return err
		}
	}
	return a.appendData(0)
}

func (a *Assembler) directiveMat(args string, line int) error {
	dims, rest := splitMatrixDims(args)
	if dims == "" {
		a.rep.Errorf(line, "missing matrix dimensions")
		return nil
	}
	rows, cols, err := lex.ParseBrackets(dims, false)
	if err != nil {
		a.rep.Errorf(line, "invalid matrix dimensions: %v", err)
		return nil
	}
	if rows*cols == 0 {
		a.rep.Errorf(line, "matrix has no cells")
		return nil
	}

	var vals []string
	rest = strings.TrimSpace(rest)
	if rest != "" {
		if rest[0] != ',' {
			a.rep.Errorf(line, "missing comma after the matrix dimensions")
			return nil
		}
		rest = rest[1:]
		if err := lex.ValidCommas(rest); err != nil {
			a.rep.Errorf(line, "%v", err)
			return nil
		}
		vals = lex.SplitArgs(rest)
		if len(vals) == 0 {
			a.rep.Errorf(line, "illegal comma after the last parameter")
			return nil
		}
	}
	if len(vals) > rows*cols {
		a.rep.Errorf(line, "too many values for a %dx%d matrix", rows, cols)
		return nil
	}

	for _, tok := range vals {
		v, err := lex.ParseNum(tok, lex.Data)
		if err != nil {
			a.rep.Errorf(line, "%v", err)
			return nil
		}
		if err := a.appendData(Word(v & 0x3FF)); err != nil {
			return err
		}
	}
	for i := len(vals); i < rows*cols; i++ {
		if err := a.appendData(0); err != nil {
			return err
		}
	}
	return nil
}

// splitMatrixDims cuts args after the second ']', returning the bracket
// pair and the remainder.
func splitMatrixDims(args string) (string, string) {
	first := strings.IndexByte(args, ']')
	if first < 0 {
		return "", args
	}
	second := strings.IndexByte(args[first+1:], ']')
	if second < 0 {
		return "", args
	}
	cut := first + 1 + second + 1
	return strings.TrimSpace(args[:cut]), args[cut:]
}

func (a *Assembler) directiveEntry(args string, line int) {
	name, ok := a.singleLabelOperand(args, line)
	if !ok {
		return
	}
	if err := a.syms.DeclareEntry(name, line); err != nil {
		a.rep.Errorf(line, "%v", err)
	}
}

func (a *Assembler) directiveExtern(args string, line int) {
	name, ok := a.singleLabelOperand(args, line)
	if !ok {
		return
	}
	if err := a.syms.DeclareExtern(name); err != nil {
		a.rep.Errorf(line, "%v", err)
	}
}

// singleLabelOperand validates the operand of .entry and .extern: one
// legal label name followed by end of line.
func (a *Assembler) singleLabelOperand(args string, line int) (string, bool) {
	fields := strings.Fields(args)
	if len(fields) > 1 {
		a.rep.Errorf(line, "unexpected text after '%s'", fields[0])
		return "", false
	}
	name := fields[0]
	if !lex.IsIdentifier(name) || lex.IsReserved(name) || lex.IsRegister(name) {
		a.rep.Errorf(line, "'%s' is not a legal label name", name)
		return "", false
	}
	return name, true
}
