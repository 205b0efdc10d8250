package asm

import (
	"strings"

	"github.com/golang/glog"

	"goasm/pkg/lex"
)

var twoOperandOps = map[string]Word{
	"mov": 0, "cmp": 1, "add": 2, "sub": 3, "lea": 4,
}

var oneOperandOps = map[string]Word{
	"clr": 5, "not": 6, "inc": 7, "dec": 8, "jmp": 9,
	"bne": 10, "jsr": 11, "red": 12, "prn": 13,
}

var zeroOperandOps = map[string]Word{
	"rts": 14, "stop": 15,
}

// Addressing modes, also the values carried in the title word.
const (
	modeImmediate = 0
	modeDirect    = 1
	modeMatrix    = 2
	modeRegister  = 3
)

// modeSet is a bit-set of addressing modes; bit i covers mode i.
type modeSet uint8

func (m modeSet) has(mode int) bool {
	return m&(1<<uint(mode)) != 0
}

const (
	allModes    modeSet = 0b1111
	noImmediate modeSet = 0b1110
	labelModes  modeSet = 0b0110
)

var srcModes = map[string]modeSet{
	"mov": allModes, "cmp": allModes, "add": allModes, "sub": allModes,
	"lea": labelModes,
}

var dstModes = map[string]modeSet{
	"mov": noImmediate, "cmp": allModes, "add": noImmediate,
	"sub": noImmediate, "lea": noImmediate, "clr": noImmediate,
	"not": noImmediate, "inc": noImmediate, "dec": noImmediate,
	"jmp": noImmediate, "bne": noImmediate, "jsr": noImmediate,
	"red": noImmediate, "prn": allModes,
}

func operandMode(tok string) int {
	switch {
	case strings.HasPrefix(tok, "#"):
		return modeImmediate
	case lex.IsRegister(tok):
		return modeRegister
	case strings.ContainsRune(tok, '['):
		return modeMatrix
	default:
		return modeDirect
	}
}

// encodeInstruction emits the title word and extension words for one
// instruction line. The title word is reserved first and written in
// place once both addressing modes are known. The returned error is
// non-nil only for the fatal memory condition.
func (a *Assembler) encodeInstruction(mnemonic, args string, line int) error {
	if opcode, ok := zeroOperandOps[mnemonic]; ok {
		if strings.TrimSpace(args) != "" {
			a.rep.Errorf(line, "'%s' takes no operands", mnemonic)
			return nil
		}
		glog.V(2).Infof("line %d: %s opcode %d", line, mnemonic, opcode)
		return a.appendIns(opcode << 6)
	}

	if opcode, ok := oneOperandOps[mnemonic]; ok {
		if err := lex.ValidCommas(args); err != nil {
			a.rep.Errorf(line, "%v", err)
			return nil
		}
		ops := lex.SplitArgs(args)
		switch {
		case len(ops) == 0:
			a.rep.Errorf(line, "missing parameter")
			return nil
		case len(ops) > 1:
			a.rep.Errorf(line, "too many parameters for '%s'", mnemonic)
			return nil
		}
		dst := ops[0]
		dstMode := operandMode(dst)
		if !dstModes[mnemonic].has(dstMode) {
			a.rep.Errorf(line, "invalid addressing mode for the destination operand of '%s'", mnemonic)
			return nil
		}
		glog.V(2).Infof("line %d: %s opcode %d dst mode %d", line, mnemonic, opcode, dstMode)

		titleIdx := len(a.ins)
		if err := a.appendIns(0); err != nil {
			return err
		}
		a.wasReg = false
		ok, err := a.encodeOperand(dst, dstMode, true, line)
		if err != nil || !ok {
			return err
		}
		a.ins[titleIdx] = opcode<<6 | Word(dstMode)<<2
		return nil
	}

	if opcode, ok := twoOperandOps[mnemonic]; ok {
		if err := lex.ValidCommas(args); err != nil {
			a.rep.Errorf(line, "%v", err)
			return nil
		}
		ops := lex.SplitArgs(args)
		switch {
		case len(ops) == 0:
			a.rep.Errorf(line, "missing parameters")
			return nil
		case len(ops) == 1:
			a.rep.Errorf(line, "missing parameter")
			return nil
		case len(ops) > 2:
			a.rep.Errorf(line, "too many parameters for '%s'", mnemonic)
			return nil
		}
		src, dst := ops[0], ops[1]
		srcMode, dstMode := operandMode(src), operandMode(dst)
		if !srcModes[mnemonic].has(srcMode) {
			a.rep.Errorf(line, "invalid addressing mode for the source operand of '%s'", mnemonic)
			return nil
		}
		if !dstModes[mnemonic].has(dstMode) {
			a.rep.Errorf(line, "invalid addressing mode for the destination operand of '%s'", mnemonic)
			return nil
		}
		glog.V(2).Infof("line %d: %s opcode %d src mode %d dst mode %d", line, mnemonic, opcode, srcMode, dstMode)

		titleIdx := len(a.ins)
		if err := a.appendIns(0); err != nil {
			return err
		}
		a.wasReg = false
		ok, err := a.encodeOperand(src, srcMode, false, line)
		if err != nil || !ok {
			return err
		}
		ok, err = a.encodeOperand(dst, dstMode, true, line)
		if err != nil || !ok {
			return err
		}
		a.ins[titleIdx] = opcode<<6 | Word(srcMode)<<4 | Word(dstMode)<<2
		return nil
	}

	a.rep.Errorf(line, "'%s' is not a valid command name", mnemonic)
	return nil
}

// encodeOperand appends the extension word(s) of one operand. The bool
// result is false when a non-fatal error stopped the line.
func (a *Assembler) encodeOperand(tok string, mode int, isDst bool, line int) (bool, error) {
	switch mode {
	case modeImmediate:
		v, err := lex.ParseNum(tok[1:], lex.Ins)
		if err != nil {
			a.rep.Errorf(line, "%v", err)
			return false, nil
		}
		return true, a.appendIns(Word(v&0xFF) << 2)

	case modeDirect:
		if !lex.IsIdentifier(tok) || lex.IsReserved(tok) {
			a.rep.Errorf(line, "'%s' is not a legal label name", tok)
			return false, nil
		}
		a.pending = append(a.pending, Pending{Label: tok, Index: len(a.ins), Line: line})
		return true, a.appendIns(0)

	case modeMatrix:
		open := strings.IndexByte(tok, '[')
		name := tok[:open]
		if name == "" {
			a.rep.Errorf(line, "missing label before '['")
			return false, nil
		}
		if !lex.IsIdentifier(name) || lex.IsReserved(name) {
			a.rep.Errorf(line, "'%s' is not a legal label name", name)
			return false, nil
		}
		row, col, err := lex.ParseBrackets(tok[open:], true)
		if err != nil {
			a.rep.Errorf(line, "invalid matrix access: %v", err)
			return false, nil
		}
		a.pending = append(a.pending, Pending{Label: name, Index: len(a.ins), Line: line})
		if err := a.appendIns(0); err != nil {
			return false, err
		}
		return true, a.appendIns(Word(row)<<6 | Word(col)<<2)

	default:
		idx, _ := lex.RegisterIndex(tok)
		if !isDst {
			a.regWordIdx = len(a.ins)
			a.wasReg = true
			return true, a.appendIns(Word(idx) << 6)
		}
		if a.wasReg {
			a.ins[a.regWordIdx] |= Word(idx) << 2
			return true, nil
		}
		return true, a.appendIns(Word(idx) << 2)
	}
}
