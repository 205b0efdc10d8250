// Package asm implements the two assembler passes for the 20465
// machine: the first pass builds the symbol table and the instruction
// and data images with placeholder words for label references, and the
// second pass patches those placeholders and writes the base-4 object,
// entry, and external listings.
package asm

import (
	"errors"
	"io"

	"github.com/k0kubun/pp/v3"

	"goasm/pkg/macro"
	"goasm/pkg/report"
)

// Word is one machine word. Only the low 10 bits carry encoding; words
// are masked as they are appended.
type Word uint16

const (
	wordMask Word = 0x3FF

	// MemoryWords is the machine's capacity for instruction plus data
	// words combined.
	MemoryWords = 156

	// Origin is the absolute address of the first instruction word.
	Origin = 100
)

// A/R/E tags, occupying the low two bits of every word.
const (
	areAbsolute    Word = 0
	areExternal    Word = 1
	areRelocatable Word = 2
)

// ErrMemoryFull aborts the current file when the image sizes pass the
// machine capacity.
var ErrMemoryFull = errors.New("program exceeds the 156-word memory")

// Pending records that the instruction word at Index must be patched
// with the address of Label; Line locates the use for diagnostics.
type Pending struct {
	Label string
	Index int
	Line  int
}

// Assembler carries all state for assembling a single file.
type Assembler struct {
	rep    *report.Reporter
	macros *macro.Table

	ins     []Word
	data    []Word
	syms    *SymbolTable
	pending []Pending

	// wasReg latches that the source operand was a register, and
	// regWordIdx holds the index of its extension word, so that a
	// register destination can be packed into the same word.
	wasReg     bool
	regWordIdx int
}

func New(rep *report.Reporter, macros *macro.Table) *Assembler {
	if macros == nil {
		macros = macro.NewTable()
	}
	return &Assembler{
		rep:    rep,
		macros: macros,
		syms:   NewSymbolTable(),
	}
}

// IC returns the instruction word count.
func (a *Assembler) IC() int { return len(a.ins) }

// DC returns the data word count.
func (a *Assembler) DC() int { return len(a.data) }

// Symbols exposes the symbol table.
func (a *Assembler) Symbols() *SymbolTable { return a.syms }

func (a *Assembler) appendIns(w Word) error {
	if len(a.ins)+len(a.data) >= MemoryWords {
		return ErrMemoryFull
	}
	a.ins = append(a.ins, w&wordMask)
	return nil
}

func (a *Assembler) appendData(w Word) error {
	if len(a.ins)+len(a.data) >= MemoryWords {
		return ErrMemoryFull
	}
	a.data = append(a.data, w&wordMask)
	return nil
}

// Dump pretty-prints the assembler state, normally between the passes.
func (a *Assembler) Dump(out io.Writer) {
	pp.Fprintf(out, "Symbols: %v\n", a.syms.Symbols())
	pp.Fprintf(out, "Instruction image: %v\n", a.ins)
	pp.Fprintf(out, "Data image: %v\n", a.data)
	pp.Fprintf(out, "Pending refs: %v\n", a.pending)
}
