package asm

import "fmt"

// Section tags which image a symbol's offset indexes. SectionUnresolved
// marks a name declared by .entry before its definition was seen; its
// Offset then holds the source line of the declaration.
type Section int

const (
	SectionData Section = iota
	SectionIns
	SectionUnresolved
)

func (s Section) String() string {
	switch s {
	case SectionData:
		return "data"
	case SectionIns:
		return "ins"
	default:
		return "unresolved"
	}
}

// Linkage tags a symbol's visibility.
type Linkage int

const (
	LinkRegular Linkage = iota
	LinkEntry
	LinkExternal
)

func (l Linkage) String() string {
	switch l {
	case LinkEntry:
		return "entry"
	case LinkExternal:
		return "external"
	default:
		return "regular"
	}
}

type Symbol struct {
	Name    string
	Section Section
	Linkage Linkage
	Offset  int
}

// SymbolTable keeps symbols in definition order with name lookup.
type SymbolTable struct {
	syms  []Symbol
	index map[string]int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{index: make(map[string]int)}
}

func (st *SymbolTable) Lookup(name string) (Symbol, bool) {
	i, ok := st.index[name]
	if !ok {
		return Symbol{}, false
	}
	return st.syms[i], true
}

// Symbols returns the table contents in definition order.
func (st *SymbolTable) Symbols() []Symbol {
	return st.syms
}

// Define binds name to an offset within a section. A name declared
// .entry before its definition is reconciled in place and keeps its
// entry linkage; any other redefinition is an error.
func (st *SymbolTable) Define(name string, sec Section, offset int) error {
	if i, ok := st.index[name]; ok {
		if st.syms[i].Section != SectionUnresolved {
			return fmt.Errorf("label '%s' is already defined", name)
		}
		st.syms[i].Section = sec
		st.syms[i].Offset = offset
		return nil
	}
	st.insert(Symbol{Name: name, Section: sec, Linkage: LinkRegular, Offset: offset})
	return nil
}

// DeclareExtern records name as supplied at link time. A name already
// known in this file, defined or declared entry, cannot be external.
func (st *SymbolTable) DeclareExtern(name string) error {
	if _, ok := st.index[name]; ok {
		return fmt.Errorf("label '%s' is already known in this file and cannot be external", name)
	}
	st.insert(Symbol{Name: name, Section: SectionIns, Linkage: LinkExternal, Offset: 0})
	return nil
}

// DeclareEntry marks name as exported. An unknown name becomes an
// unresolved placeholder remembering the declaration line for the
// end-of-pass diagnostic.
func (st *SymbolTable) DeclareEntry(name string, line int) error {
	if i, ok := st.index[name]; ok {
		if st.syms[i].Linkage == LinkExternal {
			return fmt.Errorf("label '%s' is external and cannot be an entry", name)
		}
		st.syms[i].Linkage = LinkEntry
		return nil
	}
	st.insert(Symbol{Name: name, Section: SectionUnresolved, Linkage: LinkEntry, Offset: line})
	return nil
}

func (st *SymbolTable) insert(s Symbol) {
	st.index[s.Name] = len(st.syms)
	st.syms = append(st.syms, s)
}
