package asm

import (
	"bufio"
	"fmt"
	"os"

	"github.com/golang/glog"

	"goasm/pkg/utils"
)

// SecondPass resolves every pending label reference, then writes the
// object file and, when needed, the entry and external listings. The
// entry and external files are created lazily on first write. If either
// pass flagged a source error, all three artifacts are removed at the
// end and none are kept. The returned error is non-nil only for fatal
// I/O failures, which also remove everything.
func (a *Assembler) SecondPass(basename string) error {
	glog.V(1).Infof("beginning second pass of %s", basename)

	obPath := utils.ArtifactPath(basename, utils.ObjectExt)
	ob, err := os.Create(obPath)
	if err != nil {
		return fmt.Errorf("cannot create %s: %w", obPath, err)
	}

	var ent, ext *os.File
	fail := func(err error) error {
		ob.Close()
		if ent != nil {
			ent.Close()
		}
		if ext != nil {
			ext.Close()
		}
		utils.RemoveOutputs(basename)
		return err
	}

	w := bufio.NewWriter(ob)
	fmt.Fprintf(w, " %s %s\n", FormatAddr(len(a.ins)), FormatAddr(len(a.data)))

	for _, p := range a.pending {
		sym, ok := a.syms.Lookup(p.Label)
		if !ok {
			a.rep.Errorf(p.Line, "label '%s' is not defined", p.Label)
			continue
		}
		if sym.Linkage == LinkExternal {
			a.ins[p.Index] = areExternal
			if ext == nil {
				ext, err = os.Create(utils.ArtifactPath(basename, utils.ExternExt))
				if err != nil {
					return fail(err)
				}
			}
			use := Origin + p.Index
			if _, err := fmt.Fprintf(ext, "%s %s\n", p.Label, FormatAddr(use)); err != nil {
				return fail(err)
			}
			glog.V(2).Infof("external %s used at %d", p.Label, use)
			continue
		}

		abs := Origin + sym.Offset
		if sym.Section == SectionData {
			abs = Origin + len(a.ins) + sym.Offset
		}
		if abs > 0xFF {
			a.rep.Errorf(p.Line, "address of label '%s' does not fit the operand field", p.Label)
		}
		a.ins[p.Index] = Word(abs&0xFF)<<2 | areRelocatable
		glog.V(2).Infof("patched index %d with %s at %d", p.Index, p.Label, abs)
	}

	for i, word := range a.ins {
		fmt.Fprintf(w, "%s\t%s\n", FormatAddr(Origin+i), FormatWord(word))
	}
	for j, word := range a.data {
		fmt.Fprintf(w, "%s\t%s\n", FormatAddr(Origin+len(a.ins)+j), FormatWord(word))
	}
	if err := w.Flush(); err != nil {
		return fail(fmt.Errorf("cannot write %s: %w", obPath, err))
	}

	for _, s := range a.syms.Symbols() {
		if s.Linkage != LinkEntry || s.Section == SectionUnresolved {
			continue
		}
		abs := Origin + s.Offset
		if s.Section == SectionData {
			abs = Origin + len(a.ins) + s.Offset
		}
		if ent == nil {
			ent, err = os.Create(utils.ArtifactPath(basename, utils.EntryExt))
			if err != nil {
				return fail(err)
			}
		}
		if _, err := fmt.Fprintf(ent, "%s %s\n", s.Name, FormatAddr(abs)); err != nil {
			return fail(err)
		}
	}

	ob.Close()
	if ent != nil {
		ent.Close()
	}
	if ext != nil {
		ext.Close()
	}

	if a.rep.HasErrors() {
		glog.V(1).Infof("discarding outputs of %s: %d errors", basename, a.rep.Count())
		utils.RemoveOutputs(basename)
	}
	return nil
}
