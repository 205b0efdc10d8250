package asm

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"goasm/pkg/report"
)

func assembleTo(t *testing.T, base, src string) (*Assembler, *bytes.Buffer) {
	t.Helper()
	buf := &bytes.Buffer{}
	rep := report.New("test.am", buf)
	a := New(rep, nil)
	if err := a.FirstPass(src); err != nil {
		t.Fatalf("FirstPass failed: %v", err)
	}
	if err := a.SecondPass(base); err != nil {
		t.Fatalf("SecondPass failed: %v", err)
	}
	return a, buf
}

func readArtifact(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("cannot read %s: %v", path, err)
	}
	return string(b)
}

func TestSecondPassObjectFile(t *testing.T) {
	base := filepath.Join(t.TempDir(), "t")
	_, buf := assembleTo(t, base, "MAIN: mov r3, r7\n stop\n")
	if buf.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", buf.String())
	}

	want := " aaad aaaa\n" +
		"bcba\taadda\n" +
		"bcbb\tadbda\n" +
		"bcbc\tddaaa\n"
	if got := readArtifact(t, base+".ob"); got != want {
		t.Errorf("object file = %q; want %q", got, want)
	}

	for _, ext := range []string{".ent", ".ext"} {
		if _, err := os.Stat(base + ext); !os.IsNotExist(err) {
			t.Errorf("%s was created for a program with no entries or externals", ext)
		}
	}
}

func TestSecondPassPatchesDataReference(t *testing.T) {
	base := filepath.Join(t.TempDir(), "t")
	src := "MAIN: mov X, r1\nstop\nX: .data 7\n"
	a, buf := assembleTo(t, base, src)
	if buf.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", buf.String())
	}

	// X sits at absolute 104; the operand word carries the address
	// shifted past the A/R/E bits, tagged relocatable.
	if got, want := a.ins[1], Word(104<<2|2); got != want {
		t.Errorf("patched word = %d; want %d", got, want)
	}

	want := " aaba aaab\n" +
		"bcba\taabda\n" +
		"bcbb\tbccac\n" +
		"bcbc\taaaba\n" +
		"bcbd\tddaaa\n" +
		"bcca\taaabd\n"
	if got := readArtifact(t, base+".ob"); got != want {
		t.Errorf("object file = %q; want %q", got, want)
	}
}

func TestSecondPassEntryAndExternalListings(t *testing.T) {
	base := filepath.Join(t.TempDir(), "t")
	src := ".entry MAIN\n.extern X\nMAIN: jmp X\nstop\n"
	a, buf := assembleTo(t, base, src)
	if buf.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", buf.String())
	}

	if got, want := a.ins[1], areExternal; got != want {
		t.Errorf("external operand word = %d; want %d", got, want)
	}

	wantOb := " aaad aaaa\n" +
		"bcba\tcbaba\n" +
		"bcbb\taaaab\n" +
		"bcbc\tddaaa\n"
	if got := readArtifact(t, base+".ob"); got != wantOb {
		t.Errorf("object file = %q; want %q", got, wantOb)
	}
	if got, want := readArtifact(t, base+".ent"), "MAIN bcba\n"; got != want {
		t.Errorf("entry listing = %q; want %q", got, want)
	}
	if got, want := readArtifact(t, base+".ext"), "X bcbb\n"; got != want {
		t.Errorf("external listing = %q; want %q", got, want)
	}
}

func TestSecondPassUndefinedLabel(t *testing.T) {
	base := filepath.Join(t.TempDir(), "t")
	_, buf := assembleTo(t, base, "jmp NOWHERE\nstop\n")
	if !strings.Contains(buf.String(), "'NOWHERE' is not defined") {
		t.Errorf("diagnostics %q missing undefined label report", buf.String())
	}
	if _, err := os.Stat(base + ".ob"); !os.IsNotExist(err) {
		t.Error("object file survived an undefined label")
	}
}

func TestSecondPassDiscardsOnFirstPassError(t *testing.T) {
	base := filepath.Join(t.TempDir(), "t")
	_, buf := assembleTo(t, base, "lea #5, r3\nstop\n")
	if buf.Len() == 0 {
		t.Fatal("no diagnostics for an illegal addressing mode")
	}
	for _, ext := range []string{".ob", ".ent", ".ext"} {
		if _, err := os.Stat(base + ext); !os.IsNotExist(err) {
			t.Errorf("%s survived a first pass error", ext)
		}
	}
}

func TestObjectBodyMatchesHeader(t *testing.T) {
	base := filepath.Join(t.TempDir(), "t")
	src := "MAIN: add r1, r2\nprn #7\nstop\nVALS: .data 1, 2, 3\nSTR: .string \"hi\"\n"
	a, buf := assembleTo(t, base, src)
	if buf.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", buf.String())
	}

	lines := strings.Split(strings.TrimSuffix(readArtifact(t, base+".ob"), "\n"), "\n")
	header := strings.Fields(lines[0])
	ic, err := ParseAddr(header[0])
	if err != nil {
		t.Fatal(err)
	}
	dc, err := ParseAddr(header[1])
	if err != nil {
		t.Fatal(err)
	}
	if ic != a.IC() || dc != a.DC() {
		t.Errorf("header = %d/%d; want %d/%d", ic, dc, a.IC(), a.DC())
	}
	if got, want := len(lines)-1, ic+dc; got != want {
		t.Errorf("body has %d lines; want %d", got, want)
	}
	for i, line := range lines[1:] {
		addr, err := ParseAddr(strings.Split(line, "\t")[0])
		if err != nil {
			t.Fatal(err)
		}
		if addr != Origin+i {
			t.Errorf("line %d address = %d; want %d", i, addr, Origin+i)
		}
	}
}
