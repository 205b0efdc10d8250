package report

import (
	"bytes"
	"testing"
)

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := New("prog.am", &buf)

	if rep.HasErrors() {
		t.Error("fresh reporter has errors")
	}

	rep.Errorf(12, "'%s' is not a valid command name", "foo")
	rep.Errorf(30, "missing parameter")

	want := "File prog.am, line 12: 'foo' is not a valid command name\n" +
		"File prog.am, line 30: missing parameter\n"
	if buf.String() != want {
		t.Errorf("output = %q; want %q", buf.String(), want)
	}
	if !rep.HasErrors() || rep.Count() != 2 {
		t.Errorf("Count() = %d; want 2", rep.Count())
	}
	if rep.File() != "prog.am" {
		t.Errorf("File() = %q; want \"prog.am\"", rep.File())
	}
}
