// Package driver runs the full per-file workflow: macro expansion,
// first pass, second pass, and the artifact retention policy.
package driver

import (
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"

	"goasm/pkg/asm"
	"goasm/pkg/macro"
	"goasm/pkg/report"
	"goasm/pkg/utils"
)

// Process assembles one basename. The bool result is false when the
// file failed for any reason; the error is non-nil only for fatal
// conditions (memory budget, I/O), which should abort the whole run.
// All state is scoped to this call, so files can be processed
// independently.
func Process(basename string, stderr io.Writer, dump bool) (bool, error) {
	glog.V(1).Infof("processing %s", basename)

	macros := macro.NewTable()
	if err := macro.ExpandFile(basename, macros, stderr); err != nil {
		fmt.Fprintln(stderr, err)
		return false, nil
	}

	amPath := utils.ArtifactPath(basename, utils.ExpandedExt)
	src, err := os.ReadFile(amPath)
	if err != nil {
		fmt.Fprintf(stderr, "cannot open %s: %v\n", amPath, err)
		return false, nil
	}

	rep := report.New(amPath, stderr)
	a := asm.New(rep, macros)
	if err := a.FirstPass(string(src)); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", basename, err)
		return false, err
	}
	if dump {
		a.Dump(stderr)
	}
	if err := a.SecondPass(basename); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", basename, err)
		return false, err
	}
	return !rep.HasErrors(), nil
}

// Run processes each basename in order and returns the process exit
// status: 1 when any file failed or a fatal error occurred, else 0.
// Fatal errors abort the remaining files.
func Run(basenames []string, stderr io.Writer, dump bool) int {
	status := 0
	for _, b := range basenames {
		ok, err := Process(b, stderr, dump)
		if err != nil {
			return 1
		}
		if !ok {
			status = 1
		}
	}
	return status
}
