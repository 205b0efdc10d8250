package main

import (
	"flag"
	"os"

	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"goasm/pkg/driver"
)

func main() {
	var dump bool

	root := &cobra.Command{
		Use:   "goasm basename...",
		Short: "Two-pass assembler for the 20465 machine",
		Long: `goasm assembles programs for the 16-bit 20465 machine.

For each basename B it reads B.as, expands macros into B.am, and on a
clean run of both passes writes B.ob plus B.ent and B.ext listings when
the program exports or imports symbols.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			defer glog.Flush()
			os.Exit(driver.Run(args, os.Stderr, dump))
		},
	}
	root.Flags().BoolVar(&dump, "dump", false, "print assembler state after the first pass")
	root.Flags().AddGoFlagSet(flag.CommandLine)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
