package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/aashari/go-worklist-extractor/internal/app"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "extractor %s\n", app.Version)
		fmt.Fprintf(out, "  Go:     %s\n", runtime.Version())
		fmt.Fprintf(out, "  Commit: %s\n", app.Commit)
		fmt.Fprintf(out, "  Date:   %s\n", app.BuildDate)
	},
}
