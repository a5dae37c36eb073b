package cli

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pfaciana/conventional-commits-changelog/internal/build"
	"github.com/pfaciana/conventional-commits-changelog/internal/output"
)

var versionPlainFlag bool

var versionCmd = &cobra.Command{
	Use:     "version",
	Aliases: []string{"v"},
	Short:   "Display version information (v)",
	Long:    "Display version, commit, build date, and Go version information",
	Run: func(cmd *cobra.Command, args []string) {
		if versionPlainFlag {
			fmt.Fprintln(cmd.OutOrStdout(), build.Version)
			return
		}

		out := cmd.OutOrStdout()
		heading := "changelog " + build.Version
		if build.IsDevBuild() {
			heading += " (dev)"
		}
		output.PrintHeading(out, heading)

		width := output.GetTerminalWidth()
		if width > 48 {
			width = 48
		}
		dim := color.New(color.Faint).SprintFunc()
		fmt.Fprintln(out, dim(strings.Repeat("-", width)))
		fmt.Fprintf(out, "%s %s\n", dim("commit:"), build.Commit)
		fmt.Fprintf(out, "%s %s\n", dim("built:"), build.BuildDate)
		fmt.Fprintf(out, "%s %s\n", dim("go:"), runtime.Version())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&versionPlainFlag, "plain", false, "Plain output (for scripts)")
}
