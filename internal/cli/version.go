package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags
var (
	Version = "0.1.0"
	Commit  = ""
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Версия программы",
		Run: func(cmd *cobra.Command, _ []string) {
			if c := resolveCommit(); c != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "flexplan version %s (%s)\n", Version, c)
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "flexplan version %s\n", Version)
		},
	}
}

func resolveCommit() string {
	if Commit != "" {
		return Commit
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return ""
}
