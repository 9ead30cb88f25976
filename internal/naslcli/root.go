package naslcli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version information, set at build time via -ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// NewRootCommand builds the naslrun command tree.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "naslrun",
		Short: "Runtime and tooling for legacy vulnerability-scanning scripts",
		Long: color.CyanString(`naslrun - legacy scripting-language runtime

naslrun lexes, parses, and interprets vulnerability-scanning scripts
against a plugin feed, rewrites call sites across a feed tree, and
drives the feed-update pipeline that keeps a scanner's knowledge base
current.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(NewVersionCommand())
	rootCmd.AddCommand(NewUpdateCommand())
	rootCmd.AddCommand(NewTranspileCommand())
	rootCmd.AddCommand(NewWatchCommand())
	rootCmd.AddCommand(NewServeCommand())

	return rootCmd
}

// NewVersionCommand reports the naslrun build's version information.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("naslrun %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		},
	}
}
