package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func cmdContext() context.Context {
	return context.Background()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "sphinxconf",
		Short: "Inspect and edit sphinx search configuration files",
		Long: `sphinxconf reads, edits and rewrites sphinx.conf files while keeping
section inheritance intact: values a child section inherits from its parent
follow the parent until the child overrides them, and serialized output stays
minimal (inherited values are omitted, ": parent" syntax is preserved).`,
		Version: version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "sphinx.conf", "configuration file to operate on")

	rootCmd.AddCommand(newGetCommand(&configPath))
	rootCmd.AddCommand(newSetCommand(&configPath))
	rootCmd.AddCommand(newDelCommand(&configPath))
	rootCmd.AddCommand(newFmtCommand(&configPath))
	rootCmd.AddCommand(newFlattenCommand(&configPath))
	rootCmd.AddCommand(newDumpCommand(&configPath))
	rootCmd.AddCommand(newWatchCommand(&configPath))

	return rootCmd
}
