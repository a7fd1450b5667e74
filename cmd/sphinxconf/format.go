package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/honeybbq/sphinxconf/pkg/sphinxconf"
)

func newFmtCommand(configPath *string) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Reprint the configuration in minimal canonical form",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(*configPath)
			if err != nil {
				return err
			}
			if write {
				return cfg.Save(cmdContext(), sphinxconf.RenderOptions{})
			}
			text, err := cfg.AsString(cmdContext(), sphinxconf.RenderOptions{})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the file instead of printing")
	return cmd
}

func newFlattenCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "flatten",
		Short: "Print every section as a standalone, complete block",
		Long: `Flatten disables preserve-inheritance for the output: no ": parent"
syntax is emitted and every section carries its full resolved set of keys.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(*configPath)
			if err != nil {
				return err
			}
			cfg.SetPreserveInheritance(false)
			text, err := cfg.AsString(cmdContext(), sphinxconf.RenderOptions{})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), text)
			return nil
		},
	}
}

func newDumpCommand(configPath *string) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Export the document as YAML or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(*configPath)
			if err != nil {
				return err
			}
			views := sphinxconf.DocumentView(cfg.Document())

			switch format {
			case "yaml":
				payload, err := yaml.Marshal(views)
				if err != nil {
					return err
				}
				cmd.OutOrStdout().Write(payload)
			case "json":
				payload, err := json.MarshalIndent(views, "", "  ")
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			default:
				return fmt.Errorf("unknown format %q (use yaml|json)", format)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml | json")
	return cmd
}
