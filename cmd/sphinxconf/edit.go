package main

import (
	"fmt"

	"github.com/spf13/cobra"

	backend "github.com/honeybbq/sphinxconf/backend/sphinx"
	ast "github.com/honeybbq/sphinxconf/pkg/ast/sphinx"
	"github.com/honeybbq/sphinxconf/pkg/sphinxconf"
)

// identity parses the leading CLI arguments into (type, name) and returns
// the remaining arguments. source/index 需要名字，其余类型匿名。
func identity(args []string) (ast.Type, string, []string, error) {
	if len(args) == 0 {
		return "", "", nil, fmt.Errorf("section type required (source|index|indexer|searchd|search)")
	}
	typ, ok := ast.ParseType(args[0])
	if !ok {
		return "", "", nil, fmt.Errorf("unknown section type %q", args[0])
	}
	if !typ.Named() {
		return typ, "", args[1:], nil
	}
	if len(args) < 2 {
		return "", "", nil, fmt.Errorf("%s sections require a name", typ)
	}
	return typ, args[1], args[2:], nil
}

func load(path string) (*backend.Config, error) {
	cfg := backend.New()
	if err := cfg.Load(cmdContext(), path); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newGetCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <type> [name] [key]",
		Short: "Print a value, or a whole section when key is omitted",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(*configPath)
			if err != nil {
				return err
			}
			typ, name, rest, err := identity(args)
			if err != nil {
				return err
			}

			if len(rest) == 0 {
				pairs, ok := cfg.Pairs(typ, name)
				if !ok {
					return fmt.Errorf("no such section: %s %s", typ, name)
				}
				s, _ := cfg.Section(typ, name)
				for _, key := range s.Keys() {
					for _, item := range pairs[key] {
						fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, item)
					}
				}
				return nil
			}

			value, ok := cfg.Get(typ, name, rest[0])
			if !ok {
				return fmt.Errorf("no such key: %s", rest[0])
			}
			for _, item := range value {
				fmt.Fprintln(cmd.OutOrStdout(), item)
			}
			return nil
		},
	}
}

func newSetCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "set <type> [name] <key> <value>...",
		Short: "Set a key and write the file back",
		Long: `Set a key on a section, creating the section when it does not exist.
Multiple values form an ordered list. Children that still inherit the key
follow the new value; children with their own value are left alone.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(*configPath)
			if err != nil {
				return err
			}
			typ, name, rest, err := identity(args)
			if err != nil {
				return err
			}
			if len(rest) < 2 {
				return fmt.Errorf("key and at least one value required")
			}
			if _, err := cfg.Set(typ, name, rest[0], ast.List(rest[1:]...)); err != nil {
				return err
			}
			return cfg.Save(cmdContext(), sphinxconf.RenderOptions{})
		},
	}
}

func newDelCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "del <type> [name] [key]",
		Short: "Delete a key, or a whole section when key is omitted",
		Args:  cobra.RangeArgs(1, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load(*configPath)
			if err != nil {
				return err
			}
			typ, name, rest, err := identity(args)
			if err != nil {
				return err
			}

			if _, ok := cfg.Section(typ, name); !ok {
				return fmt.Errorf("no such section: %s %s", typ, name)
			}
			if len(rest) == 0 {
				cfg.DeleteSection(typ, name)
			} else {
				if _, err := cfg.Set(typ, name, rest[0], nil); err != nil {
					return err
				}
			}
			return cfg.Save(cmdContext(), sphinxconf.RenderOptions{})
		},
	}
}
