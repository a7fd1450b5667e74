package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	ast "github.com/honeybbq/sphinxconf/pkg/ast/sphinx"
	"github.com/honeybbq/sphinxconf/pkg/watch"
)

func newWatchCommand(configPath *string) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Reload the configuration on change and report each reload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := hclog.New(&hclog.LoggerOptions{
				Name:  "sphinxconf",
				Level: hclog.Info,
			})

			// 先加载一次，尽早暴露路径/语法问题
			if _, err := load(*configPath); err != nil {
				return err
			}

			watcher, err := watch.New(*configPath, func(doc *ast.Document) {
				for _, s := range doc.Sections() {
					name := s.Name()
					if name == "" {
						name = "-"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d keys\n", s.Type(), name, len(s.Keys()))
				}
			}, watch.WithLogger(logger), watch.WithDebounce(debounce))
			if err != nil {
				return err
			}
			defer watcher.Close()

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			return nil
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "coalesce window for bursts of writes")
	return cmd
}
