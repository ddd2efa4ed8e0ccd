// Package cmd implements the sqlchat command line.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sqlchat/config"
	"sqlchat/logger"
)

// errReported marks a failure whose message was already printed.
var errReported = errors.New("reported")

type globalOptions struct {
	endpoint string
}

func NewRootCommand() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "sqlchat",
		Short:         "Chat with a natural-language-to-SQL service",
		Long:          "sqlchat sends free-text prompts to a natural-language-to-SQL service and shows the generated query with its result.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.endpoint, "endpoint", "", "query service URL (overrides QUERY_ENDPOINT)")

	root.AddCommand(
		newServeCommand(opts),
		newAskCommand(opts),
		newChatCommand(opts),
	)
	return root
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func loadConfig(opts *globalOptions) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if opts.endpoint != "" {
		cfg.QueryEndpoint = opts.endpoint
	}
	logger.Setup(cfg.LogLevel, cfg.LogFormat)
	return cfg, nil
}
