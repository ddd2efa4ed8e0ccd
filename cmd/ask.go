package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sqlchat/conversation"
	"sqlchat/service"
	"sqlchat/validation"
)

func newAskCommand(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "ask <prompt...>",
		Short: "Send one prompt and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "markdown" && format != "table" {
				return fmt.Errorf("unknown format %q (want markdown or table)", format)
			}

			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			prompt := strings.Join(args, " ")
			if err := validation.ValidatePrompt(prompt, cfg.MaxPromptLength); err != nil {
				return err
			}

			client, err := service.NewQueryClient(cfg.QueryEndpoint, cfg.QueryTimeout)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			ans, err := service.NewAssistant(client).Ask(cmd.Context(), prompt)
			if err != nil {
				_, _ = fmt.Fprintln(out, conversation.ErrorPrefix+err.Error())
				return errReported
			}

			if format == "table" {
				service.RenderTerminal(out, *ans)
				return nil
			}
			_, _ = fmt.Fprintln(out, service.RenderMarkdown(ans.SQL, ans.Table))
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "output format: markdown or table")
	return cmd
}
