package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sqlchat/conversation"
	"sqlchat/db"
	"sqlchat/service"
)

var (
	userLabel = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	botLabel  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimText   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// lineReader is the part of readline the chat loop needs.
type lineReader interface {
	Readline() (string, error)
}

func newChatCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			client, err := service.NewQueryClient(cfg.QueryEndpoint, cfg.QueryTimeout)
			if err != nil {
				return err
			}

			store, err := db.New()
			if err != nil {
				return err
			}
			defer store.Close()

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          userLabel.Render("you>") + " ",
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
				Stdout:          cmd.OutOrStdout(),
			})
			if err != nil {
				return fmt.Errorf("failed to start line editor: %w", err)
			}
			defer rl.Close()

			conv := conversation.New(uuid.New().String(), store,
				conversation.WithMaxPromptLength(cfg.MaxPromptLength))

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), dimText.Render("Connected to "+cfg.QueryEndpoint+". Type exit to quit."))
			return runChat(cmd.Context(), rl, cmd.OutOrStdout(), conv, service.NewAssistant(client))
		},
	}
}

// runChat reads prompts until EOF, an interrupt on an empty line, or
// exit/quit, printing each bot reply as it arrives.
func runChat(ctx context.Context, in lineReader, out io.Writer, conv *conversation.Conversation, ans conversation.Answerer) error {
	for {
		line, err := in.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			if line == "" {
				return nil
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		switch strings.TrimSpace(line) {
		case "":
			continue
		case "exit", "quit":
			return nil
		}

		_, _ = fmt.Fprintln(out, dimText.Render("Thinking..."))
		msg, err := conv.Submit(ctx, line, ans)
		if err != nil {
			_, _ = fmt.Fprintln(out, conversation.ErrorPrefix+err.Error())
			continue
		}
		_, _ = fmt.Fprintln(out, botLabel.Render("bot>"))
		_, _ = fmt.Fprintln(out, msg.Text)
		_, _ = fmt.Fprintln(out)
	}
}
