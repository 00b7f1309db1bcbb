package main

import (
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"triage/internal/tui"
)

func newChatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Run an interview in the terminal",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := buildApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			// Log lines would tear the alternate screen.
			log.Logger = log.Output(io.Discard)

			_, err = tea.NewProgram(tui.New(a.engine, a.retriever), tea.WithAltScreen()).Run()
			return err
		},
	}
}
