package main

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"triage/internal/compose"
	"triage/internal/domain"
	"triage/internal/httpapi"
)

func newRetrieveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "retrieve <query...>",
		Short: "Print the best matching knowledge record as JSON",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			a, err := buildApp(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			var body any
			m, err := a.retriever.Query(cmd.Context(), strings.Join(args, " "))
			switch {
			case err == nil:
				body = httpapi.MatchBody(m)
			case errors.Is(err, domain.ErrNoRelevantMatch):
				body = map[string]string{"response": compose.NoMatchMessage}
			case errors.Is(err, domain.ErrEmptyQuery):
				body = map[string]string{"response": compose.EmptyQueryMessage}
			default:
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(body)
		},
	}
}
