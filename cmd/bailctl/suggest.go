package main

import (
	"errors"
	"fmt"

	"bailbridge-backend/bootstrap"
	"bailbridge-backend/gemini"
	"bailbridge-backend/models"
	"bailbridge-backend/service"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Run one bail eligibility suggestion",
	Long:  "Reads case facts from a JSON file, runs the suggestion pipeline in-process, and prints the response envelope.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		factsPath, _ := cmd.Flags().GetString("facts")
		origin, _ := cmd.Flags().GetString("origin")
		if origin == "" {
			origin = fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
		} else {
			cfg.Reference.TrustRequestOrigin = true
		}

		var facts models.CaseFacts
		if err := readJSONFile(factsPath, &facts); err != nil {
			return err
		}

		svc, closeAll, err := bootstrap.NewSuggestionService(ctx, cfg)
		if err != nil {
			return err
		}
		defer closeAll()

		res, err := svc.Suggest(ctx, service.SuggestRequest{Facts: facts, Origin: origin})
		if err != nil {
			message := err.Error()
			var apiErr *gemini.APIError
			if errors.As(err, &apiErr) {
				message = apiErr.Message
			}
			_ = printJSON(cmd.OutOrStdout(), models.NewSuggestionFailure(models.SuggestionFailureLabel, message))
			return eris.Wrap(err, "suggest")
		}

		return printJSON(cmd.OutOrStdout(), models.NewSuggestionSuccess(res.Suggestion, res.Timestamp))
	},
}

func init() {
	suggestCmd.Flags().String("facts", "", "path to a JSON file of case facts")
	suggestCmd.Flags().String("origin", "", "origin serving the section dataset for the http reference source")
	_ = suggestCmd.MarkFlagRequired("facts")
	rootCmd.AddCommand(suggestCmd)
}
