package main

import (
	"encoding/json"
	"io"
	"os"

	"bailbridge-backend/bailapi"
	"bailbridge-backend/config"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "bailctl",
	Short: "Operator CLI for BailBridge",
	Long:  "Runs bail eligibility suggestions locally and drives the auth and bail-application service.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config.LoadDotEnv()

		c, err := config.Load()
		if err != nil {
			return eris.Wrap(err, "load config")
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return eris.Wrap(err, "init logger")
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().String("token", "", "bearer token for the bail-application service (default $BAILBRIDGE_BAIL_API_TOKEN)")
	rootCmd.PersistentFlags().String("api-url", "", "base URL of the bail-application service (default bail_api.base_url)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newAPIClient builds a bailapi client from flags, falling back to config
func newAPIClient(cmd *cobra.Command) *bailapi.Client {
	baseURL, _ := cmd.Flags().GetString("api-url")
	if baseURL == "" {
		baseURL = cfg.BailAPI.BaseURL
	}
	token, _ := cmd.Flags().GetString("token")
	if token == "" {
		token = cfg.BailAPI.Token
	}
	return bailapi.NewClient(baseURL, bailapi.WithToken(token))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func readJSONFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read %s", path)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return eris.Wrapf(err, "parse %s", path)
	}
	return nil
}
