package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"triage/internal/config"
	"triage/internal/observability"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "triage",
	Short: "Conversational symptom triage assistant",
	Long: `triage interviews a user about their symptoms in French, screens for
emergencies, ranks likely diseases and points to the right specialist,
citing supporting records from the loaded knowledge sources.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ./config.yaml or ~/.config/triage/config.yaml)")
	rootCmd.AddCommand(newServeCmd(), newChatCmd(), newRetrieveCmd(), newConfigCmd())
}

// loadConfig reads the config and sets up logging from it.
func loadConfig() (*config.AppConfig, error) {
	var (
		cfg *config.AppConfig
		err error
	)
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		return nil, err
	}
	observability.InitLogger(cfg.Log.Service, cfg.Log.Format, cfg.Log.Level)
	return cfg, nil
}

func main() {
	_ = godotenv.Load()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
