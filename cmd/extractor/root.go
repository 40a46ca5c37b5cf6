package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aashari/go-worklist-extractor/internal/app"
	"github.com/aashari/go-worklist-extractor/internal/config"
	"github.com/aashari/go-worklist-extractor/internal/logger"
)

var (
	cfgFile string
	loader  = config.NewLoader()
)

var rootCmd = &cobra.Command{
	Use:   "extractor",
	Short: "Extract worklist records from JPEG screenshots with Gemini",
	Long: `Extractor reads patient name, accession ID and modality/study for every
worklist row visible in a JPEG image.

The image is sent once to the Gemini generateContent API together with a
fixed prompt and a response schema; the resulting JSON array is returned
unchanged. Nothing is stored and nothing is retried.`,
	Version:       app.Version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml, ./config/config.yaml or /etc/worklist-extractor/config.yaml)",
	)
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	_ = loader.Viper().BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))

	rootCmd.AddCommand(versionCmd)
}

// loadConfig resolves configuration and initializes logging from it
func loadConfig() (*config.Config, error) {
	cfg, err := loader.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	if err := logger.Init(logger.Config{
		Level:       logger.ParseLevel(cfg.Logging.Level),
		Format:      cfg.Logging.Format,
		Output:      cfg.Logging.Output,
		ServiceName: logger.ServiceName,
		Environment: logger.Environment,
	}); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return cfg, nil
}
