package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aashari/go-worklist-extractor/internal/app"
)

var extractCmd = &cobra.Command{
	Use:   "extract <image.jpg>",
	Short: "Extract records from a local JPEG",
	Long: `Read a JPEG from disk, send it through the same extraction path the
server uses and print the resulting JSON array.

Examples:
  extractor extract worklist.jpg
  GEMINI_API_KEY=... extractor extract --log-level debug worklist.jpg`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		image, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read image: %w", err)
		}

		// stdout carries the result
		loader.Viper().SetDefault("logging.output", "stderr")

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		application, err := app.NewApp(cfg)
		if err != nil {
			return err
		}

		result, err := application.Extractor.Extract(cmd.Context(), base64.StdEncoding.EncodeToString(image))
		if err != nil {
			return err
		}

		var out bytes.Buffer
		if err := json.Indent(&out, result.Raw, "", "  "); err != nil {
			return fmt.Errorf("failed to format result: %w", err)
		}
		out.WriteByte('\n')
		_, err = cmd.OutOrStdout().Write(out.Bytes())
		return err
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
