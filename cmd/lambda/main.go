package main

import (
	"os"

	awslambda "github.com/aws/aws-lambda-go/lambda"

	"github.com/aashari/go-worklist-extractor/internal/app"
	"github.com/aashari/go-worklist-extractor/internal/config"
	"github.com/aashari/go-worklist-extractor/internal/lambda"
	"github.com/aashari/go-worklist-extractor/internal/logger"
)

func main() {
	if err := logger.InitFromEnv(); err != nil {
		_, _ = os.Stderr.WriteString("FATAL: Failed to initialize logger: " + err.Error() + "\n")
		os.Exit(1)
	}

	cfg, err := config.Load(os.Getenv("EXTRACTOR_CONFIG_FILE"))
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		logger.Error("Failed to initialize application", "error", err)
		os.Exit(1)
	}

	awslambda.Start(lambda.NewAdapter(application.FunctionHandler()).Handle)
}
