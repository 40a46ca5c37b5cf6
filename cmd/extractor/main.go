package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

//	@title			Worklist Extractor
//	@version		1.0.0
//	@description	Reads patient name, accession ID and modality/study for every worklist row visible in a JPEG using the Gemini generateContent API.

//	@contact.name	API Support
//	@contact.url	https://github.com/aashari/go-worklist-extractor

//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT

//	@host		localhost:8082
//	@BasePath	/

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
