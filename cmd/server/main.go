// Command server runs the caseflow trash lifecycle HTTP API.
//
// Configuration comes from CONFIG_PATH (or ./config.yaml) and the
// environment; a .env file in the working directory is loaded first if present.
//
// Exit codes: 0 = clean shutdown, 1 = error.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/heartmarshall/caseflow-backend/internal/app"
)

func main() {
	_ = godotenv.Load()

	if err := app.Run(context.Background()); err != nil {
		slog.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
