package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"wedding-rsvp/internal/app"
	"wedding-rsvp/internal/config"
	"wedding-rsvp/internal/gateway"
	"wedding-rsvp/internal/logging"
)

func main() {
	cfg := config.LoadConfig()
	log := logging.New(cfg.LogLevel, false)

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize")
		os.Exit(1)
	}
	defer a.Close()

	lambda.Start(gateway.NewHandler(a.Handler, cfg.AllowOrigins, log).Handle)
}
