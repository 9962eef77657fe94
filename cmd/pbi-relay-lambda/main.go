package main

import (
	"context"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/deppfellow/pbi-relay/internal/app"
	"github.com/deppfellow/pbi-relay/internal/gateway"
)

func main() {
	a, err := app.New(context.Background())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize")
	}

	adapter := gateway.NewAdapter(a.Handlers.WorkItem, a.Logger)

	lambda.StartWithOptions(adapter.Handle, lambda.WithEnableSIGTERM(a.Server.LoggerService.Shutdown))
}
