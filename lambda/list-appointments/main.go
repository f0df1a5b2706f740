package main

import (
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/clinicbackend/internal/api"
	"github.com/clinicbackend/internal/auth"
	"github.com/clinicbackend/internal/config"
	"github.com/clinicbackend/internal/store"
)

var app *api.App

func init() {
	cfg, err := config.Load()
	if err != nil {
		log.Printf("configuration error: %v", err)
		os.Exit(1)
	}

	st, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Printf("error initializing database: %v", err)
		os.Exit(1)
	}

	app = &api.App{
		Tokens:       auth.NewCodec(cfg.TokenSigningSecret, cfg.TokenTTL),
		TokenTTL:     cfg.TokenTTL,
		Appointments: st,
	}
}

func main() {
	lambda.Start(app.HandleListAppointments)
}
