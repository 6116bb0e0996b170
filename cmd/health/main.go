package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/rs/zerolog/log"

	"github.com/Lllllllleong/documentassistant/internal/logging"
	"github.com/Lllllllleong/documentassistant/internal/services"
)

var (
	healthInstance *services.HealthFunction
	once           sync.Once
	initErr        error
)

func init() {
	logging.Init(logging.JSON)

	functions.HTTP("HandleHealth", handleHealth)
}

func main() {}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		healthInstance, initErr = services.NewHealth(context.Background())
	})
	if initErr != nil {
		log.Error().Err(initErr).Msg("Critical: Health check initialization failed")
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	status := healthInstance.Check(r.Context())
	services.WriteJSON(w, services.HTTPStatus(status), status)
}
