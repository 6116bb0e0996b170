package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	cloudevents "github.com/cloudevents/sdk-go/v2"
	"github.com/rs/zerolog/log"

	"github.com/Lllllllleong/documentassistant/internal/logging"
	"github.com/Lllllllleong/documentassistant/internal/services"
)

var (
	intakeInstance *services.IntakeFunction
	once           sync.Once
	initErr        error
)

func init() {
	logging.Init(logging.JSON)

	functions.CloudEvent("HandleDocumentUpload", handleDocumentUpload)
}

func main() {}

// handleDocumentUpload runs on every object finalized in the inbox bucket.
func handleDocumentUpload(ctx context.Context, e cloudevents.Event) error {
	once.Do(func() {
		intakeInstance, initErr = services.NewIntake(context.Background())
	})
	if initErr != nil {
		log.Error().Err(initErr).Msg("Critical error during function initialization")
		return initErr
	}

	var gcsEvent services.GCSEvent
	if err := json.Unmarshal(e.Data(), &gcsEvent); err != nil {
		log.Error().Err(err).Str("data", string(e.Data())).Msg("Failed to unmarshal event data")
		return fmt.Errorf("json.Unmarshal: %w", err)
	}

	// Returning the error marks the invocation as failed so it is retried.
	return intakeInstance.Process(ctx, gcsEvent)
}
