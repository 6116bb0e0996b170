package main

import (
	"context"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/rs/zerolog/log"

	"github.com/Lllllllleong/documentassistant/internal/logging"
	"github.com/Lllllllleong/documentassistant/internal/models"
	"github.com/Lllllllleong/documentassistant/internal/services"
)

var (
	summarizerInstance *services.SummarizerFunction
	once               sync.Once
	initErr            error
)

func init() {
	logging.Init(logging.JSON)

	functions.HTTP("HandleSummarize", handleSummarize)
}

func main() {}

// handleSummarize accepts either a multipart upload ("file" plus an optional
// "extractActionItems" field) or a JSON SummarizeRequest.
func handleSummarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		services.WriteJSON(w, http.StatusMethodNotAllowed, models.ErrorResponse{Error: "method not allowed"})
		return
	}

	once.Do(func() {
		summarizerInstance, initErr = services.NewSummarizer(context.Background())
	})
	if initErr != nil {
		log.Error().Err(initErr).Msg("Critical: Summarizer initialization failed")
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	var (
		res *models.SummaryResult
		err error
	)
	if services.IsMultipart(r) {
		up, extract, readErr := services.ReadUpload(w, r)
		if readErr != nil {
			log.Warn().Err(readErr).Msg("Could not read upload")
			services.WriteError(w, readErr)
			return
		}
		res, err = summarizerInstance.ProcessUpload(r.Context(), up, extract)
	} else {
		var req models.SummarizeRequest
		if decodeErr := services.DecodeJSON(w, r, &req); decodeErr != nil {
			log.Warn().Err(decodeErr).Msg("Could not decode request body")
			services.WriteError(w, decodeErr)
			return
		}
		res, err = summarizerInstance.Process(r.Context(), &req)
	}
	if err != nil {
		// Already logged with context in the service.
		services.WriteError(w, err)
		return
	}

	services.WriteJSON(w, http.StatusOK, res)
}
