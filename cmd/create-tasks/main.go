package main

import (
	"context"
	"net/http"
	"strings"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/rs/zerolog/log"

	"github.com/Lllllllleong/documentassistant/internal/logging"
	"github.com/Lllllllleong/documentassistant/internal/models"
	"github.com/Lllllllleong/documentassistant/internal/services"
)

var (
	taskInstance *services.TaskFunction
	once         sync.Once
	initErr      error
)

func init() {
	logging.Init(logging.JSON)

	functions.HTTP("HandleTasks", handleTasks)
}

func main() {}

// handleTasks creates a batch of tasks on POST and lists a document's tasks
// on GET ?documentId=.
func handleTasks(w http.ResponseWriter, r *http.Request) {
	once.Do(func() {
		taskInstance, initErr = services.NewTaskFunction(context.Background())
	})
	if initErr != nil {
		log.Error().Err(initErr).Msg("Critical: Task service initialization failed")
		http.Error(w, "Internal Server Error: failed to initialize service", http.StatusInternalServerError)
		return
	}

	switch r.Method {
	case http.MethodPost:
		var req models.CreateTasksBatchRequest
		if err := services.DecodeJSON(w, r, &req); err != nil {
			log.Warn().Err(err).Msg("Could not decode request body")
			services.WriteError(w, err)
			return
		}
		res, err := taskInstance.CreateBatch(r.Context(), &req)
		if err != nil {
			services.WriteError(w, err)
			return
		}
		services.WriteJSON(w, http.StatusCreated, res)

	case http.MethodGet:
		documentID := strings.TrimSpace(r.URL.Query().Get("documentId"))
		if documentID == "" {
			services.WriteJSON(w, http.StatusBadRequest, models.ErrorResponse{Error: "documentId is required"})
			return
		}
		res, err := taskInstance.ListByDocument(r.Context(), documentID)
		if err != nil {
			services.WriteError(w, err)
			return
		}
		services.WriteJSON(w, http.StatusOK, res)

	default:
		w.Header().Set("Allow", "GET, POST")
		services.WriteJSON(w, http.StatusMethodNotAllowed, models.ErrorResponse{Error: "method not allowed"})
	}
}
