package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/Lllllllleong/documentassistant/internal/gcp"
	"github.com/Lllllllleong/documentassistant/internal/models"
)

const probeTimeout = 5 * time.Second

// probeFunc reports whether a dependency answers.
type probeFunc func(ctx context.Context) error

// HealthFunction checks the dependencies of the AI service.
type HealthFunction struct {
	model          string
	geminiProbe    probeFunc
	firestoreProbe probeFunc
	now            func() time.Time
	logger         zerolog.Logger
}

// NewHealth creates a HealthFunction probing the configured model and Firestore.
func NewHealth(ctx context.Context) (*HealthFunction, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}
	region := gcp.GetEnv("VERTEX_AI_REGION", "us-central1")
	collection := gcp.GetEnv("DOCUMENTS_COLLECTION", "documents")

	vertexClient, err := gcp.NewVertexClient(ctx, projectID, region, gcp.GetEnv("GEMINI_MODEL", gcp.DefaultModelName))
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex client: %w", err)
	}
	firestoreClient, err := gcp.NewFirestoreClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &HealthFunction{
		model:       vertexClient.ModelName,
		geminiProbe: vertexClient.Ping,
		firestoreProbe: func(ctx context.Context) error {
			_, err := firestoreClient.Collection(collection).Limit(1).Documents(ctx).GetAll()
			return err
		},
		now:    time.Now,
		logger: log.With().Str("function", "health").Logger(),
	}, nil
}

// Check probes Gemini and Firestore concurrently. Gemini being unreachable
// makes the service unhealthy; Firestore alone makes it degraded.
func (f *HealthFunction) Check(ctx context.Context) models.HealthStatus {
	var geminiErr, firestoreErr error

	var g errgroup.Group
	g.Go(func() error {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		geminiErr = f.geminiProbe(pctx)
		return nil
	})
	g.Go(func() error {
		pctx, cancel := context.WithTimeout(ctx, probeTimeout)
		defer cancel()
		firestoreErr = f.firestoreProbe(pctx)
		return nil
	})
	_ = g.Wait()

	status := healthStatus(f.model, geminiErr, firestoreErr, f.now().UTC())
	evt := f.logger.Info()
	if status.Status != models.HealthHealthy {
		evt = f.logger.Warn().AnErr("geminiError", geminiErr).AnErr("firestoreError", firestoreErr)
	}
	evt.Str("status", status.Status).Msg("Health check complete.")
	return status
}

func healthStatus(model string, geminiErr, firestoreErr error, now time.Time) models.HealthStatus {
	s := models.HealthStatus{
		GeminiConnected:    geminiErr == nil,
		FirestoreConnected: firestoreErr == nil,
		Model:              model,
		Timestamp:          now,
	}
	switch {
	case geminiErr != nil:
		s.Status = models.HealthUnhealthy
		s.Message = fmt.Sprintf("gemini probe failed: %v", geminiErr)
	case firestoreErr != nil:
		s.Status = models.HealthDegraded
		s.Message = fmt.Sprintf("firestore probe failed: %v", firestoreErr)
	default:
		s.Status = models.HealthHealthy
		s.Message = "AI service is operational"
	}
	return s
}

// HTTPStatus is 503 when the service cannot summarize, 200 otherwise.
func HTTPStatus(s models.HealthStatus) int {
	if s.Status == models.HealthUnhealthy {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}
