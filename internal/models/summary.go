package models

import "time"

// SummaryResult is what the summarization service returns for one document or text.
type SummaryResult struct {
	DocumentID  string       `json:"documentId,omitempty"`
	Summary     string       `json:"summary"`
	KeyPoints   []string     `json:"keyPoints,omitempty"`
	ActionItems []ActionItem `json:"actionItems"`
	Model       string       `json:"model,omitempty"`
}

// Health states reported by the health endpoint.
const (
	HealthHealthy   = "healthy"
	HealthDegraded  = "degraded"
	HealthUnhealthy = "unhealthy"
)

// HealthStatus is the liveness record of the AI service.
type HealthStatus struct {
	Status             string    `json:"status"`
	GeminiConnected    bool      `json:"geminiConnected"`
	FirestoreConnected bool      `json:"firestoreConnected"`
	Message            string    `json:"message"`
	Model              string    `json:"model"`
	Timestamp          time.Time `json:"timestamp"`
}
