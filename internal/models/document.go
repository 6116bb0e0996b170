package models

import "time"

// Document statuses as stored in Firestore.
const (
	StatusReceived    = "RECEIVED"
	StatusValidating  = "VALIDATING"
	StatusSummarizing = "SUMMARIZING"
	StatusSummarized  = "SUMMARIZED"
	StatusFailed      = "FAILED"
)

// Document represents the main record for an uploaded document in Firestore.
// It tracks the overall status, the summary and the metadata of the file.
type Document struct {
	FileHash            string    `firestore:"fileHash,omitempty"`
	OriginalFilename    string    `firestore:"originalFilename,omitempty"`
	MIMEType            string    `firestore:"mimeType,omitempty"`
	SizeBytes           int64     `firestore:"sizeBytes,omitempty"`
	GCSUri              string    `firestore:"gcsUri,omitempty"`
	Status              string    `firestore:"status,omitempty"`
	ErrorDetails        string    `firestore:"errorDetails,omitempty"`
	PageCount           int       `firestore:"pageCount,omitempty"`
	Summary             string    `firestore:"summary,omitempty"`
	ActionItemCount     int       `firestore:"actionItemCount"`
	WorkflowExecutionID string    `firestore:"workflowExecutionId,omitempty"` // For traceability
	CreatedAt           time.Time `firestore:"createdAt,omitempty"`
	UpdatedAt           time.Time `firestore:"updatedAt,omitempty"`
}
