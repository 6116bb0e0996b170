package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Lllllllleong/documentassistant/internal/models"
	"github.com/Lllllllleong/documentassistant/internal/upload"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: upload.Validate(upload.MaxFileSize+1, upload.MIMEPDF), want: http.StatusBadRequest},
		{name: "invalid request", err: fmt.Errorf("%w: missing text", ErrInvalidRequest), want: http.StatusBadRequest},
		{name: "refusal", err: fmt.Errorf("summarization failed: %w", ErrRefusal), want: http.StatusUnprocessableEntity},
		{name: "other", err: errors.New("vertex down"), want: http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusFor(tt.err); got != tt.want {
				t.Errorf("StatusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("secret backend detail"))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("code = %d", rec.Code)
	}
	var body models.ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "Internal Server Error: processing failed" {
		t.Errorf("body = %q, want generic message", body.Error)
	}

	rec = httptest.NewRecorder()
	WriteError(rec, fmt.Errorf("%w: text or gcsUri is required", ErrInvalidRequest))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("code = %d", rec.Code)
	}
}

func TestWorkflowParent(t *testing.T) {
	got := workflowParent(IntakeConfig{ProjectID: "p", WorkflowLocation: "us-central1", WorkflowID: "wf"})
	if got != "projects/p/locations/us-central1/workflows/wf" {
		t.Errorf("workflowParent = %q", got)
	}
}
