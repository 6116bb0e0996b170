package processing

import (
	"fmt"

	"github.com/Lllllllleong/documentassistant/internal/upload"
)

// ValidationError reports input rejected before any network call.
type ValidationError = upload.ValidationError

// SummarizationError wraps a failure of the summarization service. It is
// fatal to the run and no partial summary is kept.
type SummarizationError struct {
	Err error
}

func (e *SummarizationError) Error() string {
	return fmt.Sprintf("summarization failed: %v", e.Err)
}

func (e *SummarizationError) Unwrap() error { return e.Err }

// TaskCreationError wraps a failure of the task service. A run recovers from
// it by continuing with no tasks.
type TaskCreationError struct {
	DocumentID string
	ItemCount  int
	Err        error
}

func (e *TaskCreationError) Error() string {
	return fmt.Sprintf("creating %d tasks for document %s: %v", e.ItemCount, e.DocumentID, e.Err)
}

func (e *TaskCreationError) Unwrap() error { return e.Err }
