package processing

import (
	"io"
	"strings"

	"github.com/Lllllllleong/documentassistant/internal/models"
)

// Options configures one processing run.
type Options struct {
	// AutoCreateTasks asks the summarizer for action items and turns them into tasks.
	AutoCreateTasks bool
	// Priority is given to action items that carry none.
	Priority models.Priority
	// Department is given to action items that carry none. Empty means "General".
	Department string
	// AssignToUsers is accepted for compatibility with older callers. Nothing
	// downstream reads it.
	AssignToUsers bool
}

// DefaultOptions creates tasks automatically at medium priority.
func DefaultOptions() Options {
	return Options{
		AutoCreateTasks: true,
		Priority:        models.PriorityMedium,
	}
}

func (o Options) normalized() Options {
	if !o.Priority.Valid() {
		o.Priority = models.PriorityMedium
	}
	o.Department = strings.TrimSpace(o.Department)
	return o
}

// File is an upload to be summarized.
type File struct {
	Name     string
	Size     int64
	MIMEType string
	Content  io.Reader
}
