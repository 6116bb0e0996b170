package models

// These structs define the JSON payloads for HTTP requests and responses
// between the clients, the Cloud Workflow and the Cloud Functions.

// SummarizeRequest is the JSON input for the summarize-document function.
// Exactly one of Text or GCSUri must be set.
type SummarizeRequest struct {
	DocumentID         string `json:"documentId,omitempty"`
	GCSUri             string `json:"gcsUri,omitempty"`
	MIMEType           string `json:"mimeType,omitempty"`
	Text               string `json:"text,omitempty"`
	ExtractActionItems bool   `json:"extractActionItems"`
	ExecutionID        string `json:"executionId,omitempty"`
}

// CreateTasksBatchRequest is the input for the create-tasks function.
type CreateTasksBatchRequest struct {
	ActionItems []ActionItem `json:"actionItems"`
	DocumentID  string       `json:"documentId"`
	CreatedBy   string       `json:"createdBy"`
}

// CreateTasksBatchResponse is the output of the create-tasks function.
type CreateTasksBatchResponse struct {
	Tasks []Task `json:"tasks"`
}

// ListTasksResponse is the output of a task listing.
type ListTasksResponse struct {
	DocumentID string `json:"documentId"`
	Tasks      []Task `json:"tasks"`
}

// ErrorResponse is the body of every non-2xx response from the functions.
type ErrorResponse struct {
	Error string `json:"error"`
}

// WorkflowArgument is the execution argument passed to the processing workflow.
type WorkflowArgument struct {
	DocumentID string `json:"documentId"`
	GCSUri     string `json:"gcsUri"`
	MIMEType   string `json:"mimeType"`
	PageCount  int    `json:"pageCount,omitempty"`
}
