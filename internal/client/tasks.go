package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Lllllllleong/documentassistant/internal/models"
	"github.com/Lllllllleong/documentassistant/internal/processing"
)

// TaskService calls the create-tasks function.
type TaskService struct {
	url        string
	httpClient *http.Client
}

// NewTaskService creates a client for the task function. A nil httpClient
// means http.DefaultClient.
func NewTaskService(url string, httpClient *http.Client) *TaskService {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &TaskService{url: url, httpClient: httpClient}
}

var _ processing.TaskCreator = (*TaskService)(nil)

// CreateTasksBatch persists a batch of action items as tasks.
func (c *TaskService) CreateTasksBatch(ctx context.Context, batch models.CreateTasksBatchRequest) (*models.CreateTasksBatchResponse, error) {
	req, err := newJSONRequest(ctx, http.MethodPost, c.url, batch)
	if err != nil {
		return nil, err
	}
	var out models.CreateTasksBatchResponse
	if err := do(c.httpClient, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListTasks returns the tasks created for a document.
func (c *TaskService) ListTasks(ctx context.Context, documentID string) (*models.ListTasksResponse, error) {
	u, err := url.Parse(c.url)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("documentId", documentID)
	u.RawQuery = q.Encode()

	req, err := newJSONRequest(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	var out models.ListTasksResponse
	if err := do(c.httpClient, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
