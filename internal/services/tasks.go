package services

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"

	"github.com/Lllllllleong/documentassistant/internal/gcp"
	"github.com/Lllllllleong/documentassistant/internal/models"
)

// MaxBatchSize bounds one batch so it fits in a single Firestore transaction.
const MaxBatchSize = 100

const maxTitleLength = 80

// TaskConfig holds configuration for the task service.
type TaskConfig struct {
	ProjectID       string
	TasksCollection string
}

// TaskFunction holds dependencies for task creation and listing.
type TaskFunction struct {
	firestoreClient *firestore.Client
	config          TaskConfig
	logger          zerolog.Logger
}

// NewTaskFunction creates a new TaskFunction instance.
func NewTaskFunction(ctx context.Context) (*TaskFunction, error) {
	projectID := gcp.GetEnv("PROJECT_ID", "")
	if projectID == "" {
		return nil, fmt.Errorf("PROJECT_ID environment variable must be set")
	}

	config := TaskConfig{
		ProjectID:       projectID,
		TasksCollection: gcp.GetEnv("TASKS_COLLECTION", "tasks"),
	}

	firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &TaskFunction{
		firestoreClient: firestoreClient,
		config:          config,
		logger:          log.With().Str("function", "create-tasks").Logger(),
	}, nil
}

// CreateBatch persists every action item of the request as a task, all or nothing.
func (f *TaskFunction) CreateBatch(ctx context.Context, req *models.CreateTasksBatchRequest) (*models.CreateTasksBatchResponse, error) {
	logger := f.logger.With().Str("documentId", req.DocumentID).Str("createdBy", req.CreatedBy).Logger()

	tasks, err := buildTasks(req, time.Now().UTC(), uuid.NewString)
	if err != nil {
		logger.Warn().Err(err).Msg("Rejected task batch.")
		return nil, err
	}

	coll := f.firestoreClient.Collection(f.config.TasksCollection)
	err = f.firestoreClient.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, task := range tasks {
			if err := tx.Create(coll.Doc(task.ID), task); err != nil {
				return fmt.Errorf("task %s: %w", task.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		logger.Error().Err(err).Int("taskCount", len(tasks)).Msg("Failed to persist tasks")
		return nil, fmt.Errorf("failed to persist tasks: %w", err)
	}

	logger.Info().Int("taskCount", len(tasks)).Msg("Tasks created.")
	return &models.CreateTasksBatchResponse{Tasks: tasks}, nil
}

// ListByDocument returns the tasks of a document, oldest first.
func (f *TaskFunction) ListByDocument(ctx context.Context, documentID string) (*models.ListTasksResponse, error) {
	if documentID == "" {
		return nil, fmt.Errorf("%w: documentId is required", ErrInvalidRequest)
	}

	it := f.firestoreClient.Collection(f.config.TasksCollection).
		Where("documentId", "==", documentID).
		OrderBy("createdAt", firestore.Asc).
		Documents(ctx)
	defer it.Stop()

	tasks := []models.Task{}
	for {
		snap, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			f.logger.Error().Err(err).Str("documentId", documentID).Msg("Failed to list tasks")
			return nil, fmt.Errorf("failed to list tasks: %w", err)
		}
		var task models.Task
		if err := snap.DataTo(&task); err != nil {
			return nil, fmt.Errorf("failed to decode task %s: %w", snap.Ref.ID, err)
		}
		tasks = append(tasks, task)
	}
	return &models.ListTasksResponse{DocumentID: documentID, Tasks: tasks}, nil
}

// buildTasks validates a batch and turns it into tasks ready to be stored.
func buildTasks(req *models.CreateTasksBatchRequest, now time.Time, newID func() string) ([]models.Task, error) {
	switch {
	case strings.TrimSpace(req.DocumentID) == "":
		return nil, fmt.Errorf("%w: documentId is required", ErrInvalidRequest)
	case strings.TrimSpace(req.CreatedBy) == "":
		return nil, fmt.Errorf("%w: createdBy is required", ErrInvalidRequest)
	case len(req.ActionItems) == 0:
		return nil, fmt.Errorf("%w: actionItems must not be empty", ErrInvalidRequest)
	case len(req.ActionItems) > MaxBatchSize:
		return nil, fmt.Errorf("%w: at most %d action items per batch, got %d", ErrInvalidRequest, MaxBatchSize, len(req.ActionItems))
	}

	tasks := make([]models.Task, 0, len(req.ActionItems))
	for i, item := range req.ActionItems {
		description := strings.TrimSpace(item.Description)
		if description == "" {
			return nil, fmt.Errorf("%w: actionItems[%d] has no description", ErrInvalidRequest, i)
		}
		priority := item.Priority
		if priority == "" {
			priority = models.PriorityMedium
		} else if !priority.Valid() {
			return nil, fmt.Errorf("%w: actionItems[%d] has unknown priority %q", ErrInvalidRequest, i, item.Priority)
		}
		department := strings.TrimSpace(item.Department)
		if department == "" {
			department = models.DefaultDepartment
		}

		tasks = append(tasks, models.Task{
			ID:          newID(),
			Title:       taskTitle(description),
			Description: description,
			Priority:    priority,
			Department:  department,
			Status:      models.TaskStatusOpen,
			DocumentID:  req.DocumentID,
			CreatedBy:   req.CreatedBy,
			DueDate:     strings.TrimSpace(item.DueDate),
			CreatedAt:   now,
		})
	}
	return tasks, nil
}

// taskTitle shortens a description to a single line of at most maxTitleLength runes.
func taskTitle(description string) string {
	title, _, _ := strings.Cut(description, "\n")
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) <= maxTitleLength {
		return title
	}
	runes := []rune(title)
	return strings.TrimSpace(string(runes[:maxTitleLength-3])) + "..."
}
