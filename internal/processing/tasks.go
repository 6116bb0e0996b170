package processing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Lllllllleong/documentassistant/internal/models"
)

// CreatedBy tags every task created from a summary.
const CreatedBy = "AI System"

// taskOutcome is the result of the task step: either tasks or the error that
// prevented their creation, never both.
type taskOutcome struct {
	Tasks []models.Task
	Err   *TaskCreationError
}

// materialize submits the summary's action items as one batch.
func (o *Orchestrator) materialize(ctx context.Context, source string, summary *models.SummaryResult, opts Options) taskOutcome {
	documentID := summary.DocumentID
	if documentID == "" {
		documentID = source + "-" + uuid.NewString()
	}
	items := withDefaults(summary.ActionItems, opts)

	o.dispatch(Event{Kind: EventProgressed, Progress: 75, Step: StepCreatingTasks})

	resp, err := o.tasks.CreateTasksBatch(ctx, models.CreateTasksBatchRequest{
		ActionItems: items,
		DocumentID:  documentID,
		CreatedBy:   CreatedBy,
	})
	if err == nil && resp == nil {
		err = errors.New("task service returned no result")
	}
	if err != nil {
		return taskOutcome{Err: &TaskCreationError{DocumentID: documentID, ItemCount: len(items), Err: err}}
	}

	tasks := resp.Tasks
	if tasks == nil {
		tasks = []models.Task{}
	}
	o.dispatch(Event{Kind: EventTasksCreated, Tasks: tasks, Progress: 90, Step: StepFinalizingTasks})
	return taskOutcome{Tasks: tasks}
}

// resolveTasks applies the partial-failure policy: a task creation error never
// fails the run, it leaves the run with no tasks.
func (o *Orchestrator) resolveTasks(logger zerolog.Logger, out taskOutcome) []models.Task {
	if out.Err != nil {
		logger.Warn().Err(out.Err).Msg("Task creation failed; continuing without tasks.")
		return []models.Task{}
	}
	return out.Tasks
}

// withDefaults fills in the priority and department of each action item from
// opts. The input slice is not modified.
func withDefaults(items []models.ActionItem, opts Options) []models.ActionItem {
	department := opts.Department
	if department == "" {
		department = models.DefaultDepartment
	}

	out := make([]models.ActionItem, len(items))
	for i, item := range items {
		if item.Priority == "" {
			item.Priority = opts.Priority
		}
		if item.Department == "" {
			item.Department = department
		}
		out[i] = item
	}
	return out
}
