// Package processing drives a document or text through summarization and
// task creation while exposing progress to the caller.
package processing

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Lllllllleong/documentassistant/internal/models"
	"github.com/Lllllllleong/documentassistant/internal/upload"
)

// Summarizer is the remote AI summarization service.
type Summarizer interface {
	SummarizeFile(ctx context.Context, f File, extractActionItems bool) (*models.SummaryResult, error)
	SummarizeText(ctx context.Context, text string, extractActionItems bool) (*models.SummaryResult, error)
}

// TaskCreator is the remote task service.
type TaskCreator interface {
	CreateTasksBatch(ctx context.Context, req models.CreateTasksBatchRequest) (*models.CreateTasksBatchResponse, error)
}

// Result is returned by a successful run.
type Result struct {
	Summary *models.SummaryResult `json:"summary"`
	Tasks   []models.Task         `json:"tasks"`
}

// Orchestrator runs one document or text at a time and keeps the state of
// the latest run. Concurrent calls on the same Orchestrator are serialized;
// use separate instances for independent runs.
type Orchestrator struct {
	summarizer Summarizer
	tasks      TaskCreator
	logger     zerolog.Logger

	runMu sync.Mutex

	mu        sync.RWMutex
	state     State
	observers []func(State)
}

// NewOrchestrator creates an Orchestrator in the reset state.
func NewOrchestrator(summarizer Summarizer, tasks TaskCreator, logger zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		summarizer: summarizer,
		tasks:      tasks,
		logger:     logger.With().Str("component", "orchestrator").Logger(),
		state:      Reduce(State{}, Event{Kind: EventReset}),
	}
}

// OnChange registers fn to receive a copy of the state after every
// transition. fn runs on the goroutine executing the run and must not block.
func (o *Orchestrator) OnChange(fn func(State)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.observers = append(o.observers, fn)
}

// State returns a copy of the current state.
func (o *Orchestrator) State() State {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state.clone()
}

// ProcessFile validates f, summarizes it and, when requested, turns its
// action items into tasks. It returns nil when the run fails; the reason is
// in State().Error.
func (o *Orchestrator) ProcessFile(ctx context.Context, f File, opts Options) *Result {
	o.runMu.Lock()
	defer o.runMu.Unlock()

	logger := o.logger.With().Str("input", "file").Str("filename", f.Name).Int64("sizeBytes", f.Size).Logger()
	o.dispatch(Event{Kind: EventReset})
	o.dispatch(Event{Kind: EventStarted, Progress: 10, Step: StepUploading})

	if err := upload.Validate(f.Size, f.MIMEType); err != nil {
		return o.fail(logger, err)
	}

	return o.run(ctx, logger, "file", opts, func(ctx context.Context, extract bool) (*models.SummaryResult, error) {
		return o.summarizer.SummarizeFile(ctx, f, extract)
	})
}

// ProcessText summarizes raw text. See ProcessFile for the result contract.
// Unlike ProcessFile there is no upload to validate, but blank text still
// fails with a ValidationError before the summarizer is called.
func (o *Orchestrator) ProcessText(ctx context.Context, text string, opts Options) *Result {
	o.runMu.Lock()
	defer o.runMu.Unlock()

	logger := o.logger.With().Str("input", "text").Int("chars", len(text)).Logger()
	o.dispatch(Event{Kind: EventReset})
	o.dispatch(Event{Kind: EventStarted, Progress: 20, Step: StepAnalyzingText})

	if strings.TrimSpace(text) == "" {
		return o.fail(logger, &ValidationError{Field: "text", Reason: "text is empty"})
	}

	return o.run(ctx, logger, "text", opts, func(ctx context.Context, extract bool) (*models.SummaryResult, error) {
		return o.summarizer.SummarizeText(ctx, text, extract)
	})
}

type summarizeFunc func(ctx context.Context, extractActionItems bool) (*models.SummaryResult, error)

func (o *Orchestrator) run(ctx context.Context, logger zerolog.Logger, source string, opts Options, summarize summarizeFunc) *Result {
	opts = opts.normalized()
	logger.Debug().
		Bool("autoCreateTasks", opts.AutoCreateTasks).
		Str("priority", string(opts.Priority)).
		Str("department", opts.Department).
		Bool("assignToUsers", opts.AssignToUsers).
		Msg("Starting processing run.")

	o.dispatch(Event{Kind: EventProgressed, Progress: 25, Step: StepAnalyzingDocument})

	summary, err := summarize(ctx, opts.AutoCreateTasks)
	if err == nil && summary == nil {
		err = errors.New("summarization service returned no result")
	}
	if err != nil {
		return o.fail(logger, &SummarizationError{Err: err})
	}
	logger.Info().Str("documentId", summary.DocumentID).Int("actionItems", len(summary.ActionItems)).Msg("Summary received.")
	o.dispatch(Event{Kind: EventSummarized, Summary: summary, Progress: 60, Step: StepProcessingSummary})

	tasks := []models.Task{}
	if opts.AutoCreateTasks && len(summary.ActionItems) > 0 {
		tasks = o.resolveTasks(logger, o.materialize(ctx, source, summary, opts))
	}

	o.dispatch(Event{Kind: EventCompleted})
	logger.Info().Int("tasks", len(tasks)).Msg("Processing complete.")
	return &Result{Summary: summary, Tasks: tasks}
}

func (o *Orchestrator) fail(logger zerolog.Logger, err error) *Result {
	var verr *ValidationError
	if errors.As(err, &verr) {
		logger.Warn().Err(err).Msg("Input rejected.")
	} else {
		logger.Error().Err(err).Msg("Processing failed.")
	}
	o.dispatch(Event{Kind: EventFailed, Err: err.Error()})
	return nil
}

func (o *Orchestrator) dispatch(ev Event) {
	o.mu.Lock()
	o.state = Reduce(o.state, ev)
	snapshot := o.state.clone()
	observers := o.observers
	o.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot.clone())
	}
}
