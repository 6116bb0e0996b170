package processing

import "github.com/Lllllllleong/documentassistant/internal/models"

// Step labels shown to the user while a run progresses.
const (
	StepUploading         = "Uploading..."
	StepAnalyzingText     = "Analyzing text..."
	StepAnalyzingDocument = "Analyzing document with AI..."
	StepProcessingSummary = "Processing summary results..."
	StepCreatingTasks     = "Creating tasks from action items..."
	StepFinalizingTasks   = "Finalizing tasks..."
	StepComplete          = "Processing complete!"
	StepFailed            = "Processing failed"
)

// State is the observable progress of one run.
type State struct {
	IsProcessing bool
	Progress     int
	CurrentStep  string
	Error        string
	Summary      *models.SummaryResult
	Tasks        []models.Task
}

// EventKind identifies a state transition.
type EventKind int

const (
	EventReset EventKind = iota
	EventStarted
	EventProgressed
	EventSummarized
	EventTasksCreated
	EventCompleted
	EventFailed
)

func (k EventKind) String() string {
	switch k {
	case EventReset:
		return "reset"
	case EventStarted:
		return "started"
	case EventProgressed:
		return "progressed"
	case EventSummarized:
		return "summarized"
	case EventTasksCreated:
		return "tasks_created"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	}
	return "unknown"
}

// Event is a single transition applied by Reduce.
type Event struct {
	Kind     EventKind
	Progress int
	Step     string
	Err      string
	Summary  *models.SummaryResult
	Tasks    []models.Task
}

// Reduce returns the state that follows s after ev. It never modifies s.
// Progress only moves forward while a run is active; it drops to 0 on failure.
func Reduce(s State, ev Event) State {
	s = s.clone()
	switch ev.Kind {
	case EventReset:
		return State{Tasks: []models.Task{}}
	case EventStarted:
		s.IsProcessing = true
		s.Progress = ev.Progress
		s.CurrentStep = ev.Step
		s.Error = ""
	case EventProgressed:
		s.advance(ev)
	case EventSummarized:
		s.Summary = ev.Summary
		s.advance(ev)
	case EventTasksCreated:
		s.Tasks = append([]models.Task{}, ev.Tasks...)
		s.advance(ev)
	case EventCompleted:
		s.IsProcessing = false
		s.Progress = 100
		s.CurrentStep = StepComplete
		s.Error = ""
	case EventFailed:
		s.IsProcessing = false
		s.Progress = 0
		s.CurrentStep = StepFailed
		s.Error = ev.Err
		s.Summary = nil
		s.Tasks = []models.Task{}
	}
	return s
}

func (s *State) advance(ev Event) {
	if ev.Progress > s.Progress {
		s.Progress = ev.Progress
	}
	if ev.Step != "" {
		s.CurrentStep = ev.Step
	}
}

// clone copies the task slice so that snapshots handed to observers do not
// share backing arrays with the live state. Summary is read-only and shared.
func (s State) clone() State {
	if s.Tasks != nil {
		s.Tasks = append([]models.Task{}, s.Tasks...)
	}
	return s
}
