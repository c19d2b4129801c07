package research

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Aggregate summarizes the state of all known tasks. InProgress counts
// queued tasks as well as tasks mid-pipeline. TotalContacts counts
// contacts collected by completed tasks.
type Aggregate struct {
	Total         int `json:"total"`
	InProgress    int `json:"in_progress"`
	Completed     int `json:"completed"`
	Failed        int `json:"failed"`
	TotalContacts int `json:"total_contacts"`
}

// Registry is the process-wide map of task id to task state. Each task
// is mutated only by the runner driving it; transitions are atomic, so
// concurrent readers always observe a fully committed state. Registry
// state is ephemeral and starts empty on process restart.
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]*Task
}

// NewRegistry creates an empty task registry.
func NewRegistry() *Registry {
	return &Registry{
		tasks: make(map[string]*Task),
	}
}

// Create registers a new queued task for the company and returns its
// snapshot.
func (r *Registry) Create(companyName string) Task {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.NewString(),
		CompanyName: companyName,
		Stage:       StageQueued,
		Progress:    0,
		Message:     fmt.Sprintf("queued research for %s", companyName),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tasks[task.ID] = task
	return *task
}

// Get returns a snapshot of the task with the given id.
func (r *Registry) Get(id string) (Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return Task{}, fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	return *task, nil
}

// All returns snapshots of every known task, ordered by creation time.
func (r *Registry) All() []Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		out = append(out, *task)
	}
	slices.SortFunc(out, func(a, b Task) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

// Aggregate returns summary counts across all known tasks.
func (r *Registry) Aggregate() Aggregate {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agg := Aggregate{Total: len(r.tasks)}
	for _, task := range r.tasks {
		switch task.Stage {
		case StageCompleted:
			agg.Completed++
			if task.Result != nil {
				agg.TotalContacts += len(task.Result.Contacts)
			}
		case StageFailed:
			agg.Failed++
		default:
			agg.InProgress++
		}
	}
	return agg
}

// Advance moves the task to a non-terminal stage with updated progress
// and message. Progress never decreases. Returns ErrIllegalTransition
// if the move is not on the pipeline path, ErrTaskTerminal if the task
// already finished.
func (r *Registry) Advance(id string, stage Stage, progress int, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if task.Stage.Terminal() {
		return fmt.Errorf("%w: %s is %s", ErrTaskTerminal, id, task.Stage)
	}
	if !task.Stage.CanTransitionTo(stage) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, task.Stage, stage)
	}
	if progress < task.Progress {
		progress = task.Progress
	}

	task.Stage = stage
	task.Progress = progress
	task.Message = message
	task.UpdatedAt = time.Now().UTC()
	return nil
}

// Complete moves the task to the completed terminal stage with its
// result and full progress.
func (r *Registry) Complete(id string, result *Result, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if task.Stage.Terminal() {
		return fmt.Errorf("%w: %s is %s", ErrTaskTerminal, id, task.Stage)
	}
	if !task.Stage.CanTransitionTo(StageCompleted) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, task.Stage, StageCompleted)
	}

	task.Stage = StageCompleted
	task.Progress = 100
	task.Message = message
	task.Result = result
	task.Error = ""
	task.UpdatedAt = time.Now().UTC()
	return nil
}

// Fail moves the task to the failed terminal stage. The tag is one of
// the failure tag constants; message carries the human-readable detail.
// Progress is left where the failure happened.
func (r *Registry) Fail(id string, tag string, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, id)
	}
	if task.Stage.Terminal() {
		return fmt.Errorf("%w: %s is %s", ErrTaskTerminal, id, task.Stage)
	}

	task.Stage = StageFailed
	task.Message = message
	task.Error = tag
	task.Result = nil
	task.UpdatedAt = time.Now().UTC()
	return nil
}
