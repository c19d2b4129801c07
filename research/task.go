package research

import (
	"time"

	"github.com/poiesic/prospect/core"
)

// Stage identifies where a research task is in its pipeline.
type Stage string

const (
	StageQueued           Stage = "queued"
	StageFetchingCompany  Stage = "fetching_company"
	StageFetchingContacts Stage = "fetching_contacts"
	StageEmbedding        Stage = "embedding"
	StageCompleted        Stage = "completed"
	StageFailed           Stage = "failed"
)

// stageSuccessors defines the legal forward transitions. A task never
// regresses and never leaves a terminal stage.
var stageSuccessors = map[Stage][]Stage{
	StageQueued:           {StageFetchingCompany, StageFailed},
	StageFetchingCompany:  {StageFetchingContacts, StageFailed},
	StageFetchingContacts: {StageEmbedding, StageFailed},
	StageEmbedding:        {StageCompleted, StageFailed},
	StageCompleted:        {},
	StageFailed:           {},
}

// Terminal reports whether the stage is an end state.
func (s Stage) Terminal() bool {
	return s == StageCompleted || s == StageFailed
}

// CanTransitionTo reports whether moving from s to next is a legal
// pipeline transition.
func (s Stage) CanTransitionTo(next Stage) bool {
	for _, allowed := range stageSuccessors[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Failure tags identify the most specific known cause when a task or
// operation fails. They appear verbatim in task snapshots and API
// responses.
const (
	TagDiscoveryError       = "discovery_error"
	TagCompanyNotFound      = "company_not_found"
	TagFetchError           = "fetch_error"
	TagContactsFetchError   = "contacts_fetch_error"
	TagEmbeddingError       = "embedding_error"
	TagTimeout              = "timeout"
	TagEmbeddingUnavailable = "embedding_unavailable"
)

// Result holds the structured outcome of a completed task.
type Result struct {
	Company  *core.CompanyProfile   `json:"company"`
	Contacts []*core.ContactProfile `json:"contacts"`
}

// Task is one research attempt for one company. ID, CompanyName, and
// CreatedAt are immutable after creation. Exactly one of Result or
// Error is set once the task reaches a terminal stage.
type Task struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"company_name"`
	Stage       Stage     `json:"stage"`
	Progress    int       `json:"progress"`
	Message     string    `json:"message"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Result      *Result   `json:"result,omitempty"`
	Error       string    `json:"error,omitempty"`
}
