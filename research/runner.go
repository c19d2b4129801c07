package research

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/poiesic/prospect/ai"
	"github.com/poiesic/prospect/core"
	"github.com/poiesic/prospect/enrich"
	"github.com/poiesic/prospect/storage"
)

const (
	// DefaultStageTimeout bounds each pipeline stage. A stage that
	// exceeds it fails the task with the timeout tag.
	DefaultStageTimeout = 60 * time.Second

	// DefaultMaxContacts caps how many contacts are fetched per company.
	DefaultMaxContacts = 20
)

// Progress milestones reported as the pipeline advances.
const (
	progressFetchingCompany  = 10
	progressFetchingContacts = 40
	progressEmbedding        = 75
)

// Runner drives one task through its pipeline stages: fetch company,
// fetch contacts, embed. It is single-threaded per task; many runs
// execute in parallel for different tasks. Every stage transition is
// one atomic registry write.
type Runner struct {
	fetcher      enrich.Fetcher
	embedder     ai.Embedder
	companies    storage.CompanyRepository
	contacts     storage.ContactRepository
	vectors      storage.VectorRepository
	registry     *Registry
	stageTimeout time.Duration
	maxContacts  int
	logger       *slog.Logger
}

// RunnerOption configures a Runner during construction.
type RunnerOption func(*Runner)

// WithStageTimeout sets the per-stage time budget.
func WithStageTimeout(d time.Duration) RunnerOption {
	return func(r *Runner) {
		if d > 0 {
			r.stageTimeout = d
		}
	}
}

// WithMaxContacts sets the per-company contact limit.
func WithMaxContacts(n int) RunnerOption {
	return func(r *Runner) {
		if n > 0 {
			r.maxContacts = n
		}
	}
}

// NewRunner creates a pipeline runner over the given capabilities and
// stores.
func NewRunner(
	fetcher enrich.Fetcher,
	embedder ai.Embedder,
	companies storage.CompanyRepository,
	contacts storage.ContactRepository,
	vectors storage.VectorRepository,
	registry *Registry,
	opts ...RunnerOption,
) *Runner {
	r := &Runner{
		fetcher:      fetcher,
		embedder:     embedder,
		companies:    companies,
		contacts:     contacts,
		vectors:      vectors,
		registry:     registry,
		stageTimeout: DefaultStageTimeout,
		maxContacts:  DefaultMaxContacts,
		logger:       slog.Default().With("component", "pipeline-runner"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the full pipeline for one task. It never returns an
// error: every failure is recorded on the task itself, keeping sibling
// tasks unaffected.
func (r *Runner) Run(ctx context.Context, taskID, companyName string) {
	logger := r.logger.With("task", taskID, "company", companyName)

	// Stage 1: fetch company profile. Fatal on any failure.
	if err := r.registry.Advance(taskID, StageFetchingCompany, progressFetchingCompany,
		fmt.Sprintf("fetching company profile for %s", companyName)); err != nil {
		logger.Error("cannot start pipeline", "err", err)
		return
	}

	company, err := r.fetchCompany(ctx, companyName)
	if err != nil {
		tag, msg := classifyFetchError(err, companyName)
		logger.Warn("company fetch failed", "tag", tag, "err", err)
		r.fail(taskID, tag, msg)
		return
	}

	if err := r.companies.SaveCompany(ctx, company); err != nil {
		logger.Error("company save failed", "err", err)
		r.fail(taskID, TagFetchError, fmt.Sprintf("failed to store company profile: %v", err))
		return
	}

	var warnings []string

	// Stage 2: fetch contacts. Non-fatal: company data alone is a valid
	// result. A stage timeout is still fatal.
	if err := r.registry.Advance(taskID, StageFetchingContacts, progressFetchingContacts,
		fmt.Sprintf("fetching contacts for %s", companyName)); err != nil {
		logger.Error("transition failed", "err", err)
		return
	}

	contacts, err := r.fetchContacts(ctx, companyName)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			r.fail(taskID, TagTimeout, fmt.Sprintf("contact fetch exceeded %s budget", r.stageTimeout))
			return
		}
		logger.Warn("contact fetch failed, continuing without contacts", "err", err)
		warnings = append(warnings, fmt.Sprintf("%s: %v", TagContactsFetchError, err))
		contacts = nil
	}

	if len(contacts) > 0 {
		if err := r.contacts.SaveContacts(ctx, contacts...); err != nil {
			logger.Warn("contact save failed", "err", err)
			warnings = append(warnings, fmt.Sprintf("%s: failed to store contacts: %v", TagContactsFetchError, err))
			contacts = nil
		}
	}

	// Stage 3: embed company and contacts. Best-effort: the structured
	// result does not depend on it, but the data won't be searchable.
	if err := r.registry.Advance(taskID, StageEmbedding, progressEmbedding,
		fmt.Sprintf("embedding %s and %d contacts", companyName, len(contacts))); err != nil {
		logger.Error("transition failed", "err", err)
		return
	}

	if err := r.embed(ctx, company, contacts); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			r.fail(taskID, TagTimeout, fmt.Sprintf("embedding exceeded %s budget", r.stageTimeout))
			return
		}
		logger.Warn("embedding failed, result will not be searchable", "err", err)
		warnings = append(warnings, fmt.Sprintf("%s: %v", TagEmbeddingError, err))
	}

	message := fmt.Sprintf("research completed for %s with %d contacts", companyName, len(contacts))
	if len(warnings) > 0 {
		message += "; warnings: " + strings.Join(warnings, "; ")
	}

	result := &Result{Company: company, Contacts: contacts}
	if err := r.registry.Complete(taskID, result, message); err != nil {
		logger.Error("completion failed", "err", err)
		return
	}
	logger.Info("task completed", "contacts", len(contacts), "warnings", len(warnings))
}

func (r *Runner) fetchCompany(ctx context.Context, companyName string) (*core.CompanyProfile, error) {
	stageCtx, cancel := context.WithTimeout(ctx, r.stageTimeout)
	defer cancel()
	return r.fetcher.FetchCompany(stageCtx, companyName)
}

func (r *Runner) fetchContacts(ctx context.Context, companyName string) ([]*core.ContactProfile, error) {
	stageCtx, cancel := context.WithTimeout(ctx, r.stageTimeout)
	defer cancel()
	return r.fetcher.FetchContacts(stageCtx, companyName, r.maxContacts)
}

// embed computes and upserts embedding records for the company and each
// contact. Records are keyed by entity identity, so re-embedding the
// same entity overwrites the prior record.
func (r *Runner) embed(ctx context.Context, company *core.CompanyProfile, contacts []*core.ContactProfile) error {
	stageCtx, cancel := context.WithTimeout(ctx, r.stageTimeout)
	defer cancel()

	docs := make([]*core.Document, 0, len(contacts)+1)
	texts := make([]string, 0, len(contacts)+1)

	docs = append(docs, &core.Document{
		Id:   core.DocumentID(core.DocumentTypeCompany, company.Name),
		Type: core.DocumentTypeCompany,
		Name: company.Name,
	})
	texts = append(texts, companyText(company))

	for _, contact := range contacts {
		docs = append(docs, &core.Document{
			Id:   core.DocumentID(core.DocumentTypeContact, contact.Name),
			Type: core.DocumentTypeContact,
			Name: contact.Name,
		})
		texts = append(texts, contactText(contact))
	}

	vectors, err := r.embedder.EmbedTexts(stageCtx, texts)
	if err != nil {
		return err
	}
	if len(vectors) != len(docs) {
		return fmt.Errorf("embedder returned %d vectors for %d texts", len(vectors), len(docs))
	}

	for i, doc := range docs {
		doc.Contents = texts[i]
		doc.Vector = vectors[i]
		if err := r.vectors.UpsertDocument(stageCtx, doc); err != nil {
			return fmt.Errorf("upsert %s: %w", doc.Source(), err)
		}
	}
	return nil
}

func (r *Runner) fail(taskID, tag, message string) {
	if err := r.registry.Fail(taskID, tag, message); err != nil {
		r.logger.Error("failed to record task failure", "task", taskID, "err", err)
	}
}

// classifyFetchError maps a company fetch failure to its most specific
// failure tag.
func classifyFetchError(err error, companyName string) (tag, message string) {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return TagTimeout, fmt.Sprintf("company fetch for %s timed out", companyName)
	case errors.Is(err, enrich.ErrCompanyNotFound):
		return TagCompanyNotFound, fmt.Sprintf("no data source has a record of %s", companyName)
	default:
		return TagFetchError, fmt.Sprintf("company fetch for %s failed: %v", companyName, err)
	}
}
