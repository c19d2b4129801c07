// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package research

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/panjf2000/ants/v2"

	"github.com/poiesic/prospect/ai"
)

const (
	// DefaultMaxConcurrent bounds how many pipelines run at once.
	DefaultMaxConcurrent = 5

	// DefaultMaxCompetitors caps discovery when the caller passes no limit.
	DefaultMaxCompetitors = 10
)

// Orchestrator accepts research requests, discovers competitors, and
// fans out one pipeline per company under a bounded worker pool.
type Orchestrator struct {
	discoverer     ai.Discoverer
	runner         *Runner
	registry       *Registry
	pool           *ants.Pool
	maxCompetitors int
	logger         *slog.Logger
}

// OrchestratorOption configures an Orchestrator during construction.
type OrchestratorOption func(*orchestratorConfig)

type orchestratorConfig struct {
	maxConcurrent  int
	maxCompetitors int
}

// WithMaxConcurrent bounds the number of simultaneously running
// pipelines. Fixed for the lifetime of the orchestrator.
func WithMaxConcurrent(n int) OrchestratorOption {
	return func(c *orchestratorConfig) {
		if n > 0 {
			c.maxConcurrent = n
		}
	}
}

// WithMaxCompetitors sets the default competitor-count limit used when
// Launch is called with a non-positive limit.
func WithMaxCompetitors(n int) OrchestratorOption {
	return func(c *orchestratorConfig) {
		if n > 0 {
			c.maxCompetitors = n
		}
	}
}

// NewOrchestrator creates an orchestrator over the given discoverer,
// runner, and registry.
func NewOrchestrator(discoverer ai.Discoverer, runner *Runner, registry *Registry, opts ...OrchestratorOption) (*Orchestrator, error) {
	cfg := &orchestratorConfig{
		maxConcurrent:  DefaultMaxConcurrent,
		maxCompetitors: DefaultMaxCompetitors,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	pool, err := ants.NewPool(cfg.maxConcurrent)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}

	return &Orchestrator{
		discoverer:     discoverer,
		runner:         runner,
		registry:       registry,
		pool:           pool,
		maxCompetitors: cfg.maxCompetitors,
		logger:         slog.Default().With("component", "orchestrator"),
	}, nil
}

// Launch starts a research run for the seed company and up to
// maxCompetitors of its competitors. It returns the created task ids
// immediately; pipelines execute in the background under the
// concurrency bound. If discovery itself fails, no tasks are created
// and the error wraps ErrDiscoveryFailed. Discovery returning zero
// candidates is not a failure: the seed company is always researched.
func (o *Orchestrator) Launch(ctx context.Context, seedCompany string, maxCompetitors int) ([]string, error) {
	seedCompany = strings.TrimSpace(seedCompany)
	if seedCompany == "" {
		return nil, ErrEmptySeedCompany
	}
	if maxCompetitors <= 0 {
		maxCompetitors = o.maxCompetitors
	}

	competitors, err := o.discoverer.DiscoverCompetitors(ctx, seedCompany, maxCompetitors)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDiscoveryFailed, err)
	}

	companies := dedupeCompanies(seedCompany, competitors)
	o.logger.Info("launching research run",
		"seed", seedCompany,
		"competitors", len(companies)-1,
		"tasks", len(companies))

	tasks := make([]Task, 0, len(companies))
	ids := make([]string, 0, len(companies))
	for _, name := range companies {
		task := o.registry.Create(name)
		tasks = append(tasks, task)
		ids = append(ids, task.ID)
	}

	// Submission blocks when the pool is saturated, so it happens off
	// the caller's goroutine. Launch itself never waits.
	go o.submit(tasks)

	return ids, nil
}

// submit hands each task to the worker pool. Pool submission blocks
// while all workers are busy, which is what enforces the concurrency
// bound on queued tasks.
func (o *Orchestrator) submit(tasks []Task) {
	for _, task := range tasks {
		taskID, companyName := task.ID, task.CompanyName
		err := o.pool.Submit(func() {
			o.runner.Run(context.Background(), taskID, companyName)
		})
		if err != nil {
			o.logger.Error("pool submission failed", "task", taskID, "err", err)
			if failErr := o.registry.Fail(taskID, TagFetchError, fmt.Sprintf("could not schedule pipeline: %v", err)); failErr != nil {
				o.logger.Error("failed to record scheduling failure", "task", taskID, "err", failErr)
			}
		}
	}
}

// ResearchCompany runs the full pipeline for a single company
// synchronously and returns the finished task snapshot.
func (o *Orchestrator) ResearchCompany(ctx context.Context, companyName string) (Task, error) {
	companyName = strings.TrimSpace(companyName)
	if companyName == "" {
		return Task{}, ErrEmptySeedCompany
	}

	task := o.registry.Create(companyName)
	o.runner.Run(ctx, task.ID, task.CompanyName)
	return o.registry.Get(task.ID)
}

// Status returns the current snapshot of one task. Never blocks on
// running pipelines.
func (o *Orchestrator) Status(taskID string) (Task, error) {
	return o.registry.Get(taskID)
}

// StatusAll returns snapshots of every known task plus aggregate
// counts. Never blocks on running pipelines.
func (o *Orchestrator) StatusAll() ([]Task, Aggregate) {
	return o.registry.All(), o.registry.Aggregate()
}

// Close shuts down the worker pool. Tasks already running finish;
// queued submissions fail.
func (o *Orchestrator) Close() error {
	o.pool.Release()
	return nil
}

// dedupeCompanies builds the task list: the seed first, then each
// distinct competitor. Names are deduplicated case-insensitively.
func dedupeCompanies(seedCompany string, competitors []string) []string {
	seen := map[string]bool{strings.ToLower(seedCompany): true}
	companies := []string{seedCompany}
	for _, name := range competitors {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		companies = append(companies, name)
	}
	return companies
}
