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


// Package prospect is a competitive research engine. It discovers a
// seed company's competitors, researches each one concurrently through
// a staged pipeline, and makes the collected profiles queryable via
// natural-language chat grounded in a vector index.
package prospect

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/poiesic/prospect/ai"
	"github.com/poiesic/prospect/ai/openai"
	"github.com/poiesic/prospect/chat"
	"github.com/poiesic/prospect/enrich"
	"github.com/poiesic/prospect/enrich/apollo"
	"github.com/poiesic/prospect/research"
	"github.com/poiesic/prospect/storage"
	"github.com/poiesic/prospect/storage/badger"
	"github.com/poiesic/prospect/storage/qdrant"
)

// Database wires together durable storage, AI services, and the data
// fetcher. It is the entry point for building orchestrators and chat
// engines.
type Database struct {
	backend     *badger.Backend
	companyRepo storage.CompanyRepository
	contactRepo storage.ContactRepository
	vectorRepo  storage.VectorRepository
	provider    ai.AIProvider
	fetcher     enrich.Fetcher
	logger      *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig     *ai.Config
	provider     ai.AIProvider
	fetcher      enrich.Fetcher
	apolloAPIKey string
	qdrantConfig *qdrant.Config
	vectorRepo   storage.VectorRepository
	inMemory     bool
}

// WithAIConfig sets the configuration for the default OpenAI-compatible
// AI provider. Ignored when WithAIProvider is used.
func WithAIConfig(cfg *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.aiConfig = cfg
	}
}

// WithAIProvider injects a pre-built AI provider instead of the default
// OpenAI-compatible one. Used by tests to supply mocks.
func WithAIProvider(provider ai.AIProvider) DatabaseOption {
	return func(o *databaseOptions) {
		o.provider = provider
	}
}

// WithFetcher injects a pre-built company/contact fetcher instead of
// the default Apollo client.
func WithFetcher(fetcher enrich.Fetcher) DatabaseOption {
	return func(o *databaseOptions) {
		o.fetcher = fetcher
	}
}

// WithApolloAPIKey configures the default Apollo fetcher. Ignored when
// WithFetcher is used.
func WithApolloAPIKey(key string) DatabaseOption {
	return func(o *databaseOptions) {
		o.apolloAPIKey = key
	}
}

// WithVectorRepository injects a pre-built vector index instead of the
// default badger-backed one. Takes precedence over WithQdrant. The
// database owns the repository and closes it on Close.
func WithVectorRepository(repo storage.VectorRepository) DatabaseOption {
	return func(o *databaseOptions) {
		o.vectorRepo = repo
	}
}

// WithQdrant stores embedding records in a Qdrant collection instead of
// the local badger index. Structured profiles stay in badger either way.
func WithQdrant(cfg qdrant.Config) DatabaseOption {
	return func(o *databaseOptions) {
		o.qdrantConfig = &cfg
	}
}

// WithInMemory keeps all badger data in memory. Used by tests.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the storage backend at filePath and builds the
// repositories, AI provider, and fetcher.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	companyRepo, err := badger.NewCompanyRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	contactRepo, err := badger.NewContactRepository(backend)
	if err != nil {
		companyRepo.Close()
		backend.Close()
		return nil, err
	}

	var vectorRepo storage.VectorRepository
	switch {
	case options.vectorRepo != nil:
		vectorRepo = options.vectorRepo
	case options.qdrantConfig != nil:
		var index *qdrant.Index
		if index, err = qdrant.NewIndex(*options.qdrantConfig); err == nil {
			// The collection must exist before the first upsert.
			bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			err = index.EnsureCollection(bootCtx)
			cancel()
			if err != nil {
				index.Close()
			} else {
				vectorRepo = index
			}
		}
	default:
		vectorRepo, err = badger.NewDocumentRepository(backend)
	}
	if err != nil {
		contactRepo.Close()
		companyRepo.Close()
		backend.Close()
		return nil, err
	}

	provider := options.provider
	if provider == nil {
		provider, err = openai.NewProvider(options.aiConfig)
		if err != nil {
			vectorRepo.Close()
			contactRepo.Close()
			companyRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	fetcher := options.fetcher
	if fetcher == nil {
		if options.apolloAPIKey == "" {
			provider.Close()
			vectorRepo.Close()
			contactRepo.Close()
			companyRepo.Close()
			backend.Close()
			return nil, errors.New("a fetcher or an Apollo API key is required")
		}
		fetcher, err = apollo.NewClient(options.apolloAPIKey)
		if err != nil {
			provider.Close()
			vectorRepo.Close()
			contactRepo.Close()
			companyRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:     backend,
		companyRepo: companyRepo,
		contactRepo: contactRepo,
		vectorRepo:  vectorRepo,
		provider:    provider,
		fetcher:     fetcher,
		logger:      slog.Default(),
	}, nil
}

// Close shuts down AI services, repositories, and the backend.
func (db *Database) Close() error {
	if err := db.provider.Close(); err != nil {
		db.logger.Error("error closing AI provider", "err", err)
	}

	if err := db.vectorRepo.Close(); err != nil {
		db.logger.Error("error closing vector repository", "err", err)
		return err
	}
	if err := db.contactRepo.Close(); err != nil {
		db.logger.Error("error closing contact repository", "err", err)
		return err
	}
	if err := db.companyRepo.Close(); err != nil {
		db.logger.Error("error closing company repository", "err", err)
		return err
	}

	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) CompanyRepository() storage.CompanyRepository {
	return db.companyRepo
}

func (db *Database) ContactRepository() storage.ContactRepository {
	return db.contactRepo
}

func (db *Database) VectorRepository() storage.VectorRepository {
	return db.vectorRepo
}

func (db *Database) Provider() ai.AIProvider {
	return db.provider
}

func (db *Database) Fetcher() enrich.Fetcher {
	return db.fetcher
}

// NewOrchestrator builds a research orchestrator with a fresh task
// registry over this database's services. Runner options tune the
// per-task pipeline; orchestrator options tune fan-out.
func (db *Database) NewOrchestrator(runnerOpts []research.RunnerOption, opts ...research.OrchestratorOption) (*research.Orchestrator, error) {
	registry := research.NewRegistry()
	runner := research.NewRunner(
		db.fetcher,
		db.provider.Embedder(),
		db.companyRepo,
		db.contactRepo,
		db.vectorRepo,
		registry,
		runnerOpts...,
	)
	return research.NewOrchestrator(db.provider.Discoverer(), runner, registry, opts...)
}

// NewChatEngine builds a retrieval/chat engine over this database's
// vector index.
func (db *Database) NewChatEngine(opts ...chat.EngineOption) *chat.Engine {
	return chat.NewEngine(db.provider.Embedder(), db.provider.Answerer(), db.vectorRepo, opts...)
}

// Summary reports how much data has been collected.
type Summary struct {
	Companies int `json:"companies"`
	Contacts  int `json:"contacts"`
	Documents int `json:"documents"`
}

// Summary counts stored companies, contacts, and embedded documents.
func (db *Database) Summary(ctx context.Context) (*Summary, error) {
	companies, err := db.companyRepo.GetAllCompanies(ctx)
	if err != nil {
		return nil, err
	}

	contacts, err := db.contactRepo.CountContacts(ctx)
	if err != nil {
		return nil, err
	}

	documents, err := db.vectorRepo.CountDocuments(ctx)
	if err != nil {
		return nil, err
	}

	return &Summary{
		Companies: len(companies),
		Contacts:  contacts,
		Documents: documents,
	}, nil
}
