package research

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aimock "github.com/poiesic/prospect/ai/mock"
	"github.com/poiesic/prospect/core"
	"github.com/poiesic/prospect/enrich"
	enrichmock "github.com/poiesic/prospect/enrich/mock"
	"github.com/poiesic/prospect/storage"
	badgerstore "github.com/poiesic/prospect/storage/badger"
)

type runnerFixture struct {
	runner    *Runner
	registry  *Registry
	fetcher   *enrichmock.MockFetcher
	embedder  *aimock.MockEmbedder
	companies storage.CompanyRepository
	contacts  storage.ContactRepository
	vectors   storage.VectorRepository
}

func setupRunner(t *testing.T, opts ...RunnerOption) *runnerFixture {
	t.Helper()

	companies, contacts, vectors, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	fetcher := enrichmock.NewMockFetcher()
	embedder := aimock.NewMockEmbedder()
	registry := NewRegistry()

	return &runnerFixture{
		runner:    NewRunner(fetcher, embedder, companies, contacts, vectors, registry, opts...),
		registry:  registry,
		fetcher:   fetcher,
		embedder:  embedder,
		companies: companies,
		contacts:  contacts,
		vectors:   vectors,
	}
}

func (f *runnerFixture) run(t *testing.T, companyName string) Task {
	t.Helper()
	task := f.registry.Create(companyName)
	f.runner.Run(context.Background(), task.ID, task.CompanyName)
	got, err := f.registry.Get(task.ID)
	require.NoError(t, err)
	return got
}

func TestRunner_HappyPath(t *testing.T) {
	f := setupRunner(t)
	ctx := context.Background()

	task := f.run(t, "Acme")

	assert.Equal(t, StageCompleted, task.Stage)
	assert.Equal(t, 100, task.Progress)
	require.NotNil(t, task.Result)
	assert.Equal(t, "Acme", task.Result.Company.Name)
	assert.Len(t, task.Result.Contacts, 3)
	assert.Empty(t, task.Error)
	assert.NotContains(t, task.Message, "warning")

	// structured data persisted
	company, err := f.companies.GetCompany(ctx, "Acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme", company.Name)

	contacts, err := f.contacts.GetContactsByCompany(ctx, "Acme")
	require.NoError(t, err)
	assert.Len(t, contacts, 3)

	// company plus each contact embedded
	count, err := f.vectors.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestRunner_CompanyNotFoundIsFatal(t *testing.T) {
	f := setupRunner(t)
	f.fetcher.FetchCompanyFunc = func(ctx context.Context, name string) (*core.CompanyProfile, error) {
		return nil, enrich.ErrCompanyNotFound
	}

	task := f.run(t, "Ghost Co")

	assert.Equal(t, StageFailed, task.Stage)
	assert.Equal(t, TagCompanyNotFound, task.Error)
	assert.Nil(t, task.Result)

	// no further stages ran
	assert.Equal(t, 0, f.fetcher.ContactCallCount())
	assert.Equal(t, 0, f.embedder.CallCount())
}

func TestRunner_TransportFailureIsFetchError(t *testing.T) {
	f := setupRunner(t)
	f.fetcher.FetchCompanyFunc = func(ctx context.Context, name string) (*core.CompanyProfile, error) {
		return nil, errors.New("connection refused")
	}

	task := f.run(t, "Acme")

	assert.Equal(t, StageFailed, task.Stage)
	assert.Equal(t, TagFetchError, task.Error)
}

func TestRunner_ContactFailureIsPartialSuccess(t *testing.T) {
	f := setupRunner(t)
	f.fetcher.FetchContactsFunc = func(ctx context.Context, name string, max int) ([]*core.ContactProfile, error) {
		return nil, errors.New("people endpoint down")
	}

	task := f.run(t, "Acme")

	// company data alone is a valid result
	assert.Equal(t, StageCompleted, task.Stage)
	require.NotNil(t, task.Result)
	assert.Empty(t, task.Result.Contacts)
	assert.Contains(t, task.Message, TagContactsFetchError)

	// the company was still embedded
	count, err := f.vectors.CountDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRunner_EmbeddingFailureStillCompletes(t *testing.T) {
	f := setupRunner(t)
	f.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	}

	task := f.run(t, "Acme")

	assert.Equal(t, StageCompleted, task.Stage)
	require.NotNil(t, task.Result)
	assert.Len(t, task.Result.Contacts, 3)
	assert.Contains(t, task.Message, TagEmbeddingError)

	// nothing searchable was written
	count, err := f.vectors.CountDocuments(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestRunner_CompanyFetchTimeout(t *testing.T) {
	f := setupRunner(t, WithStageTimeout(20*time.Millisecond))
	f.fetcher.FetchCompanyFunc = func(ctx context.Context, name string) (*core.CompanyProfile, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	task := f.run(t, "Slow Co")

	assert.Equal(t, StageFailed, task.Stage)
	assert.Equal(t, TagTimeout, task.Error)
}

func TestRunner_EmbeddingTimeoutIsFatal(t *testing.T) {
	f := setupRunner(t, WithStageTimeout(20*time.Millisecond))
	f.embedder.EmbedTextsFunc = func(ctx context.Context, texts []string) ([][]float32, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	task := f.run(t, "Acme")

	assert.Equal(t, StageFailed, task.Stage)
	assert.Equal(t, TagTimeout, task.Error)
}

func TestRunner_ReembeddingIsIdempotent(t *testing.T) {
	f := setupRunner(t)
	ctx := context.Background()

	f.run(t, "Acme")
	first, err := f.vectors.CountDocuments(ctx)
	require.NoError(t, err)

	// researching the same company again overwrites, never duplicates
	f.run(t, "Acme")
	second, err := f.vectors.CountDocuments(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRunner_MaxContactsRespected(t *testing.T) {
	f := setupRunner(t, WithMaxContacts(2))

	var requested int
	f.fetcher.FetchContactsFunc = func(ctx context.Context, name string, max int) ([]*core.ContactProfile, error) {
		requested = max
		return nil, nil
	}

	f.run(t, "Acme")
	assert.Equal(t, 2, requested)
}
