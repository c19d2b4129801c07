package research

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aimock "github.com/poiesic/prospect/ai/mock"
	"github.com/poiesic/prospect/core"
	"github.com/poiesic/prospect/enrich"
	enrichmock "github.com/poiesic/prospect/enrich/mock"
	badgerstore "github.com/poiesic/prospect/storage/badger"
)

type orchestratorFixture struct {
	orchestrator *Orchestrator
	registry     *Registry
	fetcher      *enrichmock.MockFetcher
	discoverer   *aimock.MockDiscoverer
}

func setupOrchestrator(t *testing.T, opts ...OrchestratorOption) *orchestratorFixture {
	t.Helper()

	companies, contacts, vectors, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	fetcher := enrichmock.NewMockFetcher()
	embedder := aimock.NewMockEmbedder()
	discoverer := aimock.NewMockDiscoverer()
	registry := NewRegistry()
	runner := NewRunner(fetcher, embedder, companies, contacts, vectors, registry)

	orchestrator, err := NewOrchestrator(discoverer, runner, registry, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { orchestrator.Close() })

	return &orchestratorFixture{
		orchestrator: orchestrator,
		registry:     registry,
		fetcher:      fetcher,
		discoverer:   discoverer,
	}
}

// waitForTerminal polls until every given task reaches a terminal stage.
func waitForTerminal(t *testing.T, registry *Registry, ids []string) {
	t.Helper()
	require.Eventually(t, func() bool {
		for _, id := range ids {
			task, err := registry.Get(id)
			if err != nil || !task.Stage.Terminal() {
				return false
			}
		}
		return true
	}, 10*time.Second, 10*time.Millisecond)
}

func TestOrchestrator_Launch_CreatesSeedPlusCompetitors(t *testing.T) {
	f := setupOrchestrator(t)
	f.discoverer.DiscoverCompetitorsFunc = func(ctx context.Context, seed string, max int) ([]string, error) {
		return []string{"Widget Co", "Gizmo Inc"}, nil
	}

	ids, err := f.orchestrator.Launch(context.Background(), "Acme", 2)
	require.NoError(t, err)
	require.Len(t, ids, 3)

	// unique ids, one per company
	seen := make(map[string]bool)
	names := make(map[string]bool)
	for _, id := range ids {
		assert.False(t, seen[id])
		seen[id] = true

		task, err := f.orchestrator.Status(id)
		require.NoError(t, err)
		names[task.CompanyName] = true
	}
	assert.True(t, names["Acme"])
	assert.True(t, names["Widget Co"])
	assert.True(t, names["Gizmo Inc"])
}

func TestOrchestrator_Launch_DeduplicatesCaseInsensitively(t *testing.T) {
	f := setupOrchestrator(t)
	f.discoverer.DiscoverCompetitorsFunc = func(ctx context.Context, seed string, max int) ([]string, error) {
		return []string{"Widget Co", "widget co", "ACME", "Gizmo Inc"}, nil
	}

	ids, err := f.orchestrator.Launch(context.Background(), "Acme", 10)
	require.NoError(t, err)
	// Acme, Widget Co, Gizmo Inc
	assert.Len(t, ids, 3)
}

func TestOrchestrator_Launch_EmptyDiscoveryFallsBackToSeed(t *testing.T) {
	f := setupOrchestrator(t)
	f.discoverer.DiscoverCompetitorsFunc = func(ctx context.Context, seed string, max int) ([]string, error) {
		return nil, nil
	}

	ids, err := f.orchestrator.Launch(context.Background(), "Acme", 5)
	require.NoError(t, err)
	require.Len(t, ids, 1)

	task, err := f.orchestrator.Status(ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Acme", task.CompanyName)
}

func TestOrchestrator_Launch_DiscoveryErrorCreatesNoTasks(t *testing.T) {
	f := setupOrchestrator(t)
	f.discoverer.DiscoverCompetitorsFunc = func(ctx context.Context, seed string, max int) ([]string, error) {
		return nil, errors.New("model unreachable")
	}

	_, err := f.orchestrator.Launch(context.Background(), "Acme", 5)
	assert.ErrorIs(t, err, ErrDiscoveryFailed)

	tasks, agg := f.orchestrator.StatusAll()
	assert.Empty(t, tasks)
	assert.Equal(t, 0, agg.Total)
}

func TestOrchestrator_Launch_EmptySeedRejected(t *testing.T) {
	f := setupOrchestrator(t)

	_, err := f.orchestrator.Launch(context.Background(), "   ", 5)
	assert.ErrorIs(t, err, ErrEmptySeedCompany)
}

func TestOrchestrator_Launch_ReturnsBeforeCompletion(t *testing.T) {
	f := setupOrchestrator(t)

	release := make(chan struct{})
	f.fetcher.FetchCompanyFunc = func(ctx context.Context, name string) (*core.CompanyProfile, error) {
		<-release
		return &core.CompanyProfile{Name: name}, nil
	}

	start := time.Now()
	ids, err := f.orchestrator.Launch(context.Background(), "Acme", 3)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), time.Second, "launch must not wait for pipelines")

	close(release)
	waitForTerminal(t, f.registry, ids)
}

func TestOrchestrator_ConcurrencyBound(t *testing.T) {
	const maxConcurrent = 2
	f := setupOrchestrator(t, WithMaxConcurrent(maxConcurrent))

	var running, peak atomic.Int32
	f.fetcher.FetchCompanyFunc = func(ctx context.Context, name string) (*core.CompanyProfile, error) {
		now := running.Add(1)
		for {
			p := peak.Load()
			if now <= p || peak.CompareAndSwap(p, now) {
				break
			}
		}
		time.Sleep(30 * time.Millisecond)
		running.Add(-1)
		return &core.CompanyProfile{Name: name}, nil
	}
	f.discoverer.DiscoverCompetitorsFunc = func(ctx context.Context, seed string, max int) ([]string, error) {
		return []string{"B Co", "C Co", "D Co", "E Co", "F Co"}, nil
	}

	ids, err := f.orchestrator.Launch(context.Background(), "A Co", 5)
	require.NoError(t, err)
	require.Len(t, ids, 6)

	waitForTerminal(t, f.registry, ids)
	assert.LessOrEqual(t, peak.Load(), int32(maxConcurrent))
}

func TestOrchestrator_FailureIsolation(t *testing.T) {
	f := setupOrchestrator(t)
	f.discoverer.DiscoverCompetitorsFunc = func(ctx context.Context, seed string, max int) ([]string, error) {
		return []string{"Widget Co", "Gizmo Inc"}, nil
	}
	f.fetcher.FetchCompanyFunc = func(ctx context.Context, name string) (*core.CompanyProfile, error) {
		if name == "Gizmo Inc" {
			return nil, enrich.ErrCompanyNotFound
		}
		return &core.CompanyProfile{Name: name, Industry: "Technology"}, nil
	}

	ids, err := f.orchestrator.Launch(context.Background(), "Acme", 2)
	require.NoError(t, err)
	waitForTerminal(t, f.registry, ids)

	tasks, agg := f.orchestrator.StatusAll()
	byName := make(map[string]Task, len(tasks))
	for _, task := range tasks {
		byName[task.CompanyName] = task
	}

	assert.Equal(t, StageCompleted, byName["Acme"].Stage)
	assert.Equal(t, StageCompleted, byName["Widget Co"].Stage)
	assert.Equal(t, StageFailed, byName["Gizmo Inc"].Stage)
	assert.Equal(t, TagCompanyNotFound, byName["Gizmo Inc"].Error)

	assert.Equal(t, 3, agg.Total)
	assert.Equal(t, 2, agg.Completed)
	assert.Equal(t, 1, agg.Failed)
	assert.Equal(t, 0, agg.InProgress)
}

func TestOrchestrator_AggregateAfterFullRun(t *testing.T) {
	f := setupOrchestrator(t)
	f.discoverer.DiscoverCompetitorsFunc = func(ctx context.Context, seed string, max int) ([]string, error) {
		return []string{"Widget Co", "Gizmo Inc"}, nil
	}

	ids, err := f.orchestrator.Launch(context.Background(), "Acme", 2)
	require.NoError(t, err)
	waitForTerminal(t, f.registry, ids)

	_, agg := f.orchestrator.StatusAll()
	assert.Equal(t, 3, agg.Completed)
	assert.Equal(t, 0, agg.Failed)
	// default mock fetcher yields 3 contacts per company
	assert.Equal(t, 9, agg.TotalContacts)
}

func TestOrchestrator_ResearchCompanySynchronous(t *testing.T) {
	f := setupOrchestrator(t)

	task, err := f.orchestrator.ResearchCompany(context.Background(), "Acme")
	require.NoError(t, err)

	assert.Equal(t, StageCompleted, task.Stage)
	require.NotNil(t, task.Result)
	assert.Equal(t, "Acme", task.Result.Company.Name)
}

func TestOrchestrator_StatusUnknownTask(t *testing.T) {
	f := setupOrchestrator(t)

	_, err := f.orchestrator.Status("bogus")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
