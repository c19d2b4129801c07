package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/prospect"
	aimock "github.com/poiesic/prospect/ai/mock"
	"github.com/poiesic/prospect/chat"
	enrichmock "github.com/poiesic/prospect/enrich/mock"
	"github.com/poiesic/prospect/research"
	"github.com/poiesic/prospect/storage"
	badgerstore "github.com/poiesic/prospect/storage/badger"
)

type serverFixture struct {
	server       *Server
	db           *prospect.Database
	orchestrator *research.Orchestrator
	provider     *aimock.MockProvider
	fetcher      *enrichmock.MockFetcher
}

func setupServer(t *testing.T) *serverFixture {
	t.Helper()

	provider := aimock.NewMockProvider().(*aimock.MockProvider)
	fetcher := enrichmock.NewMockFetcher()

	db, err := prospect.NewDatabase("",
		prospect.WithInMemory(),
		prospect.WithAIProvider(provider),
		prospect.WithFetcher(fetcher),
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	orchestrator, err := db.NewOrchestrator(nil)
	require.NoError(t, err)
	t.Cleanup(func() { orchestrator.Close() })

	srv := New(Config{
		DB:           db,
		Orchestrator: orchestrator,
		Chat:         db.NewChatEngine(),
	})

	return &serverFixture{
		server:       srv,
		db:           db,
		orchestrator: orchestrator,
		provider:     provider,
		fetcher:      fetcher,
	}
}

func (f *serverFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.server.Handler().ServeHTTP(rec, req)
	return rec
}

func (f *serverFixture) waitForCompletion(t *testing.T) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, agg := f.orchestrator.StatusAll()
		return agg.Total > 0 && agg.InProgress == 0
	}, 10*time.Second, 10*time.Millisecond)
}

func TestServer_Health(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// unreachableIndex wraps a working vector repository but reports its
// backing service as down.
type unreachableIndex struct {
	storage.VectorRepository
	err error
}

func (u *unreachableIndex) Healthy(ctx context.Context) error { return u.err }

func TestServer_HealthReportsVectorIndexDown(t *testing.T) {
	_, _, vectors, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	index := &unreachableIndex{
		VectorRepository: vectors,
		err:              errors.New("connection refused"),
	}

	db, err := prospect.NewDatabase("",
		prospect.WithInMemory(),
		prospect.WithAIProvider(aimock.NewMockProvider()),
		prospect.WithFetcher(enrichmock.NewMockFetcher()),
		prospect.WithVectorRepository(index),
	)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	orchestrator, err := db.NewOrchestrator(nil)
	require.NoError(t, err)
	t.Cleanup(func() { orchestrator.Close() })

	srv := New(Config{
		DB:           db,
		Orchestrator: orchestrator,
		Chat:         db.NewChatEngine(),
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "unavailable", body["status"])
	assert.Contains(t, body["error"], "connection refused")

	// Once the index reports healthy again, so does the server.
	index.err = nil
	rec = httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_LaunchResearch(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodPost, "/api/research", launchRequest{
		SeedCompany:    "Acme",
		MaxCompetitors: 2,
	})
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp launchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.TaskIDs)
}

func TestServer_LaunchResearch_EmptySeed(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodPost, "/api/research", launchRequest{SeedCompany: ""})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_LaunchResearch_DiscoveryError(t *testing.T) {
	f := setupServer(t)
	f.provider.GetMockDiscoverer().DiscoverCompetitorsFunc = func(ctx context.Context, seed string, max int) ([]string, error) {
		return nil, errors.New("model unreachable")
	}

	rec := f.do(t, http.MethodPost, "/api/research", launchRequest{SeedCompany: "Acme"})
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, research.TagDiscoveryError, resp.Code)
}

func TestServer_TaskLifecycle(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodPost, "/api/research", launchRequest{SeedCompany: "Acme", MaxCompetitors: 2})
	require.Equal(t, http.StatusAccepted, rec.Code)

	var launched launchResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &launched))
	f.waitForCompletion(t)

	// single task
	rec = f.do(t, http.MethodGet, "/api/tasks/"+launched.TaskIDs[0], nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var task research.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &task))
	assert.Equal(t, research.StageCompleted, task.Stage)
	assert.Equal(t, 100, task.Progress)

	// all tasks plus aggregate
	rec = f.do(t, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed tasksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	assert.Len(t, listed.Tasks, len(launched.TaskIDs))
	assert.Equal(t, len(launched.TaskIDs), listed.Aggregate.Completed)
}

func TestServer_TaskNotFound(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodGet, "/api/tasks/bogus", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_CompaniesAndContacts(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodPost, "/api/research", launchRequest{SeedCompany: "Acme", MaxCompetitors: 1})
	require.Equal(t, http.StatusAccepted, rec.Code)
	f.waitForCompletion(t)

	rec = f.do(t, http.MethodGet, "/api/companies", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var companies []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &companies))
	assert.NotEmpty(t, companies)

	rec = f.do(t, http.MethodGet, "/api/companies/Acme/contacts", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var contacts []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &contacts))
	assert.NotEmpty(t, contacts)
}

func TestServer_ContactsForUnknownCompany(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodGet, "/api/companies/Nobody/contacts", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_ChatNoInformation(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodPost, "/api/chat", chatRequest{Question: "who is out there?"})
	require.Equal(t, http.StatusOK, rec.Code)

	var answer chat.Answer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &answer))
	assert.Equal(t, chat.NoInformationAnswer, answer.Text)
	assert.Empty(t, answer.Sources)
}

func TestServer_ChatEmbeddingUnavailable(t *testing.T) {
	f := setupServer(t)
	f.provider.GetMockEmbedder().EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("connection refused")
	}

	rec := f.do(t, http.MethodPost, "/api/chat", chatRequest{Question: "anything"})
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_ChatEmptyQuestion(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodPost, "/api/chat", chatRequest{Question: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_Summary(t *testing.T) {
	f := setupServer(t)

	rec := f.do(t, http.MethodPost, "/api/research", launchRequest{SeedCompany: "Acme", MaxCompetitors: 1})
	require.Equal(t, http.StatusAccepted, rec.Code)
	f.waitForCompletion(t)

	rec = f.do(t, http.MethodGet, "/api/summary", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var summary prospect.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
	assert.Positive(t, summary.Companies)
	assert.Positive(t, summary.Contacts)
}
