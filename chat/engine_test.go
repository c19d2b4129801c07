package chat

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	aimock "github.com/poiesic/prospect/ai/mock"
	"github.com/poiesic/prospect/core"
	"github.com/poiesic/prospect/storage"
	badgerstore "github.com/poiesic/prospect/storage/badger"
)

type engineFixture struct {
	engine   *Engine
	embedder *aimock.MockEmbedder
	answerer *aimock.MockAnswerer
	vectors  storage.VectorRepository
}

func setupEngine(t *testing.T, opts ...EngineOption) *engineFixture {
	t.Helper()

	_, _, vectors, backend, err := badgerstore.NewMemoryRepositories()
	require.NoError(t, err)
	t.Cleanup(func() { backend.Close() })

	embedder := aimock.NewMockEmbedder()
	answerer := aimock.NewMockAnswerer()

	return &engineFixture{
		engine:   NewEngine(embedder, answerer, vectors, opts...),
		embedder: embedder,
		answerer: answerer,
		vectors:  vectors,
	}
}

func (f *engineFixture) storeDocument(t *testing.T, docType core.DocumentType, name, contents string, vector []float32) {
	t.Helper()
	err := f.vectors.UpsertDocument(context.Background(), &core.Document{
		Type:     docType,
		Name:     name,
		Contents: contents,
		Vector:   vector,
	})
	require.NoError(t, err)
}

func TestEngine_EmptyIndexReturnsNoInformation(t *testing.T) {
	f := setupEngine(t)

	answer, err := f.engine.Ask(context.Background(), "what does Acme do?")
	require.NoError(t, err)

	assert.Equal(t, NoInformationAnswer, answer.Text)
	assert.Empty(t, answer.Sources)
	// the answerer is never invoked without evidence
	assert.Equal(t, 0, f.answerer.CallCount())
}

func TestEngine_AnswersFromRetrievedContext(t *testing.T) {
	f := setupEngine(t)

	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}
	f.storeDocument(t, core.DocumentTypeCompany, "Acme", "Company: Acme. Industry: Technology", []float32{1, 0})
	f.storeDocument(t, core.DocumentTypeContact, "Sarah Johnson", "Person: Sarah Johnson. Company: Acme", []float32{0.9, 0.1})

	var receivedDocs []string
	f.answerer.ComposeAnswerFunc = func(ctx context.Context, question string, contextDocs []string) (string, error) {
		receivedDocs = contextDocs
		return "Acme is a technology company.", nil
	}

	answer, err := f.engine.Ask(context.Background(), "what does Acme do?")
	require.NoError(t, err)

	assert.Equal(t, "Acme is a technology company.", answer.Text)
	assert.Equal(t, []string{"company:Acme", "contact:Sarah Johnson"}, answer.Sources)
	require.Len(t, receivedDocs, 2)
	assert.Contains(t, receivedDocs[0], "Acme")
}

func TestEngine_SimilarityFloorFiltersWeakMatches(t *testing.T) {
	f := setupEngine(t, WithSimilarityFloor(0.5))

	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}
	// orthogonal to the query, similarity 0
	f.storeDocument(t, core.DocumentTypeCompany, "Unrelated Co", "Company: Unrelated Co", []float32{0, 1})

	answer, err := f.engine.Ask(context.Background(), "what does Acme do?")
	require.NoError(t, err)

	assert.Equal(t, NoInformationAnswer, answer.Text)
	assert.Empty(t, answer.Sources)
}

func TestEngine_TopKLimitsContext(t *testing.T) {
	f := setupEngine(t, WithTopK(2))

	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}
	f.storeDocument(t, core.DocumentTypeCompany, "A Co", "Company: A Co", []float32{1, 0})
	f.storeDocument(t, core.DocumentTypeCompany, "B Co", "Company: B Co", []float32{0.9, 0})
	f.storeDocument(t, core.DocumentTypeCompany, "C Co", "Company: C Co", []float32{0.8, 0})

	answer, err := f.engine.Ask(context.Background(), "who are they?")
	require.NoError(t, err)
	assert.Len(t, answer.Sources, 2)
}

func TestEngine_EmbeddingFailure(t *testing.T) {
	f := setupEngine(t)
	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, errors.New("connection refused")
	}

	_, err := f.engine.Ask(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrEmbeddingUnavailable)
}

func TestEngine_AnswererFailurePropagates(t *testing.T) {
	f := setupEngine(t)

	f.embedder.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return []float32{1, 0}, nil
	}
	f.storeDocument(t, core.DocumentTypeCompany, "Acme", "Company: Acme", []float32{1, 0})
	f.answerer.ComposeAnswerFunc = func(ctx context.Context, question string, contextDocs []string) (string, error) {
		return "", errors.New("model overloaded")
	}

	_, err := f.engine.Ask(context.Background(), "what does Acme do?")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmbeddingUnavailable)
}

func TestEngine_EmptyQuestion(t *testing.T) {
	f := setupEngine(t)

	_, err := f.engine.Ask(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}
