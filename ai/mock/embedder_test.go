package mock

import (
	"context"
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_VectorsAreUnitLength(t *testing.T) {
	embedder := NewMockEmbedder()

	for _, text := range []string{"Company: Acme", "a", "some longer document text"} {
		vector, err := embedder.EmbedText(context.Background(), text)
		require.NoError(t, err)
		require.Len(t, vector, 384)

		var sumSquares float64
		for _, v := range vector {
			sumSquares += float64(v) * float64(v)
		}
		assert.InDelta(t, 1.0, sumSquares, 1e-3, "vector for %q is not unit length", text)
	}
}

func TestMockEmbedder_SameTextMaxSimilarity(t *testing.T) {
	embedder := NewMockEmbedder()

	a, err := embedder.EmbedText(context.Background(), "Company: Acme")
	require.NoError(t, err)
	b, err := embedder.EmbedText(context.Background(), "Company: Acme")
	require.NoError(t, err)

	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	assert.InDelta(t, 1.0, dot, 1e-3)
	assert.False(t, math.IsNaN(dot))
}

func TestMockEmbedder_ConcurrentCallCount(t *testing.T) {
	embedder := NewMockEmbedder()

	const calls = 50
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = embedder.EmbedText(context.Background(), "text")
		}()
	}
	wg.Wait()

	assert.Equal(t, calls, embedder.CallCount())
}
