// Package qdrant provides a storage.VectorRepository backed by a Qdrant
// server. It is a drop-in alternative to the BadgerDB document repository
// for deployments where the index should live in a dedicated vector store.
package qdrant

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/qdrant/go-client/qdrant"
	"golang.org/x/sync/singleflight"

	"github.com/poiesic/prospect/core"
	"github.com/poiesic/prospect/storage"
)

// Config holds configuration for connecting to Qdrant.
type Config struct {
	URL        string // e.g. "https://xyz.cloud.qdrant.io:6333" or "http://localhost:6333"
	APIKey     string
	Collection string
	Dims       uint64
}

// Index implements storage.VectorRepository backed by Qdrant.
type Index struct {
	client     *qdrant.Client
	collection string
	dims       uint64
	logger     *slog.Logger

	healthGroup singleflight.Group
	healthErr   atomic.Value // stores *error; inner error may be nil
	healthAt    atomic.Int64 // unix nanos of last check
}

var _ storage.VectorRepository = (*Index)(nil)

// parseURL extracts host, port, and TLS flag from a Qdrant URL.
// Accepts forms like "https://host:6333", "http://host:6333", or "host:6334".
func parseURL(rawURL string) (host string, port int, useTLS bool, err error) {
	u, parseErr := url.Parse(rawURL)
	if parseErr != nil || u.Host == "" {
		return "", 0, false, fmt.Errorf("qdrant: invalid URL: %q", rawURL)
	}

	useTLS = u.Scheme == "https"
	host = u.Hostname()

	if portStr := u.Port(); portStr != "" {
		p, err := strconv.Atoi(portStr)
		if err != nil {
			return "", 0, false, fmt.Errorf("qdrant: invalid port in URL: %q", portStr)
		}
		// If the user specified the REST port (6333), use the gRPC port (6334).
		if p == 6333 {
			port = 6334
		} else {
			port = p
		}
	} else {
		port = 6334
	}

	return host, port, useTLS, nil
}

// NewIndex creates an Index and connects to the Qdrant server via gRPC.
func NewIndex(cfg Config) (*Index, error) {
	host, port, useTLS, err := parseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: cfg.APIKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: connect to %s:%d: %w", host, port, err)
	}

	return &Index{
		client:     client,
		collection: cfg.Collection,
		dims:       cfg.Dims,
		logger:     slog.Default().With("component", "qdrant-index"),
	}, nil
}

// EnsureCollection creates the collection if it doesn't already exist.
func (q *Index) EnsureCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collection)
	if err != nil {
		return fmt.Errorf("qdrant: check collection exists: %w", err)
	}

	if exists {
		q.logger.Info("collection already exists", "collection", q.collection)
		return nil
	}

	if err := q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.dims,
			Distance: qdrant.Distance_Cosine,
		}),
	}); err != nil {
		return fmt.Errorf("qdrant: create collection %q: %w", q.collection, err)
	}
	q.logger.Info("created collection", "collection", q.collection, "dims", q.dims)
	return nil
}

// UpsertDocument stores a document under its content-derived ID.
// Point identity equals document identity, so repeated upserts of the
// same entity overwrite the prior point.
func (q *Index) UpsertDocument(ctx context.Context, doc *core.Document) error {
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}
	if doc.Id == 0 {
		doc.Id = core.DocumentID(doc.Type, doc.Name)
	}

	now := time.Now().UTC()
	if doc.InsertedAt.IsZero() {
		doc.InsertedAt = now
	}
	doc.UpdatedAt = now

	point := &qdrant.PointStruct{
		Id:      qdrant.NewIDNum(uint64(doc.Id)),
		Vectors: qdrant.NewVectorsDense(doc.Vector),
		Payload: qdrant.NewValueMap(map[string]any{
			"type":     doc.Type.String(),
			"name":     doc.Name,
			"contents": doc.Contents,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collection,
		Wait:           qdrant.PtrOf(true),
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("qdrant: upsert %s: %w", doc.Source(), err)
	}
	return nil
}

// FindSimilar queries Qdrant for the documents nearest to the vector,
// keeping only hits at or above minSimilarity.
func (q *Index) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SimilarityMatch, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	fetchLimit := uint64(limit)
	scored, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collection,
		Query:          qdrant.NewQueryDense(vector),
		Limit:          &fetchLimit,
		ScoreThreshold: &minSimilarity,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("qdrant: query: %w", err)
	}

	matches := make([]*core.SimilarityMatch, 0, len(scored))
	for _, sp := range scored {
		doc := documentFromPayload(sp.Payload)
		if doc == nil {
			q.logger.Warn("point with unusable payload", "id", sp.Id.String())
			continue
		}
		doc.Id = core.ID(sp.Id.GetNum())
		matches = append(matches, &core.SimilarityMatch{
			Document: doc,
			Score:    sp.Score,
		})
	}
	return matches, nil
}

// CountDocuments returns the exact number of points in the collection.
func (q *Index) CountDocuments(ctx context.Context) (int, error) {
	count, err := q.client.Count(ctx, &qdrant.CountPoints{
		CollectionName: q.collection,
		Exact:          qdrant.PtrOf(true),
	})
	if err != nil {
		return 0, fmt.Errorf("qdrant: count: %w", err)
	}
	return int(count), nil
}

// Close closes the underlying gRPC connection.
func (q *Index) Close() error {
	return q.client.Close()
}

// Healthy returns nil if Qdrant is reachable. Results are cached for
// 5 seconds; concurrent checks after cache expiry are deduplicated via
// singleflight so only one gRPC call is made.
func (q *Index) Healthy(ctx context.Context) error {
	if time.Since(time.Unix(0, q.healthAt.Load())) < 5*time.Second {
		return q.loadHealthErr()
	}

	// context.Background() here: singleflight reuses the first caller's
	// context, and a cancel there would poison all waiters.
	result, _, _ := q.healthGroup.Do("health", func() (any, error) {
		checkCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()

		_, err := q.client.HealthCheck(checkCtx)
		if err != nil {
			q.storeHealthErr(fmt.Errorf("qdrant: unhealthy: %w", err))
		} else {
			q.storeHealthErr(nil)
		}
		q.healthAt.Store(time.Now().UnixNano())
		return q.loadHealthErr(), nil
	})
	if result == nil {
		return nil
	}
	return result.(error)
}

func (q *Index) storeHealthErr(err error) {
	q.healthErr.Store(&err)
}

func (q *Index) loadHealthErr() error {
	v := q.healthErr.Load()
	if v == nil {
		return nil
	}
	return *(v.(*error))
}

// documentFromPayload rebuilds a Document from a point payload.
// Returns nil if required fields are missing.
func documentFromPayload(payload map[string]*qdrant.Value) *core.Document {
	name := payload["name"].GetStringValue()
	contents := payload["contents"].GetStringValue()
	if name == "" || contents == "" {
		return nil
	}

	var docType core.DocumentType
	switch payload["type"].GetStringValue() {
	case core.DocumentTypeCompany.String():
		docType = core.DocumentTypeCompany
	case core.DocumentTypeContact.String():
		docType = core.DocumentTypeContact
	default:
		return nil
	}

	return &core.Document{
		Type:     docType,
		Name:     name,
		Contents: contents,
	}
}
