package badger

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/prospect/core"
	"github.com/poiesic/prospect/storage"
)

// DocumentRepository implements storage.VectorRepository for BadgerDB.
// Similarity search is a brute-force scan over all stored documents, which
// is adequate for the collection sizes a research run produces.
type DocumentRepository struct {
	backend *Backend
}

var _ storage.VectorRepository = (*DocumentRepository)(nil)

// NewDocumentRepository creates a new DocumentRepository.
func NewDocumentRepository(backend *Backend) (*DocumentRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &DocumentRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *DocumentRepository) Close() error {
	return nil
}

// UpsertDocument stores a document under its content-derived ID.
// The prior InsertedAt is preserved when overwriting.
func (r *DocumentRepository) UpsertDocument(ctx context.Context, doc *core.Document) error {
	if err := core.ValidateDocument(doc); err != nil {
		return err
	}

	if doc.Id == 0 {
		doc.Id = core.DocumentID(doc.Type, doc.Name)
	}
	key := makeDocumentKey(doc.Id)
	now := time.Now().UTC()

	return r.backend.WithTx(func(tx *badger.Txn) error {
		old, err := readDocument(tx, key)
		if err != nil {
			return err
		}
		if old != nil {
			doc.InsertedAt = old.InsertedAt
		} else if doc.InsertedAt.IsZero() {
			doc.InsertedAt = now
		}
		doc.UpdatedAt = now

		if err := tx.Set(key, storage.MarshalDocument(doc)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// FindSimilar finds documents similar to the given vector.
func (r *DocumentRepository) FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SimilarityMatch, error) {
	if limit <= 0 {
		return nil, storage.ErrInvalidQuery
	}

	var matches []*core.SimilarityMatch

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var doc *core.Document
			err := iter.Item().Value(func(val []byte) error {
				var err error
				doc, err = storage.UnmarshalDocument(val)
				return err
			})
			if err != nil {
				return err
			}

			// Skip documents without embeddings
			if len(doc.Vector) == 0 {
				continue
			}

			// Cosine similarity (dot product for normalized vectors)
			similarity := dotProduct(vector, doc.Vector)
			if similarity >= minSimilarity {
				matches = append(matches, &core.SimilarityMatch{
					Document: doc,
					Score:    similarity,
				})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	// Sort by similarity descending
	slices.SortFunc(matches, func(a, b *core.SimilarityMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// CountDocuments returns the number of documents in the index.
func (r *DocumentRepository) CountDocuments(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(documentPrefix)
		opts.PrefetchValues = false
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// readDocument reads a document within a transaction.
// Returns nil (no error) if the key does not exist.
func readDocument(tx *badger.Txn, key []byte) (*core.Document, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var doc *core.Document
	err = item.Value(func(val []byte) error {
		var err error
		doc, err = storage.UnmarshalDocument(val)
		return err
	})
	return doc, err
}
