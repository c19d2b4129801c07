package badger

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/prospect/core"
	"github.com/poiesic/prospect/storage"
)

// CompanyRepository implements storage.CompanyRepository for BadgerDB.
type CompanyRepository struct {
	backend *Backend
}

var _ storage.CompanyRepository = (*CompanyRepository)(nil)

// NewCompanyRepository creates a new CompanyRepository.
func NewCompanyRepository(backend *Backend) (*CompanyRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &CompanyRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *CompanyRepository) Close() error {
	return nil
}

// SaveCompany stores a company profile, replacing any existing profile with
// the same name. The prior InsertedAt is preserved on replacement.
func (r *CompanyRepository) SaveCompany(ctx context.Context, profile *core.CompanyProfile) error {
	if err := core.ValidateCompanyProfile(profile); err != nil {
		return err
	}

	key := makeCompanyKey(core.CompanyID(profile.Name))
	now := time.Now().UTC()

	return r.backend.WithTx(func(tx *badger.Txn) error {
		old, err := readCompany(tx, key)
		if err != nil {
			return err
		}
		if old != nil {
			profile.InsertedAt = old.InsertedAt
		} else if profile.InsertedAt.IsZero() {
			profile.InsertedAt = now
		}
		profile.UpdatedAt = now

		if err := tx.Set(key, storage.MarshalCompanyProfile(profile)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetCompany retrieves a company profile by name.
func (r *CompanyRepository) GetCompany(ctx context.Context, name string) (*core.CompanyProfile, error) {
	key := makeCompanyKey(core.CompanyID(name))

	var profile *core.CompanyProfile
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		profile, err = readCompany(tx, key)
		return err
	}, false)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, storage.ErrNotFound
	}
	return profile, nil
}

// GetAllCompanies retrieves every stored company profile, ordered by name.
func (r *CompanyRepository) GetAllCompanies(ctx context.Context) ([]*core.CompanyProfile, error) {
	var profiles []*core.CompanyProfile

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(companyPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var profile *core.CompanyProfile
			err := iter.Item().Value(func(val []byte) error {
				var err error
				profile, err = storage.UnmarshalCompanyProfile(val)
				return err
			})
			if err != nil {
				return err
			}
			profiles = append(profiles, profile)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(profiles, func(a, b *core.CompanyProfile) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return profiles, nil
}

// DeleteCompany removes a company profile by name.
func (r *CompanyRepository) DeleteCompany(ctx context.Context, name string) error {
	key := makeCompanyKey(core.CompanyID(name))

	return r.backend.WithTx(func(tx *badger.Txn) error {
		old, err := readCompany(tx, key)
		if err != nil {
			return err
		}
		if old == nil {
			return storage.ErrNotFound
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// readCompany reads a company profile within a transaction.
// Returns nil (no error) if the key does not exist.
func readCompany(tx *badger.Txn, key []byte) (*core.CompanyProfile, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var profile *core.CompanyProfile
	err = item.Value(func(val []byte) error {
		var err error
		profile, err = storage.UnmarshalCompanyProfile(val)
		return err
	})
	return profile, err
}
