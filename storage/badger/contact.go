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

// ContactRepository implements storage.ContactRepository for BadgerDB.
// Contacts are keyed by company+name, so re-saving a contact overwrites
// the prior record.
type ContactRepository struct {
	backend *Backend
}

var _ storage.ContactRepository = (*ContactRepository)(nil)

// NewContactRepository creates a new ContactRepository.
func NewContactRepository(backend *Backend) (*ContactRepository, error) {
	if backend == nil {
		return nil, errors.New("backend required")
	}
	return &ContactRepository{backend: backend}, nil
}

// Close is a no-op; the backend owns the database handle.
func (r *ContactRepository) Close() error {
	return nil
}

// SaveContacts stores one or more contacts.
func (r *ContactRepository) SaveContacts(ctx context.Context, contacts ...*core.ContactProfile) error {
	for _, contact := range contacts {
		if err := core.ValidateContactProfile(contact); err != nil {
			return err
		}
	}

	now := time.Now().UTC()
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, contact := range contacts {
			if contact.InsertedAt.IsZero() {
				contact.InsertedAt = now
			}
			contact.UpdatedAt = now

			key := makeContactKey(
				core.CompanyID(contact.Company),
				core.ContactID(contact.Company, contact.Name),
			)
			if err := tx.Set(key, storage.MarshalContactProfile(contact)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetContactsByCompany retrieves all contacts for a company, ordered by name.
func (r *ContactRepository) GetContactsByCompany(ctx context.Context, company string) ([]*core.ContactProfile, error) {
	var contacts []*core.ContactProfile

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makeContactCompanyPrefix(core.CompanyID(company))
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var contact *core.ContactProfile
			err := iter.Item().Value(func(val []byte) error {
				var err error
				contact, err = storage.UnmarshalContactProfile(val)
				return err
			})
			if err != nil {
				return err
			}
			contacts = append(contacts, contact)
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(contacts, func(a, b *core.ContactProfile) int {
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return contacts, nil
}

// CountContacts returns the total number of stored contacts.
func (r *ContactRepository) CountContacts(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(contactPrefix)
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
