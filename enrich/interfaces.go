package enrich

import (
	"context"

	"github.com/poiesic/prospect/core"
)

// Fetcher acquires company and contact profiles from an external data
// source. Implementations must be thread-safe for concurrent use.
type Fetcher interface {
	// FetchCompany retrieves the profile for the named company.
	// Returns ErrCompanyNotFound (possibly wrapped) if the source has no
	// record of the company; any other error is a transport or service
	// fault.
	FetchCompany(ctx context.Context, companyName string) (*core.CompanyProfile, error)

	// FetchContacts retrieves up to maxContacts contact profiles for the
	// named company. An empty slice is a valid, non-error result.
	FetchContacts(ctx context.Context, companyName string, maxContacts int) ([]*core.ContactProfile, error)
}
