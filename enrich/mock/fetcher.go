// Package mock provides a test double implementation of enrich.Fetcher.
//
// The mock returns deterministic company and contact profiles so tests
// can exercise the research pipeline without network access. Custom
// behavior is injected via function fields.
package mock

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/poiesic/prospect/core"
)

// MockFetcher is a test double for enrich.Fetcher.
// It allows custom behavior injection via function fields.
type MockFetcher struct {
	// FetchCompanyFunc is called by FetchCompany if set.
	// If nil, uses default deterministic behavior.
	FetchCompanyFunc func(ctx context.Context, companyName string) (*core.CompanyProfile, error)

	// FetchContactsFunc is called by FetchContacts if set.
	// If nil, uses default deterministic behavior.
	FetchContactsFunc func(ctx context.Context, companyName string, maxContacts int) ([]*core.ContactProfile, error)

	companyCalls atomic.Int64
	contactCalls atomic.Int64
}

// NewMockFetcher creates a mock fetcher with default deterministic behavior.
// Note: Returns concrete type to allow test assertions on call counts.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{}
}

// FetchCompany returns a deterministic profile for the named company.
func (m *MockFetcher) FetchCompany(ctx context.Context, companyName string) (*core.CompanyProfile, error) {
	m.companyCalls.Add(1)

	if m.FetchCompanyFunc != nil {
		return m.FetchCompanyFunc(ctx, companyName)
	}

	domain := strings.ToLower(strings.ReplaceAll(companyName, " ", "")) + ".example"
	return &core.CompanyProfile{
		Name:          companyName,
		Domain:        domain,
		Description:   fmt.Sprintf("%s builds products for its market.", companyName),
		Industry:      "Technology",
		Size:          "100 employees",
		Location:      "San Francisco, CA, USA",
		EmployeeCount: 100,
		Website:       "https://" + domain,
	}, nil
}

// FetchContacts returns maxContacts deterministic contacts, capped at 3.
func (m *MockFetcher) FetchContacts(ctx context.Context, companyName string, maxContacts int) ([]*core.ContactProfile, error) {
	m.contactCalls.Add(1)

	if m.FetchContactsFunc != nil {
		return m.FetchContactsFunc(ctx, companyName, maxContacts)
	}

	defaults := []struct {
		name, title, department, seniority string
	}{
		{"Sarah Johnson", "VP of Sales", "Sales", "Executive"},
		{"Michael Brown", "Senior Software Engineer", "Engineering", "Senior"},
		{"Emily Davis", "Marketing Manager", "Marketing", "Manager"},
	}

	count := maxContacts
	if count > len(defaults) {
		count = len(defaults)
	}

	contacts := make([]*core.ContactProfile, 0, count)
	for _, d := range defaults[:count] {
		contacts = append(contacts, &core.ContactProfile{
			Name:       d.name,
			Title:      d.title,
			Company:    companyName,
			Email:      strings.ToLower(strings.ReplaceAll(d.name, " ", ".")) + "@" + strings.ToLower(strings.ReplaceAll(companyName, " ", "")) + ".example",
			Department: d.department,
			Seniority:  d.seniority,
		})
	}
	return contacts, nil
}

// CompanyCallCount returns the number of times FetchCompany was called.
func (m *MockFetcher) CompanyCallCount() int {
	return int(m.companyCalls.Load())
}

// ContactCallCount returns the number of times FetchContacts was called.
func (m *MockFetcher) ContactCallCount() int {
	return int(m.contactCalls.Load())
}

// Reset clears the call counts and custom functions.
func (m *MockFetcher) Reset() {
	m.companyCalls.Store(0)
	m.contactCalls.Store(0)
	m.FetchCompanyFunc = nil
	m.FetchContactsFunc = nil
}
