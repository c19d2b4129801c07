// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package apollo implements enrich.Fetcher against the Apollo.io B2B
// data API. Company profiles come from the mixed_companies search
// endpoint and contacts from mixed_people.
package apollo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/prospect/core"
	"github.com/poiesic/prospect/enrich"
)

const defaultBaseURL = "https://api.apollo.io/v1"

// Apollo caps page size at 25 for search endpoints.
const maxPerPage = 25

// Client is an enrich.Fetcher backed by the Apollo.io REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

// ClientOption configures a Client during construction.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL. Used by tests to point the
// client at a local server.
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimSuffix(baseURL, "/")
	}
}

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates an Apollo API client.
//
// Returns enrich.Fetcher interface to enforce abstraction.
func NewClient(apiKey string, opts ...ClientOption) (enrich.Fetcher, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apollo api key required")
	}

	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default().With("component", "apollo-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// organization mirrors the fields we use from Apollo's organization
// objects.
type organization struct {
	Name              string `json:"name"`
	WebsiteURL        string `json:"website_url"`
	ShortDescription  string `json:"short_description"`
	Industry          string `json:"industry"`
	City              string `json:"city"`
	State             string `json:"state"`
	Country           string `json:"country"`
	FoundedYear       int    `json:"founded_year"`
	TotalFunding      string `json:"total_funding_printed"`
	EstimatedEmployee int    `json:"estimated_num_employees"`
	LinkedInURL       string `json:"linkedin_url"`
}

// person mirrors the fields we use from Apollo's people objects.
type person struct {
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Title       string   `json:"title"`
	Email       string   `json:"email"`
	Phone       string   `json:"phone"`
	City        string   `json:"city"`
	State       string   `json:"state"`
	Country     string   `json:"country"`
	Departments []string `json:"departments"`
	Seniority   string   `json:"seniority"`
	LinkedInURL string   `json:"linkedin_url"`
}

type companySearchResponse struct {
	Organizations []organization `json:"organizations"`
}

type peopleSearchResponse struct {
	People []person `json:"people"`
}

// FetchCompany looks up the company by name. Returns
// enrich.ErrCompanyNotFound when Apollo has no matching organization.
func (c *Client) FetchCompany(ctx context.Context, companyName string) (*core.CompanyProfile, error) {
	params := url.Values{
		"q_organization_name": {companyName},
		"page":                {"1"},
		"per_page":            {"1"},
	}

	var result companySearchResponse
	if err := c.get(ctx, "/mixed_companies/search", params, &result); err != nil {
		return nil, fmt.Errorf("fetch company %q: %w", companyName, err)
	}

	if len(result.Organizations) == 0 {
		return nil, fmt.Errorf("%w: %s", enrich.ErrCompanyNotFound, companyName)
	}

	return companyProfile(&result.Organizations[0], companyName), nil
}

// FetchContacts retrieves up to maxContacts people at the company.
func (c *Client) FetchContacts(ctx context.Context, companyName string, maxContacts int) ([]*core.ContactProfile, error) {
	perPage := maxContacts
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	params := url.Values{
		"q_organization_name": {companyName},
		"page":                {"1"},
		"per_page":            {strconv.Itoa(perPage)},
	}

	var result peopleSearchResponse
	if err := c.get(ctx, "/mixed_people/search", params, &result); err != nil {
		return nil, fmt.Errorf("fetch contacts for %q: %w", companyName, err)
	}

	contacts := make([]*core.ContactProfile, 0, len(result.People))
	for i := range result.People {
		contact := contactProfile(&result.People[i], companyName)
		if contact.Name == "" {
			continue
		}
		contacts = append(contacts, enrich.NormalizeContact(contact))
		if len(contacts) >= maxContacts {
			break
		}
	}

	c.logger.Debug("fetched contacts", "company", companyName, "count", len(contacts))
	return contacts, nil
}

// get executes an authenticated GET request and decodes the JSON
// response into dst.
func (c *Client) get(ctx context.Context, path string, params url.Values, dst any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("X-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", enrich.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return enrich.ErrRateLimited
	case resp.StatusCode >= 500:
		return fmt.Errorf("%w: status %d", enrich.ErrUpstreamUnavailable, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// companyProfile converts an Apollo organization into a CompanyProfile.
// The requested name is kept when Apollo returns an empty one.
func companyProfile(org *organization, requestedName string) *core.CompanyProfile {
	name := org.Name
	if name == "" {
		name = requestedName
	}

	founded := ""
	if org.FoundedYear > 0 {
		founded = strconv.Itoa(org.FoundedYear)
	}

	size := ""
	if org.EstimatedEmployee > 0 {
		size = fmt.Sprintf("%d employees", org.EstimatedEmployee)
	}

	return &core.CompanyProfile{
		Name:          name,
		Domain:        org.WebsiteURL,
		Description:   org.ShortDescription,
		Industry:      org.Industry,
		Size:          size,
		Location:      joinLocation(org.City, org.State, org.Country),
		Founded:       founded,
		Funding:       org.TotalFunding,
		EmployeeCount: org.EstimatedEmployee,
		LinkedInURL:   org.LinkedInURL,
		Website:       org.WebsiteURL,
	}
}

// contactProfile converts an Apollo person into a ContactProfile.
func contactProfile(p *person, companyName string) *core.ContactProfile {
	department := ""
	if len(p.Departments) > 0 {
		department = p.Departments[0]
	}

	return &core.ContactProfile{
		Name:        strings.TrimSpace(p.FirstName + " " + p.LastName),
		Title:       p.Title,
		Company:     companyName,
		Email:       p.Email,
		Phone:       p.Phone,
		Location:    joinLocation(p.City, p.State, p.Country),
		Department:  department,
		Seniority:   p.Seniority,
		LinkedInURL: p.LinkedInURL,
	}
}

// joinLocation builds "City, State, Country" skipping empty parts.
func joinLocation(parts ...string) string {
	nonEmpty := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, ", ")
}
