package enrich

import (
	"strings"

	"github.com/poiesic/prospect/core"
)

// Seniority levels derived from job titles when the data source does
// not supply one.
const (
	SeniorityExecutive             = "Executive"
	SeniorityManager               = "Manager"
	SenioritySenior                = "Senior"
	SeniorityIndividualContributor = "Individual Contributor"
)

var executiveWords = []string{"vp", "vice president", "ceo", "cto", "coo", "cfo", "chief", "director", "founder", "president"}

var managerWords = []string{"manager", "lead", "head"}

// departmentWords maps title keywords to departments. Order matters:
// the first match wins, so more specific keywords come first.
var departmentWords = []struct {
	word string
	dept string
}{
	{"sales", "Sales"},
	{"account executive", "Sales"},
	{"marketing", "Marketing"},
	{"brand", "Marketing"},
	{"product", "Product"},
	{"design", "Product"},
	{"engineer", "Engineering"},
	{"developer", "Engineering"},
	{"devops", "Engineering"},
	{"cto", "Engineering"},
	{"partnership", "Business Development"},
	{"business development", "Business Development"},
	{"operations", "Operations"},
	{"customer success", "Operations"},
	{"finance", "Operations"},
	{"legal", "Operations"},
}

// DeriveSeniority classifies a job title into a seniority level.
// Executive outranks manager outranks senior; anything else is an
// individual contributor.
func DeriveSeniority(title string) string {
	t := strings.ToLower(title)
	for _, w := range executiveWords {
		if strings.Contains(t, w) {
			return SeniorityExecutive
		}
	}
	for _, w := range managerWords {
		if strings.Contains(t, w) {
			return SeniorityManager
		}
	}
	if strings.Contains(t, "senior") {
		return SenioritySenior
	}
	return SeniorityIndividualContributor
}

// DeriveDepartment guesses a department from a job title. Returns an
// empty string when no keyword matches.
func DeriveDepartment(title string) string {
	t := strings.ToLower(title)
	for _, entry := range departmentWords {
		if strings.Contains(t, entry.word) {
			return entry.dept
		}
	}
	return ""
}

// NormalizeContact fills in Seniority and Department from the title
// when the data source left them empty. It modifies the profile in
// place and returns it for chaining.
func NormalizeContact(contact *core.ContactProfile) *core.ContactProfile {
	if contact == nil {
		return nil
	}
	if contact.Seniority == "" && contact.Title != "" {
		contact.Seniority = DeriveSeniority(contact.Title)
	}
	if contact.Department == "" && contact.Title != "" {
		contact.Department = DeriveDepartment(contact.Title)
	}
	return contact
}
