package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/prospect/core"
)

func TestDeriveSeniority(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"VP of Sales", SeniorityExecutive},
		{"CTO", SeniorityExecutive},
		{"Engineering Director", SeniorityExecutive},
		{"Sales Operations Manager", SeniorityManager},
		{"Head of Growth", SeniorityManager},
		{"Senior Software Engineer", SenioritySenior},
		{"Software Engineer", SeniorityIndividualContributor},
		{"Account Executive", SeniorityIndividualContributor},
		{"", SeniorityIndividualContributor},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveSeniority(tt.title))
		})
	}
}

func TestDeriveDepartment(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"VP of Sales", "Sales"},
		{"Content Marketing Manager", "Marketing"},
		{"Senior Product Manager", "Product"},
		{"Backend Engineer", "Engineering"},
		{"Partnership Manager", "Business Development"},
		{"Operations Director", "Operations"},
		{"Astronaut", ""},
	}

	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, DeriveDepartment(tt.title))
		})
	}
}

func TestNormalizeContact(t *testing.T) {
	t.Run("fills empty fields from title", func(t *testing.T) {
		contact := &core.ContactProfile{
			Name:    "Sarah Johnson",
			Title:   "VP of Sales",
			Company: "Acme",
		}

		NormalizeContact(contact)

		assert.Equal(t, SeniorityExecutive, contact.Seniority)
		assert.Equal(t, "Sales", contact.Department)
	})

	t.Run("preserves source-provided values", func(t *testing.T) {
		contact := &core.ContactProfile{
			Name:       "Sarah Johnson",
			Title:      "VP of Sales",
			Company:    "Acme",
			Seniority:  "c_suite",
			Department: "Revenue",
		}

		NormalizeContact(contact)

		assert.Equal(t, "c_suite", contact.Seniority)
		assert.Equal(t, "Revenue", contact.Department)
	})

	t.Run("nil contact", func(t *testing.T) {
		assert.Nil(t, NormalizeContact(nil))
	})
}
