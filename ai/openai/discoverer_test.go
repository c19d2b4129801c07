package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanCompetitorNames(t *testing.T) {
	raw := []string{
		"1. Outreach",
		"SalesLoft",
		"salesloft",
		"Apollo",
		"Company Name 1",
		"Competitor A",
		"- ZoomInfo",
		"  HubSpot  ",
		"",
	}

	names := cleanCompetitorNames(raw, "Apollo", 10)
	assert.Equal(t, []string{"Outreach", "SalesLoft", "ZoomInfo", "HubSpot"}, names)
}

func TestCleanCompetitorNames_Limit(t *testing.T) {
	raw := []string{"A Corp", "B Corp", "C Corp", "D Corp"}
	names := cleanCompetitorNames(raw, "Seed", 2)
	assert.Len(t, names, 2)
}

func TestCleanCompetitorNames_SeedExcludedCaseInsensitive(t *testing.T) {
	raw := []string{"ACME", "acme", "Acme Labs"}
	names := cleanCompetitorNames(raw, "Acme", 10)
	assert.Equal(t, []string{"Acme Labs"}, names)
}

func TestRepairJSON_MissingOpeningQuote(t *testing.T) {
	broken := `{competitors": ["Outreach"]}`
	assert.Equal(t, `{"competitors": ["Outreach"]}`, repairJSON(broken))
}

func TestRepairJSON_ValidPassthrough(t *testing.T) {
	valid := `{"competitors": ["Outreach", "SalesLoft"]}`
	assert.Equal(t, valid, repairJSON(valid))
}
