package taxonomy

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekaya-inc/kpi-translator/pkg/apperrors"
	"github.com/ekaya-inc/kpi-translator/pkg/models"
)

func TestDefault_IsValid(t *testing.T) {
	tax := Default()
	require.NoError(t, tax.Validate())
	assert.Len(t, tax.Groups, 5)
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := Default()
	b := Default()
	a.Groups[0].Keywords[0] = "mutated"

	assert.Equal(t, "engagement", b.Groups[0].Keywords[0])
}

func TestDisplayName(t *testing.T) {
	tax := Default()
	assert.Equal(t, "Lead Generation & Conversion", tax.DisplayName(models.GroupLeadManagement))

	// Fallback title-cases every underscore-separated word
	tax.Groups[1].DisplayName = ""
	assert.Equal(t, "Financial", tax.DisplayName(models.GroupFinancial))

	tax.Groups[2].DisplayName = ""
	assert.Equal(t, "Customer Sentiment", tax.DisplayName(models.GroupCustomerSentiment))
}

func TestInterestingFor(t *testing.T) {
	tax := Default()

	subs, ok := tax.InterestingFor("Sales")
	require.True(t, ok)
	assert.Equal(t, []string{"qualified lead", "lead quality"}, subs)

	_, ok = tax.InterestingFor("Finance")
	assert.False(t, ok)
}

func TestTeamColor(t *testing.T) {
	tax := Default()
	assert.Equal(t, "#4285F4", tax.TeamColor("Marketing"))
	assert.Equal(t, tax.DefaultTeamColor, tax.TeamColor("Legal Ops"))
}

func TestParse_OverridesSections(t *testing.T) {
	data := []byte(`
groups:
  - id: quality
    display_name: Data Trust
    keywords: [Integrity, Freshness]
interesting_metrics:
  - team: Finance
    substrings: [CAC]
team_colors:
  Finance: "#000000"
`)

	tax, err := Parse(data)
	require.NoError(t, err)

	require.Len(t, tax.Groups, 1)
	assert.Equal(t, "Data Trust", tax.DisplayName(models.GroupQuality))
	assert.Equal(t, []string{"integrity", "freshness"}, tax.Groups[0].Keywords)

	subs, ok := tax.InterestingFor("Finance")
	require.True(t, ok)
	assert.Equal(t, []string{"cac"}, subs)

	// Colours merge with defaults
	assert.Equal(t, "#000000", tax.TeamColor("Finance"))
	assert.Equal(t, "#34A853", tax.TeamColor("Sales"))

	// Sections not in the file keep their defaults
	assert.Equal(t, "success", tax.SuccessKeyword)
	assert.Len(t, tax.TimeWindowConflicts, 3)
}

func TestParse_RejectsUnknownGroup(t *testing.T) {
	_, err := Parse([]byte(`
groups:
  - id: vibes
    keywords: [mood]
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFormat))
	assert.Contains(t, err.Error(), "vibes")
}

func TestParse_RejectsGroupWithoutKeywords(t *testing.T) {
	_, err := Parse([]byte(`
groups:
  - id: financial
    keywords: []
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFormat))
}

func TestParse_RejectsMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("groups: [unterminated"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFormat))
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte("success_keyword: WIN\n"), 0644))

	tax, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "win", tax.SuccessKeyword)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParse_TimeWindowConflicts(t *testing.T) {
	tax, err := Parse([]byte(`
time_window_conflicts:
  - left: Quarterly
    right: Monthly
`))
	require.NoError(t, err)
	assert.Equal(t, []TimeWindowConflict{{Left: "quarterly", Right: "monthly"}}, tax.TimeWindowConflicts)

	_, err = Parse([]byte(`
time_window_conflicts:
  - left: quarterly
`))
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrFormat))
}

func TestTitleCase(t *testing.T) {
	assert.Equal(t, "User Engagement", titleCase("user engagement"))
	assert.Equal(t, "Épargne Client", titleCase("épargne client"))
	assert.Equal(t, "Ümsatz", titleCase("ümsatz"))
}
