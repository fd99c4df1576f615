// Package taxonomy holds the static keyword tables that drive metric classification,
// unified-definition synthesis, translation selection and report scanning.
// Tables are plain data so they can be tested and overridden without touching the
// matching logic.
package taxonomy

import (
	"fmt"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/kpi-translator/pkg/apperrors"
	"github.com/ekaya-inc/kpi-translator/pkg/models"
)

// Group is a semantic group with its display name and lowercase match keywords.
type Group struct {
	ID          models.GroupID `yaml:"id"`
	DisplayName string         `yaml:"display_name"`
	Keywords    []string       `yaml:"keywords"`
}

// InterestingMetrics lists the metric-name substrings that qualify a team's metric
// for the translation matrix.
type InterestingMetrics struct {
	Team       string   `yaml:"team"`
	Substrings []string `yaml:"substrings"`
}

// TimeWindowConflict is a pair of mutually incompatible time-window phrasings
// written in the same form. A report conflicts when it contains both terms.
type TimeWindowConflict struct {
	Left  string `yaml:"left"`
	Right string `yaml:"right"`
}

// Taxonomy is the full set of configuration tables.
type Taxonomy struct {
	Groups              []Group              `yaml:"groups"`
	AcquisitionKeywords []string             `yaml:"acquisition_keywords"`
	RetentionKeywords   []string             `yaml:"retention_keywords"`
	InterestingMetrics  []InterestingMetrics `yaml:"interesting_metrics"`
	SuccessKeyword      string               `yaml:"success_keyword"`
	TimeWindowConflicts []TimeWindowConflict `yaml:"time_window_conflicts"`
	TeamColors          map[string]string    `yaml:"team_colors"`
	DefaultTeamColor    string               `yaml:"default_team_color"`
}

// knownGroups is the closed set of semantic groups.
var knownGroups = map[models.GroupID]bool{
	models.GroupUserEngagement:    true,
	models.GroupFinancial:         true,
	models.GroupCustomerSentiment: true,
	models.GroupLeadManagement:    true,
	models.GroupQuality:           true,
}

// Default returns a fresh copy of the built-in taxonomy.
func Default() *Taxonomy {
	return &Taxonomy{
		Groups: []Group{
			{
				ID:          models.GroupUserEngagement,
				DisplayName: "User Engagement & Activation",
				Keywords:    []string{"engagement", "activation", "adoption", "power user", "session", "login", "reach"},
			},
			{
				ID:          models.GroupFinancial,
				DisplayName: "Financial Performance Metrics",
				Keywords:    []string{"revenue", "roi", "cac", "lifetime value", "mrr", "pipeline", "deal"},
			},
			{
				ID:          models.GroupCustomerSentiment,
				DisplayName: "Customer Satisfaction & Retention",
				Keywords:    []string{"nps", "satisfaction", "churn", "retention"},
			},
			{
				ID:          models.GroupLeadManagement,
				DisplayName: "Lead Generation & Conversion",
				Keywords:    []string{"lead", "conversion", "close rate", "attribution"},
			},
			{
				ID:          models.GroupQuality,
				DisplayName: "Data Quality & Compliance",
				Keywords:    []string{"integrity", "compliance", "anomaly", "accuracy"},
			},
		},
		AcquisitionKeywords: []string{"lead", "activation", "engage", "conversion", "onboarding"},
		RetentionKeywords:   []string{"retention", "churn", "recurring"},
		InterestingMetrics: []InterestingMetrics{
			{Team: "Sales", Substrings: []string{"qualified lead", "lead quality"}},
			{Team: "Marketing", Substrings: []string{"engagement rate", "conversion"}},
			{Team: "Product", Substrings: []string{"activation", "feature adoption"}},
		},
		SuccessKeyword: "success",
		TimeWindowConflicts: []TimeWindowConflict{
			{Left: "30 day", Right: "14 day"},
			{Left: "30-day", Right: "14-day"},
			{Left: "monthly", Right: "weekly"},
		},
		TeamColors: map[string]string{
			"Marketing":        "#4285F4",
			"Sales":            "#34A853",
			"Product":          "#FBBC05",
			"Customer Success": "#EA4335",
			"Data":             "#8956FF",
			"Finance":          "#FF6D01",
			"Legal":            "#2A9D8F",
			"Success":          "#E76F51",
		},
		DefaultTeamColor: "#6C757D",
	}
}

// LoadFile reads a YAML override file on top of the built-in taxonomy.
// Sections present in the file replace the corresponding defaults; team colours are merged.
func LoadFile(path string) (*Taxonomy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read taxonomy file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML taxonomy overrides on top of the built-in taxonomy.
func Parse(data []byte) (*Taxonomy, error) {
	t := Default()
	if err := yaml.Unmarshal(data, t); err != nil {
		return nil, &apperrors.FormatError{Reason: fmt.Sprintf("parse taxonomy: %v", err)}
	}
	t.normalize()
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// normalize lower-cases every keyword so matching can compare against lower-cased text.
func (t *Taxonomy) normalize() {
	for i := range t.Groups {
		t.Groups[i].Keywords = lowerAll(t.Groups[i].Keywords)
	}
	t.AcquisitionKeywords = lowerAll(t.AcquisitionKeywords)
	t.RetentionKeywords = lowerAll(t.RetentionKeywords)
	for i := range t.InterestingMetrics {
		t.InterestingMetrics[i].Substrings = lowerAll(t.InterestingMetrics[i].Substrings)
	}
	for i := range t.TimeWindowConflicts {
		t.TimeWindowConflicts[i].Left = strings.ToLower(t.TimeWindowConflicts[i].Left)
		t.TimeWindowConflicts[i].Right = strings.ToLower(t.TimeWindowConflicts[i].Right)
	}
	t.SuccessKeyword = strings.ToLower(t.SuccessKeyword)
}

// Validate checks that the taxonomy only names known groups and has no empty tables.
func (t *Taxonomy) Validate() error {
	seen := make(map[models.GroupID]bool)
	for _, g := range t.Groups {
		if !knownGroups[g.ID] {
			return &apperrors.FormatError{Reason: fmt.Sprintf("unknown semantic group %q", g.ID)}
		}
		if seen[g.ID] {
			return &apperrors.FormatError{Reason: fmt.Sprintf("duplicate semantic group %q", g.ID)}
		}
		seen[g.ID] = true
		if len(g.Keywords) == 0 {
			return &apperrors.FormatError{Reason: fmt.Sprintf("semantic group %q has no keywords", g.ID)}
		}
	}
	for _, im := range t.InterestingMetrics {
		if strings.TrimSpace(im.Team) == "" {
			return &apperrors.FormatError{Reason: "interesting_metrics entry without team"}
		}
	}
	for _, c := range t.TimeWindowConflicts {
		if strings.TrimSpace(c.Left) == "" || strings.TrimSpace(c.Right) == "" {
			return &apperrors.FormatError{Reason: "time_window_conflicts entry needs both left and right"}
		}
	}
	if t.SuccessKeyword == "" {
		return &apperrors.FormatError{Reason: "success_keyword must not be empty"}
	}
	return nil
}

// DisplayName returns the configured name of a group, or a title-cased rendering of
// its ID with underscores replaced by spaces.
func (t *Taxonomy) DisplayName(id models.GroupID) string {
	for _, g := range t.Groups {
		if g.ID == id && g.DisplayName != "" {
			return g.DisplayName
		}
	}
	return titleCase(strings.ReplaceAll(string(id), "_", " "))
}

// InterestingFor returns the interesting-metric substrings for team.
// The second result is false when the team is not configured.
func (t *Taxonomy) InterestingFor(team string) ([]string, bool) {
	for _, im := range t.InterestingMetrics {
		if im.Team == team {
			return im.Substrings, true
		}
	}
	return nil, false
}

// TeamColor returns the display colour for a team.
func (t *Taxonomy) TeamColor(team string) string {
	if c, ok := t.TeamColors[team]; ok {
		return c
	}
	return t.DefaultTeamColor
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

func lowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}
