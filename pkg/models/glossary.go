package models

import "strings"

// GroupID identifies a semantic group of related metrics.
type GroupID string

// Semantic groups known to the default taxonomy.
const (
	GroupUserEngagement    GroupID = "user_engagement"
	GroupFinancial         GroupID = "financial"
	GroupCustomerSentiment GroupID = "customer_sentiment"
	GroupLeadManagement    GroupID = "lead_management"
	GroupQuality           GroupID = "quality"
)

// MetricKey is the composite identity of a metric within a glossary.
type MetricKey struct {
	Team string `json:"team"`
	Name string `json:"metric_name"`
}

// String renders the key as "Team: Metric".
func (k MetricKey) String() string {
	return k.Team + ": " + k.Name
}

// MetricRecord is a single team-specific KPI definition.
// SemanticGroups is recomputed on every rebuild and never accumulated.
type MetricRecord struct {
	Team           string    `json:"team"`
	Name           string    `json:"metric_name"`
	Definition     string    `json:"definition"`
	SemanticGroups []GroupID `json:"semantic_groups"`
}

// Key returns the record's composite key.
func (r *MetricRecord) Key() MetricKey {
	return MetricKey{Team: r.Team, Name: r.Name}
}

// HasGroup reports whether the record is tagged with the given group.
func (r *MetricRecord) HasGroup(group GroupID) bool {
	for _, g := range r.SemanticGroups {
		if g == group {
			return true
		}
	}
	return false
}

// ImportRow is one row of externally supplied glossary data.
type ImportRow struct {
	Team       string `json:"Team" yaml:"Team"`
	MetricName string `json:"Metric_Name" yaml:"Metric_Name"`
	Definition string `json:"Definition" yaml:"Definition"`
}

// IsComplete reports whether every required field is non-blank.
func (r ImportRow) IsComplete() bool {
	return strings.TrimSpace(r.Team) != "" &&
		strings.TrimSpace(r.MetricName) != "" &&
		strings.TrimSpace(r.Definition) != ""
}

// LoadResult summarizes a bulk ingestion.
type LoadResult struct {
	Loaded  int `json:"loaded"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

// UnifiedDefinition is the team-neutral definition of a semantic group.
// It only exists for groups whose members span at least two teams.
type UnifiedDefinition struct {
	Group          GroupID     `json:"group"`
	Name           string      `json:"name"`
	Definition     string      `json:"definition"`
	RelatedMetrics []MetricKey `json:"related_metrics"`
	TeamsAffected  []string    `json:"teams_affected"`
}

// Affects reports whether team contributes to the group.
func (u *UnifiedDefinition) Affects(team string) bool {
	for _, t := range u.TeamsAffected {
		if t == team {
			return true
		}
	}
	return false
}

// TranslationKey identifies a directed metric-to-metric translation.
type TranslationKey struct {
	SourceTeam   string
	SourceMetric string
	TargetTeam   string
	TargetMetric string
}

// TranslationEntry is a single cell of the translation matrix.
type TranslationEntry struct {
	Key  TranslationKey
	Text string
}

// TranslationResult is what a presentation layer shows for a metric translation query.
type TranslationResult struct {
	SourceTeam          string   `json:"source_team"`
	SourceMetric        string   `json:"source_metric"`
	TargetTeam          string   `json:"target_team"`
	TargetMetric        string   `json:"target_metric,omitempty"`
	Translation         string   `json:"translation"`
	UnifiedDefinition   string   `json:"unified_definition"`
	MisalignmentWarning string   `json:"misalignment_warning"`
	DefinitionOverlap   float64  `json:"definition_overlap"`
	SharedTerms         []string `json:"shared_terms,omitempty"`
	Available           bool     `json:"available"`
}
