package models

// GlossaryExport is the full derived state of a glossary, suitable for handing to a
// downstream consumer or archiving.
type GlossaryExport struct {
	Metrics            map[string]map[string]ExportedMetric               `json:"metrics"`
	UnifiedDefinitions map[GroupID]ExportedUnifiedDefinition              `json:"unifiedDefinitions"`
	TranslationMatrix  map[string]map[string]map[string]map[string]string `json:"translationMatrix"`
}

// ExportedMetric is a metric as it appears in the export document.
type ExportedMetric struct {
	Definition     string    `json:"definition"`
	SemanticGroups []GroupID `json:"semanticGroups"`
}

// ExportedUnifiedDefinition is a unified definition as it appears in the export document.
// RelatedMetrics holds "Team: Metric" strings.
type ExportedUnifiedDefinition struct {
	Name           string   `json:"name"`
	Definition     string   `json:"definition"`
	RelatedMetrics []string `json:"relatedMetrics"`
	TeamsAffected  []string `json:"teamsAffected"`
}
