package services

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/kpi-translator/pkg/models"
	"github.com/ekaya-inc/kpi-translator/pkg/repositories"
	"github.com/ekaya-inc/kpi-translator/pkg/taxonomy"
)

// translationSide is one end of a directed translation.
type translationSide struct {
	Team       string
	Metric     string
	Definition string
}

// translationRule is a team/keyword-pair phrasing. Rules are evaluated top to bottom
// and the first match wins.
type translationRule struct {
	Name        string
	SourceTeam  string
	SourceTerms []string
	TargetTeam  string
	TargetTerms []string
	Render      func(src, tgt translationSide) string
}

func (r translationRule) matches(src, tgt translationSide) bool {
	return src.Team == r.SourceTeam &&
		tgt.Team == r.TargetTeam &&
		containsAny(strings.ToLower(src.Metric), r.SourceTerms) &&
		containsAny(strings.ToLower(tgt.Metric), r.TargetTerms)
}

var (
	leadTerms       = []string{"lead"}
	activationTerms = []string{"activation"}
	engagementTerms = []string{"engage", "conversion"}
)

var translationRules = []translationRule{
	{
		Name:        "sales_lead_to_product_activation",
		SourceTeam:  "Sales",
		SourceTerms: leadTerms,
		TargetTeam:  "Product",
		TargetTerms: activationTerms,
		Render: func(src, tgt translationSide) string {
			return fmt.Sprintf("When %s refers to \"%s\", this represents potential users who will become \"%s\" once they begin using the product.",
				src.Team, src.Metric, tgt.Metric)
		},
	},
	{
		Name:        "product_activation_to_sales_lead",
		SourceTeam:  "Product",
		SourceTerms: activationTerms,
		TargetTeam:  "Sales",
		TargetTerms: leadTerms,
		Render: func(src, tgt translationSide) string {
			return fmt.Sprintf("\"%s\" represents users who successfully converted from what %s designated as \"%s\".",
				src.Metric, tgt.Team, tgt.Metric)
		},
	},
	{
		Name:        "marketing_engagement_to_sales_lead",
		SourceTeam:  "Marketing",
		SourceTerms: engagementTerms,
		TargetTeam:  "Sales",
		TargetTerms: leadTerms,
		Render: func(src, tgt translationSide) string {
			return fmt.Sprintf("When %s reports \"%s\", this corresponds to potential \"%s\", though %s applies additional qualification criteria.",
				src.Team, src.Metric, tgt.Metric, tgt.Team)
		},
	},
	{
		Name:        "sales_lead_to_marketing_engagement",
		SourceTeam:  "Sales",
		SourceTerms: leadTerms,
		TargetTeam:  "Marketing",
		TargetTerms: engagementTerms,
		Render: func(src, tgt translationSide) string {
			return fmt.Sprintf("\"%s\" represents users who have progressed beyond %s's \"%s\" with additional qualification steps.",
				src.Metric, tgt.Team, tgt.Metric)
		},
	},
	{
		Name:        "marketing_engagement_to_product_activation",
		SourceTeam:  "Marketing",
		SourceTerms: engagementTerms,
		TargetTeam:  "Product",
		TargetTerms: activationTerms,
		Render: func(src, tgt translationSide) string {
			return fmt.Sprintf("\"%s\" is a precursor to %s's \"%s\". High engagement should eventually lead to higher activation rates.",
				src.Metric, tgt.Team, tgt.Metric)
		},
	},
	{
		Name:        "product_activation_to_marketing_engagement",
		SourceTeam:  "Product",
		SourceTerms: activationTerms,
		TargetTeam:  "Marketing",
		TargetTerms: engagementTerms,
		Render: func(src, tgt translationSide) string {
			return fmt.Sprintf("\"%s\" represents successful conversion of what %s initially tracked as \"%s\".",
				src.Metric, tgt.Team, tgt.Metric)
		},
	},
}

// genericTranslation is used when no phrasing rule matches.
func genericTranslation(src, tgt translationSide) string {
	return fmt.Sprintf("When %s refers to \"%s\" (%s), this roughly corresponds to %s's \"%s\" (%s), though with different measurement criteria.",
		src.Team, src.Metric, src.Definition, tgt.Team, tgt.Metric, tgt.Definition)
}

// translate returns the text of the first matching rule, or the generic template.
func translate(src, tgt translationSide) string {
	for _, rule := range translationRules {
		if rule.matches(src, tgt) {
			return rule.Render(src, tgt)
		}
	}
	return genericTranslation(src, tgt)
}

// TranslationMatrix holds directed translations between interesting metrics.
// Entry order follows construction order so "first translation" lookups are stable.
type TranslationMatrix struct {
	entries map[models.TranslationKey]string
	order   []models.TranslationKey
}

// Lookup returns the translation for an exact key.
func (m *TranslationMatrix) Lookup(key models.TranslationKey) (string, bool) {
	text, ok := m.entries[key]
	return text, ok
}

// First returns the first translation from (sourceTeam, sourceMetric) to any metric of targetTeam.
func (m *TranslationMatrix) First(sourceTeam, sourceMetric, targetTeam string) (models.TranslationEntry, bool) {
	for _, key := range m.order {
		if key.SourceTeam == sourceTeam && key.SourceMetric == sourceMetric && key.TargetTeam == targetTeam {
			return models.TranslationEntry{Key: key, Text: m.entries[key]}, true
		}
	}
	return models.TranslationEntry{}, false
}

// Entries returns every translation in construction order.
func (m *TranslationMatrix) Entries() []models.TranslationEntry {
	out := make([]models.TranslationEntry, 0, len(m.order))
	for _, key := range m.order {
		out = append(out, models.TranslationEntry{Key: key, Text: m.entries[key]})
	}
	return out
}

// Len returns the number of translations.
func (m *TranslationMatrix) Len() int {
	return len(m.order)
}

func (m *TranslationMatrix) add(key models.TranslationKey, text string) {
	if _, exists := m.entries[key]; !exists {
		m.order = append(m.order, key)
	}
	m.entries[key] = text
}

// BuildTranslationMatrix computes translations for every ordered pair of configured
// teams. Only metrics whose lower-cased name contains one of the team's interesting
// substrings take part; teams outside the configuration never get entries.
func BuildTranslationMatrix(repo repositories.MetricRepository, tax *taxonomy.Taxonomy) *TranslationMatrix {
	matrix := &TranslationMatrix{entries: make(map[models.TranslationKey]string)}

	interesting := make(map[string][]translationSide, len(tax.InterestingMetrics))
	for _, im := range tax.InterestingMetrics {
		interesting[im.Team] = interestingMetrics(repo, im.Team, im.Substrings)
	}

	for _, source := range tax.InterestingMetrics {
		for _, target := range tax.InterestingMetrics {
			if source.Team == target.Team {
				continue
			}
			for _, src := range interesting[source.Team] {
				for _, tgt := range interesting[target.Team] {
					key := models.TranslationKey{
						SourceTeam:   src.Team,
						SourceMetric: src.Metric,
						TargetTeam:   tgt.Team,
						TargetMetric: tgt.Metric,
					}
					matrix.add(key, translate(src, tgt))
				}
			}
		}
	}
	return matrix
}

func interestingMetrics(repo repositories.MetricRepository, team string, substrings []string) []translationSide {
	sides := make([]translationSide, 0)
	for _, name := range repo.MetricNames(team) {
		if !containsAny(strings.ToLower(name), substrings) {
			continue
		}
		record, _ := repo.Get(team, name)
		sides = append(sides, translationSide{Team: team, Metric: name, Definition: record.Definition})
	}
	return sides
}
