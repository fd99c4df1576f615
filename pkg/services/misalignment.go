package services

import (
	"fmt"
	"strings"

	"github.com/ekaya-inc/kpi-translator/pkg/models"
	"github.com/ekaya-inc/kpi-translator/pkg/repositories"
	"github.com/ekaya-inc/kpi-translator/pkg/taxonomy"
)

// Rule names reported in findings.
const (
	RuleMixedTerminology   = "Mixed terminology without translation"
	RuleSuccessAmbiguity   = "Success metric ambiguity"
	RuleTimeWindows        = "Incompatible time windows"
	RuleCrossTeamNoContext = "Cross-team metrics without context"
)

// MisalignmentRule is an independent predicate over report text.
type MisalignmentRule struct {
	Name           string
	Recommendation string
	Predicate      func(text string) bool
}

// glossarySnapshot captures team and metric names at rule-construction time.
type glossarySnapshot struct {
	teams   []string
	metrics map[string][]string
}

func snapshotGlossary(repo repositories.MetricRepository) glossarySnapshot {
	snap := glossarySnapshot{
		teams:   repo.TeamsInOrder(),
		metrics: make(map[string][]string),
	}
	for _, team := range snap.teams {
		snap.metrics[team] = repo.MetricNames(team)
	}
	return snap
}

// mentionedMetrics returns the team's metric names that occur verbatim in text.
func (s glossarySnapshot) mentionedMetrics(team, text string) []string {
	mentioned := make([]string, 0)
	for _, metric := range s.metrics[team] {
		if strings.Contains(text, metric) {
			mentioned = append(mentioned, metric)
		}
	}
	return mentioned
}

// BuildMisalignmentRules constructs the fixed rule set over the current glossary.
// Team and metric name checks are case-sensitive; the "success" keyword and
// time-window checks run against lower-cased text.
func BuildMisalignmentRules(repo repositories.MetricRepository, tax *taxonomy.Taxonomy) []MisalignmentRule {
	snap := snapshotGlossary(repo)

	return []MisalignmentRule{
		{
			Name:           RuleMixedTerminology,
			Recommendation: "Flag and suggest adding a terminology translation section",
			Predicate: func(text string) bool {
				for i := 0; i < len(snap.teams); i++ {
					for j := i + 1; j < len(snap.teams); j++ {
						a, b := snap.teams[i], snap.teams[j]
						if strings.Contains(text, a) && strings.Contains(text, b) &&
							len(snap.mentionedMetrics(a, text)) > 0 && len(snap.mentionedMetrics(b, text)) > 0 {
							return true
						}
					}
				}
				return false
			},
		},
		{
			Name:           RuleSuccessAmbiguity,
			Recommendation: "Flag and suggest using the unified definition with team context",
			Predicate: func(text string) bool {
				if !strings.Contains(strings.ToLower(text), tax.SuccessKeyword) {
					return false
				}
				mentioned := 0
				for _, team := range snap.teams {
					if strings.Contains(text, team) {
						mentioned++
					}
				}
				return mentioned > 1
			},
		},
		{
			Name:           RuleTimeWindows,
			Recommendation: "Flag and suggest standardizing or explicitly noting the difference",
			Predicate: func(text string) bool {
				lower := strings.ToLower(text)
				for _, conflict := range tax.TimeWindowConflicts {
					if strings.Contains(lower, conflict.Left) && strings.Contains(lower, conflict.Right) {
						return true
					}
				}
				return false
			},
		},
	}
}

// MisalignmentEngine evaluates report text against the rule set and the
// cross-team-mention heuristic.
type MisalignmentEngine struct {
	rules    []MisalignmentRule
	snapshot glossarySnapshot
}

// NewMisalignmentEngine builds an engine bound to the repository's current contents.
func NewMisalignmentEngine(repo repositories.MetricRepository, tax *taxonomy.Taxonomy) *MisalignmentEngine {
	return &MisalignmentEngine{
		rules:    BuildMisalignmentRules(repo, tax),
		snapshot: snapshotGlossary(repo),
	}
}

// Rules returns the engine's rule set.
func (e *MisalignmentEngine) Rules() []MisalignmentRule {
	return e.rules
}

// Evaluate runs every rule (no early exit) and then the cross-team heuristic.
// An empty result means no issues were found.
func (e *MisalignmentEngine) Evaluate(text string) []models.Finding {
	findings := make([]models.Finding, 0)
	for _, rule := range e.rules {
		if rule.Predicate(text) {
			findings = append(findings, models.Finding{Rule: rule.Name, Recommendation: rule.Recommendation})
		}
	}
	if finding, ok := e.crossTeamFinding(text); ok {
		findings = append(findings, finding)
	}
	return findings
}

// crossTeamFinding flags reports that mention metrics of two or more named teams.
func (e *MisalignmentEngine) crossTeamFinding(text string) (models.Finding, bool) {
	var parts []string
	for _, team := range e.snapshot.teams {
		if !strings.Contains(text, team) {
			continue
		}
		metrics := e.snapshot.mentionedMetrics(team, text)
		if len(metrics) == 0 {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", team, strings.Join(metrics, ", ")))
	}
	if len(parts) < 2 {
		return models.Finding{}, false
	}

	return models.Finding{
		Rule: RuleCrossTeamNoContext,
		Recommendation: fmt.Sprintf("This report mentions metrics from multiple teams: %s. "+
			"Consider adding a translation section to clarify how these metrics relate.", strings.Join(parts, " and ")),
	}, true
}
