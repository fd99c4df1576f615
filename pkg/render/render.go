// Package render formats glossary results for terminal output. Team names are
// coloured with the taxonomy's team palette; colour is dropped automatically
// when the output is not a terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ekaya-inc/kpi-translator/pkg/models"
	"github.com/ekaya-inc/kpi-translator/pkg/taxonomy"
)

var (
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	labelStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	warningStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	indent       = lipgloss.NewStyle().PaddingLeft(2)
)

// Renderer formats glossary values for a terminal.
type Renderer struct {
	tax *taxonomy.Taxonomy
}

// New creates a renderer using the taxonomy's team colours and group names.
func New(tax *taxonomy.Taxonomy) *Renderer {
	return &Renderer{tax: tax}
}

// Team renders a team name in its colour.
func (r *Renderer) Team(team string) string {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(r.tax.TeamColor(team))).
		Render(team)
}

// Teams renders one coloured team per line.
func (r *Renderer) Teams(teams []string) string {
	if len(teams) == 0 {
		return mutedStyle.Render("No teams loaded.")
	}
	lines := make([]string, 0, len(teams))
	for _, team := range teams {
		lines = append(lines, r.Team(team))
	}
	return strings.Join(lines, "\n")
}

// Metrics renders a team's metrics with their definitions and groups.
func (r *Renderer) Metrics(team string, records []models.MetricRecord) string {
	var b strings.Builder
	b.WriteString(headingStyle.Render(team + " metrics"))
	b.WriteString("\n")
	if len(records) == 0 {
		b.WriteString(mutedStyle.Render("No metrics for " + team + "."))
		return b.String()
	}
	for _, record := range records {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(record.Name))
		b.WriteString("\n")
		b.WriteString(indent.Render(record.Definition))
		if len(record.SemanticGroups) > 0 {
			b.WriteString("\n")
			b.WriteString(indent.Render(mutedStyle.Render(r.groupNames(record.SemanticGroups))))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// Translation renders a translation result.
func (r *Renderer) Translation(result *models.TranslationResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s %s\n",
		r.Team(result.SourceTeam), labelStyle.Render(result.SourceMetric), mutedStyle.Render("→"), r.Team(result.TargetTeam))
	if result.TargetMetric != "" {
		fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Closest metric:"), result.TargetMetric)
	}
	fmt.Fprintf(&b, "\n%s\n%s\n", labelStyle.Render("Translation"), indent.Render(result.Translation))
	fmt.Fprintf(&b, "\n%s\n%s\n", labelStyle.Render("Unified definition"), indent.Render(result.UnifiedDefinition))
	fmt.Fprintf(&b, "\n%s\n%s", labelStyle.Render("Misalignment"), indent.Render(warningStyle.Render(result.MisalignmentWarning)))
	if result.Available {
		fmt.Fprintf(&b, "\n\n%s %.2f", labelStyle.Render("Definition overlap:"), result.DefinitionOverlap)
		if len(result.SharedTerms) > 0 {
			fmt.Fprintf(&b, "\n%s %s", labelStyle.Render("Shared terms:"), strings.Join(result.SharedTerms, ", "))
		}
	}
	return b.String()
}

// Report renders a validation report.
func (r *Renderer) Report(report *models.ValidationReport) string {
	if !report.HasIssues() {
		return okStyle.Render(report.Summary)
	}

	var b strings.Builder
	b.WriteString(warningStyle.Render(report.Summary))
	for i, finding := range report.Findings {
		fmt.Fprintf(&b, "\n\n%d. %s\n%s", i+1, labelStyle.Render(finding.Rule), indent.Render(finding.Recommendation))
	}
	return b.String()
}

// UnifiedDefinitions renders every unified definition with its affected teams.
func (r *Renderer) UnifiedDefinitions(defs []models.UnifiedDefinition) string {
	if len(defs) == 0 {
		return mutedStyle.Render("No unified definitions.")
	}

	blocks := make([]string, 0, len(defs))
	for _, def := range defs {
		teams := make([]string, 0, len(def.TeamsAffected))
		for _, team := range def.TeamsAffected {
			teams = append(teams, r.Team(team))
		}
		blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left,
			headingStyle.Render(def.Name),
			indent.Render(def.Definition),
			indent.Render(mutedStyle.Render("Teams:")+" "+strings.Join(teams, ", ")),
		))
	}
	return strings.Join(blocks, "\n\n")
}

func (r *Renderer) groupNames(groups []models.GroupID) string {
	names := make([]string, 0, len(groups))
	for _, group := range groups {
		names = append(names, r.tax.DisplayName(group))
	}
	return strings.Join(names, " · ")
}
