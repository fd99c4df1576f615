package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/ekaya-inc/kpi-translator/pkg/models"
	"github.com/ekaya-inc/kpi-translator/pkg/taxonomy"
)

func TestRenderer_Teams(t *testing.T) {
	r := New(taxonomy.Default())

	output := r.Teams([]string{"Marketing", "Sales"})
	lines := strings.Split(output, "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), output)
	}
	if !strings.Contains(lines[0], "Marketing") || !strings.Contains(lines[1], "Sales") {
		t.Fatalf("unexpected team lines %q", lines)
	}
	if lipgloss.Width(lines[1]) != len("Sales") {
		t.Fatalf("expected styling to add no visible width, got %d", lipgloss.Width(lines[1]))
	}

	if got := r.Teams(nil); !strings.Contains(got, "No teams loaded.") {
		t.Fatalf("expected empty message, got %q", got)
	}
}

func TestRenderer_Metrics(t *testing.T) {
	r := New(taxonomy.Default())

	output := r.Metrics("Sales", []models.MetricRecord{{
		Team:           "Sales",
		Name:           "Close Rate",
		Definition:     "Closed deals ÷ total leads from CRM.",
		SemanticGroups: []models.GroupID{models.GroupFinancial, models.GroupLeadManagement},
	}})

	for _, want := range []string{"Sales metrics", "Close Rate", "Closed deals", "Financial Performance Metrics · Lead Generation & Conversion"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got %q", want, output)
		}
	}

	if got := r.Metrics("Legal", nil); !strings.Contains(got, "No metrics for Legal.") {
		t.Errorf("expected empty message, got %q", got)
	}
}

func TestRenderer_Translation(t *testing.T) {
	r := New(taxonomy.Default())

	output := r.Translation(&models.TranslationResult{
		SourceTeam:          "Marketing",
		SourceMetric:        "Conversion",
		TargetTeam:          "Sales",
		TargetMetric:        "Qualified Lead",
		Translation:         "Marketing's Conversion maps to Sales' Qualified Lead.",
		UnifiedDefinition:   "Lead Generation & Conversion: ...",
		MisalignmentWarning: "Definitions differ.",
		DefinitionOverlap:   0.25,
		SharedTerms:         []string{"leads"},
		Available:           true,
	})

	for _, want := range []string{"Closest metric: Qualified Lead", "maps to Sales' Qualified Lead", "Definition overlap: 0.25", "Shared terms: leads"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got %q", want, output)
		}
	}

	unavailable := r.Translation(&models.TranslationResult{SourceTeam: "Data", SourceMetric: "Nope", TargetTeam: "Sales"})
	if strings.Contains(unavailable, "Definition overlap") {
		t.Errorf("expected no overlap line for unavailable translation, got %q", unavailable)
	}
}

func TestRenderer_Report(t *testing.T) {
	r := New(taxonomy.Default())

	clean := r.Report(&models.ValidationReport{Summary: "No KPI misalignments detected in this report."})
	if clean != "No KPI misalignments detected in this report." {
		t.Errorf("unexpected clean report %q", clean)
	}

	output := r.Report(&models.ValidationReport{
		Summary: "Detected 1 potential KPI misalignment issue.",
		Findings: []models.Finding{
			{Rule: "Incompatible time windows", Recommendation: "Flag and suggest standardizing or explicitly noting the difference"},
		},
	})
	if !strings.Contains(output, "1. Incompatible time windows") {
		t.Errorf("expected numbered finding, got %q", output)
	}
}

func TestRenderer_UnifiedDefinitions(t *testing.T) {
	r := New(taxonomy.Default())

	output := r.UnifiedDefinitions([]models.UnifiedDefinition{{
		Group:         models.GroupCustomerSentiment,
		Name:          "Customer Satisfaction & Retention",
		Definition:    "The ability to maintain active, engaged users over time.",
		TeamsAffected: []string{"Customer Success", "Data"},
	}})

	for _, want := range []string{"Customer Satisfaction & Retention", "maintain active", "Teams: Customer Success, Data"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got %q", want, output)
		}
	}
}
