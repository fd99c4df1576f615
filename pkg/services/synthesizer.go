package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ekaya-inc/kpi-translator/pkg/models"
	"github.com/ekaya-inc/kpi-translator/pkg/repositories"
	"github.com/ekaya-inc/kpi-translator/pkg/taxonomy"
)

const (
	acquisitionDefinition = "The process of converting prospects to engaged users, spanning from initial interest to active product usage."
	retentionDefinition   = "The ability to retain existing customers and maintain recurring revenue over time."
)

// SynthesizeUnifiedDefinitions builds a unified definition for every semantic group
// whose members span at least two teams. It reads the tags written by ClassifyMetrics
// and always returns a fresh map.
func SynthesizeUnifiedDefinitions(repo repositories.MetricRepository, tax *taxonomy.Taxonomy) map[models.GroupID]*models.UnifiedDefinition {
	members := make(map[models.GroupID][]*models.MetricRecord)
	for _, record := range repo.Records() {
		for _, group := range record.SemanticGroups {
			members[group] = append(members[group], record)
		}
	}

	result := make(map[models.GroupID]*models.UnifiedDefinition)
	for group, records := range members {
		teams := distinctTeams(records)
		if len(teams) < 2 {
			continue
		}

		related := make([]models.MetricKey, 0, len(records))
		for _, r := range records {
			related = append(related, r.Key())
		}

		result[group] = &models.UnifiedDefinition{
			Group:          group,
			Name:           tax.DisplayName(group),
			Definition:     synthesizeDefinition(records, teams, tax),
			RelatedMetrics: related,
			TeamsAffected:  teams,
		}
	}
	return result
}

// synthesizeDefinition picks the definition text: acquisition wording first, then
// retention wording, then a sentence naming the contributing teams.
func synthesizeDefinition(records []*models.MetricRecord, teams []string, tax *taxonomy.Taxonomy) string {
	if anyMemberMatches(records, tax.AcquisitionKeywords) {
		return acquisitionDefinition
	}
	if anyMemberMatches(records, tax.RetentionKeywords) {
		return retentionDefinition
	}

	sorted := make([]string, len(teams))
	copy(sorted, teams)
	sort.Strings(sorted)
	return teamSentence(sorted)
}

func teamSentence(teams []string) string {
	switch len(teams) {
	case 0:
		return ""
	case 1:
		return fmt.Sprintf("A key performance indicator for the %s team.", teams[0])
	case 2:
		return fmt.Sprintf("A shared metric between %s and %s teams with related but distinct measurement criteria.", teams[0], teams[1])
	default:
		list := strings.Join(teams[:len(teams)-1], ", ") + ", and " + teams[len(teams)-1]
		return fmt.Sprintf("A cross-functional metric that spans %s departments, representing related but team-specific success indicators.", list)
	}
}

func anyMemberMatches(records []*models.MetricRecord, keywords []string) bool {
	for _, r := range records {
		if containsAny(strings.ToLower(r.Name), keywords) || containsAny(strings.ToLower(r.Definition), keywords) {
			return true
		}
	}
	return false
}

// distinctTeams returns the teams of records, deduplicated, in encounter order.
func distinctTeams(records []*models.MetricRecord) []string {
	seen := make(map[string]bool)
	teams := make([]string, 0)
	for _, r := range records {
		if !seen[r.Team] {
			seen[r.Team] = true
			teams = append(teams, r.Team)
		}
	}
	return teams
}
