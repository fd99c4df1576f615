package services

import (
	"strings"

	"github.com/ekaya-inc/kpi-translator/pkg/models"
	"github.com/ekaya-inc/kpi-translator/pkg/repositories"
	"github.com/ekaya-inc/kpi-translator/pkg/taxonomy"
)

// ClassifyMetrics overwrites every record's semantic groups.
// A record joins a group when any of the group's keywords occurs in its lower-cased
// name or definition. Groups are checked in taxonomy order, so tags come out in that
// order. Running it twice on an unchanged repository yields identical tags.
func ClassifyMetrics(repo repositories.MetricRepository, tax *taxonomy.Taxonomy) {
	for _, record := range repo.Records() {
		record.SemanticGroups = classifyRecord(record, tax)
	}
}

func classifyRecord(record *models.MetricRecord, tax *taxonomy.Taxonomy) []models.GroupID {
	name := strings.ToLower(record.Name)
	definition := strings.ToLower(record.Definition)

	groups := make([]models.GroupID, 0)
	for _, group := range tax.Groups {
		for _, keyword := range group.Keywords {
			if strings.Contains(name, keyword) || strings.Contains(definition, keyword) {
				groups = append(groups, group.ID)
				break
			}
		}
	}
	return groups
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
