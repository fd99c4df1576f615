package repositories

import (
	"sort"
	"strings"

	"github.com/ekaya-inc/kpi-translator/pkg/apperrors"
	"github.com/ekaya-inc/kpi-translator/pkg/models"
)

// MetricRepository holds the glossary's metric records keyed by (team, metric name).
// Records are returned by pointer so the classifier can overwrite their semantic
// groups; callers outside the service layer must treat them as read-only.
// Implementations are not safe for concurrent use; callers serialize access.
type MetricRepository interface {
	// Reset removes every record.
	Reset()

	// Upsert inserts or overwrites the record at (team, name).
	// An overwritten record keeps its original position in encounter order.
	Upsert(team, name, definition string) (*models.MetricRecord, error)

	// Get returns the record at (team, name).
	Get(team, name string) (*models.MetricRecord, bool)

	// Teams returns the distinct teams sorted alphabetically.
	Teams() []string

	// TeamsInOrder returns the distinct teams in the order they were first added.
	TeamsInOrder() []string

	// Metrics returns metric name -> record for a team. Unknown teams yield an empty map.
	Metrics(team string) map[string]*models.MetricRecord

	// MetricNames returns a team's metric names in the order they were first added.
	MetricNames(team string) []string

	// Records returns every record, team by team, in encounter order.
	Records() []*models.MetricRecord

	// Len returns the number of records.
	Len() int
}

type teamMetrics struct {
	order   []string
	records map[string]*models.MetricRecord
}

type memoryMetricRepository struct {
	teams  []string
	byTeam map[string]*teamMetrics
}

// NewMetricRepository creates an empty in-memory MetricRepository.
func NewMetricRepository() MetricRepository {
	return &memoryMetricRepository{
		byTeam: make(map[string]*teamMetrics),
	}
}

var _ MetricRepository = (*memoryMetricRepository)(nil)

func (r *memoryMetricRepository) Reset() {
	r.teams = nil
	r.byTeam = make(map[string]*teamMetrics)
}

func (r *memoryMetricRepository) Upsert(team, name, definition string) (*models.MetricRecord, error) {
	if strings.TrimSpace(team) == "" {
		return nil, apperrors.NewValidationError("team")
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("metric_name")
	}
	if strings.TrimSpace(definition) == "" {
		return nil, apperrors.NewValidationError("definition")
	}

	tm, ok := r.byTeam[team]
	if !ok {
		tm = &teamMetrics{records: make(map[string]*models.MetricRecord)}
		r.byTeam[team] = tm
		r.teams = append(r.teams, team)
	}

	if existing, ok := tm.records[name]; ok {
		existing.Definition = definition
		existing.SemanticGroups = nil
		return existing, nil
	}

	record := &models.MetricRecord{
		Team:       team,
		Name:       name,
		Definition: definition,
	}
	tm.records[name] = record
	tm.order = append(tm.order, name)
	return record, nil
}

func (r *memoryMetricRepository) Get(team, name string) (*models.MetricRecord, bool) {
	tm, ok := r.byTeam[team]
	if !ok {
		return nil, false
	}
	record, ok := tm.records[name]
	return record, ok
}

func (r *memoryMetricRepository) Teams() []string {
	teams := make([]string, len(r.teams))
	copy(teams, r.teams)
	sort.Strings(teams)
	return teams
}

func (r *memoryMetricRepository) TeamsInOrder() []string {
	teams := make([]string, len(r.teams))
	copy(teams, r.teams)
	return teams
}

func (r *memoryMetricRepository) Metrics(team string) map[string]*models.MetricRecord {
	result := make(map[string]*models.MetricRecord)
	tm, ok := r.byTeam[team]
	if !ok {
		return result
	}
	for name, record := range tm.records {
		result[name] = record
	}
	return result
}

func (r *memoryMetricRepository) MetricNames(team string) []string {
	tm, ok := r.byTeam[team]
	if !ok {
		return []string{}
	}
	names := make([]string, len(tm.order))
	copy(names, tm.order)
	return names
}

func (r *memoryMetricRepository) Records() []*models.MetricRecord {
	records := make([]*models.MetricRecord, 0, r.Len())
	for _, team := range r.teams {
		tm := r.byTeam[team]
		for _, name := range tm.order {
			records = append(records, tm.records[name])
		}
	}
	return records
}

func (r *memoryMetricRepository) Len() int {
	n := 0
	for _, tm := range r.byTeam {
		n += len(tm.order)
	}
	return n
}
