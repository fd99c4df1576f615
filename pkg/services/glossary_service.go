package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/ekaya-inc/kpi-translator/pkg/apperrors"
	"github.com/ekaya-inc/kpi-translator/pkg/logging"
	"github.com/ekaya-inc/kpi-translator/pkg/models"
	"github.com/ekaya-inc/kpi-translator/pkg/repositories"
	"github.com/ekaya-inc/kpi-translator/pkg/taxonomy"
)

// Fallback texts returned by query operations when nothing applies.
const (
	NoDefinitionText        = "No definition available"
	NoTranslationText       = "No translation available for this metric."
	NoUnifiedDefinitionText = "No unified definition available for this metric."
	NoMisalignmentText      = "No specific misalignment concerns detected."
	MetricNotFoundWarning   = "Cannot generate misalignment warning - metric not found."
	SameTeamTranslation     = "Same team - no translation needed."
	SameTeamUnified         = "N/A - Same team"
	SameTeamWarning         = "No misalignment risk within the same team."
	NoIssuesSummary         = "No KPI misalignments detected in this report."
)

// GlossaryService provides operations over a single in-memory KPI glossary.
// Every mutation rebuilds the derived structures before returning.
type GlossaryService interface {
	// Load replaces the glossary with the given rows. Incomplete rows are skipped.
	// An empty row set is rejected with a FormatError and leaves the glossary untouched.
	Load(ctx context.Context, rows []models.ImportRow) (*models.LoadResult, error)

	// LoadSample replaces the glossary with the built-in dataset.
	LoadSample(ctx context.Context) (*models.LoadResult, error)

	// ImportCSV parses CSV and loads it. Format errors leave the glossary untouched.
	ImportCSV(ctx context.Context, r io.Reader) (*models.LoadResult, error)

	// AddMetric inserts or overwrites a single metric.
	AddMetric(ctx context.Context, team, name, definition string) (*models.MetricRecord, error)

	// Teams returns the distinct teams sorted alphabetically.
	Teams(ctx context.Context) []string

	// Metrics returns copies of a team's metrics in encounter order.
	Metrics(ctx context.Context, team string) []models.MetricRecord

	// GetMetric returns a copy of one metric or ErrNotFound.
	GetMetric(ctx context.Context, team, name string) (*models.MetricRecord, error)

	// Definition returns the metric's definition or NoDefinitionText.
	Definition(ctx context.Context, team, name string) string

	// Translate explains sourceMetric to targetTeam.
	Translate(ctx context.Context, sourceTeam, sourceMetric, targetTeam string) *models.TranslationResult

	// UnifiedDefinitionFor returns "Name: Definition" for the first group of the metric
	// whose unified definition covers otherTeam, or NoUnifiedDefinitionText.
	UnifiedDefinitionFor(ctx context.Context, team, name, otherTeam string) string

	// UnifiedDefinitions returns every unified definition in taxonomy group order.
	UnifiedDefinitions(ctx context.Context) []models.UnifiedDefinition

	// ValidateReport scans report text for misalignment patterns.
	ValidateReport(ctx context.Context, text string) (*models.ValidationReport, error)

	// Search returns metrics whose team, name, definition or group names contain query.
	Search(ctx context.Context, query string) []models.MetricRecord

	// Export returns the whole glossary as a serializable document.
	Export(ctx context.Context) *models.GlossaryExport

	// Stats returns team and metric counts.
	Stats(ctx context.Context) (teams int, metrics int)
}

type glossaryService struct {
	mu       sync.RWMutex
	repo     repositories.MetricRepository
	taxonomy *taxonomy.Taxonomy
	logger   *zap.Logger

	unified map[models.GroupID]*models.UnifiedDefinition
	matrix  *TranslationMatrix
	engine  *MisalignmentEngine
}

// NewGlossaryService creates a GlossaryService over repo. The repository's current
// contents are classified immediately.
func NewGlossaryService(repo repositories.MetricRepository, tax *taxonomy.Taxonomy, logger *zap.Logger) GlossaryService {
	if tax == nil {
		tax = taxonomy.Default()
	}
	s := &glossaryService{
		repo:     repo,
		taxonomy: tax,
		logger:   logger.Named("glossary-service"),
	}
	s.rebuild()
	return s
}

var _ GlossaryService = (*glossaryService)(nil)

// rebuild recomputes all derived state. Callers hold the write lock.
func (s *glossaryService) rebuild() {
	ClassifyMetrics(s.repo, s.taxonomy)
	s.unified = SynthesizeUnifiedDefinitions(s.repo, s.taxonomy)
	s.matrix = BuildTranslationMatrix(s.repo, s.taxonomy)
	s.engine = NewMisalignmentEngine(s.repo, s.taxonomy)
}

func (s *glossaryService) Load(ctx context.Context, rows []models.ImportRow) (*models.LoadResult, error) {
	if len(rows) == 0 {
		return nil, &apperrors.FormatError{Reason: "no rows to load"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.repo.Reset()
	result := &models.LoadResult{Total: len(rows)}
	for _, row := range rows {
		if !row.IsComplete() {
			result.Skipped++
			continue
		}
		if _, err := s.repo.Upsert(row.Team, row.MetricName, row.Definition); err != nil {
			result.Skipped++
			continue
		}
		result.Loaded++
	}
	s.rebuild()

	s.logger.Info("Loaded glossary",
		zap.Int("loaded", result.Loaded),
		zap.Int("skipped", result.Skipped),
		zap.Int("metrics", s.repo.Len()),
		zap.Int("unified_definitions", len(s.unified)),
		zap.Int("translations", s.matrix.Len()))

	return result, nil
}

func (s *glossaryService) LoadSample(ctx context.Context) (*models.LoadResult, error) {
	return s.Load(ctx, SampleRows())
}

func (s *glossaryService) ImportCSV(ctx context.Context, r io.Reader) (*models.LoadResult, error) {
	rows, err := ParseCSV(r)
	if err != nil {
		s.logger.Warn("Rejected CSV import", zap.Error(err))
		return nil, fmt.Errorf("import csv: %w", err)
	}
	return s.Load(ctx, rows)
}

func (s *glossaryService) AddMetric(ctx context.Context, team, name, definition string) (*models.MetricRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.repo.Upsert(team, name, definition)
	if err != nil {
		return nil, fmt.Errorf("add metric: %w", err)
	}
	s.rebuild()

	s.logger.Info("Added metric",
		zap.String("team", record.Team),
		zap.String("metric", record.Name),
		zap.Int("groups", len(record.SemanticGroups)))

	out := copyRecord(record)
	return &out, nil
}

func (s *glossaryService) Teams(ctx context.Context) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.repo.Teams()
}

func (s *glossaryService) Metrics(ctx context.Context, team string) []models.MetricRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := s.repo.MetricNames(team)
	out := make([]models.MetricRecord, 0, len(names))
	for _, name := range names {
		if record, ok := s.repo.Get(team, name); ok {
			out = append(out, copyRecord(record))
		}
	}
	return out
}

func (s *glossaryService) GetMetric(ctx context.Context, team, name string) (*models.MetricRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.repo.Get(team, name)
	if !ok {
		return nil, fmt.Errorf("metric %q for team %q: %w", name, team, apperrors.ErrNotFound)
	}
	out := copyRecord(record)
	return &out, nil
}

func (s *glossaryService) Definition(ctx context.Context, team, name string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if record, ok := s.repo.Get(team, name); ok {
		return record.Definition
	}
	return NoDefinitionText
}

func (s *glossaryService) Translate(ctx context.Context, sourceTeam, sourceMetric, targetTeam string) *models.TranslationResult {
	result := &models.TranslationResult{
		SourceTeam:          sourceTeam,
		SourceMetric:        sourceMetric,
		TargetTeam:          targetTeam,
		Translation:         NoTranslationText,
		UnifiedDefinition:   NoUnifiedDefinitionText,
		MisalignmentWarning: NoMisalignmentText,
	}

	if sourceTeam == targetTeam {
		result.Translation = SameTeamTranslation
		result.UnifiedDefinition = SameTeamUnified
		result.MisalignmentWarning = SameTeamWarning
		return result
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	source, ok := s.repo.Get(sourceTeam, sourceMetric)
	if !ok {
		s.logger.Debug("Translation requested for unknown metric",
			zap.String("team", sourceTeam),
			zap.String("metric", sourceMetric))
		return result
	}

	if entry, found := s.matrix.First(sourceTeam, sourceMetric, targetTeam); found {
		result.Translation = entry.Text
		result.TargetMetric = entry.Key.TargetMetric
		result.Available = true
		if target, exists := s.repo.Get(targetTeam, entry.Key.TargetMetric); exists {
			result.DefinitionOverlap = DefinitionOverlap(source.Definition, target.Definition)
			result.SharedTerms = SharedTerms(source.Definition, target.Definition)
		}
	}

	result.UnifiedDefinition = s.unifiedDefinitionFor(source, targetTeam)
	result.MisalignmentWarning = misalignmentWarning(sourceMetric, targetTeam)
	return result
}

func misalignmentWarning(metric, targetTeam string) string {
	if metric == "" || targetTeam == "" {
		return MetricNotFoundWarning
	}
	return fmt.Sprintf("When discussing \"%s\" with the %s team, use the unified definition and clarify the different measurement criteria to avoid misunderstandings.",
		metric, targetTeam)
}

func (s *glossaryService) UnifiedDefinitionFor(ctx context.Context, team, name, otherTeam string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.repo.Get(team, name)
	if !ok {
		return NoUnifiedDefinitionText
	}
	return s.unifiedDefinitionFor(record, otherTeam)
}

func (s *glossaryService) unifiedDefinitionFor(record *models.MetricRecord, otherTeam string) string {
	for _, group := range record.SemanticGroups {
		unified, ok := s.unified[group]
		if ok && unified.Affects(otherTeam) {
			return fmt.Sprintf("%s: %s", unified.Name, unified.Definition)
		}
	}
	return NoUnifiedDefinitionText
}

func (s *glossaryService) UnifiedDefinitions(ctx context.Context) []models.UnifiedDefinition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.UnifiedDefinition, 0, len(s.unified))
	for _, group := range s.taxonomy.Groups {
		if unified, ok := s.unified[group.ID]; ok {
			out = append(out, *unified)
		}
	}
	return out
}

func (s *glossaryService) ValidateReport(ctx context.Context, text string) (*models.ValidationReport, error) {
	if strings.TrimSpace(text) == "" {
		return nil, &apperrors.ValidationError{Field: "text", Message: "report text is required"}
	}

	s.mu.RLock()
	findings := s.engine.Evaluate(text)
	s.mu.RUnlock()

	report := &models.ValidationReport{
		Findings: findings,
		Summary:  validationSummary(len(findings)),
	}

	s.logger.Info("Validated report",
		zap.String("excerpt", logging.ExcerptReport(text)),
		zap.Int("findings", len(findings)))

	return report, nil
}

func validationSummary(count int) string {
	if count == 0 {
		return NoIssuesSummary
	}
	noun := "issue"
	if count > 1 {
		noun = inflection.Plural(noun)
	}
	return fmt.Sprintf("Detected %d potential KPI misalignment %s.", count, noun)
}

func (s *glossaryService) Search(ctx context.Context, query string) []models.MetricRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.MetricRecord, 0)
	for _, record := range s.repo.Records() {
		if needle == "" || s.recordMatches(record, needle) {
			out = append(out, copyRecord(record))
		}
	}
	return out
}

func (s *glossaryService) recordMatches(record *models.MetricRecord, needle string) bool {
	if strings.Contains(strings.ToLower(record.Team), needle) ||
		strings.Contains(strings.ToLower(record.Name), needle) ||
		strings.Contains(strings.ToLower(record.Definition), needle) {
		return true
	}
	for _, group := range record.SemanticGroups {
		if strings.Contains(strings.ToLower(s.taxonomy.DisplayName(group)), needle) {
			return true
		}
	}
	return false
}

func (s *glossaryService) Export(ctx context.Context) *models.GlossaryExport {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc := &models.GlossaryExport{
		Metrics:            make(map[string]map[string]models.ExportedMetric),
		UnifiedDefinitions: make(map[models.GroupID]models.ExportedUnifiedDefinition),
		TranslationMatrix:  make(map[string]map[string]map[string]map[string]string),
	}

	for _, record := range s.repo.Records() {
		if doc.Metrics[record.Team] == nil {
			doc.Metrics[record.Team] = make(map[string]models.ExportedMetric)
		}
		groups := make([]models.GroupID, len(record.SemanticGroups))
		copy(groups, record.SemanticGroups)
		doc.Metrics[record.Team][record.Name] = models.ExportedMetric{
			Definition:     record.Definition,
			SemanticGroups: groups,
		}
	}

	for group, unified := range s.unified {
		related := make([]string, 0, len(unified.RelatedMetrics))
		for _, key := range unified.RelatedMetrics {
			related = append(related, key.String())
		}
		teams := make([]string, len(unified.TeamsAffected))
		copy(teams, unified.TeamsAffected)
		doc.UnifiedDefinitions[group] = models.ExportedUnifiedDefinition{
			Name:           unified.Name,
			Definition:     unified.Definition,
			RelatedMetrics: related,
			TeamsAffected:  teams,
		}
	}

	for _, entry := range s.matrix.Entries() {
		k := entry.Key
		bySource := doc.TranslationMatrix[k.SourceTeam]
		if bySource == nil {
			bySource = make(map[string]map[string]map[string]string)
			doc.TranslationMatrix[k.SourceTeam] = bySource
		}
		byMetric := bySource[k.SourceMetric]
		if byMetric == nil {
			byMetric = make(map[string]map[string]string)
			bySource[k.SourceMetric] = byMetric
		}
		byTarget := byMetric[k.TargetTeam]
		if byTarget == nil {
			byTarget = make(map[string]string)
			byMetric[k.TargetTeam] = byTarget
		}
		byTarget[k.TargetMetric] = entry.Text
	}

	return doc
}

func (s *glossaryService) Stats(ctx context.Context) (int, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.repo.Teams()), s.repo.Len()
}

func copyRecord(record *models.MetricRecord) models.MetricRecord {
	out := *record
	out.SemanticGroups = make([]models.GroupID, len(record.SemanticGroups))
	copy(out.SemanticGroups, record.SemanticGroups)
	return out
}
