package services

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ekaya-inc/kpi-translator/pkg/apperrors"
	"github.com/ekaya-inc/kpi-translator/pkg/models"
	"github.com/ekaya-inc/kpi-translator/pkg/repositories"
	"github.com/ekaya-inc/kpi-translator/pkg/taxonomy"
)

// GlossaryFactory creates a fresh, seeded glossary.
type GlossaryFactory func(ctx context.Context) (GlossaryService, error)

// NewSeededGlossaryFactory returns a factory that seeds each new glossary from the
// CSV at seedFile, or from the built-in sample when seedFile is empty.
func NewSeededGlossaryFactory(seedFile string, tax *taxonomy.Taxonomy, logger *zap.Logger) GlossaryFactory {
	return func(ctx context.Context) (GlossaryService, error) {
		svc := NewGlossaryService(repositories.NewMetricRepository(), tax, logger)

		if seedFile == "" {
			if _, err := svc.LoadSample(ctx); err != nil {
				return nil, fmt.Errorf("load sample glossary: %w", err)
			}
			return svc, nil
		}

		f, err := os.Open(seedFile)
		if err != nil {
			return nil, fmt.Errorf("open seed file: %w", err)
		}
		defer f.Close()

		if _, err := svc.ImportCSV(ctx, f); err != nil {
			return nil, fmt.Errorf("seed glossary from %s: %w", seedFile, err)
		}
		return svc, nil
	}
}

// SessionRegistry holds independent in-memory glossaries keyed by session ID.
type SessionRegistry interface {
	// Create builds and registers a new seeded glossary.
	Create(ctx context.Context) (*models.GlossarySession, error)

	// Get returns the glossary for id or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (GlossaryService, error)

	// Delete drops the glossary for id or returns ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error

	// List describes every session, oldest first.
	List(ctx context.Context) []models.GlossarySession
}

type sessionEntry struct {
	glossary  GlossaryService
	createdAt time.Time
}

type sessionRegistry struct {
	mu          sync.RWMutex
	sessions    map[uuid.UUID]*sessionEntry
	factory     GlossaryFactory
	maxSessions int
	logger      *zap.Logger
}

// NewSessionRegistry creates a registry that holds at most maxSessions glossaries.
func NewSessionRegistry(factory GlossaryFactory, maxSessions int, logger *zap.Logger) SessionRegistry {
	if maxSessions < 1 {
		maxSessions = 1
	}
	return &sessionRegistry{
		sessions:    make(map[uuid.UUID]*sessionEntry),
		factory:     factory,
		maxSessions: maxSessions,
		logger:      logger.Named("session-registry"),
	}
}

var _ SessionRegistry = (*sessionRegistry)(nil)

func (r *sessionRegistry) Create(ctx context.Context) (*models.GlossarySession, error) {
	r.mu.RLock()
	full := len(r.sessions) >= r.maxSessions
	r.mu.RUnlock()
	if full {
		return nil, fmt.Errorf("create session: %w", apperrors.ErrSessionLimit)
	}

	glossary, err := r.factory(ctx)
	if err != nil {
		r.logger.Error("Failed to build glossary for session", zap.Error(err))
		return nil, fmt.Errorf("create session: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sessions) >= r.maxSessions {
		return nil, fmt.Errorf("create session: %w", apperrors.ErrSessionLimit)
	}

	id := uuid.New()
	entry := &sessionEntry{glossary: glossary, createdAt: time.Now().UTC()}
	r.sessions[id] = entry

	r.logger.Info("Created glossary session",
		zap.String("session_id", id.String()),
		zap.Int("active_sessions", len(r.sessions)))

	return describeSession(ctx, id, entry), nil
}

func (r *sessionRegistry) Get(ctx context.Context, id uuid.UUID) (GlossaryService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
	}
	return entry.glossary, nil
}

func (r *sessionRegistry) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.sessions[id]; !ok {
		return fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
	}
	delete(r.sessions, id)

	r.logger.Info("Deleted glossary session",
		zap.String("session_id", id.String()),
		zap.Int("active_sessions", len(r.sessions)))
	return nil
}

func (r *sessionRegistry) List(ctx context.Context) []models.GlossarySession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.GlossarySession, 0, len(r.sessions))
	for id, entry := range r.sessions {
		out = append(out, *describeSession(ctx, id, entry))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.String() < out[j].ID.String()
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

func describeSession(ctx context.Context, id uuid.UUID, entry *sessionEntry) *models.GlossarySession {
	teams, metrics := entry.glossary.Stats(ctx)
	return &models.GlossarySession{
		ID:          id,
		CreatedAt:   entry.createdAt,
		TeamCount:   teams,
		MetricCount: metrics,
	}
}
