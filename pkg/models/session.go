package models

import (
	"time"

	"github.com/google/uuid"
)

// GlossarySession describes one in-memory glossary held by the session registry.
type GlossarySession struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	TeamCount   int       `json:"team_count"`
	MetricCount int       `json:"metric_count"`
}
