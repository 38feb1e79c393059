// Package store provides data persistence for the curated catalyst dataset.
package store

import (
	"context"
	"time"

	"biotrial-analyzer/internal/models"
)

// CatalystStore defines the interface for catalyst persistence. Assessments
// are computed fresh per evaluation and are never persisted.
type CatalystStore interface {
	SaveCatalysts(ctx context.Context, records []models.CatalystRecord) error
	GetCatalysts(ctx context.Context, filter CatalystFilter) ([]models.CatalystRecord, error)
	GetCatalystByTicker(ctx context.Context, ticker string) (*models.CatalystRecord, error)
	DeleteCatalysts(ctx context.Context, ticker string) error
	CountCatalysts(ctx context.Context) (int, error)

	Close() error
}

// CatalystFilter represents filters for querying catalysts. From is compared
// against the event date; a zero From returns all records.
type CatalystFilter struct {
	Ticker string
	From   time.Time
	Phase  models.TrialPhase
	Limit  int
}
