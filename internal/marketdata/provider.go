// Package marketdata provides live price quotes for catalyst tickers.
package marketdata

import (
	"context"

	"biotrial-analyzer/internal/models"
)

// Provider defines the interface for market data providers. The scorer never
// calls this itself; quotes are display collaborators only, so a failed fetch
// surfaces as "data unavailable" rather than aborting an assessment.
type Provider interface {
	GetQuote(ctx context.Context, symbol string) (*models.Quote, error)
}
