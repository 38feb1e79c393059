package scoring

import (
	"sort"
	"time"

	"biotrial-analyzer/internal/models"
)

// BatchResult pairs a record with its assessment or its evaluation error.
// One record failing never aborts the rest of the batch.
type BatchResult struct {
	Record     models.CatalystRecord
	Assessment *models.RiskAssessment
	Err        error
}

// EvaluateBatch maps Evaluate over the records in order. Records are
// independent, so order carries no semantic weight beyond reproducibility.
func (s *Scorer) EvaluateBatch(records []models.CatalystRecord) []BatchResult {
	results := make([]BatchResult, 0, len(records))
	for _, r := range records {
		assessment, err := s.Evaluate(r)
		results = append(results, BatchResult{
			Record:     r,
			Assessment: assessment,
			Err:        err,
		})
	}
	return results
}

// FilterUpcoming returns the records whose event date is on or after today,
// sorted by event date ascending. Today is passed explicitly rather than
// read from the clock so the filter stays testable.
func FilterUpcoming(records []models.CatalystRecord, today time.Time) []models.CatalystRecord {
	var upcoming []models.CatalystRecord
	for _, r := range records {
		if r.Upcoming(today) {
			upcoming = append(upcoming, r)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].EventDate.Before(upcoming[j].EventDate)
	})
	return upcoming
}
