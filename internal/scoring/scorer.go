// Package scoring provides the catalyst red-flag scoring and verdict engine.
package scoring

import (
	"fmt"
	"sort"

	"biotrial-analyzer/internal/errors"
	"biotrial-analyzer/internal/models"
)

// Historical Phase 3 success rates, Hay et al. style aggregate figures cited
// in the flag rationale. Documentation constants, never recomputed.
const (
	Phase3SuccessAfterSkip  = 0.31
	Phase3SuccessWithPhase2 = 0.57
)

// Default rule thresholds.
const (
	// DefaultUnderpoweredMin is the minimum Phase 1 enrollment; strictly
	// below this the sample is deemed statistically unreliable.
	DefaultUnderpoweredMin = 20
	// DefaultDilutionRunwayMonths is the cash runway floor in months;
	// strictly below it an offering is considered likely.
	DefaultDilutionRunwayMonths = 4.0
)

// VerdictBand maps a score ceiling to a verdict. Bands are evaluated in
// ascending MaxScore order; the first band with MaxScore >= score wins.
type VerdictBand struct {
	MaxScore int
	Verdict  models.Verdict
}

// VerdictTable is an ordered, gap-free set of verdict bands covering 0-5.
type VerdictTable []VerdictBand

// DefaultVerdictTable returns the standard four-tier verdict mapping.
func DefaultVerdictTable() VerdictTable {
	return VerdictTable{
		{MaxScore: 0, Verdict: models.VerdictClean},
		{MaxScore: 2, Verdict: models.VerdictCaution},
		{MaxScore: 4, Verdict: models.VerdictHighRisk},
		{MaxScore: 5, Verdict: models.VerdictAvoid},
	}
}

// Validate checks that the table covers the full 0-5 score range without
// overlaps or gaps.
func (t VerdictTable) Validate() error {
	if len(t) == 0 {
		return errors.NewValidationError("verdict_table", t, "empty table")
	}
	bands := make(VerdictTable, len(t))
	copy(bands, t)
	sort.Slice(bands, func(i, j int) bool { return bands[i].MaxScore < bands[j].MaxScore })
	prev := -1
	for _, b := range bands {
		if b.MaxScore <= prev {
			return errors.NewValidationError("verdict_table", b.MaxScore, "duplicate score ceiling")
		}
		prev = b.MaxScore
	}
	if bands[len(bands)-1].MaxScore < 5 {
		return errors.NewValidationError("verdict_table", bands[len(bands)-1].MaxScore, "table does not cover score 5")
	}
	return nil
}

// Verdict returns the verdict for the given score.
func (t VerdictTable) Verdict(score int) models.Verdict {
	bands := make(VerdictTable, len(t))
	copy(bands, t)
	sort.Slice(bands, func(i, j int) bool { return bands[i].MaxScore < bands[j].MaxScore })
	for _, b := range bands {
		if score <= b.MaxScore {
			return b.Verdict
		}
	}
	return bands[len(bands)-1].Verdict
}

// Scorer evaluates catalyst records against the structural red-flag rules.
// Evaluate is pure: the same record always yields the same assessment.
type Scorer struct {
	underpoweredMin int
	runwayMonths    float64
	verdicts        VerdictTable
}

// NewScorer creates a scorer with the default thresholds and verdict table.
func NewScorer() *Scorer {
	return &Scorer{
		underpoweredMin: DefaultUnderpoweredMin,
		runwayMonths:    DefaultDilutionRunwayMonths,
		verdicts:        DefaultVerdictTable(),
	}
}

// NewScorerWithTable creates a scorer with custom thresholds and verdicts.
func NewScorerWithTable(underpoweredMin int, runwayMonths float64, verdicts VerdictTable) (*Scorer, error) {
	if underpoweredMin < 0 {
		return nil, errors.NewValidationError("underpowered_min", underpoweredMin, "must be non-negative")
	}
	if runwayMonths < 0 {
		return nil, errors.NewValidationError("runway_months", runwayMonths, "must be non-negative")
	}
	if err := verdicts.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{
		underpoweredMin: underpoweredMin,
		runwayMonths:    runwayMonths,
		verdicts:        verdicts,
	}, nil
}

// Evaluate applies the five red-flag rules to a record, in fixed order, and
// returns the assessment. The flags are independent booleans; the score is
// the count of triggered flags and the verdict follows the threshold table.
func (s *Scorer) Evaluate(record models.CatalystRecord) (*models.RiskAssessment, error) {
	if err := s.validate(record); err != nil {
		return nil, err
	}

	var flags []models.FlagHit

	// 1. Phase 2 skip: only a Phase 3 readout can have skipped Phase 2.
	if record.Phase == models.Phase3 && record.SkippedPhase2 {
		flags = append(flags, models.FlagHit{
			Flag: models.FlagPhase2Skip,
			Reason: fmt.Sprintf("Skipped Phase 2: historical Phase 3 success drops to %.0f%% vs %.0f%% with a proper Phase 2",
				Phase3SuccessAfterSkip*100, Phase3SuccessWithPhase2*100),
		})
	}

	// 2. Single-arm trial: no control group regardless of phase.
	if record.ArmDesign == models.SingleArm {
		flags = append(flags, models.FlagHit{
			Flag:   models.FlagSingleArm,
			Reason: "Single-arm trial: no control group, elevated placebo and bias risk",
		})
	}

	// 3. Surrogate endpoint.
	if record.Endpoint == models.EndpointSurrogate {
		flags = append(flags, models.FlagHit{
			Flag:   models.FlagSurrogateEndpoint,
			Reason: "Surrogate endpoint: higher regulatory rejection risk than overall survival",
		})
	}

	// 4. Underpowered study: Phase 1 only, strict less-than comparison.
	if record.Phase == models.Phase1 && *record.EnrollmentN < s.underpoweredMin {
		flags = append(flags, models.FlagHit{
			Flag:   models.FlagUnderpowered,
			Reason: fmt.Sprintf("Underpowered (N=%d): sample too small for statistical reliability", *record.EnrollmentN),
		})
	}

	// 5. Dilution risk: known runway strictly below the floor. Unknown
	// runway means "cannot assess" and never triggers.
	if record.HasRunway() && *record.CashRunwayMonths < s.runwayMonths {
		flags = append(flags, models.FlagHit{
			Flag:   models.FlagDilutionRisk,
			Reason: fmt.Sprintf("Dilution risk: only %.1f months cash runway, offering likely", *record.CashRunwayMonths),
		})
	}

	score := len(flags)
	return &models.RiskAssessment{
		Ticker:  record.Ticker,
		Flags:   flags,
		Score:   score,
		Verdict: s.verdicts.Verdict(score),
	}, nil
}

// validate checks the fields the rule set requires. A Phase 1 record must
// declare enrollment; the mandatory enums have no unknown variant.
func (s *Scorer) validate(record models.CatalystRecord) error {
	if !record.Phase.Valid() {
		return errors.NewIncompleteRecordError(record.Ticker, "phase", "missing or unknown trial phase")
	}
	if !record.ArmDesign.Valid() {
		return errors.NewIncompleteRecordError(record.Ticker, "arm_design", "missing or unknown arm design")
	}
	if !record.Endpoint.Valid() {
		return errors.NewIncompleteRecordError(record.Ticker, "endpoint_type", "missing or unknown endpoint type")
	}
	if record.Phase == models.Phase1 && !record.HasEnrollment() {
		return errors.NewIncompleteRecordError(record.Ticker, "enrollment_n", "Phase 1 record must declare enrollment")
	}
	return nil
}
