package scoring

import (
	"testing"
	"time"

	"biotrial-analyzer/internal/errors"
	"biotrial-analyzer/internal/models"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// cleanRecord returns a record that triggers no flags.
func cleanRecord() models.CatalystRecord {
	return models.CatalystRecord{
		Ticker:           "ACME",
		EventDate:        date(2026, time.November, 12),
		Event:            "Phase 2 topline readout",
		Phase:            models.Phase2,
		ArmDesign:        models.Controlled,
		Endpoint:         models.EndpointOverallSurvival,
		CashRunwayMonths: floatPtr(12),
	}
}

func TestEvaluateCleanSetup(t *testing.T) {
	scorer := NewScorer()

	assessment, err := scorer.Evaluate(cleanRecord())
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if assessment.Score != 0 {
		t.Errorf("expected score 0, got %d (flags %v)", assessment.Score, assessment.FlagNames())
	}
	if assessment.Verdict != models.VerdictClean {
		t.Errorf("expected %q, got %q", models.VerdictClean, assessment.Verdict)
	}
}

func TestEvaluateFourFlagScenario(t *testing.T) {
	// Phase 3 with skipped Phase 2, single arm, surrogate endpoint and two
	// months of cash. Enrollment is irrelevant outside Phase 1.
	record := models.CatalystRecord{
		Ticker:           "RISK",
		EventDate:        date(2026, time.October, 1),
		Phase:            models.Phase3,
		ArmDesign:        models.SingleArm,
		Endpoint:         models.EndpointSurrogate,
		SkippedPhase2:    true,
		CashRunwayMonths: floatPtr(2),
	}

	scorer := NewScorer()
	assessment, err := scorer.Evaluate(record)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}

	want := []models.RedFlag{
		models.FlagPhase2Skip,
		models.FlagSingleArm,
		models.FlagSurrogateEndpoint,
		models.FlagDilutionRisk,
	}
	got := assessment.FlagNames()
	if len(got) != len(want) {
		t.Fatalf("expected flags %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("flag %d: expected %s, got %s", i, want[i], got[i])
		}
	}
	if assessment.Score != 4 {
		t.Errorf("expected score 4, got %d", assessment.Score)
	}
	if assessment.Verdict != models.VerdictHighRisk {
		t.Errorf("expected %q, got %q", models.VerdictHighRisk, assessment.Verdict)
	}
}

func TestEvaluateEnrollmentBoundary(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		triggered bool
	}{
		{"at threshold does not trigger", 20, false},
		{"below threshold triggers", 19, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := cleanRecord()
			record.Phase = models.Phase1
			record.EnrollmentN = intPtr(tt.n)

			assessment, err := NewScorer().Evaluate(record)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if assessment.Triggered(models.FlagUnderpowered) != tt.triggered {
				t.Errorf("N=%d: underpowered flag = %v, want %v",
					tt.n, assessment.Triggered(models.FlagUnderpowered), tt.triggered)
			}
		})
	}
}

func TestEvaluateRunwayBoundary(t *testing.T) {
	tests := []struct {
		name      string
		runway    *float64
		triggered bool
	}{
		{"at threshold does not trigger", floatPtr(4), false},
		{"below threshold triggers", floatPtr(3.99), true},
		{"unknown runway does not trigger", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := cleanRecord()
			record.CashRunwayMonths = tt.runway

			assessment, err := NewScorer().Evaluate(record)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if assessment.Triggered(models.FlagDilutionRisk) != tt.triggered {
				t.Errorf("dilution flag = %v, want %v",
					assessment.Triggered(models.FlagDilutionRisk), tt.triggered)
			}
		})
	}
}

func TestEvaluatePhase2SkipRequiresPhase3(t *testing.T) {
	record := cleanRecord()
	record.SkippedPhase2 = true // still Phase 2

	assessment, err := NewScorer().Evaluate(record)
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if assessment.Triggered(models.FlagPhase2Skip) {
		t.Error("phase 2 skip flag must only trigger for Phase 3 records")
	}
}

func TestEvaluateIncompleteRecord(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.CatalystRecord)
	}{
		{"missing phase", func(r *models.CatalystRecord) { r.Phase = "" }},
		{"missing arm design", func(r *models.CatalystRecord) { r.ArmDesign = "" }},
		{"missing endpoint", func(r *models.CatalystRecord) { r.Endpoint = "" }},
		{"phase 1 without enrollment", func(r *models.CatalystRecord) {
			r.Phase = models.Phase1
			r.EnrollmentN = nil
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := cleanRecord()
			tt.mutate(&record)

			_, err := NewScorer().Evaluate(record)
			if err == nil {
				t.Fatal("expected IncompleteRecord error")
			}
			if !errors.Is(err, errors.ErrIncompleteRecord) {
				t.Errorf("expected ErrIncompleteRecord, got %v", err)
			}
			var ire *errors.IncompleteRecordError
			if !errors.As(err, &ire) {
				t.Errorf("expected *IncompleteRecordError, got %T", err)
			}
		})
	}
}

func TestEvaluateBatchContinuesPastErrors(t *testing.T) {
	broken := cleanRecord()
	broken.Ticker = "BRKN"
	broken.Phase = models.Phase1
	broken.EnrollmentN = nil

	records := []models.CatalystRecord{cleanRecord(), broken, cleanRecord()}
	results := NewScorer().EvaluateBatch(records)

	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if results[0].Err != nil || results[2].Err != nil {
		t.Error("valid records must not be affected by a broken sibling")
	}
	if results[1].Err == nil {
		t.Error("expected error for broken record")
	}
	if results[1].Assessment != nil {
		t.Error("broken record must not produce an assessment")
	}
}

func TestFilterUpcoming(t *testing.T) {
	today := date(2026, time.August, 30)

	past := cleanRecord()
	past.Ticker = "PAST"
	past.EventDate = date(2026, time.August, 29)

	sameDay := cleanRecord()
	sameDay.Ticker = "TODAY"
	sameDay.EventDate = today

	later := cleanRecord()
	later.Ticker = "LATER"
	later.EventDate = date(2026, time.December, 1)

	upcoming := FilterUpcoming([]models.CatalystRecord{later, past, sameDay}, today)
	if len(upcoming) != 2 {
		t.Fatalf("expected 2 upcoming records, got %d", len(upcoming))
	}
	if upcoming[0].Ticker != "TODAY" || upcoming[1].Ticker != "LATER" {
		t.Errorf("expected [TODAY LATER], got [%s %s]", upcoming[0].Ticker, upcoming[1].Ticker)
	}
}

func TestVerdictTableValidate(t *testing.T) {
	if err := DefaultVerdictTable().Validate(); err != nil {
		t.Errorf("default table should validate: %v", err)
	}

	short := VerdictTable{{MaxScore: 2, Verdict: models.VerdictCaution}}
	if err := short.Validate(); err == nil {
		t.Error("table not covering score 5 should fail validation")
	}

	if err := (VerdictTable{}).Validate(); err == nil {
		t.Error("empty table should fail validation")
	}
}
