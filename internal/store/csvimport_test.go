package store

import (
	"strings"
	"testing"
	"time"

	"biotrial-analyzer/internal/models"
)

const sampleCSV = `Ticker,Catalyst_Date,Event,Stage,Prior_Phase_Data,Control_Arm,Endpoint_Type,Enrollment_N,Cash_Runway_Mo
ALPH,2026-09-10,Phase 1 dose escalation,Phase 1,Completed,Single Arm,Surrogate (PFS),15,3.5
BETA,2026-12-05,Phase 3 topline,Phase 3,Skipped Phase 2,Randomized Controlled,Overall Survival,450,12
GAMA,2026-10-01,Phase 2 interim,Phase 2,Completed,Randomized Controlled,Overall Survival,,
BADD,not-a-date,Broken row,Phase 2,Completed,Randomized Controlled,OS,10,5
`

func TestReadCSV(t *testing.T) {
	result, err := readCSV(strings.NewReader(sampleCSV), "test.csv")
	if err != nil {
		t.Fatalf("readCSV failed: %v", err)
	}

	if len(result.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(result.Records))
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("expected 1 skipped row, got %d", len(result.Skipped))
	}

	alph := result.Records[0]
	if alph.Ticker != "ALPH" {
		t.Errorf("expected ALPH, got %s", alph.Ticker)
	}
	if !alph.EventDate.Equal(time.Date(2026, time.September, 10, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected event date %v", alph.EventDate)
	}
	if alph.Phase != models.Phase1 {
		t.Errorf("expected Phase 1, got %s", alph.Phase)
	}
	if alph.ArmDesign != models.SingleArm {
		t.Errorf("expected single arm, got %s", alph.ArmDesign)
	}
	if alph.Endpoint != models.EndpointSurrogate {
		t.Errorf("expected surrogate endpoint, got %s", alph.Endpoint)
	}
	if alph.EnrollmentN == nil || *alph.EnrollmentN != 15 {
		t.Errorf("expected enrollment 15, got %v", alph.EnrollmentN)
	}
	if alph.CashRunwayMonths == nil || *alph.CashRunwayMonths != 3.5 {
		t.Errorf("expected runway 3.5, got %v", alph.CashRunwayMonths)
	}

	beta := result.Records[1]
	if !beta.SkippedPhase2 {
		t.Error("expected skipped Phase 2 for BETA")
	}
	if beta.ArmDesign != models.Controlled {
		t.Errorf("expected controlled arm, got %s", beta.ArmDesign)
	}
	if beta.Endpoint != models.EndpointOverallSurvival {
		t.Errorf("expected overall survival endpoint, got %s", beta.Endpoint)
	}

	// Blank numeric columns stay unknown.
	gama := result.Records[2]
	if gama.EnrollmentN != nil || gama.CashRunwayMonths != nil {
		t.Error("blank numeric columns must map to nil")
	}
}

func TestReadCSVSkipsMalformedRowsOnly(t *testing.T) {
	result, err := readCSV(strings.NewReader(sampleCSV), "test.csv")
	if err != nil {
		t.Fatalf("readCSV failed: %v", err)
	}

	// The broken date row is reported but does not abort the import.
	if len(result.Skipped) != 1 {
		t.Fatalf("expected exactly 1 skipped row, got %d", len(result.Skipped))
	}
	if !strings.Contains(result.Skipped[0].Error(), "row 5") {
		t.Errorf("skip error should name the row: %v", result.Skipped[0])
	}
}

func TestParsePhaseRejectsUnknown(t *testing.T) {
	if _, err := parsePhase("Preclinical"); err == nil {
		t.Error("expected error for unknown stage")
	}
}

func TestParseEndpointVariants(t *testing.T) {
	tests := []struct {
		value string
		want  models.EndpointType
	}{
		{"Surrogate (PFS)", models.EndpointSurrogate},
		{"PFS", models.EndpointSurrogate},
		{"Overall Survival", models.EndpointOverallSurvival},
		{"OS", models.EndpointOverallSurvival},
		{"ORR", models.EndpointOther},
	}
	for _, tt := range tests {
		if got := parseEndpoint(tt.value); got != tt.want {
			t.Errorf("parseEndpoint(%q) = %s, want %s", tt.value, got, tt.want)
		}
	}
}
