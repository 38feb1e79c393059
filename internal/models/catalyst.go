package models

import (
	"time"
)

// CatalystRecord represents one upcoming or past biotech catalyst event.
// Records come from the curated dataset and are read-only at runtime.
type CatalystRecord struct {
	Ticker        string
	EventDate     time.Time
	Event         string
	Phase         TrialPhase
	ArmDesign     ArmDesign
	Endpoint      EndpointType
	SkippedPhase2 bool

	// EnrollmentN is nil when the dataset does not report enrollment.
	EnrollmentN *int
	// CashRunwayMonths is nil when runway is unknown; unknown runway never
	// counts as a dilution flag.
	CashRunwayMonths *float64
}

// HasEnrollment reports whether the record declares an enrollment count.
func (r CatalystRecord) HasEnrollment() bool {
	return r.EnrollmentN != nil
}

// HasRunway reports whether the record declares a cash runway.
func (r CatalystRecord) HasRunway() bool {
	return r.CashRunwayMonths != nil
}

// Upcoming reports whether the event date is on or after today.
// Today is passed explicitly so filtering stays testable.
func (r CatalystRecord) Upcoming(today time.Time) bool {
	y1, m1, d1 := r.EventDate.Date()
	y2, m2, d2 := today.Date()
	event := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	day := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return !event.Before(day)
}
