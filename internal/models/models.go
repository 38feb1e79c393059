// Package models provides domain models for the catalyst analyzer.
package models

import (
	"time"
)

// TrialPhase represents a clinical trial stage.
type TrialPhase string

const (
	Phase1 TrialPhase = "PHASE_1"
	Phase2 TrialPhase = "PHASE_2"
	Phase3 TrialPhase = "PHASE_3"
)

// Valid reports whether the phase is one of the known stages.
func (p TrialPhase) Valid() bool {
	switch p {
	case Phase1, Phase2, Phase3:
		return true
	}
	return false
}

// ArmDesign represents the control structure of a trial.
type ArmDesign string

const (
	SingleArm  ArmDesign = "SINGLE_ARM"
	Controlled ArmDesign = "CONTROLLED"
)

// Valid reports whether the arm design is known.
func (a ArmDesign) Valid() bool {
	return a == SingleArm || a == Controlled
}

// EndpointType represents the primary endpoint class of a trial.
type EndpointType string

const (
	EndpointSurrogate       EndpointType = "SURROGATE"
	EndpointOverallSurvival EndpointType = "OVERALL_SURVIVAL"
	EndpointOther           EndpointType = "OTHER"
)

// Valid reports whether the endpoint type is known.
func (e EndpointType) Valid() bool {
	switch e {
	case EndpointSurrogate, EndpointOverallSurvival, EndpointOther:
		return true
	}
	return false
}

// Quote represents a market quote from the price provider.
type Quote struct {
	Symbol string
	Price  float64
	AsOf   time.Time
}
