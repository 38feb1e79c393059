package models

// RedFlag identifies one structural red flag in a trial design.
type RedFlag string

const (
	FlagPhase2Skip        RedFlag = "PHASE2_SKIP"
	FlagSingleArm         RedFlag = "SINGLE_ARM"
	FlagSurrogateEndpoint RedFlag = "SURROGATE_ENDPOINT"
	FlagUnderpowered      RedFlag = "UNDERPOWERED"
	FlagDilutionRisk      RedFlag = "DILUTION_RISK"
)

// FlagHit is one triggered red flag with its human-readable reason.
type FlagHit struct {
	Flag   RedFlag
	Reason string
}

// Verdict is the textual trading verdict derived from the flag score.
type Verdict string

const (
	VerdictClean    Verdict = "Clean setup"
	VerdictCaution  Verdict = "Caution — some structural risk"
	VerdictHighRisk Verdict = "High risk — multiple red flags"
	VerdictAvoid    Verdict = "Avoid — maximal red flags"
)

// RiskAssessment is the scorer output for one CatalystRecord.
// Flags are in evaluation order; Score always equals len(Flags).
type RiskAssessment struct {
	Ticker  string
	Flags   []FlagHit
	Score   int
	Verdict Verdict
}

// FlagNames returns the triggered flag identifiers in evaluation order.
func (a *RiskAssessment) FlagNames() []RedFlag {
	names := make([]RedFlag, 0, len(a.Flags))
	for _, f := range a.Flags {
		names = append(names, f.Flag)
	}
	return names
}

// Triggered reports whether the given flag was raised.
func (a *RiskAssessment) Triggered(flag RedFlag) bool {
	for _, f := range a.Flags {
		if f.Flag == flag {
			return true
		}
	}
	return false
}
