package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func testLogger(buf *bytes.Buffer) zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	return zerolog.New(buf)
}

func TestLogQuoteFields(t *testing.T) {
	var buf bytes.Buffer
	LogQuote(testLogger(&buf), "ACME", 43.5)

	out := buf.String()
	for _, want := range []string{`"event":"quote"`, `"symbol":"ACME"`, `"price":43.5`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in log output, got %s", want, out)
		}
	}
}

func TestLogAssessmentFields(t *testing.T) {
	var buf bytes.Buffer
	LogAssessment(testLogger(&buf), "RISK", 4, "High risk — multiple red flags")

	out := buf.String()
	for _, want := range []string{`"event":"assessment"`, `"ticker":"RISK"`, `"score":4`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in log output, got %s", want, out)
		}
	}
}
