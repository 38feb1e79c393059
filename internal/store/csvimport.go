package store

import (
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"biotrial-analyzer/internal/errors"
	"biotrial-analyzer/internal/models"
)

// catalystRow mirrors one row of catalyst_database.csv. Column names follow
// the curated spreadsheet; numeric columns may be blank.
type catalystRow struct {
	Ticker         string `csv:"Ticker"`
	CatalystDate   string `csv:"Catalyst_Date"`
	Event          string `csv:"Event"`
	Stage          string `csv:"Stage"`
	PriorPhaseData string `csv:"Prior_Phase_Data"`
	ControlArm     string `csv:"Control_Arm"`
	EndpointType   string `csv:"Endpoint_Type"`
	EnrollmentN    string `csv:"Enrollment_N"`
	CashRunwayMo   string `csv:"Cash_Runway_Mo"`
}

// ImportResult summarizes a CSV import. Skipped rows carry their errors so a
// malformed entry never aborts the rest of the file.
type ImportResult struct {
	Records []models.CatalystRecord
	Skipped []error
}

// ImportCSV reads catalyst records from a CSV file.
func ImportCSV(path string) (*ImportResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewImportError(path, 0, err)
	}
	defer f.Close()

	return readCSV(f, path)
}

func readCSV(r io.Reader, source string) (*ImportResult, error) {
	var rows []catalystRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, errors.NewImportError(source, 0, err)
	}

	result := &ImportResult{}
	for i, row := range rows {
		record, err := row.toRecord()
		if err != nil {
			// Row 1 is the header line.
			result.Skipped = append(result.Skipped, errors.NewImportError(source, i+2, err))
			continue
		}
		result.Records = append(result.Records, *record)
	}
	return result, nil
}

func (row catalystRow) toRecord() (*models.CatalystRecord, error) {
	ticker := strings.ToUpper(strings.TrimSpace(row.Ticker))
	if ticker == "" {
		return nil, errors.NewValidationError("Ticker", row.Ticker, "missing ticker")
	}

	eventDate, err := parseEventDate(row.CatalystDate)
	if err != nil {
		return nil, err
	}

	phase, err := parsePhase(row.Stage)
	if err != nil {
		return nil, err
	}

	record := models.CatalystRecord{
		Ticker:        ticker,
		EventDate:     eventDate,
		Event:         strings.TrimSpace(row.Event),
		Phase:         phase,
		ArmDesign:     parseArmDesign(row.ControlArm),
		Endpoint:      parseEndpoint(row.EndpointType),
		SkippedPhase2: strings.Contains(row.PriorPhaseData, "Skipped"),
	}

	if v := strings.TrimSpace(row.EnrollmentN); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, errors.NewValidationError("Enrollment_N", row.EnrollmentN, "must be a non-negative integer")
		}
		record.EnrollmentN = &n
	}

	if v := strings.TrimSpace(row.CashRunwayMo); v != "" {
		months, err := strconv.ParseFloat(v, 64)
		if err != nil || months < 0 {
			return nil, errors.NewValidationError("Cash_Runway_Mo", row.CashRunwayMo, "must be a non-negative number")
		}
		record.CashRunwayMonths = &months
	}

	return &record, nil
}

func parseEventDate(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	for _, layout := range []string{"2006-01-02", "01/02/2006", "2-Jan-2006"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.NewValidationError("Catalyst_Date", value, "unrecognized date format")
}

func parsePhase(value string) (models.TrialPhase, error) {
	v := strings.ToLower(value)
	switch {
	case strings.Contains(v, "phase 1"):
		return models.Phase1, nil
	case strings.Contains(v, "phase 2"):
		return models.Phase2, nil
	case strings.Contains(v, "phase 3"):
		return models.Phase3, nil
	}
	return "", errors.NewValidationError("Stage", value, "unrecognized trial phase")
}

func parseArmDesign(value string) models.ArmDesign {
	if strings.Contains(strings.ToLower(value), "single arm") {
		return models.SingleArm
	}
	return models.Controlled
}

func parseEndpoint(value string) models.EndpointType {
	v := strings.ToLower(strings.TrimSpace(value))
	switch {
	case strings.Contains(v, "surrogate"), strings.Contains(v, "pfs"):
		return models.EndpointSurrogate
	case strings.Contains(v, "overall survival"), v == "os", strings.Contains(v, "(os)"):
		return models.EndpointOverallSurvival
	}
	return models.EndpointOther
}
