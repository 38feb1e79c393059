package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"biotrial-analyzer/internal/errors"
	"biotrial-analyzer/internal/models"
)

// SQLiteStore implements CatalystStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-based catalyst store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates all required tables and indexes.
func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Curated catalyst dataset; one row per ticker and event date
	CREATE TABLE IF NOT EXISTS catalysts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		ticker TEXT NOT NULL,
		event_date DATE NOT NULL,
		event TEXT,
		phase TEXT NOT NULL,
		arm_design TEXT NOT NULL,
		endpoint_type TEXT NOT NULL,
		skipped_phase2 INTEGER NOT NULL DEFAULT 0,
		enrollment_n INTEGER,
		cash_runway_months REAL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(ticker, event_date)
	);

	CREATE INDEX IF NOT EXISTS idx_catalysts_ticker ON catalysts(ticker);
	CREATE INDEX IF NOT EXISTS idx_catalysts_event_date ON catalysts(event_date);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveCatalysts upserts catalyst records. Re-importing the dataset replaces
// existing rows for the same ticker and event date.
func (s *SQLiteStore) SaveCatalysts(ctx context.Context, records []models.CatalystRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO catalysts (ticker, event_date, event, phase, arm_design, endpoint_type, skipped_phase2, enrollment_n, cash_runway_months)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(ticker, event_date) DO UPDATE SET
			event = excluded.event,
			phase = excluded.phase,
			arm_design = excluded.arm_design,
			endpoint_type = excluded.endpoint_type,
			skipped_phase2 = excluded.skipped_phase2,
			enrollment_n = excluded.enrollment_n,
			cash_runway_months = excluded.cash_runway_months
	`)
	if err != nil {
		return errors.Wrap(err, "prepare upsert")
	}
	defer stmt.Close()

	for _, r := range records {
		var enrollment sql.NullInt64
		if r.EnrollmentN != nil {
			enrollment = sql.NullInt64{Int64: int64(*r.EnrollmentN), Valid: true}
		}
		var runway sql.NullFloat64
		if r.CashRunwayMonths != nil {
			runway = sql.NullFloat64{Float64: *r.CashRunwayMonths, Valid: true}
		}

		_, err := stmt.ExecContext(ctx,
			r.Ticker,
			r.EventDate.Format("2006-01-02"),
			r.Event,
			string(r.Phase),
			string(r.ArmDesign),
			string(r.Endpoint),
			boolToInt(r.SkippedPhase2),
			enrollment,
			runway,
		)
		if err != nil {
			return errors.Wrapf(err, "saving catalyst %s", r.Ticker)
		}
	}

	return tx.Commit()
}

// GetCatalysts returns catalysts matching the filter, ordered by event date.
func (s *SQLiteStore) GetCatalysts(ctx context.Context, filter CatalystFilter) ([]models.CatalystRecord, error) {
	query := `SELECT ticker, event_date, event, phase, arm_design, endpoint_type, skipped_phase2, enrollment_n, cash_runway_months
		FROM catalysts`

	var conditions []string
	var args []interface{}

	if filter.Ticker != "" {
		conditions = append(conditions, "ticker = ?")
		args = append(args, filter.Ticker)
	}
	if !filter.From.IsZero() {
		conditions = append(conditions, "event_date >= ?")
		args = append(args, filter.From.Format("2006-01-02"))
	}
	if filter.Phase != "" {
		conditions = append(conditions, "phase = ?")
		args = append(args, string(filter.Phase))
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY event_date ASC, ticker ASC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying catalysts")
	}
	defer rows.Close()

	var records []models.CatalystRecord
	for rows.Next() {
		record, err := scanCatalyst(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}
	return records, rows.Err()
}

// GetCatalystByTicker returns the next catalyst for a ticker, earliest first.
func (s *SQLiteStore) GetCatalystByTicker(ctx context.Context, ticker string) (*models.CatalystRecord, error) {
	records, err := s.GetCatalysts(ctx, CatalystFilter{Ticker: ticker, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, errors.Wrapf(errors.ErrDataNotFound, "no catalyst for ticker %s", ticker)
	}
	return &records[0], nil
}

// DeleteCatalysts removes all catalysts for a ticker.
func (s *SQLiteStore) DeleteCatalysts(ctx context.Context, ticker string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM catalysts WHERE ticker = ?", ticker)
	return errors.Wrapf(err, "deleting catalysts for %s", ticker)
}

// CountCatalysts returns the total number of stored catalysts.
func (s *SQLiteStore) CountCatalysts(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM catalysts").Scan(&count)
	if err != nil {
		return 0, errors.Wrap(err, "counting catalysts")
	}
	return count, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func scanCatalyst(rows *sql.Rows) (*models.CatalystRecord, error) {
	var (
		record     models.CatalystRecord
		phase      string
		armDesign  string
		endpoint   string
		skipped    int
		enrollment sql.NullInt64
		runway     sql.NullFloat64
	)

	// event_date is a DATE column, so the driver hands back a time.Time.
	err := rows.Scan(&record.Ticker, &record.EventDate, &record.Event, &phase, &armDesign, &endpoint, &skipped, &enrollment, &runway)
	if err != nil {
		return nil, errors.Wrap(err, "scanning catalyst row")
	}

	record.Phase = models.TrialPhase(phase)
	record.ArmDesign = models.ArmDesign(armDesign)
	record.Endpoint = models.EndpointType(endpoint)
	record.SkippedPhase2 = skipped != 0
	if enrollment.Valid {
		n := int(enrollment.Int64)
		record.EnrollmentN = &n
	}
	if runway.Valid {
		months := runway.Float64
		record.CashRunwayMonths = &months
	}

	return &record, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
