package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/prima/tester"
)

// ErrRunNotFound is returned by ReadRun for an unknown run ID.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is one row of the run history.
type RunSummary struct {
	Seq       int64     `json:"seq" yaml:"seq"`
	ID        string    `json:"id" yaml:"id"`
	Examples  string    `json:"examples" yaml:"examples"`
	StartedAt time.Time `json:"started_at" yaml:"started_at"`
	Tests     int       `json:"tests" yaml:"tests"`
	Failures  int       `json:"failures" yaml:"failures"`
	Warnings  int       `json:"warnings" yaml:"warnings"`
	Aborted   string    `json:"aborted,omitempty" yaml:"aborted,omitempty"`
}

// WriteRun records a report and its results in one transaction. A run ID
// already present is ignored.
func (s *Store) WriteRun(ctx context.Context, r *tester.Report) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, examples, started_at, tests, failures, warnings, no_tests, aborted)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		r.RunID,
		r.Examples,
		r.StartedAt.UTC().Format(time.RFC3339Nano),
		r.Tests(),
		r.Failures,
		r.Warnings,
		r.NoTests,
		r.Aborted,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return fmt.Errorf("write run: %w", err)
	} else if n == 0 {
		return tx.Commit()
	}

	for _, result := range r.Results {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO results
			(run_id, number, name, method, pass, range_check, location, warning, detail)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			r.RunID,
			result.Number,
			result.Name,
			result.Method,
			result.Pass,
			result.Range,
			result.Location,
			result.Warning,
			result.Detail,
		)
		if err != nil {
			return fmt.Errorf("write result %d: %w", result.Number, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs first. A limit of zero or less
// returns every run.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, examples, started_at, tests, failures, warnings, aborted
		FROM runs
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunSummary{}
	for rows.Next() {
		var run RunSummary
		var started string
		if err := rows.Scan(&run.Seq, &run.ID, &run.Examples, &started,
			&run.Tests, &run.Failures, &run.Warnings, &run.Aborted); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if run.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
			return nil, fmt.Errorf("scan run %s: %w", run.ID, err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadRun rebuilds the report of a recorded run. Rendered data of a
// print-all run is not kept.
func (s *Store) ReadRun(ctx context.Context, id string) (*tester.Report, error) {
	r := &tester.Report{RunID: id}
	var started string
	err := s.db.QueryRowContext(ctx, `
		SELECT examples, started_at, failures, warnings, no_tests, aborted
		FROM runs
		WHERE id = ?
	`, id).Scan(&r.Examples, &started, &r.Failures, &r.Warnings, &r.NoTests, &r.Aborted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("read run %s: %w", id, ErrRunNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}
	if r.StartedAt, err = time.Parse(time.RFC3339Nano, started); err != nil {
		return nil, fmt.Errorf("read run %s: %w", id, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT number, name, method, pass, range_check, location, warning, detail
		FROM results
		WHERE run_id = ?
		ORDER BY number ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	r.Results = []tester.Result{}
	for rows.Next() {
		var res tester.Result
		if err := rows.Scan(&res.Number, &res.Name, &res.Method, &res.Pass, &res.Range,
			&res.Location, &res.Warning, &res.Detail); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		r.Results = append(r.Results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}
	return r, nil
}

// CountFailures returns the number of failed checks across all recorded
// runs of the named examples.
func (s *Store) CountFailures(ctx context.Context, examples string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*)
		FROM results JOIN runs ON runs.id = results.run_id
		WHERE runs.examples = ? AND results.pass = 0
	`, examples).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count failures: %w", err)
	}
	return n, nil
}
