// Package usage implements the daily token-usage ledger: an atomic upsert
// per call plus date/range/recent/total reads, backed by Postgres.
package usage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Daily is one day's aggregated token usage.
type Daily struct {
	Date            time.Time
	InputTokens     int64
	OutputTokens    int64
	ReasoningTokens int64
	RequestCount    int64
}

// TotalTokens is the sum of input and output tokens for the day.
func (d Daily) TotalTokens() int64 {
	return d.InputTokens + d.OutputTokens
}

// Recorder is the token_usage table's accessor.
type Recorder struct {
	pool *pgxpool.Pool
}

// NewRecorder builds a Recorder over an already-constructed pool.
func NewRecorder(pool *pgxpool.Pool) *Recorder {
	return &Recorder{pool: pool}
}

// InitSchema creates the token_usage table if it doesn't exist.
func (r *Recorder) InitSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS token_usage (
    usage_date       DATE PRIMARY KEY,
    input_tokens     BIGINT NOT NULL DEFAULT 0,
    output_tokens    BIGINT NOT NULL DEFAULT 0,
    reasoning_tokens BIGINT NOT NULL DEFAULT 0,
    request_count    BIGINT NOT NULL DEFAULT 0,
    version          BIGINT NOT NULL DEFAULT 0
);
`)
	return err
}

// RecordUsage performs the atomic daily upsert: a new row for today with
// request_count=1, or on conflict, counters are incremented in place by a
// single server-side statement so concurrent writers never lose an update.
// Calls with no tokens at all are a no-op, matching the original's guard.
func (r *Recorder) RecordUsage(ctx context.Context, inputTokens, outputTokens, reasoningTokens int64) error {
	if inputTokens <= 0 && outputTokens <= 0 {
		return nil
	}
	_, err := r.pool.Exec(ctx, `
INSERT INTO token_usage (usage_date, input_tokens, output_tokens, reasoning_tokens, request_count, version)
VALUES (CURRENT_DATE, $1, $2, $3, 1, 0)
ON CONFLICT (usage_date) DO UPDATE SET
    input_tokens     = token_usage.input_tokens + EXCLUDED.input_tokens,
    output_tokens    = token_usage.output_tokens + EXCLUDED.output_tokens,
    reasoning_tokens = token_usage.reasoning_tokens + EXCLUDED.reasoning_tokens,
    request_count    = token_usage.request_count + 1,
    version          = token_usage.version + 1
`, inputTokens, outputTokens, reasoningTokens)
	return err
}

// GetDaily returns usage for a specific date, or nil if no row exists.
func (r *Recorder) GetDaily(ctx context.Context, date time.Time) (*Daily, error) {
	row := r.pool.QueryRow(ctx, `
SELECT usage_date, input_tokens, output_tokens, reasoning_tokens, request_count
FROM token_usage
WHERE usage_date = $1
`, date)

	var d Daily
	if err := row.Scan(&d.Date, &d.InputTokens, &d.OutputTokens, &d.ReasoningTokens, &d.RequestCount); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// GetRange returns usage rows for [start, end], most recent first.
func (r *Recorder) GetRange(ctx context.Context, start, end time.Time) ([]Daily, error) {
	rows, err := r.pool.Query(ctx, `
SELECT usage_date, input_tokens, output_tokens, reasoning_tokens, request_count
FROM token_usage
WHERE usage_date >= $1 AND usage_date <= $2
ORDER BY usage_date DESC
`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDaily(rows)
}

// GetRecent returns the most recent N days of usage, most recent first.
func (r *Recorder) GetRecent(ctx context.Context, days int) ([]Daily, error) {
	rows, err := r.pool.Query(ctx, `
SELECT usage_date, input_tokens, output_tokens, reasoning_tokens, request_count
FROM token_usage
ORDER BY usage_date DESC
LIMIT $1
`, days)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDaily(rows)
}

// GetTotal aggregates usage over the trailing N days. A zero-row result
// yields a zeroed Daily rather than an error, matching the original's
// zero-row fallback.
func (r *Recorder) GetTotal(ctx context.Context, days int) (Daily, error) {
	row := r.pool.QueryRow(ctx, `
SELECT
    COALESCE(SUM(input_tokens), 0),
    COALESCE(SUM(output_tokens), 0),
    COALESCE(SUM(reasoning_tokens), 0),
    COALESCE(SUM(request_count), 0)
FROM token_usage
WHERE usage_date >= CURRENT_DATE - $1::int
`, days)

	var d Daily
	if err := row.Scan(&d.InputTokens, &d.OutputTokens, &d.ReasoningTokens, &d.RequestCount); err != nil {
		return Daily{}, err
	}
	d.Date = time.Now().UTC()
	return d, nil
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanDaily(rows rowScanner) ([]Daily, error) {
	var out []Daily
	for rows.Next() {
		var d Daily
		if err := rows.Scan(&d.Date, &d.InputTokens, &d.OutputTokens, &d.ReasoningTokens, &d.RequestCount); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
