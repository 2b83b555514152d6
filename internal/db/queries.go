package db

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries runs the typed statements against a connection or transaction.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// CorpusItem is one stored text contribution.
type CorpusItem struct {
	ID         int64     `json:"id"`
	Account    string    `json:"account"`
	Body       string    `json:"body"`
	Kind       string    `json:"kind"`
	Score      int64     `json:"score"`
	Subreddit  string    `json:"subreddit"`
	CreatedUtc int64     `json:"created_utc"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// Report is one stored analysis.
type Report struct {
	ID          int64     `json:"id"`
	Account1    string    `json:"account1"`
	Account2    string    `json:"account2"`
	Provider    string    `json:"provider"`
	SamplePairs int64     `json:"sample_pairs"`
	Report      string    `json:"report"`
	DurationMs  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

const insertCorpusItem = `
INSERT INTO corpus_items (account, body, kind, score, subreddit, created_utc)
VALUES (?, ?, ?, ?, ?, ?)
`

type InsertCorpusItemParams struct {
	Account    string
	Body       string
	Kind       string
	Score      int64
	Subreddit  string
	CreatedUtc int64
}

func (q *Queries) InsertCorpusItem(ctx context.Context, arg InsertCorpusItemParams) error {
	_, err := q.db.ExecContext(ctx, insertCorpusItem,
		arg.Account,
		arg.Body,
		arg.Kind,
		arg.Score,
		arg.Subreddit,
		arg.CreatedUtc,
	)
	return err
}

const deleteCorpusItems = `DELETE FROM corpus_items WHERE account = ?`

func (q *Queries) DeleteCorpusItems(ctx context.Context, account string) error {
	_, err := q.db.ExecContext(ctx, deleteCorpusItems, account)
	return err
}

const listCorpusItems = `
SELECT id, account, body, kind, score, subreddit, created_utc, fetched_at
FROM corpus_items
WHERE account = ?
ORDER BY score DESC, id
`

func (q *Queries) ListCorpusItems(ctx context.Context, account string) ([]CorpusItem, error) {
	rows, err := q.db.QueryContext(ctx, listCorpusItems, account)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CorpusItem
	for rows.Next() {
		var i CorpusItem
		if err := rows.Scan(
			&i.ID,
			&i.Account,
			&i.Body,
			&i.Kind,
			&i.Score,
			&i.Subreddit,
			&i.CreatedUtc,
			&i.FetchedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countCorpusItems = `SELECT COUNT(*) FROM corpus_items WHERE account = ?`

func (q *Queries) CountCorpusItems(ctx context.Context, account string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countCorpusItems, account).Scan(&count)
	return count, err
}

const createReport = `
INSERT INTO reports (account1, account2, provider, sample_pairs, report, duration_ms)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id, account1, account2, provider, sample_pairs, report, duration_ms, created_at
`

type CreateReportParams struct {
	Account1    string
	Account2    string
	Provider    string
	SamplePairs int64
	Report      string
	DurationMs  int64
}

func (q *Queries) CreateReport(ctx context.Context, arg CreateReportParams) (Report, error) {
	row := q.db.QueryRowContext(ctx, createReport,
		arg.Account1,
		arg.Account2,
		arg.Provider,
		arg.SamplePairs,
		arg.Report,
		arg.DurationMs,
	)
	var i Report
	err := row.Scan(
		&i.ID,
		&i.Account1,
		&i.Account2,
		&i.Provider,
		&i.SamplePairs,
		&i.Report,
		&i.DurationMs,
		&i.CreatedAt,
	)
	return i, err
}

const getReport = `
SELECT id, account1, account2, provider, sample_pairs, report, duration_ms, created_at
FROM reports
WHERE id = ?
`

func (q *Queries) GetReport(ctx context.Context, id int64) (Report, error) {
	var i Report
	err := q.db.QueryRowContext(ctx, getReport, id).Scan(
		&i.ID,
		&i.Account1,
		&i.Account2,
		&i.Provider,
		&i.SamplePairs,
		&i.Report,
		&i.DurationMs,
		&i.CreatedAt,
	)
	return i, err
}

const listRecentReports = `
SELECT id, account1, account2, provider, sample_pairs, report, duration_ms, created_at
FROM reports
ORDER BY id DESC
LIMIT ?
`

func (q *Queries) ListRecentReports(ctx context.Context, limit int64) ([]Report, error) {
	rows, err := q.db.QueryContext(ctx, listRecentReports, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Report
	for rows.Next() {
		var i Report
		if err := rows.Scan(
			&i.ID,
			&i.Account1,
			&i.Account2,
			&i.Provider,
			&i.SamplePairs,
			&i.Report,
			&i.DurationMs,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countReports = `SELECT COUNT(*) FROM reports`

func (q *Queries) CountReports(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countReports).Scan(&count)
	return count, err
}
