package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. The Report is stored as JSONB so the
// exact frontend shape round-trips without a column per field.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new record.
func (r *PGRepo) Create(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO ats_reports (id, user_id, score, jd_present, file_name, result, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	payload, err := json.Marshal(rec.Report)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	_, err = r.DB.ExecContext(ctx, query,
		rec.ID,
		rec.UserID,
		rec.Score,
		rec.JDPresent,
		rec.FileName,
		payload,
		rec.CreatedAt,
	)
	return err
}

// GetByID returns a record by ID.
func (r *PGRepo) GetByID(ctx context.Context, id string) (Record, error) {
	const query = `
SELECT id, user_id, score, jd_present, file_name, result, created_at
FROM ats_reports
WHERE id = $1
LIMIT 1`

	rec, err := scanRecord(r.DB.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

// ListByUser lists a user's records, newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Record, error) {
	limit = normalizeLimit(limit)

	const query = `
SELECT id, user_id, score, jd_present, file_name, result, created_at
FROM ats_reports
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2`

	rows, err := r.DB.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var rec Record
	var result []byte
	if err := row.Scan(
		&rec.ID,
		&rec.UserID,
		&rec.Score,
		&rec.JDPresent,
		&rec.FileName,
		&result,
		&rec.CreatedAt,
	); err != nil {
		return Record{}, err
	}
	if err := json.Unmarshal(result, &rec.Report); err != nil {
		return Record{}, fmt.Errorf("unmarshal report: %w", err)
	}
	return rec, nil
}

var _ Repo = (*PGRepo)(nil)
