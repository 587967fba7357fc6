package chromedb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"
)

// DecodedVisit is one visit row read back out of an artifact.
type DecodedVisit struct {
	ID        int64     `json:"id"`
	Time      time.Time `json:"time"`
	URL       string    `json:"url"`
	Title     string    `json:"title"`
	FromVisit int64     `json:"from_visit,omitempty"`
}

// Stats summarizes an artifact.
type Stats struct {
	Path       string    `json:"path"`
	SizeBytes  int64     `json:"size_bytes"`
	Version    string    `json:"version"`
	URLCount   int       `json:"url_count"`
	VisitCount int       `json:"visit_count"`
	FirstVisit time.Time `json:"first_visit"`
	LastVisit  time.Time `json:"last_visit"`
}

func openRead(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat artifact: %w", err)
	}
	db, err := sql.Open("sqlite", path+"?_pragma=query_only(on)")
	if err != nil {
		return nil, fmt.Errorf("open artifact: %w", err)
	}
	return db, nil
}

// ReadStats opens an artifact and summarizes it. A store without the
// version meta row is rejected as not a valid history database.
func ReadStats(ctx context.Context, path string) (*Stats, error) {
	db, err := openRead(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	st := &Stats{Path: path}
	if info, err := os.Stat(path); err == nil {
		st.SizeBytes = info.Size()
	}

	if err := db.QueryRowContext(ctx,
		`SELECT value FROM meta WHERE key = 'version'`).Scan(&st.Version); err != nil {
		return nil, fmt.Errorf("not a history database: %w", err)
	}

	db.QueryRowContext(ctx, `SELECT COUNT(*) FROM urls`).Scan(&st.URLCount)
	db.QueryRowContext(ctx, `SELECT COUNT(*) FROM visits`).Scan(&st.VisitCount)

	var first, last sql.NullInt64
	db.QueryRowContext(ctx, `SELECT MIN(visit_time), MAX(visit_time) FROM visits`).Scan(&first, &last)
	if first.Valid {
		st.FirstVisit = FromChromeTime(first.Int64)
	}
	if last.Valid {
		st.LastVisit = FromChromeTime(last.Int64)
	}
	return st, nil
}

// ReadVisits returns all visits in ascending visit_time order.
func ReadVisits(ctx context.Context, path string) ([]DecodedVisit, error) {
	return readVisits(ctx, path, "ASC", 0)
}

// ReadRecent returns the newest limit visits, newest first.
func ReadRecent(ctx context.Context, path string, limit int) ([]DecodedVisit, error) {
	return readVisits(ctx, path, "DESC", limit)
}

func readVisits(ctx context.Context, path, order string, limit int) ([]DecodedVisit, error) {
	db, err := openRead(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	query := fmt.Sprintf(`
		SELECT v.id, v.visit_time, u.url, COALESCE(u.title, ''), COALESCE(v.from_visit, 0)
		FROM visits v
		JOIN urls u ON v.url = u.id
		ORDER BY v.visit_time %s`, order)
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query visits: %w", err)
	}
	defer rows.Close()

	var visits []DecodedVisit
	for rows.Next() {
		var v DecodedVisit
		var ct int64
		if err := rows.Scan(&v.ID, &ct, &v.URL, &v.Title, &v.FromVisit); err != nil {
			return nil, err
		}
		v.Time = FromChromeTime(ct)
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
