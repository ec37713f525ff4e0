package cache

import (
	"context"
	"database/sql"
	"time"
)

func dbGet(ctx context.Context, db *sql.DB, key string) ([]byte, time.Time, error) {
	var payload []byte
	var fetchedAt int64
	err := db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM query_cache WHERE key = ?`, key,
	).Scan(&payload, &fetchedAt)
	if err != nil {
		return nil, time.Time{}, err
	}
	return payload, time.Unix(fetchedAt, 0), nil
}

func dbPut(ctx context.Context, db *sql.DB, key string, payload []byte, fetchedAt time.Time) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO query_cache (key, payload, fetched_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, fetched_at = excluded.fetched_at`,
		key, payload, fetchedAt.Unix(),
	)
	return err
}

func dbDelete(ctx context.Context, db *sql.DB, key string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM query_cache WHERE key = ?`, key)
	return err
}

func dbDeletePrefix(ctx context.Context, db *sql.DB, prefix string) error {
	_, err := db.ExecContext(ctx, `DELETE FROM query_cache WHERE key LIKE ? || '%'`, prefix)
	return err
}
