package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
)

// Dedupe is the fingerprint set the pipeline consults.
type Dedupe interface {
	Seen(ctx context.Context, fp string) (bool, error)
	Remember(ctx context.Context, fp string) error
}

// Fingerprints is the persistent, append-only set of postings already
// forwarded. Entries never expire on their own; see Prune.
type Fingerprints struct {
	db  *sql.DB
	now func() time.Time
}

var _ Dedupe = (*Fingerprints)(nil)

func NewFingerprints(db *DB) *Fingerprints {
	return &Fingerprints{db: db.Pool, now: time.Now}
}

func (f *Fingerprints) Seen(ctx context.Context, fp string) (bool, error) {
	query, args, err := sq.Select("1").From("fingerprints").Where(sq.Eq{"h": fp}).Limit(1).ToSql()
	if err != nil {
		return false, err
	}

	var one int
	err = f.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup fingerprint: %w", err)
	}
	return true, nil
}

// Remember records fp. Recording an existing fingerprint is a no-op.
func (f *Fingerprints) Remember(ctx context.Context, fp string) error {
	query, args, err := sq.Insert("fingerprints").
		Options("OR IGNORE").
		Columns("h", "first_seen").
		Values(fp, f.now().UTC().Format(time.RFC3339)).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := f.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("remember fingerprint: %w", err)
	}
	return nil
}

// Prune deletes fingerprints first seen before cutoff.
func (f *Fingerprints) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := sq.Delete("fingerprints").
		Where(sq.Lt{"first_seen": cutoff.UTC().Format(time.RFC3339)}).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := f.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("prune fingerprints: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (f *Fingerprints) Count(ctx context.Context) (int64, error) {
	query, args, err := sq.Select("COUNT(*)").From("fingerprints").ToSql()
	if err != nil {
		return 0, err
	}
	var n int64
	if err := f.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
