package snapshot

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"obesity-risk/internal/dataset"
)

type Repository interface {
	// CreateVersion writes t into a fresh table and registers s. An existing
	// table with the same name is replaced.
	CreateVersion(ctx context.Context, s *Snapshot, t *dataset.Table) error
	// ListTables returns the versioned tables of base, sorted by name.
	ListTables(ctx context.Context, base string) ([]string, error)
	// ListRegistered returns the registry entries of base, newest first.
	ListRegistered(ctx context.Context, base string) ([]Snapshot, error)
}

type postgresRepo struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) CreateVersion(ctx context.Context, s *Snapshot, t *dataset.Table) error {
	types := columnTypes(t)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, dropTableSQL(s.TableName)); err != nil {
		return fmt.Errorf("drop previous %s: %w", s.TableName, err)
	}
	if _, err := tx.ExecContext(ctx, createTableSQL(s.TableName, t.Columns, types)); err != nil {
		return fmt.Errorf("create %s: %w", s.TableName, err)
	}

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn(s.TableName, t.Columns...))
	if err != nil {
		return fmt.Errorf("prepare copy into %s: %w", s.TableName, err)
	}
	for i, row := range t.Rows {
		args, err := rowValues(row, types)
		if err != nil {
			stmt.Close()
			return fmt.Errorf("row %d: %w", i+1, err)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			stmt.Close()
			return fmt.Errorf("copy row %d: %w", i+1, err)
		}
	}
	if _, err := stmt.ExecContext(ctx); err != nil {
		stmt.Close()
		return fmt.Errorf("flush copy into %s: %w", s.TableName, err)
	}
	if err := stmt.Close(); err != nil {
		return fmt.Errorf("close copy into %s: %w", s.TableName, err)
	}

	const query = `
		INSERT INTO dataset_snapshots (id, table_name, base_name, source, row_count, columns, created_at)
		VALUES (:id, :table_name, :base_name, :source, :row_count, :columns, :created_at)
		ON CONFLICT (table_name) DO UPDATE SET
			id = EXCLUDED.id,
			source = EXCLUDED.source,
			row_count = EXCLUDED.row_count,
			columns = EXCLUDED.columns,
			created_at = EXCLUDED.created_at`
	if _, err := tx.NamedExecContext(ctx, query, s); err != nil {
		return fmt.Errorf("register %s: %w", s.TableName, err)
	}

	return tx.Commit()
}

func (r *postgresRepo) ListTables(ctx context.Context, base string) ([]string, error) {
	const query = `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = current_schema() AND table_name LIKE $1 ESCAPE '\'
		ORDER BY table_name`

	var names []string
	if err := r.db.SelectContext(ctx, &names, query, LikePattern(base)); err != nil {
		return nil, fmt.Errorf("list snapshot tables: %w", err)
	}

	out := names[:0]
	for _, n := range names {
		if IsVersionOf(base, n) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (r *postgresRepo) ListRegistered(ctx context.Context, base string) ([]Snapshot, error) {
	const query = `
		SELECT id, table_name, base_name, source, row_count, columns, created_at
		FROM dataset_snapshots
		WHERE base_name = $1
		ORDER BY created_at DESC`

	var out []Snapshot
	if err := r.db.SelectContext(ctx, &out, query, base); err != nil {
		return nil, fmt.Errorf("list registered snapshots: %w", err)
	}
	return out, nil
}
