// Package snapshot versions dataset layers in Postgres: every save creates a
// new table named <base>_YYYYMMDD_HHMM and records it in dataset_snapshots.
package snapshot

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Snapshot is one registered version.
type Snapshot struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	TableName string         `db:"table_name" json:"table_name"`
	BaseName  string         `db:"base_name" json:"base_name"`
	Source    string         `db:"source" json:"source"`
	RowCount  int            `db:"row_count" json:"row_count"`
	Columns   pq.StringArray `db:"columns" json:"columns"`
	CreatedAt time.Time      `db:"created_at" json:"created_at"`
}
