package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"obesity-risk/internal/dataset"
)

var ErrEmptyDataset = errors.New("dataset has no columns")

// Versions is the listing answer: every versioned table found in the
// database plus the registry entries written by Save.
type Versions struct {
	BaseName  string     `json:"base_name"`
	Tables    []string   `json:"tables"`
	Snapshots []Snapshot `json:"snapshots"`
}

type Service struct {
	repo   Repository
	base   string
	logger zerolog.Logger
	now    func() time.Time
}

func NewService(repo Repository, base string, logger zerolog.Logger) (*Service, error) {
	if err := ValidateBaseName(base); err != nil {
		return nil, err
	}
	return &Service{repo: repo, base: base, logger: logger, now: time.Now}, nil
}

// Save writes t as a new version. Two saves within the same minute share a
// name; the later one replaces the earlier.
func (s *Service) Save(ctx context.Context, t *dataset.Table, source string) (*Snapshot, error) {
	if t == nil || len(t.Columns) == 0 {
		return nil, ErrEmptyDataset
	}

	at := s.now()
	name, err := VersionedTableName(s.base, at)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		ID:        uuid.New(),
		TableName: name,
		BaseName:  s.base,
		Source:    source,
		RowCount:  t.Len(),
		Columns:   append([]string(nil), t.Columns...),
		CreatedAt: at,
	}
	if err := s.repo.CreateVersion(ctx, snap, t); err != nil {
		s.logger.Error().Err(err).Str("table", name).Msg("snapshot save failed")
		return nil, fmt.Errorf("save snapshot %s: %w", name, err)
	}

	s.logger.Info().
		Str("table", name).
		Str("source", source).
		Int("rows", snap.RowCount).
		Msg("snapshot saved")
	return snap, nil
}

func (s *Service) List(ctx context.Context) (*Versions, error) {
	tables, err := s.repo.ListTables(ctx, s.base)
	if err != nil {
		return nil, err
	}
	registered, err := s.repo.ListRegistered(ctx, s.base)
	if err != nil {
		return nil, err
	}
	if tables == nil {
		tables = []string{}
	}
	if registered == nil {
		registered = []Snapshot{}
	}
	return &Versions{BaseName: s.base, Tables: tables, Snapshots: registered}, nil
}
