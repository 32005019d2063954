package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obesity-risk/internal/dataset"
)

type fakeRepo struct {
	created []*Snapshot
	tables  []string
	err     error
}

func (f *fakeRepo) CreateVersion(_ context.Context, s *Snapshot, _ *dataset.Table) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, s)
	f.tables = append(f.tables, s.TableName)
	return nil
}

func (f *fakeRepo) ListTables(context.Context, string) ([]string, error) {
	return f.tables, f.err
}

func (f *fakeRepo) ListRegistered(context.Context, string) ([]Snapshot, error) {
	out := make([]Snapshot, 0, len(f.created))
	for _, s := range f.created {
		out = append(out, *s)
	}
	return out, f.err
}

func newTestService(t *testing.T, repo Repository) *Service {
	t.Helper()
	svc, err := NewService(repo, "obesity_silver", zerolog.Nop())
	require.NoError(t, err)
	svc.now = func() time.Time { return time.Date(2025, 3, 7, 9, 5, 0, 0, time.UTC) }
	return svc
}

const csvBody = "genero,idade\nFemale,21\nMale,23\n"

func TestService_Save(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo)
	tbl, err := dataset.Read(strings.NewReader(csvBody))
	require.NoError(t, err)

	snap, err := svc.Save(context.Background(), tbl, "upload")
	require.NoError(t, err)

	assert.Equal(t, "obesity_silver_20250307_0905", snap.TableName)
	assert.Equal(t, 2, snap.RowCount)
	assert.Equal(t, []string{"genero", "idade"}, []string(snap.Columns))
	require.Len(t, repo.created, 1)

	v, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"obesity_silver_20250307_0905"}, v.Tables)
	assert.Len(t, v.Snapshots, 1)
}

func TestService_SaveErrors(t *testing.T) {
	svc := newTestService(t, &fakeRepo{err: errors.New("connection refused")})

	_, err := svc.Save(context.Background(), &dataset.Table{}, "x")
	assert.ErrorIs(t, err, ErrEmptyDataset)

	tbl, _ := dataset.Read(strings.NewReader(csvBody))
	_, err = svc.Save(context.Background(), tbl, "x")
	assert.ErrorContains(t, err, "connection refused")

	_, err = NewService(&fakeRepo{}, "Bad Name", zerolog.Nop())
	assert.ErrorIs(t, err, ErrInvalidName)
}

func TestService_ListEmpty(t *testing.T) {
	v, err := newTestService(t, &fakeRepo{}).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, v.Tables)
	assert.NotNil(t, v.Snapshots)
}

func TestHandler(t *testing.T) {
	datasetPath := filepath.Join(t.TempDir(), "obesity_gold.csv")
	repo := &fakeRepo{}
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(newTestService(t, repo), datasetPath, zerolog.Nop()))

	// configured dataset missing
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/snapshots", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// uploaded CSV
	req := httptest.NewRequest(http.MethodPost, "/snapshots", bytes.NewBufferString(csvBody))
	req.Header.Set("Content-Type", "text/csv; charset=utf-8")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "upload", snap.Source)

	// configured dataset present
	require.NoError(t, os.WriteFile(datasetPath, []byte(csvBody), 0o644))
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/snapshots", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/snapshots", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var v Versions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	assert.Equal(t, "obesity_silver", v.BaseName)
	assert.Len(t, v.Snapshots, 2)
}

func TestHandler_ServerErrorsHideCause(t *testing.T) {
	repo := &fakeRepo{err: errors.New(`pq: relation "dataset_snapshots" does not exist`)}
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(newTestService(t, repo), filepath.Join(t.TempDir(), "gold.csv"), zerolog.Nop()))

	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/snapshots", nil),
		func() *http.Request {
			req := httptest.NewRequest(http.MethodPost, "/snapshots", strings.NewReader(csvBody))
			req.Header.Set("Content-Type", "text/csv")
			return req
		}(),
	} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code, req.Method)
		assert.NotContains(t, rec.Body.String(), "pq:", req.Method)
		assert.NotContains(t, rec.Body.String(), "detail", req.Method)
	}
}
