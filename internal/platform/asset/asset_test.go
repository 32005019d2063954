package asset_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"obesity-risk/internal/platform/asset"
)

func TestStat(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "figure.png")
	require.NoError(t, os.WriteFile(present, []byte("png"), 0o644))

	assert.NoError(t, asset.Stat("figure", present))

	err := asset.Stat("figure", filepath.Join(dir, "missing.png"))
	require.Error(t, err)
	assert.ErrorIs(t, err, asset.ErrMissingAsset)

	var missing *asset.MissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "figure", missing.Name)

	assert.ErrorIs(t, asset.Stat("dir", dir), asset.ErrMissingAsset)
}

func TestWarningFor(t *testing.T) {
	w, ok := asset.WarningFor("shap", "SHAP chart not found", asset.Stat("shap", "/nonexistent/shap.png"))
	require.True(t, ok)
	assert.Equal(t, asset.Warning{Asset: "shap", Message: "SHAP chart not found"}, w)

	_, ok = asset.WarningFor("shap", "x", errors.New("disk on fire"))
	assert.False(t, ok)
}
