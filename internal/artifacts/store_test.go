package artifacts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telephonyinc/incident-forecaster/internal/model"
	"github.com/telephonyinc/incident-forecaster/internal/schema"
)

func testArtifacts(t *testing.T) (*schema.Schema, *model.MinMaxScaler, *model.LinearModel) {
	t.Helper()

	s, err := schema.New([]string{"day", "month", "year", "Assignment_group_Network"})
	require.NoError(t, err)

	scaler := &model.MinMaxScaler{
		Min: []float64{1, 1, 2020, 0},
		Max: []float64{31, 12, 2030, 1},
	}

	m := &model.LinearModel{
		Weights: [][]float64{
			{0.1, 0.2, 0.3, 0.4},
			{0.5, 0.6, 0.7, 0.8},
			{0.9, 1.0, 1.1, 1.2},
			{1.3, 1.4, 1.5, 1.6},
		},
		Bias: []float64{0.01, 0.02, 0.03, 0.04},
	}

	return s, scaler, m
}

func TestStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	s, scaler, m := testArtifacts(t)
	require.NoError(t, store.Save(s, scaler, m))

	for _, name := range []string{ModelFile, ScalerFile, SchemaFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, "artifact %s not written", name)
	}

	loadedSchema, loadedScaler, loadedModel, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, s.Columns(), loadedSchema.Columns())
	assert.Equal(t, scaler.Min, loadedScaler.Min)
	assert.Equal(t, scaler.Max, loadedScaler.Max)
	assert.Equal(t, m.Weights, loadedModel.Weights)
	assert.Equal(t, m.Bias, loadedModel.Bias)
}

func TestStoreSaveCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "artifacts")
	store := NewStore(dir)

	s, scaler, m := testArtifacts(t)
	require.NoError(t, store.Save(s, scaler, m))

	_, _, _, err := store.Load()
	assert.NoError(t, err)
}

func TestStoreLoadMissingArtifact(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	s, scaler, m := testArtifacts(t)
	require.NoError(t, store.Save(s, scaler, m))
	require.NoError(t, os.Remove(filepath.Join(dir, ScalerFile)))

	_, _, _, err := store.Load()

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ScalerFile, loadErr.Artifact)
}

func TestStoreLoadCorruptArtifact(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	s, scaler, m := testArtifacts(t)
	require.NoError(t, store.Save(s, scaler, m))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ModelFile), []byte("not json"), 0644))

	_, _, _, err := store.Load()

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ModelFile, loadErr.Artifact)
}

func TestStoreLoadEmptyDirectory(t *testing.T) {
	store := NewStore(t.TempDir())

	_, _, _, err := store.Load()

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, SchemaFile, loadErr.Artifact)
}
