package jsonfile

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateStore_Fragment(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewStateStore(path)

	got, err := s.Fragment("/reports/a.json")
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.SetFragment("/reports/a.json", "#f-f1"))
	require.NoError(t, s.SetFragment("/reports/b.json", "#f-f9"))

	// a fresh store reads what the first one wrote
	reopened := NewStateStore(path)
	got, err = reopened.Fragment("/reports/a.json")
	require.NoError(t, err)
	assert.Equal(t, "#f-f1", got)

	require.NoError(t, reopened.SetFragment("/reports/a.json", ""))
	got, err = s.Fragment("/reports/a.json")
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = s.Fragment("/reports/b.json")
	require.NoError(t, err)
	assert.Equal(t, "#f-f9", got)
}

func TestStateStore_Location(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	s := NewStateStore(path)
	require.NoError(t, s.SetFragment("r.json", "#f-f2"))

	loc := s.Location("r.json")
	assert.Equal(t, "#f-f2", loc.Fragment())

	loc.SetFragment("#f-f3")
	assert.Equal(t, "#f-f3", loc.Fragment())

	got, err := NewStateStore(path).Fragment("r.json")
	require.NoError(t, err)
	assert.Equal(t, "#f-f3", got)

	loc.SetFragment("")
	got, err = NewStateStore(path).Fragment("r.json")
	require.NoError(t, err)
	assert.Empty(t, got)
}
