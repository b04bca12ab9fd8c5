// Package history tests exercise the store against real files in a temp dir.
package history

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
}

func TestAppendGetAndRemoveLast(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "history"))
	require.NoError(t, err)

	s.Append("select 1;")
	s.Append("select 2;")
	require.Equal(t, 2, s.Len())

	// Indexes are 1-based.
	line, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "select 1;", line)

	_, ok = s.Get(0)
	assert.False(t, ok)
	_, ok = s.Get(3)
	assert.False(t, ok)

	s.RemoveLast()
	assert.Equal(t, 1, s.Len())

	// RemoveLast on an empty store is a no-op.
	s.RemoveLast()
	s.RemoveLast()
	assert.Equal(t, 0, s.Len())
}

func TestLast(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "history"))
	require.NoError(t, err)
	for _, line := range []string{"a", "b", "c"} {
		s.Append(line)
	}

	recs := s.Last(2)
	require.Len(t, recs, 2)
	assert.Equal(t, Record{Index: 2, Line: "b"}, recs[0])
	assert.Equal(t, Record{Index: 3, Line: "c"}, recs[1])

	assert.Len(t, s.Last(0), 3)
	assert.Len(t, s.Last(10), 3)
}

func TestSearch(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "history"))
	require.NoError(t, err)
	s.Append("select * from users;")
	s.Append(".tables")
	s.Append("SELECT 1;")

	recs := s.Search(regexp.MustCompile(`^select`))
	require.Len(t, recs, 1, "matching is case-sensitive")
	assert.Equal(t, 1, recs[0].Index)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history")
	s, err := Load(path)
	require.NoError(t, err)
	s.Append("select 1;")
	s.Append("select 2;")
	require.NoError(t, s.Save())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	reloaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 2, reloaded.Len())
	line, _ := reloaded.Get(2)
	assert.Equal(t, "select 2;", line)
}

func TestSaveEmptyPathIsNoop(t *testing.T) {
	s := &Store{}
	s.Append("x")
	assert.NoError(t, s.Save())
}
