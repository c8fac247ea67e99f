package gtfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := openMemoryStore()
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	require.NoError(t, s.Exec("CREATE TABLE pets (name TEXT PRIMARY KEY, legs INTEGER);"))
	for _, p := range []struct {
		name string
		legs int
	}{{"cat", 4}, {"hen", 2}, {"snake", 0}} {
		require.NoError(t, s.Exec("INSERT INTO pets (name, legs) VALUES (?, ?);", p.name, p.legs))
	}
	return s
}

func TestStoreGetResult(t *testing.T) {
	s := newTestStore(t)

	v, err := s.GetResult("SELECT legs FROM pets WHERE name = ?;", "cat")
	require.NoError(t, err)
	assert.EqualValues(t, 4, v)

	v, err = s.GetResult("SELECT legs FROM pets WHERE name = ?;", "dog")
	require.NoError(t, err)
	assert.Nil(t, v, "no row yields nil, not an error")
}

func TestStoreGetResultList(t *testing.T) {
	s := newTestStore(t)

	names, err := s.GetResultList("SELECT name FROM pets ORDER BY name;")
	require.NoError(t, err)
	assert.Equal(t, []any{"cat", "hen", "snake"}, names)
}

func TestStoreGetResultDict(t *testing.T) {
	s := newTestStore(t)

	m, err := s.GetResultDict("SELECT name, legs FROM pets;")
	require.NoError(t, err)
	assert.EqualValues(t, 2, m["hen"])
	assert.EqualValues(t, 0, m["snake"])
}

func TestStoreGetRowDict(t *testing.T) {
	s := newTestStore(t)

	row, err := s.GetRowDict("SELECT name, legs FROM pets WHERE name = ?;", "hen")
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "hen", row["name"])
	assert.EqualValues(t, 2, row["legs"])

	row, err = s.GetRowDict("SELECT name, legs FROM pets WHERE name = ?;", "dog")
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestStoreEnumTablesSeeded(t *testing.T) {
	s := newTestStore(t)

	n, err := s.GetResult("SELECT count(*) FROM enum_location_type;")
	require.NoError(t, err)
	assert.EqualValues(t, 7, n)

	n, err = s.GetResult("SELECT count(*) FROM enum_boolean;")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}
