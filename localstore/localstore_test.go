package localstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ncc-robotics/workshop-survey/wire"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "fallback.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestReadBeforeFirstWrite(t *testing.T) {
	s := openTemp(t)

	records, err := s.Read(context.Background())
	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestWholesaleWriteAndRead(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	in := []wire.Record{
		{"id": "a", "name": "John Doe", "workshop_topics": []string{"arduino-basics"}},
		{"id": "b", "name": "Jane Smith", "created_at": "2025-01-08T14:15:00Z"},
	}
	require.NoError(t, s.Write(ctx, in))

	out, err := s.Read(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].ID())
	assert.Equal(t, "Jane Smith", out[1]["name"])

	// a second write replaces the list, it does not append
	require.NoError(t, s.Write(ctx, in[:1]))
	out, err = s.Read(ctx)
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestWriteNilClearsList(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	require.NoError(t, s.Write(ctx, []wire.Record{{"id": "a"}}))
	require.NoError(t, s.Write(ctx, nil))

	out, err := s.Read(ctx)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestCorruptValueSurfacesError(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO fallback (key, value) VALUES (?, ?)", submissionsKey, "{not json")
	require.NoError(t, err)

	_, err = s.Read(ctx)
	assert.Error(t, err)
}
