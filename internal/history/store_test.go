package history

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "qflip.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func sampleRun(hash string) Run {
	return Run{
		Hash:      hash,
		Backend:   "local_qasm_simulator",
		Shots:     10,
		Seed:      1,
		Status:    "COMPLETED",
		Record:    `{"backends":["local_qasm_simulator"],"email":"N/A","result":{"00":5,"11":5}}`,
		CreatedAt: 1700000000,
	}
}

func TestOpenIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qflip.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())
}

func TestInsertAndGet(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	inserted, err := st.Insert(ctx, sampleRun("aaa"))
	require.NoError(t, err)
	assert.True(t, inserted)

	got, err := st.Get(ctx, "aaa")
	require.NoError(t, err)
	assert.Equal(t, sampleRun("aaa"), got)
}

func TestInsertIdempotentPerHash(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	inserted, err := st.Insert(ctx, sampleRun("aaa"))
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = st.Insert(ctx, sampleRun("aaa"))
	require.NoError(t, err)
	assert.False(t, inserted)

	runs, err := st.List(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestListEmptyIsNotNil(t *testing.T) {
	st := openTestStore(t)

	runs, err := st.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestListDeterministicOrder(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	// Same created_at: ties broken by hash.
	b := sampleRun("bbb")
	a := sampleRun("aaa")
	_, err := st.Insert(ctx, b)
	require.NoError(t, err)
	_, err = st.Insert(ctx, a)
	require.NoError(t, err)

	earlier := sampleRun("zzz")
	earlier.CreatedAt = 1600000000
	_, err = st.Insert(ctx, earlier)
	require.NoError(t, err)

	runs, err := st.List(ctx)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "zzz", runs[0].Hash)
	assert.Equal(t, "aaa", runs[1].Hash)
	assert.Equal(t, "bbb", runs[2].Hash)
}

func TestGetMissing(t *testing.T) {
	st := openTestStore(t)

	_, err := st.Get(context.Background(), "nope")
	require.Error(t, err)
}
