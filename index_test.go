package parquet2bcf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexAbortRemovesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "variants.sqlite")

	iw, err := CreateIndex(path)
	require.NoError(t, err)
	require.NoError(t, iw.Add(VariantKey{"chr1", 100, "A", "T"}, 1))
	require.NoError(t, iw.Abort())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestIndexAbortAfterFinishKeepsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "variants.sqlite")
	bcfPath := filepath.Join(dir, "out.bcf")
	require.NoError(t, os.WriteFile(bcfPath, []byte("BCF\x02\x02"), 0o644))

	iw, err := CreateIndex(path)
	require.NoError(t, err)
	require.NoError(t, iw.Add(VariantKey{"chr1", 100, "A", "T"}, 3))
	require.NoError(t, iw.Finish(bcfPath))
	require.NoError(t, iw.Abort())

	idx, err := OpenIndex(path)
	require.NoError(t, err)
	defer idx.Close()

	variants, err := idx.Variants()
	require.NoError(t, err)
	require.Len(t, variants, 1)
	assert.Equal(t, 3, variants[0].NCarriers)
	assert.Equal(t, []byte("BCF\x02\x02"), idx.Metadata.FirstThousandBytes)
	assert.EqualValues(t, 5, idx.Metadata.FileSize)
}

func TestIndexFinishFailureRemovesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "variants.sqlite")

	iw, err := CreateIndex(path)
	require.NoError(t, err)
	require.NoError(t, iw.Add(VariantKey{"chr1", 100, "A", "T"}, 1))

	err = iw.Finish(filepath.Join(dir, "never-written.bcf"))
	require.ErrorIs(t, err, ErrIO)

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err), "half-built index is removed")
	assert.NoError(t, iw.Abort())
}

func TestCreateIndexReplacesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "variants.sqlite")
	require.NoError(t, os.WriteFile(path, []byte("not a database"), 0o644))

	iw, err := CreateIndex(path)
	require.NoError(t, err)
	require.NoError(t, iw.Abort())
}

func TestTimeScan(t *testing.T) {
	want := time.Unix(1700000000, 0)

	for _, v := range []interface{}{int64(1700000000), want, "1700000000", []byte("1700000000")} {
		var got Time
		require.NoError(t, got.Scan(v), "%T", v)
		assert.True(t, want.Equal(time.Time(got)), "%T", v)
	}

	var got Time
	assert.Error(t, got.Scan(3.5))

	value, err := Time(want).Value()
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), value)
}

func TestSQLiteURI(t *testing.T) {
	assert.Equal(t, "file:/tmp/x.sqlite", sqliteURI("/tmp/x.sqlite"))
	assert.Equal(t, "file:/tmp/x.sqlite", sqliteURI("file:/tmp/x.sqlite"))
}
