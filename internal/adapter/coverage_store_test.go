package adapter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mouse-blink/goistanbul/internal/coverage"
	m "github.com/mouse-blink/goistanbul/internal/model"
)

func recordWithHits(t *testing.T, path string, hits ...uint32) *coverage.FileCoverage {
	t.Helper()

	sc := coverage.NewSourceCoverage(path, false)
	for i := range hits {
		sc.NewStatement(m.NewRange(uint32(i+1), 0, uint32(i+1), 10))
	}

	fc := sc.Snapshot()
	copy(fc.S, hits)

	return fc
}

func mapOf(t *testing.T, records ...*coverage.FileCoverage) *coverage.CoverageMap {
	t.Helper()

	cm, err := coverage.CoverageMapFrom(records...)
	require.NoError(t, err)

	return cm
}

func hitsOf(t *testing.T, cm *coverage.CoverageMap, path string) []uint32 {
	t.Helper()

	fc, ok := cm.CoverageForFile(path)
	require.True(t, ok, "missing %s", path)

	return fc.S
}

func TestCoverageStore_SaveLoad(t *testing.T) {
	for _, name := range []string{"coverage.json", "coverage.json.gz"} {
		t.Run(name, func(t *testing.T) {
			store := NewCoverageStore()
			path := m.Path(filepath.Join(t.TempDir(), "nested", name))

			require.NoError(t, store.Save(path, mapOf(t, recordWithHits(t, "b.go", 1), recordWithHits(t, "a.go", 0, 2))))

			loaded, discarded, err := store.Load(path)
			require.NoError(t, err)
			assert.Empty(t, discarded)
			assert.Equal(t, []string{"b.go", "a.go"}, loaded.Files())
			assert.Equal(t, []uint32{0, 2}, hitsOf(t, loaded, "a.go"))

			_, err = os.Stat(string(path) + ".tmp")
			assert.True(t, os.IsNotExist(err))
		})
	}
}

func TestCoverageStore_SaveWritesCompressed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "coverage.json.gz")
	require.NoError(t, NewCoverageStore().Save(m.Path(path), mapOf(t, recordWithHits(t, "a.go", 1))))

	raw := readFileBytes(t, path)
	require.GreaterOrEqual(t, len(raw), 2)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2])
}

func TestCoverageStore_LoadDirectoryMerges(t *testing.T) {
	store := NewCoverageStore()
	dir := t.TempDir()

	require.NoError(t, store.Save(m.Path(filepath.Join(dir, "coverage-1.json")), mapOf(t, recordWithHits(t, "a.go", 1, 0))))
	require.NoError(t, store.Save(m.Path(filepath.Join(dir, "coverage-2.json.gz")), mapOf(t, recordWithHits(t, "a.go", 2, 5))))
	writeTestFile(t, filepath.Join(dir, "notes.txt"), "ignored")

	loaded, _, err := store.Load(m.Path(dir))
	require.NoError(t, err)
	assert.Equal(t, []uint32{3, 5}, hitsOf(t, loaded, "a.go"))
}

func TestCoverageStore_LoadDiscardsForeignSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "coverage.json")

	good, err := json.Marshal(mapOf(t, recordWithHits(t, "a.go", 1)))
	require.NoError(t, err)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(good, &doc))

	foreign := `{"path":"old.go","statementMap":{},"fnMap":{},"branchMap":{},"s":{},"f":{},"b":{},"_coverageSchema":"other"}`
	content := `{"a.go":` + string(doc["a.go"]) + `,"old.go":` + foreign + `}`
	writeTestFile(t, path, content)

	loaded, discarded, err := NewCoverageStore().Load(m.Path(path))
	require.NoError(t, err)
	assert.Equal(t, []string{"old.go"}, discarded)
	assert.Equal(t, []string{"a.go"}, loaded.Files())
}

func TestCoverageStore_LoadErrors(t *testing.T) {
	store := NewCoverageStore()
	dir := t.TempDir()

	_, _, err := store.Load(m.Path(filepath.Join(dir, "missing.json")))
	assert.Error(t, err)

	broken := filepath.Join(dir, "broken.json")
	writeTestFile(t, broken, "{")
	_, _, err = store.Load(m.Path(broken))
	assert.Error(t, err)

	notGzip := filepath.Join(dir, "plain.json.gz")
	writeTestFile(t, notGzip, "{}")
	_, _, err = store.Load(m.Path(notGzip))
	assert.Error(t, err)

	a := filepath.Join(dir, "a.json")
	b := filepath.Join(dir, "b.json")
	require.NoError(t, store.Save(m.Path(a), mapOf(t, recordWithHits(t, "x.go", 1))))
	require.NoError(t, store.Save(m.Path(b), mapOf(t, recordWithHits(t, "x.go", 1, 1))))

	_, _, err = store.Load(m.Path(a), m.Path(b))
	assert.ErrorIs(t, err, coverage.ErrShapeMismatch)
}

func TestCoverageStore_MergeInto(t *testing.T) {
	store := NewCoverageStore()
	path := m.Path(filepath.Join(t.TempDir(), "merged", "coverage.json"))

	require.NoError(t, store.MergeInto(path, mapOf(t, recordWithHits(t, "a.go", 1))))
	require.NoError(t, store.MergeInto(path, mapOf(t, recordWithHits(t, "a.go", 2), recordWithHits(t, "b.go", 7))))

	loaded, _, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []uint32{3}, hitsOf(t, loaded, "a.go"))
	assert.Equal(t, []uint32{7}, hitsOf(t, loaded, "b.go"))
}

func TestCoverageStore_MergeIntoConcurrent(t *testing.T) {
	store := NewCoverageStore()
	path := m.Path(filepath.Join(t.TempDir(), "coverage.json"))

	var wg sync.WaitGroup

	errs := make(chan error, 8)

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			errs <- store.MergeInto(path, mapOf(t, recordWithHits(t, "a.go", 1)))
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	loaded, _, err := store.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []uint32{8}, hitsOf(t, loaded, "a.go"))
}
