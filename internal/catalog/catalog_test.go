package catalog

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/skeleton-engine/internal/nml"
	"github.com/pdiddy/skeleton-engine/pkg/types"
)

// --- test helpers ---

func testSetup(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.CatalogConfig{Dir: filepath.Join(t.TempDir(), "catalog")})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleNodes() []types.Node {
	return []types.Node{
		{ID: 3, X: 6, Y: 11, Z: 8, TimeMS: 300},
		{ID: 1, X: 4, Y: 9, Z: 6, TimeMS: 100},
		{ID: 2, X: 5, Y: 10, Z: 7, TimeMS: 200},
	}
}

func scanResult(t *testing.T, file, content string) *nml.Result {
	t.Helper()
	res, err := nml.Scan(context.Background(), strings.NewReader(content), types.ScanConfig{})
	require.NoError(t, err)
	res.Properties.File = file
	return res
}

// --- schema ---

func TestNewStoreCreatesSchema(t *testing.T) {
	store := testSetup(t)

	for _, table := range []string{"files", "nodes"} {
		var count int
		err := store.db.QueryRow(
			`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
		).Scan(&count)
		require.NoError(t, err)
		assert.Equal(t, 1, count, "table %s", table)
	}
}

func TestNewStoreCreatesDBFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "catalog")
	store, err := NewStore(types.CatalogConfig{Dir: dir})
	require.NoError(t, err)
	defer store.Close()

	assert.FileExists(t, filepath.Join(dir, dbFile))
	assert.Equal(t, dir, store.Dir())
}

// --- put / query ---

func TestPutAndQuery(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	props := types.FileProperties{File: "skeleton.001.nml", NumNodes: 3, TimeMS: 595065}
	updated, err := store.Put(ctx, props, sampleNodes(), 1)
	require.NoError(t, err)
	assert.False(t, updated)

	files, err := store.Files(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "skeleton.001.nml", files[0].File)
	assert.Equal(t, 3, files[0].NumNodes)
	assert.Equal(t, 595065, files[0].TimeMS)
	assert.Equal(t, 3, files[0].Nodes)
	assert.Equal(t, 1, files[0].Malformed)
	assert.False(t, files[0].ScannedAt.IsZero())

	nodes, err := store.Nodes(ctx, "skeleton.001.nml")
	require.NoError(t, err)
	assert.Equal(t, sampleNodes(), nodes, "order preserved")
}

func TestPutReplaces(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()
	props := types.FileProperties{File: "a.nml"}

	_, err := store.Put(ctx, props, sampleNodes(), 0)
	require.NoError(t, err)

	updated, err := store.Put(ctx, props, sampleNodes()[:1], 0)
	require.NoError(t, err)
	assert.True(t, updated)

	nodes, err := store.Nodes(ctx, "a.nml")
	require.NoError(t, err)
	assert.Len(t, nodes, 1)

	files, err := store.Files(ctx)
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, 1, files[0].Nodes)
}

func TestPutDuplicateIDs(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	dups := []types.Node{{ID: 1, X: 1}, {ID: 1, X: 2}}
	_, err := store.Put(ctx, types.FileProperties{File: "dup.nml"}, dups, 0)
	require.NoError(t, err)

	nodes, err := store.Nodes(ctx, "dup.nml")
	require.NoError(t, err)
	assert.Equal(t, dups, nodes)
}

func TestPutEmptyPath(t *testing.T) {
	store := testSetup(t)
	_, err := store.Put(context.Background(), types.FileProperties{}, nil, 0)
	assert.Error(t, err)
}

func TestNodesUnknownFile(t *testing.T) {
	store := testSetup(t)
	nodes, err := store.Nodes(context.Background(), "missing.nml")
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestFilesBadScannedAt(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	_, err := store.Put(ctx, types.FileProperties{File: "a.nml"}, sampleNodes(), 0)
	require.NoError(t, err)
	_, err = store.db.Exec(`UPDATE files SET scanned_at = 'yesterday' WHERE path = ?`, "a.nml")
	require.NoError(t, err)

	_, err = store.Files(ctx)
	assert.ErrorContains(t, err, "parsing scanned_at for a.nml")
}

// --- ingest ---

func TestIngest(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	results := []*nml.Result{
		scanResult(t, "b.nml", `<activeNode id="1"/>`+"\n"+`<node id="1" radius="1" x="1" y="2" z="3" inVp="0" inMag="1" time="4"/>`),
		scanResult(t, "a.nml", `<node id="5"/>`),
	}

	var buf strings.Builder
	summary, err := store.Ingest(ctx, results, &buf)
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Indexed: 2}, summary)
	assert.Equal(t, 2, summary.Total())
	assert.Contains(t, buf.String(), "indexing b.nml (1 nodes)")

	files, err := store.Files(ctx)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.nml", files[0].File)
	assert.Equal(t, 0, files[0].Nodes)
	assert.Equal(t, 1, files[0].Malformed)
	assert.Equal(t, 1, files[1].NumNodes)

	buf.Reset()
	summary, err = store.Ingest(ctx, results[:1], &buf)
	require.NoError(t, err)
	assert.Equal(t, IngestSummary{Updated: 1}, summary)
	assert.Contains(t, buf.String(), "updated b.nml (1 nodes)")
}

func TestIngestCancelled(t *testing.T) {
	store := testSetup(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Ingest(ctx, []*nml.Result{scanResult(t, "a.nml", "")}, &strings.Builder{})
	assert.ErrorIs(t, err, context.Canceled)
}

// --- export ---

func TestExport(t *testing.T) {
	store := testSetup(t)
	ctx := context.Background()

	_, err := store.Put(ctx, types.FileProperties{File: "a.nml", NumNodes: 3, TimeMS: 9}, sampleNodes(), 0)
	require.NoError(t, err)

	t.Run("yaml", func(t *testing.T) {
		path, err := store.ExportYAML(ctx)
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(store.Dir(), "export.yaml"), path)

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var entries []ExportEntry
		require.NoError(t, yaml.Unmarshal(data, &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, "a.nml", entries[0].File)
		assert.Equal(t, 3, entries[0].NumNodes)
		assert.Equal(t, sampleNodes(), entries[0].NodeList)
	})

	t.Run("json", func(t *testing.T) {
		path, err := store.ExportJSON(ctx)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)

		var entries []map[string]any
		require.NoError(t, json.Unmarshal(data, &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, "a.nml", entries[0]["file"])
		assert.EqualValues(t, 9, entries[0]["time_ms"])
		assert.Len(t, entries[0]["node_list"], 3)
	})
}

// --- log ---

func TestAppendLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nodes.log")

	require.NoError(t, AppendLog(path, types.FileProperties{File: "skeleton.001.nml", NumNodes: 140, TimeMS: 595065}))
	require.NoError(t, AppendLog(path, types.FileProperties{File: "odd,name.nml", NumNodes: 2, TimeMS: 7}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "skeleton.001.nml,140,595065\n\"odd,name.nml\",2,7\n", string(data))
}

func TestAppendLogBadPath(t *testing.T) {
	err := AppendLog(filepath.Join(t.TempDir(), "missing", "x.log"), types.FileProperties{File: "a"})
	assert.Error(t, err)
}
