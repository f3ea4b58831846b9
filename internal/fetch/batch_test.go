// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package fetch

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/boundary-fetch/pkg/types"
)

const beijingOutline = `# [北京市](110000)
## [市辖区](110100)
- [东城区](110101)
  - [东华门街道](110101001)
    - [多福巷社区](110101001001)
- [西城区](110102)
`

func writeOutline(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func beijingSite() *fakeSite {
	site := newFakeSite()
	site.addNode("110000", "110000", geoJSON("北京市"))
	site.addNode("110100", "110100", geoJSON("市辖区"))
	site.addNode("110101", "110101", geoJSON("东城区"))
	site.addNode("110101001", "110101001", geoJSON("东华门街道"))
	site.addVillage("北京市市辖区东城区东华门街道多福巷社区", "110101001001", geoJSON("多福巷社区"))
	site.reject("110102", "data not available")
	return site
}

func TestProcessFile(t *testing.T) {
	site := beijingSite()
	ts := newSiteServer(t, site)
	in, out := t.TempDir(), t.TempDir()
	path := writeOutline(t, in, "beijing.md", beijingOutline)
	log, errLog := testLogger()

	res := ProcessFile(context.Background(), testConfig(ts.URL, out), path, log)

	assert.Empty(t, res.SessionError)
	assert.Empty(t, res.ReadError)
	require.Len(t, res.Nodes, 6)
	assert.Equal(t, 5, res.Count(types.StatusSaved))
	assert.Equal(t, 1, res.Count(types.StatusLookupFailed))

	for _, want := range []string{
		filepath.Join(out, "110000_北京市.json"),
		filepath.Join(out, "北京市", "110100_市辖区.json"),
		filepath.Join(out, "北京市", "市辖区", "110101_东城区.json"),
		filepath.Join(out, "北京市", "市辖区", "东城区", "110101001_东华门街道.json"),
		filepath.Join(out, "北京市", "市辖区", "东城区", "东华门街道", "北京市市辖区东城区东华门街道多福巷社区.json"),
	} {
		assert.FileExists(t, want)
	}
	assert.NoFileExists(t, filepath.Join(out, "北京市", "市辖区", "110102_西城区.json"))
	assert.Contains(t, errLog.String(), "data not available")
	assert.Equal(t, 1, site.warmupCount())
}

func TestProcessFileRerunIsIdempotent(t *testing.T) {
	site := beijingSite()
	ts := newSiteServer(t, site)
	in, out := t.TempDir(), t.TempDir()
	path := writeOutline(t, in, "beijing.md", beijingOutline)
	log, _ := testLogger()
	cfg := testConfig(ts.URL, out)

	ProcessFile(context.Background(), cfg, path, log)
	target := filepath.Join(out, "北京市", "市辖区", "110101_东城区.json")
	first, err := os.ReadFile(target)
	require.NoError(t, err)

	ProcessFile(context.Background(), cfg, path, log)
	second, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	entries, err := os.ReadDir(filepath.Join(out, "北京市", "市辖区"))
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{"110101_东城区.json", "东城区"}, names)
}

func TestProcessFileWarmupFailureSkipsFile(t *testing.T) {
	ts := httptest.NewServer(beijingSite().router())
	url := ts.URL
	ts.Close()

	in, out := t.TempDir(), t.TempDir()
	path := writeOutline(t, in, "beijing.md", beijingOutline)
	log, errLog := testLogger()

	res := ProcessFile(context.Background(), testConfig(url, out), path, log)
	assert.NotEmpty(t, res.SessionError)
	assert.Empty(t, res.Nodes)
	assert.Contains(t, errLog.String(), "session warm-up failed")
}

func TestProcessFileMissingOutline(t *testing.T) {
	ts := newSiteServer(t, beijingSite())
	log, _ := testLogger()

	res := ProcessFile(context.Background(), testConfig(ts.URL, t.TempDir()), filepath.Join(t.TempDir(), "gone.md"), log)
	assert.NotEmpty(t, res.ReadError)
	assert.Empty(t, res.Nodes)
}

func TestProcessFileJumpToVillage(t *testing.T) {
	site := newFakeSite()
	site.addNode("110000", "110000", geoJSON("北京市"))
	site.addVillage("北京市多福巷社区", "v", geoJSON("v"))
	ts := newSiteServer(t, site)
	in, out := t.TempDir(), t.TempDir()
	path := writeOutline(t, in, "jump.md", "# [北京市](110000)\n    - [多福巷社区](110101001001)\n")
	log, _ := testLogger()

	res := ProcessFile(context.Background(), testConfig(ts.URL, out), path, log)
	require.Len(t, res.Nodes, 2)
	assert.Equal(t, []string{"北京市", "多福巷社区"}, res.Nodes[1].Path)
	assert.FileExists(t, filepath.Join(out, "北京市", "北京市多福巷社区.json"))
}

func TestRunFreshSessionPerFile(t *testing.T) {
	site := beijingSite()
	site.addNode("120000", "120000", geoJSON("天津市"))
	ts := newSiteServer(t, site)
	in, out := t.TempDir(), t.TempDir()
	files := []string{
		writeOutline(t, in, "a.md", beijingOutline),
		writeOutline(t, in, "b.md", "# [天津市](120000)\n"),
	}
	log, _ := testLogger()

	summary := Run(context.Background(), testConfig(ts.URL, out), files, log)
	require.Len(t, summary.Files, 2)
	assert.Equal(t, 7, summary.Total())
	assert.Equal(t, 6, summary.Count(types.StatusSaved))
	assert.Equal(t, 1, summary.Failed())
	assert.Equal(t, 2, site.warmupCount())
	assert.False(t, summary.Finished.Before(summary.Started))
}

func TestRunNoFiles(t *testing.T) {
	log, errLog := testLogger()
	summary := Run(context.Background(), testConfig("http://127.0.0.1:1", t.TempDir()), nil, log)
	assert.Empty(t, summary.Files)
	assert.Contains(t, errLog.String(), "no outline files found")
}

func TestRunStopsOnCancel(t *testing.T) {
	site := beijingSite()
	ts := newSiteServer(t, site)
	in, out := t.TempDir(), t.TempDir()
	files := []string{
		writeOutline(t, in, "a.md", beijingOutline),
		writeOutline(t, in, "b.md", beijingOutline),
	}
	cfg := testConfig(ts.URL, out)
	cfg.NodeDelay = time.Hour
	log, _ := testLogger()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	start := time.Now()
	summary := Run(ctx, cfg, files, log)
	assert.Less(t, time.Since(start), 10*time.Second)
	require.Len(t, summary.Files, 1)
	assert.Len(t, summary.Files[0].Nodes, 1)
}

func TestPause(t *testing.T) {
	require.NoError(t, pause(context.Background(), 0))
	require.NoError(t, pause(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, pause(ctx, time.Hour), context.Canceled)
}

func TestInputs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"c.md", "a.md", "b.md", "notes.txt"} {
		writeOutline(t, dir, name, "")
	}
	files, err := Inputs(filepath.Join(dir, "*.md"))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.md"),
		filepath.Join(dir, "b.md"),
		filepath.Join(dir, "c.md"),
	}, files)

	_, err = Inputs("[")
	assert.Error(t, err)
}
