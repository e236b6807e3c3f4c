package objectstore

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchsync/fetchsync/conduit"
	"github.com/fetchsync/fetchsync/conduit/plugins"
	"github.com/fetchsync/fetchsync/conduit/plugins/exporters"
	"github.com/fetchsync/fetchsync/conduit/plugins/tools/testutil"
	"github.com/fetchsync/fetchsync/data"
	"github.com/fetchsync/fetchsync/objstore"
	"github.com/fetchsync/fetchsync/util"
)

const (
	speechA = "https://www.federalreserve.gov/newsevents/speech/powell20240110a.htm"
	speechB = "https://www.federalreserve.gov/newsevents/speech/waller20240116a.htm"
)

type failingStore struct {
	objstore.Store
}

func (failingStore) Put(context.Context, string, []byte, string) error {
	return errors.New("access denied")
}

func makeExporter(t *testing.T, dir string) *objectStoreExporter {
	logger, _ := test.NewNullLogger()
	builder, err := exporters.ExporterBuilderByName(exporterName)
	require.NoError(t, err)
	exp := builder.New().(*objectStoreExporter)
	cfg := "kind: file\ndir: " + dir + "\nknown-key: known.txt\n"
	require.NoError(t, exp.Init(context.Background(), testutil.MockedInitProvider(time.Now()), plugins.MakePluginConfig(cfg), logger))
	return exp
}

func readObject(t *testing.T, dir, key string) string {
	store, err := objstore.NewFileStore(dir)
	require.NoError(t, err)
	body, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	return string(body)
}

func TestExporterInterfaces(t *testing.T) {
	assert.Implements(t, (*conduit.Finisher)(nil), &objectStoreExporter{})
	assert.Implements(t, (*conduit.PluginMetrics)(nil), &objectStoreExporter{})
}

func TestExporterDefaults(t *testing.T) {
	exp := makeExporter(t, t.TempDir())
	assert.Equal(t, DefaultNameMarker, exp.cfg.NameMarker)
	assert.Equal(t, DefaultFolder, exp.cfg.Folder)
	assert.Equal(t, "known.txt", exp.cfg.KnownKey)
}

func TestExporterSync(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder(http.MethodGet, speechA, httpmock.NewStringResponder(200, "<html>a</html>"))
	httpmock.RegisterResponder(http.MethodGet, speechB, httpmock.NewStringResponder(200, "<html>b</html>"))

	dir := t.TempDir()
	exp := makeExporter(t, dir)
	batch := data.Batch{Seq: 1, Links: []string{speechA, speechB}, Delta: []string{speechB}}
	require.NoError(t, exp.Receive(batch))

	assert.Equal(t, "<html>b</html>", readObject(t, dir, "speeches/waller20240116a.htm"))
	assert.Equal(t, 0, httpmock.GetCallCountInfo()["GET "+speechA])

	require.NoError(t, exp.OnFinish())
	assert.Equal(t, speechA+"\n"+speechB, readObject(t, dir, "known.txt"))
	require.NoError(t, exp.Close())
}

func TestExporterEmptyFeed(t *testing.T) {
	dir := t.TempDir()
	exp := makeExporter(t, dir)
	require.NoError(t, exp.Receive(data.Batch{Seq: 1}))
	require.NoError(t, exp.OnFinish())
	assert.Equal(t, "", readObject(t, dir, "known.txt"))
}

func TestExporterFetchFailureAborts(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder(http.MethodGet, speechA, httpmock.NewStringResponder(200, "a"))
	httpmock.RegisterResponder(http.MethodGet, speechB, httpmock.NewStringResponder(404, "missing"))

	dir := t.TempDir()
	exp := makeExporter(t, dir)
	batch := data.Batch{Seq: 1, Links: []string{speechA, speechB}, Delta: []string{speechA, speechB}}
	err := exp.Receive(batch)

	var statusErr *util.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	// completed uploads are kept
	assert.Equal(t, "a", readObject(t, dir, "speeches/powell20240110a.htm"))

	store, err := objstore.NewFileStore(dir)
	require.NoError(t, err)
	_, err = store.Get(context.Background(), "known.txt")
	assert.ErrorIs(t, err, objstore.ErrNotFound)
}

func TestExporterStoreFailure(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()
	httpmock.RegisterResponder(http.MethodGet, speechA, httpmock.NewStringResponder(200, "a"))

	logger, _ := test.NewNullLogger()
	exp := &objectStoreExporter{store: failingStore{}}
	require.NoError(t, exp.Init(context.Background(), testutil.MockedInitProvider(time.Now()), plugins.MakePluginConfig(""), logger))

	err := exp.Receive(data.Batch{Seq: 1, Links: []string{speechA}, Delta: []string{speechA}})
	assert.ErrorContains(t, err, "access denied")
	assert.ErrorContains(t, exp.OnFinish(), "rewriting known set recent_speeches.txt")
}

func TestExporterBadName(t *testing.T) {
	exp := makeExporter(t, t.TempDir())
	err := exp.Receive(data.Batch{Seq: 1, Links: []string{"https://a.example/"}, Delta: []string{"https://a.example/"}})
	assert.ErrorContains(t, err, "no path segment")
}

func TestExporterRejectsEscapingName(t *testing.T) {
	root := t.TempDir()
	exp := makeExporter(t, filepath.Join(root, "store"))
	link := "https://feed.example/newsevents/speech/../../../escaped.htm"

	err := exp.Receive(data.Batch{Seq: 1, Links: []string{link}, Delta: []string{link}})
	assert.ErrorContains(t, err, "leaving its folder")
	assert.NoFileExists(t, filepath.Join(root, "escaped.htm"))
	assert.Equal(t, 0, exp.stored)
}

func TestExporterNotInitialized(t *testing.T) {
	exp := &objectStoreExporter{}
	assert.Error(t, exp.Receive(data.Batch{}))
	assert.Error(t, exp.OnFinish())
}
