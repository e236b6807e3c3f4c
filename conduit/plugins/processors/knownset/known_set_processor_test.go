package knownset

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fetchsync/fetchsync/conduit/plugins"
	"github.com/fetchsync/fetchsync/conduit/plugins/processors"
	"github.com/fetchsync/fetchsync/conduit/plugins/tools/testutil"
	"github.com/fetchsync/fetchsync/data"
	"github.com/fetchsync/fetchsync/objstore"
)

type failingStore struct{}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, errors.New("access denied")
}

func (failingStore) Put(context.Context, string, []byte, string) error {
	return errors.New("access denied")
}

func fileStoreConfig(dir string) string {
	return "kind: file\ndir: " + dir + "\nknown-key: known.txt\n"
}

func initProcessor(t *testing.T, cfg string) processors.Processor {
	logger, _ := test.NewNullLogger()
	builder, err := processors.ProcessorBuilderByName(implementationName)
	require.NoError(t, err)
	p := builder.New()
	require.NoError(t, p.Init(context.Background(), testutil.MockedInitProvider(time.Now()), plugins.MakePluginConfig(cfg), logger))
	return p
}

func TestProcessorMetadata(t *testing.T) {
	p := &knownSetProcessor{}
	assert.Equal(t, implementationName, p.Metadata().Name)
}

func TestProcessDelta(t *testing.T) {
	dir := t.TempDir()
	store, err := objstore.NewFileStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Put(context.Background(), "known.txt", []byte("u1\nu2\n"), "text/plain"))

	p := initProcessor(t, fileStoreConfig(dir))
	out, err := p.Process(data.Batch{Seq: 1, Links: []string{"u3", "u1", "u4"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"u3", "u1", "u4"}, out.Links)
	assert.Equal(t, []string{"u3", "u4"}, out.Delta)
}

func TestMissingKnownSetIsEmpty(t *testing.T) {
	p := initProcessor(t, fileStoreConfig(t.TempDir()))
	out, err := p.Process(data.Batch{Seq: 1, Links: []string{"u1", "u2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, out.Delta)
}

func TestDefaultKnownKey(t *testing.T) {
	dir := t.TempDir()
	p := &knownSetProcessor{}
	logger, _ := test.NewNullLogger()
	require.NoError(t, p.Init(context.Background(), testutil.MockedInitProvider(time.Now()), plugins.MakePluginConfig("kind: file\ndir: "+dir), logger))
	assert.Equal(t, DefaultKnownKey, p.cfg.KnownKey)
	assert.Equal(t, objstore.KindFile, p.cfg.Store.Kind)
}

func TestInitStoreFailure(t *testing.T) {
	p := &knownSetProcessor{store: failingStore{}}
	logger, _ := test.NewNullLogger()
	err := p.Init(context.Background(), testutil.MockedInitProvider(time.Now()), plugins.MakePluginConfig(""), logger)
	assert.ErrorContains(t, err, "reading known set recent_speeches.txt: access denied")
}

func TestInitBadStoreKind(t *testing.T) {
	p := &knownSetProcessor{}
	logger, _ := test.NewNullLogger()
	err := p.Init(context.Background(), testutil.MockedInitProvider(time.Now()), plugins.MakePluginConfig("kind: ftp"), logger)
	assert.ErrorContains(t, err, `unknown object store kind "ftp"`)
}

func TestProcessWithoutInit(t *testing.T) {
	p := &knownSetProcessor{}
	_, err := p.Process(data.Batch{})
	assert.Error(t, err)
}
