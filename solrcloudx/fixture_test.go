package solrcloudx

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	loggerxtest "github.com/mlibrary/solr-cloud-connection/loggerx/test"
	solrcloudxtest "github.com/mlibrary/solr-cloud-connection/solrcloudx/test"
	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	ctx    context.Context
	server *solrcloudxtest.Server
	conn   *Connection
}

func newTestFixture(t *testing.T, opts ...solrcloudxtest.Option) *testFixture {
	t.Helper()

	ctx := context.Background()
	server := solrcloudxtest.NewServer(t, opts...)

	conn, err := NewConnection(ctx, Config{URL: server.URL}, WithLogger(loggerxtest.NewTestLogger(t)))
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	return &testFixture{ctx: ctx, server: server, conn: conn}
}

// randomName returns a legal, unique solr name.
func randomName(prefix string) string {
	return prefix + "_" + strings.ToLower(ksuid.New().String())
}

var confFiles = map[string]string{
	"solrconfig.xml":     `<config><luceneMatchVersion>9.4</luceneMatchVersion></config>`,
	"managed-schema.xml": `<schema name="test" version="1.6"><uniqueKey>id</uniqueKey></schema>`,
	"lang/stopwords.txt": "a\nan\nthe\n",
}

func writeConfDir(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for name, content := range confFiles {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	}
	return dir
}

func (f *testFixture) createConfigSet(t *testing.T) ConfigSet {
	t.Helper()
	cs, err := f.conn.CreateConfigSet(f.ctx, randomName("cs"), writeConfDir(t), OverwriteRefuse)
	require.NoError(t, err)
	return cs
}

func (f *testFixture) createCollection(t *testing.T) Collection {
	t.Helper()
	coll, err := f.conn.CreateCollection(f.ctx, randomName("coll"), f.createConfigSet(t).Name(), nil)
	require.NoError(t, err)
	return coll
}
