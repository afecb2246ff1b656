package command

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	solrcloudxtest "github.com/mlibrary/solr-cloud-connection/solrcloudx/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testFixture struct {
	server *solrcloudxtest.Server
	args   []string
}

func newTestFixture(t *testing.T, opts ...solrcloudxtest.Option) *testFixture {
	t.Helper()
	server := solrcloudxtest.NewServer(t, opts...)
	return &testFixture{
		server: server,
		args:   []string{"--url", server.URL, "--log-level", "off"},
	}
}

type result struct {
	code   int
	stdout string
	stderr string
}

func (f *testFixture) run(t *testing.T, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := Execute(context.Background(), append(append([]string{}, f.args...), args...), &stdout, &stderr)
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func (f *testFixture) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	r := f.run(t, args...)
	require.Equal(t, 0, r.code, r.stderr)
	return r.stdout
}

func writeConfDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "solrconfig.xml"), []byte("<config/>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "managed-schema.xml"), []byte("<schema/>"), 0o600))
	return dir
}

func TestVersion(t *testing.T) {
	f := newTestFixture(t)

	out := f.mustRun(t, "version")
	assert.Equal(t, "solr "+solrcloudxtest.DefaultVersion+" (solrcloud) at "+f.server.URL+"\n", out)
}

func TestWalkthrough(t *testing.T) {
	f := newTestFixture(t)
	dir := writeConfDir(t)

	assert.Equal(t, "cs\n", f.mustRun(t, "configsets", "create", "cs", dir))
	assert.Equal(t, "cs\n", f.mustRun(t, "configsets", "list"))

	r := f.run(t, "configsets", "create", "cs", dir)
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "won't replace configset 'cs' unless forced")
	f.mustRun(t, "configsets", "create", "--force", "cs", dir)

	assert.Equal(t, "c1\n", f.mustRun(t, "collections", "create", "c1", "--configset", "cs"))
	f.mustRun(t, "collections", "create", "c2", "-c", "cs", "--shards", "2")

	assert.Equal(t, "<Alias 'a' (alias of 'c1')>\n", f.mustRun(t, "aliases", "create", "a", "c1"))
	assert.Equal(t, "a -> c1\n", f.mustRun(t, "aliases", "list"))
	assert.Equal(t, "c1\nc2\n", f.mustRun(t, "collections", "list"))
	assert.Equal(t, "a\nc1\nc2\n", f.mustRun(t, "collections", "list", "--with-aliases"))
	assert.Equal(t, "<Collection 'c1' (aliased by 'a')>\n<Collection 'c2'>\n", f.mustRun(t, "collections", "list", "--long"))
	assert.Equal(t, "c1\nc2\n", f.mustRun(t, "configsets", "in-use", "cs"))

	r = f.run(t, "aliases", "create", "a", "c2")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "alias 'a' already points to collection 'c1'; won't overwrite without force")

	r = f.run(t, "collections", "delete", "c1")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "in use by aliases [a]")

	assert.Equal(t, "<Alias 'a' (alias of 'c2')>\n", f.mustRun(t, "aliases", "retarget", "a", "c2"))
	f.mustRun(t, "collections", "delete", "c1")

	r = f.run(t, "configsets", "delete", "cs")
	assert.Equal(t, 1, r.code)
	assert.Contains(t, r.stderr, "can't be deleted")

	f.mustRun(t, "aliases", "delete", "a")
	f.mustRun(t, "aliases", "delete", "a")
	f.mustRun(t, "collections", "delete", "c2")
	f.mustRun(t, "configsets", "delete", "cs")
	assert.Empty(t, f.mustRun(t, "configsets", "list"))
}

func TestCollections(t *testing.T) {
	t.Run("should index, commit and count", func(t *testing.T) {
		f := newTestFixture(t,
			solrcloudxtest.WithConfigSet("cs", nil),
			solrcloudxtest.WithCollection("books", "cs"),
			solrcloudxtest.WithAlias("library", "books"),
		)
		docs := writeDocs(t, `[{"id":"1"},{"id":"2"},{"id":"3"}]`)

		assert.Equal(t, "3\n", f.mustRun(t, "collections", "index", "library", docs))
		assert.Equal(t, "0\n", f.mustRun(t, "collections", "count", "books"))
		f.mustRun(t, "collections", "commit", "library", "--hard")
		assert.Equal(t, "3\n", f.mustRun(t, "collections", "count", "library"))

		assert.Equal(t, "1\n", f.mustRun(t, "collections", "index", "books", writeDocs(t, `[{"id":"4"}]`), "--commit"))
		assert.Equal(t, "4\n", f.mustRun(t, "collections", "count", "books"))
	})

	t.Run("should reject files that are not arrays", func(t *testing.T) {
		f := newTestFixture(t, solrcloudxtest.WithConfigSet("cs", nil), solrcloudxtest.WithCollection("books", "cs"))

		r := f.run(t, "collections", "index", "books", writeDocs(t, `{"id":"1"}`))
		assert.Equal(t, 1, r.code)
		assert.Contains(t, r.stderr, "must hold a JSON array")
	})

	t.Run("should report health", func(t *testing.T) {
		f := newTestFixture(t, solrcloudxtest.WithConfigSet("cs", nil), solrcloudxtest.WithCollection("books", "cs"))
		f.server.SetHealth("books", "YELLOW")

		assert.Equal(t, "alive: true\nhealth: YELLOW\n", f.mustRun(t, "collections", "health", "books"))
	})

	t.Run("should refuse to delete an alias as a collection", func(t *testing.T) {
		f := newTestFixture(t,
			solrcloudxtest.WithConfigSet("cs", nil),
			solrcloudxtest.WithCollection("books", "cs"),
			solrcloudxtest.WithAlias("library", "books"),
		)

		r := f.run(t, "collections", "delete", "library")
		assert.Equal(t, 1, r.code)
		assert.Contains(t, r.stderr, "'library' is an alias")
	})

	t.Run("should fail on missing collections", func(t *testing.T) {
		f := newTestFixture(t)

		r := f.run(t, "collections", "count", "missing")
		assert.Equal(t, 1, r.code)
		assert.Contains(t, r.stderr, "collection 'missing' doesn't exist")
	})

	t.Run("should log where the failure was raised when debugging", func(t *testing.T) {
		f := newTestFixture(t)

		r := f.run(t, "--log-level", "debug", "collections", "count", "missing")
		assert.Equal(t, 1, r.code)
		assert.Contains(t, r.stderr, "command failed")
		assert.Contains(t, r.stderr, "exception.stacktrace")
		assert.Contains(t, r.stderr, "errors.go")
	})

	t.Run("should require a configset", func(t *testing.T) {
		f := newTestFixture(t)

		r := f.run(t, "collections", "create", "books")
		assert.Equal(t, 1, r.code)
		assert.Contains(t, r.stderr, "configset")
	})
}

func writeDocs(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "docs.json")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return p
}

func TestWait(t *testing.T) {
	t.Run("should return once healthy", func(t *testing.T) {
		f := newTestFixture(t, solrcloudxtest.WithConfigSet("cs", nil), solrcloudxtest.WithCollection("books", "cs"))

		assert.Equal(t, "books is healthy\n", f.mustRun(t, "wait", "books", "--interval", "10ms"))
	})

	t.Run("should give up on unhealthy collections", func(t *testing.T) {
		f := newTestFixture(t, solrcloudxtest.WithConfigSet("cs", nil), solrcloudxtest.WithCollection("books", "cs"))
		f.server.SetHealth("books", "RED")

		r := f.run(t, "wait", "books", "--interval", "10ms", "--max-wait", "100ms")
		assert.Equal(t, 1, r.code)
		assert.Contains(t, r.stderr, "'books' is not healthy after 100ms")
	})

	t.Run("should give up on missing collections", func(t *testing.T) {
		f := newTestFixture(t)

		r := f.run(t, "wait", "missing", "--interval", "10ms", "--max-wait", "50ms")
		assert.Equal(t, 1, r.code)
		assert.Contains(t, r.stderr, "is not healthy")
	})
}

func TestConfiguration(t *testing.T) {
	t.Run("should require a url", func(t *testing.T) {
		t.Setenv("SOLR_URL", "")
		var stdout, stderr bytes.Buffer

		code := Execute(context.Background(), []string{"configsets", "list"}, &stdout, &stderr)

		assert.Equal(t, 1, code)
		assert.Contains(t, stderr.String(), "the configuration is invalid")
	})

	t.Run("should read a config file", func(t *testing.T) {
		server := solrcloudxtest.NewServer(t, solrcloudxtest.WithCredentials("solr", "SolrRocks"), solrcloudxtest.WithConfigSet("cs", nil))
		cfg := filepath.Join(t.TempDir(), "solrctl.yaml")
		require.NoError(t, os.WriteFile(cfg, []byte("url: "+server.URL+"\nuser: solr\npassword: SolrRocks\nlog_level: \"off\"\n"), 0o600))
		var stdout, stderr bytes.Buffer

		code := Execute(context.Background(), []string{"--config", cfg, "configsets", "list"}, &stdout, &stderr)

		require.Equal(t, 0, code, stderr.String())
		assert.Equal(t, "cs\n", stdout.String())
	})

	t.Run("should report rejected credentials", func(t *testing.T) {
		f := newTestFixture(t, solrcloudxtest.WithCredentials("solr", "SolrRocks"))

		r := f.run(t, "--user", "solr", "--password", "nope", "configsets", "list")
		assert.Equal(t, 1, r.code)
		assert.Contains(t, r.stderr, "rejected the credentials")
	})

	t.Run("should stay quiet without tracing", func(t *testing.T) {
		f := newTestFixture(t, solrcloudxtest.WithConfigSet("cs", nil))

		r := f.run(t, "configsets", "list")
		require.Equal(t, 0, r.code, r.stderr)
		assert.Equal(t, "cs\n", r.stdout)
		assert.Empty(t, r.stderr)
	})

	t.Run("should print spans when tracing", func(t *testing.T) {
		f := newTestFixture(t)

		r := f.run(t, "--trace", "configsets", "list")
		require.Equal(t, 0, r.code, r.stderr)
		assert.Contains(t, r.stderr, "solrcloudx.Connection.Connect")
		assert.Contains(t, r.stderr, "HTTP GET")
	})
}
