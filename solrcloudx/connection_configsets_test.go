package solrcloudx

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/mlibrary/solr-cloud-connection/errorx"
	solrcloudxtest "github.com/mlibrary/solr-cloud-connection/solrcloudx/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnection_ConfigSets(t *testing.T) {
	t.Run("should create a configset from a directory", func(t *testing.T) {
		f := newTestFixture(t)
		name := randomName("cs")

		cs, err := f.conn.CreateConfigSet(f.ctx, name, writeConfDir(t), OverwriteRefuse)
		require.NoError(t, err)
		assert.Equal(t, name, cs.Name())
		assert.Equal(t, f.conn, cs.Connection())

		names, err := f.conn.ConfigSetNames(f.ctx)
		require.NoError(t, err)
		assert.Contains(t, names, name)

		files, ok := f.server.ConfigSetFiles(name)
		require.True(t, ok)
		assert.Len(t, files, len(confFiles))
		for entry, content := range confFiles {
			assert.Equal(t, content, string(files[entry]), entry)
		}

		r, ok := f.server.LastRequest(http.MethodPut, "/api/cluster/configs/"+name)
		require.True(t, ok)
		assert.Empty(t, r.Query.Get("overwrite"))
	})

	t.Run("should refuse to overwrite unless forced", func(t *testing.T) {
		f := newTestFixture(t)
		cs := f.createConfigSet(t)

		_, err := f.conn.CreateConfigSet(f.ctx, cs.Name(), writeConfDir(t), OverwriteRefuse)
		assert.ErrorIs(t, err, ErrWontOverwrite)
		assert.True(t, errorx.IsAlreadyExistsError(err))

		dir := writeConfDir(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, "extra.txt"), []byte("x"), 0o600))
		_, err = f.conn.CreateConfigSet(f.ctx, cs.Name(), dir, OverwriteForce)
		require.NoError(t, err)

		files, _ := f.server.ConfigSetFiles(cs.Name())
		assert.Contains(t, files, "extra.txt")
		r, _ := f.server.LastRequest(http.MethodPut, "/api/cluster/configs/"+cs.Name())
		assert.Equal(t, "true", r.Query.Get("overwrite"))
	})

	t.Run("should reject illegal names", func(t *testing.T) {
		f := newTestFixture(t)

		_, err := f.conn.CreateConfigSet(f.ctx, "bad name", writeConfDir(t), OverwriteRefuse)
		assert.ErrorIs(t, err, ErrIllegalName)
		assert.True(t, errorx.IsInvalidArgumentError(err))
	})

	t.Run("should fail on a missing directory", func(t *testing.T) {
		f := newTestFixture(t)

		_, err := f.conn.CreateConfigSet(f.ctx, randomName("cs"), filepath.Join(t.TempDir(), "nope"), OverwriteRefuse)
		assert.ErrorContains(t, err, "nope")
	})

	t.Run("should look up configsets", func(t *testing.T) {
		f := newTestFixture(t, solrcloudxtest.WithConfigSet("existing", map[string]string{"solrconfig.xml": ""}))

		ok, err := f.conn.ConfigSetExists(f.ctx, "existing")
		require.NoError(t, err)
		assert.True(t, ok)

		cs, ok, err := f.conn.GetConfigSet(f.ctx, "existing")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "existing", cs.Name())

		_, ok, err = f.conn.GetConfigSet(f.ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = f.conn.ConfigSet(f.ctx, "missing")
		assert.ErrorIs(t, err, ErrNoSuchConfigSet)
		assert.True(t, errorx.IsNotFoundError(err))

		all, err := f.conn.ConfigSets(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, []ConfigSet{cs}, all)
	})

	t.Run("should delete configsets", func(t *testing.T) {
		f := newTestFixture(t)
		cs := f.createConfigSet(t)

		require.NoError(t, f.conn.DeleteConfigSet(f.ctx, cs.Name()))

		ok, err := f.conn.ConfigSetExists(f.ctx, cs.Name())
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("should ignore deleting a missing configset", func(t *testing.T) {
		f := newTestFixture(t)

		assert.NoError(t, f.conn.DeleteConfigSet(f.ctx, "missing"))
		_, sent := f.server.LastRequest(http.MethodDelete, "/api/cluster/configs/missing")
		assert.False(t, sent)
	})

	t.Run("should refuse to delete a configset in use until its collection is gone", func(t *testing.T) {
		f := newTestFixture(t)
		coll := f.createCollection(t)
		cs, err := coll.ConfigSet(f.ctx)
		require.NoError(t, err)

		err = f.conn.DeleteConfigSet(f.ctx, cs.Name())
		assert.ErrorIs(t, err, ErrConfigSetInUse)
		assert.True(t, errorx.IsFailedPreconditionError(err))
		assert.True(t, isConfigSetInUseMessage("Can not delete ConfigSet as it is currently being used by collection [x]"))

		require.NoError(t, coll.Delete(f.ctx))
		assert.NoError(t, f.conn.DeleteConfigSet(f.ctx, cs.Name()))
	})
}
