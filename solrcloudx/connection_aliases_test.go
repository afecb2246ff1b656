package solrcloudx

import (
	"testing"

	"github.com/mlibrary/solr-cloud-connection/errorx"
	solrcloudxtest "github.com/mlibrary/solr-cloud-connection/solrcloudx/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnection_Aliases(t *testing.T) {
	t.Run("should create and look up an alias", func(t *testing.T) {
		f := newTestFixture(t)
		coll := f.createCollection(t)

		alias, err := f.conn.CreateAlias(f.ctx, "current", coll.Name(), OverwriteRefuse)
		require.NoError(t, err)
		assert.Equal(t, "current", alias.Name())
		assert.True(t, alias.IsAlias())

		m, err := f.conn.AliasMap(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"current": coll.Name()}, m)

		ok, err := f.conn.AliasExists(f.ctx, "current")
		require.NoError(t, err)
		assert.True(t, ok)

		target, err := f.conn.CollectionForAlias(f.ctx, "current")
		require.NoError(t, err)
		assert.Equal(t, coll, target)
	})

	t.Run("should fail when the collection doesn't exist", func(t *testing.T) {
		f := newTestFixture(t)

		_, err := f.conn.CreateAlias(f.ctx, "current", "missing", OverwriteRefuse)
		assert.ErrorIs(t, err, ErrNoSuchCollection)
	})

	t.Run("should refuse to rebind without force and report the current target", func(t *testing.T) {
		f := newTestFixture(t)
		first := f.createCollection(t)
		second := f.createCollection(t)
		_, err := f.conn.CreateAlias(f.ctx, "current", first.Name(), OverwriteRefuse)
		require.NoError(t, err)

		_, err = f.conn.CreateAlias(f.ctx, "current", second.Name(), OverwriteRefuse)
		assert.ErrorIs(t, err, ErrWontOverwrite)
		assert.True(t, errorx.IsAlreadyExistsError(err))
		assert.ErrorContains(t, err, "alias 'current' already points to collection '"+first.Name()+"'; won't overwrite without force")

		_, err = f.conn.CreateAlias(f.ctx, "current", second.Name(), OverwriteForce)
		require.NoError(t, err)
		target, err := f.conn.CollectionForAlias(f.ctx, "current")
		require.NoError(t, err)
		assert.Equal(t, second.Name(), target.Name())
	})

	t.Run("should reject illegal alias names", func(t *testing.T) {
		f := newTestFixture(t)
		coll := f.createCollection(t)

		_, err := f.conn.CreateAlias(f.ctx, "no/slash", coll.Name(), OverwriteRefuse)
		assert.ErrorIs(t, err, ErrIllegalName)
	})

	t.Run("should list aliases sorted", func(t *testing.T) {
		f := newTestFixture(t,
			solrcloudxtest.WithConfigSet("cs", nil),
			solrcloudxtest.WithCollection("a", "cs"),
			solrcloudxtest.WithAlias("z", "a"),
			solrcloudxtest.WithAlias("y", "a"),
		)

		names, err := f.conn.AliasNames(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"y", "z"}, names)

		aliases, err := f.conn.Aliases(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, []Alias{{name: "y", conn: f.conn}, {name: "z", conn: f.conn}}, aliases)
	})

	t.Run("should distinguish lenient and strict lookups", func(t *testing.T) {
		f := newTestFixture(t)

		_, ok, err := f.conn.GetAlias(f.ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = f.conn.Alias(f.ctx, "missing")
		assert.ErrorIs(t, err, ErrNoSuchAlias)

		_, err = f.conn.CollectionForAlias(f.ctx, "missing")
		assert.ErrorIs(t, err, ErrNoSuchAlias)
	})

	t.Run("should delete aliases leniently", func(t *testing.T) {
		f := newTestFixture(t)
		coll := f.createCollection(t)
		_, err := coll.CreateAlias(f.ctx, "current", OverwriteRefuse)
		require.NoError(t, err)

		require.NoError(t, f.conn.DeleteAlias(f.ctx, "current"))
		assert.NoError(t, f.conn.DeleteAlias(f.ctx, "current"))

		ok, err := f.conn.AliasExists(f.ctx, "current")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}
