package solrcloudx

import (
	"net/http"
	"testing"

	"github.com/mlibrary/solr-cloud-connection/errorx"
	solrcloudxtest "github.com/mlibrary/solr-cloud-connection/solrcloudx/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnection_Collections(t *testing.T) {
	t.Run("should create a collection", func(t *testing.T) {
		f := newTestFixture(t)
		cs := f.createConfigSet(t)
		name := randomName("coll")

		coll, err := f.conn.CreateCollection(f.ctx, name, cs.Name(), nil)
		require.NoError(t, err)
		assert.Equal(t, name, coll.Name())
		assert.False(t, coll.IsAlias())

		r, ok := f.server.LastRequest(http.MethodGet, "/solr/admin/collections")
		require.True(t, ok)
		assert.Equal(t, "CREATE", r.Query.Get("action"))
		assert.Equal(t, name, r.Query.Get("name"))
		assert.Equal(t, "1", r.Query.Get("numShards"))
		assert.Equal(t, "1", r.Query.Get("replicationFactor"))
		assert.Equal(t, cs.Name(), r.Query.Get("collection.configName"))

		ok, err = f.conn.CollectionExists(f.ctx, name)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("should pass shards and replication factor", func(t *testing.T) {
		f := newTestFixture(t)
		cs := f.createConfigSet(t)

		coll, err := f.conn.CreateCollection(f.ctx, randomName("coll"), cs.Name(), &CreateCollectionOptions{Shards: 2, ReplicationFactor: 3})
		require.NoError(t, err)

		info, err := coll.Info(f.ctx)
		require.NoError(t, err)
		assert.Len(t, info.Shards, 2)
		assert.Equal(t, 3, info.ReplicationFactor)
		assert.Equal(t, 3, info.Shards["shard1"].Replicas)
	})

	t.Run("should fail on a missing configset and create nothing", func(t *testing.T) {
		f := newTestFixture(t)
		name := randomName("coll")

		_, err := f.conn.CreateCollection(f.ctx, name, "missing", nil)
		assert.ErrorIs(t, err, ErrNoSuchConfigSet)

		names, err := f.conn.CollectionNames(f.ctx)
		require.NoError(t, err)
		assert.NotContains(t, names, name)
	})

	t.Run("should refuse existing names", func(t *testing.T) {
		f := newTestFixture(t)
		coll := f.createCollection(t)
		cs, err := coll.ConfigSet(f.ctx)
		require.NoError(t, err)

		_, err = f.conn.CreateCollection(f.ctx, coll.Name(), cs.Name(), nil)
		assert.ErrorIs(t, err, ErrWontOverwrite)
		assert.ErrorContains(t, err, "already exists")

		_, err = coll.CreateAlias(f.ctx, "taken", OverwriteRefuse)
		require.NoError(t, err)
		_, err = f.conn.CreateCollection(f.ctx, "taken", cs.Name(), nil)
		assert.ErrorIs(t, err, ErrWontOverwrite)
		assert.ErrorContains(t, err, "alias")
	})

	t.Run("should reject illegal names before calling solr", func(t *testing.T) {
		f := newTestFixture(t)

		_, err := f.conn.CreateCollection(f.ctx, "-dash", "whatever", nil)
		assert.ErrorIs(t, err, ErrIllegalName)
		assert.ErrorContains(t, err, "'-dash' is not a valid solr name")
	})

	t.Run("should list collections and aliases", func(t *testing.T) {
		f := newTestFixture(t,
			solrcloudxtest.WithConfigSet("cs", nil),
			solrcloudxtest.WithCollection("b", "cs"),
			solrcloudxtest.WithCollection("a", "cs"),
			solrcloudxtest.WithAlias("c", "a"),
		)

		names, err := f.conn.CollectionNames(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, names)

		all, err := f.conn.CollectionAndAliasNames(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b", "c"}, all)

		colls, err := f.conn.Collections(f.ctx)
		require.NoError(t, err)
		assert.Equal(t, []Collection{{name: "a", conn: f.conn}, {name: "b", conn: f.conn}}, colls)

		ok, err := f.conn.CollectionExists(f.ctx, "c")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("should resolve aliases when getting a collection", func(t *testing.T) {
		f := newTestFixture(t,
			solrcloudxtest.WithConfigSet("cs", nil),
			solrcloudxtest.WithCollection("a", "cs"),
			solrcloudxtest.WithAlias("c", "a"),
		)

		coll, ok, err := f.conn.GetCollection(f.ctx, "a")
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, Collection{name: "a", conn: f.conn}, coll)

		alias, ok, err := f.conn.GetCollection(f.ctx, "c")
		require.NoError(t, err)
		require.True(t, ok)
		assert.True(t, alias.IsAlias())
		assert.Equal(t, Alias{name: "c", conn: f.conn}, alias)

		_, ok, err = f.conn.GetCollection(f.ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)

		_, err = f.conn.Collection(f.ctx, "missing")
		assert.ErrorIs(t, err, ErrNoSuchCollection)
		assert.True(t, errorx.IsNotFoundError(err))
	})

	t.Run("should delete collections leniently", func(t *testing.T) {
		f := newTestFixture(t)
		coll := f.createCollection(t)

		require.NoError(t, f.conn.DeleteCollection(f.ctx, coll.Name()))
		assert.NoError(t, f.conn.DeleteCollection(f.ctx, coll.Name()))

		ok, err := coll.Exists(f.ctx)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("should refuse to delete an aliased collection", func(t *testing.T) {
		f := newTestFixture(t)
		coll := f.createCollection(t)
		_, err := coll.CreateAlias(f.ctx, "first", OverwriteRefuse)
		require.NoError(t, err)
		_, err = coll.CreateAlias(f.ctx, "second", OverwriteRefuse)
		require.NoError(t, err)

		err = f.conn.DeleteCollection(f.ctx, coll.Name())
		assert.ErrorIs(t, err, ErrCollectionAliased)
		assert.True(t, errorx.IsFailedPreconditionError(err))
		assert.ErrorContains(t, err, "in use by aliases [first, second]")

		ok, err := coll.Exists(f.ctx)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("should name the aliases from solr's refusal when they can't be listed", func(t *testing.T) {
		f := newTestFixture(t)
		coll := f.createCollection(t)
		_, err := coll.CreateAlias(f.ctx, "first", OverwriteRefuse)
		require.NoError(t, err)
		_, err = coll.CreateAlias(f.ctx, "second", OverwriteRefuse)
		require.NoError(t, err)
		f.server.FailAction("LISTALIASES", http.StatusInternalServerError)

		err = f.conn.DeleteCollection(f.ctx, coll.Name())
		assert.ErrorIs(t, err, ErrCollectionAliased)
		assert.ErrorContains(t, err, "in use by aliases [first, second]")
	})
}

func TestAliasesFromMessage(t *testing.T) {
	t.Run("should read comma separated aliases", func(t *testing.T) {
		msg := "Collection : books is part of aliases: [first, second], remove or modify the aliases before removing this collection."
		assert.Equal(t, []string{"first", "second"}, aliasesFromMessage(msg))
	})

	t.Run("should read space separated aliases", func(t *testing.T) {
		assert.Equal(t, []string{"a", "b"}, aliasesFromMessage("part of aliases: [a b]"))
	})

	t.Run("should return nothing without a list", func(t *testing.T) {
		assert.Empty(t, aliasesFromMessage("Could not find collection : books"))
		assert.Empty(t, aliasesFromMessage("part of aliases: []"))
	})
}
