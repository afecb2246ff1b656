package solrcloudx

import (
	"context"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	collectionsPath      = "api/collections"
	collectionsAdminPath = "solr/admin/collections"
)

type CreateCollectionOptions struct {
	Shards            int
	ReplicationFactor int
}

func (o *CreateCollectionOptions) withDefaults() CreateCollectionOptions {
	out := CreateCollectionOptions{Shards: 1, ReplicationFactor: 1}
	if o == nil {
		return out
	}
	if o.Shards > 0 {
		out.Shards = o.Shards
	}
	if o.ReplicationFactor > 0 {
		out.ReplicationFactor = o.ReplicationFactor
	}
	return out
}

// CollectionNames lists the real collections of the cluster, aliases excluded.
func (c *Connection) CollectionNames(ctx context.Context) ([]string, error) {
	resp, err := c.get(ctx, collectionsPath, nil)
	if err != nil {
		return nil, err
	}
	return stringArray(gjson.GetBytes(resp.Body, "collections")), nil
}

func (c *Connection) Collections(ctx context.Context) ([]Collection, error) {
	names, err := c.CollectionNames(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(names, func(name string, _ int) Collection {
		return Collection{name: name, conn: c}
	}), nil
}

// CollectionExists reports whether name is a real collection. Aliases don't count.
func (c *Connection) CollectionExists(ctx context.Context, name string) (bool, error) {
	names, err := c.CollectionNames(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(names, name), nil
}

// CollectionAndAliasNames is the sorted union of collection and alias names,
// everything a query can be sent to.
func (c *Connection) CollectionAndAliasNames(ctx context.Context) ([]string, error) {
	collections, err := c.CollectionNames(ctx)
	if err != nil {
		return nil, err
	}
	aliases, err := c.AliasNames(ctx)
	if err != nil {
		return nil, err
	}

	names := lo.Union(collections, aliases)
	slices.Sort(names)
	return names, nil
}

// GetCollection returns an Alias when name is an alias, a Collection when it
// is a collection and false otherwise.
func (c *Connection) GetCollection(ctx context.Context, name string) (Collectioner, bool, error) {
	a, ok, err := c.GetAlias(ctx, name)
	if err != nil {
		return nil, false, err
	}
	if ok {
		return a, true, nil
	}

	exists, err := c.CollectionExists(ctx, name)
	if err != nil || !exists {
		return nil, false, err
	}
	return Collection{name: name, conn: c}, true, nil
}

// Collection is GetCollection failing with ErrNoSuchCollection.
func (c *Connection) Collection(ctx context.Context, name string) (Collectioner, error) {
	coll, ok, err := c.GetCollection(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, noSuchCollectionError(name)
	}
	return coll, nil
}

// CreateCollection creates a collection using an existing configset. A nil
// opts creates one shard with a replication factor of one.
func (c *Connection) CreateCollection(ctx context.Context, name, configSetName string, opts *CreateCollectionOptions) (Collection, error) {
	o := opts.withDefaults()

	ctx, span, l := c.instrument(ctx, "CreateCollection", trace.WithAttributes(
		attribute.String("solr.collection", name),
		attribute.String("solr.configset", configSetName),
		attribute.Int("solr.shards", o.Shards),
		attribute.Int("solr.replication_factor", o.ReplicationFactor),
	))
	defer span.End()

	if err := c.checkNewCollection(ctx, name, configSetName); err != nil {
		return Collection{}, recordError(span, err)
	}

	_, err := c.get(ctx, collectionsAdminPath, collectionsAdmin("CREATE",
		"name", name,
		"numShards", strconv.Itoa(o.Shards),
		"replicationFactor", strconv.Itoa(o.ReplicationFactor),
		"collection.configName", configSetName,
	))
	if err != nil {
		return Collection{}, recordError(span, err)
	}

	l.Info(ctx, "created collection", attribute.String("collection", name), attribute.String("configset", configSetName))
	return Collection{name: name, conn: c}, nil
}

func (c *Connection) checkNewCollection(ctx context.Context, name, configSetName string) error {
	if !LegalName(name) {
		return illegalNameError(name)
	}

	exists, err := c.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return wontOverwriteError("collection '%s' already exists", name)
	}

	target, isAlias, err := c.aliasTarget(ctx, name)
	if err != nil {
		return err
	}
	if isAlias {
		return wontOverwriteError("'%s' is already an alias of collection '%s'", name, target)
	}

	csExists, err := c.ConfigSetExists(ctx, configSetName)
	if err != nil {
		return err
	}
	if !csExists {
		return noSuchConfigSetError(configSetName)
	}
	return nil
}

// DeleteCollection removes the collection. It does nothing when it doesn't
// exist and fails with ErrCollectionAliased while aliases still point to it.
func (c *Connection) DeleteCollection(ctx context.Context, name string) error {
	ctx, span, l := c.instrument(ctx, "DeleteCollection", trace.WithAttributes(attribute.String("solr.collection", name)))
	defer span.End()

	exists, err := c.CollectionExists(ctx, name)
	if err != nil {
		return recordError(span, err)
	}
	if !exists {
		return nil
	}

	_, err = c.get(ctx, collectionsAdminPath, collectionsAdmin("DELETE", "name", name))
	if err != nil {
		if status, msg, ok := solrErrorMessage(err); ok && status == http.StatusBadRequest && strings.Contains(strings.ToLower(msg), "alias") {
			aliases, aliasErr := Collection{name: name, conn: c}.AliasNames(ctx)
			if aliasErr != nil {
				l.WithError(aliasErr).Debug(ctx, "unable to list aliases, reading them from solr's message", attribute.String("collection", name))
				aliases = aliasesFromMessage(msg)
			}
			err = collectionAliasedError(name, aliases, err)
		}
		return recordError(span, err)
	}

	l.Info(ctx, "deleted collection", attribute.String("collection", name))
	return nil
}
