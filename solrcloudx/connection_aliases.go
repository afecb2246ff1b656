package solrcloudx

import (
	"context"
	"slices"

	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// AliasMap maps every alias name to the collection it points to.
func (c *Connection) AliasMap(ctx context.Context) (map[string]string, error) {
	resp, err := c.get(ctx, collectionsAdminPath, collectionsAdmin("LISTALIASES"))
	if err != nil {
		return nil, err
	}
	return stringMap(gjson.GetBytes(resp.Body, "aliases")), nil
}

// AliasNames returns the sorted alias names.
func (c *Connection) AliasNames(ctx context.Context) ([]string, error) {
	m, err := c.AliasMap(ctx)
	if err != nil {
		return nil, err
	}
	names := lo.Keys(m)
	slices.Sort(names)
	return names, nil
}

func (c *Connection) Aliases(ctx context.Context) ([]Alias, error) {
	names, err := c.AliasNames(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(names, func(name string, _ int) Alias {
		return Alias{name: name, conn: c}
	}), nil
}

func (c *Connection) AliasExists(ctx context.Context, name string) (bool, error) {
	_, ok, err := c.aliasTarget(ctx, name)
	return ok, err
}

// GetAlias returns the alias or false when it doesn't exist.
func (c *Connection) GetAlias(ctx context.Context, name string) (Alias, bool, error) {
	ok, err := c.AliasExists(ctx, name)
	if err != nil || !ok {
		return Alias{}, false, err
	}
	return Alias{name: name, conn: c}, true, nil
}

// Alias returns the alias or an ErrNoSuchAlias error.
func (c *Connection) Alias(ctx context.Context, name string) (Alias, error) {
	a, ok, err := c.GetAlias(ctx, name)
	if err != nil {
		return Alias{}, err
	}
	if !ok {
		return Alias{}, noSuchAliasError(name)
	}
	return a, nil
}

// CollectionForAlias returns the collection the alias currently points to.
func (c *Connection) CollectionForAlias(ctx context.Context, name string) (Collection, error) {
	target, ok, err := c.aliasTarget(ctx, name)
	if err != nil {
		return Collection{}, err
	}
	if !ok {
		return Collection{}, noSuchAliasError(name)
	}
	return Collection{name: target, conn: c}, nil
}

func (c *Connection) aliasTarget(ctx context.Context, name string) (string, bool, error) {
	m, err := c.AliasMap(ctx)
	if err != nil {
		return "", false, err
	}
	target, ok := m[name]
	return target, ok, nil
}

// CreateAlias points alias name at collectionName. With OverwriteRefuse an
// existing alias of that name is an ErrWontOverwrite error, with
// OverwriteForce it is rebound.
func (c *Connection) CreateAlias(ctx context.Context, name, collectionName string, policy OverwritePolicy) (Alias, error) {
	ctx, span, l := c.instrument(ctx, "CreateAlias", trace.WithAttributes(
		attribute.String("solr.alias", name),
		attribute.String("solr.collection", collectionName),
		attribute.String("solr.overwrite", policy.String()),
	))
	defer span.End()

	if err := c.checkNewAlias(ctx, name, collectionName, policy); err != nil {
		return Alias{}, recordError(span, err)
	}

	_, err := c.get(ctx, collectionsAdminPath, collectionsAdmin("CREATEALIAS", "name", name, "collections", collectionName))
	if err != nil {
		return Alias{}, recordError(span, err)
	}

	l.Info(ctx, "created alias", attribute.String("alias", name), attribute.String("collection", collectionName))
	return Alias{name: name, conn: c}, nil
}

func (c *Connection) checkNewAlias(ctx context.Context, name, collectionName string, policy OverwritePolicy) error {
	if !LegalName(name) {
		return illegalNameError(name)
	}

	exists, err := c.CollectionExists(ctx, collectionName)
	if err != nil {
		return err
	}
	if !exists {
		return noSuchCollectionError(collectionName)
	}

	current, ok, err := c.aliasTarget(ctx, name)
	if err != nil {
		return err
	}
	if ok && policy != OverwriteForce {
		return wontOverwriteError("alias '%s' already points to collection '%s'; won't overwrite without force", name, current)
	}
	return nil
}

// DeleteAlias removes the alias. It does nothing when it doesn't exist.
func (c *Connection) DeleteAlias(ctx context.Context, name string) error {
	ctx, span, l := c.instrument(ctx, "DeleteAlias", trace.WithAttributes(attribute.String("solr.alias", name)))
	defer span.End()

	exists, err := c.AliasExists(ctx, name)
	if err != nil {
		return recordError(span, err)
	}
	if !exists {
		return nil
	}

	if _, err := c.get(ctx, collectionsAdminPath, collectionsAdmin("DELETEALIAS", "name", name)); err != nil {
		return recordError(span, err)
	}

	l.Info(ctx, "deleted alias", attribute.String("alias", name))
	return nil
}
