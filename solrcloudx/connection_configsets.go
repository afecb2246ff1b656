package solrcloudx

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/inhies/go-bytesize"
	"github.com/mlibrary/solr-cloud-connection/httpx"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const configSetsPath = "api/cluster/configs"

// OverwritePolicy decides what a create does when the name is already taken.
type OverwritePolicy int

const (
	// OverwriteRefuse fails with ErrWontOverwrite.
	OverwriteRefuse OverwritePolicy = iota
	// OverwriteForce replaces or rebinds the existing entity.
	OverwriteForce
)

func (p OverwritePolicy) String() string {
	if p == OverwriteForce {
		return "force"
	}
	return "refuse"
}

// ConfigSetNames lists the configsets known to the cluster.
func (c *Connection) ConfigSetNames(ctx context.Context) ([]string, error) {
	resp, err := c.get(ctx, configSetsPath, nil)
	if err != nil {
		return nil, err
	}
	return stringArray(gjson.GetBytes(resp.Body, "configSets")), nil
}

func (c *Connection) ConfigSets(ctx context.Context) ([]ConfigSet, error) {
	names, err := c.ConfigSetNames(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(names, func(name string, _ int) ConfigSet {
		return ConfigSet{name: name, conn: c}
	}), nil
}

func (c *Connection) ConfigSetExists(ctx context.Context, name string) (bool, error) {
	names, err := c.ConfigSetNames(ctx)
	if err != nil {
		return false, err
	}
	return slices.Contains(names, name), nil
}

// GetConfigSet returns the configset or false when it doesn't exist.
func (c *Connection) GetConfigSet(ctx context.Context, name string) (ConfigSet, bool, error) {
	ok, err := c.ConfigSetExists(ctx, name)
	if err != nil || !ok {
		return ConfigSet{}, false, err
	}
	return ConfigSet{name: name, conn: c}, true, nil
}

// ConfigSet returns the configset or an ErrNoSuchConfigSet error.
func (c *Connection) ConfigSet(ctx context.Context, name string) (ConfigSet, error) {
	cs, ok, err := c.GetConfigSet(ctx, name)
	if err != nil {
		return ConfigSet{}, err
	}
	if !ok {
		return ConfigSet{}, noSuchConfigSetError(name)
	}
	return cs, nil
}

// CreateConfigSet zips the files of confDir and uploads them as configset name.
func (c *Connection) CreateConfigSet(ctx context.Context, name, confDir string, policy OverwritePolicy) (ConfigSet, error) {
	ctx, span, l := c.instrument(ctx, "CreateConfigSet", trace.WithAttributes(
		attribute.String("solr.configset", name),
		attribute.String("solr.overwrite", policy.String()),
	))
	defer span.End()

	cs, err := c.createConfigSet(ctx, name, confDir, policy)
	if err != nil {
		return ConfigSet{}, recordError(span, err)
	}

	l.Info(ctx, "created configset", attribute.String("configset", name), attribute.String("dir", confDir))
	return cs, nil
}

func (c *Connection) createConfigSet(ctx context.Context, name, confDir string, policy OverwritePolicy) (ConfigSet, error) {
	if !LegalName(name) {
		return ConfigSet{}, illegalNameError(name)
	}

	exists, err := c.ConfigSetExists(ctx, name)
	if err != nil {
		return ConfigSet{}, err
	}
	if exists && policy != OverwriteForce {
		return ConfigSet{}, wontOverwriteError("won't replace configset '%s' unless forced", name)
	}

	payload, err := zipDir(confDir, c.zipLevel)
	if err != nil {
		return ConfigSet{}, err
	}
	size := attribute.String("size", bytesize.New(float64(len(payload))).String())
	trace.SpanFromContext(ctx).SetAttributes(size)
	c.logger.Debug(ctx, "zipped configset", attribute.String("configset", name), size)

	var query url.Values
	if policy == OverwriteForce {
		query = url.Values{"overwrite": {"true"}}
	}
	_, err = c.do(ctx, &httpx.Request{
		Method:          http.MethodPut,
		URL:             pathFor("api", "cluster", "configs", name),
		RawBody:         payload,
		ContentType:     httpx.ContentTypeOctetStream,
		QueryParameters: query,
	})
	if err != nil {
		return ConfigSet{}, err
	}

	return ConfigSet{name: name, conn: c}, nil
}

// DeleteConfigSet removes the configset. It does nothing when it doesn't
// exist and fails with ErrConfigSetInUse when a collection still uses it.
func (c *Connection) DeleteConfigSet(ctx context.Context, name string) error {
	ctx, span, l := c.instrument(ctx, "DeleteConfigSet", trace.WithAttributes(attribute.String("solr.configset", name)))
	defer span.End()

	exists, err := c.ConfigSetExists(ctx, name)
	if err != nil {
		return recordError(span, err)
	}
	if !exists {
		return nil
	}

	_, err = c.do(ctx, &httpx.Request{
		Method: http.MethodDelete,
		URL:    pathFor("api", "cluster", "configs", name),
	})
	if err != nil {
		if status, msg, ok := solrErrorMessage(err); ok && status == http.StatusBadRequest && isConfigSetInUseMessage(msg) {
			err = configSetInUseError(name, err)
		}
		return recordError(span, err)
	}

	l.Info(ctx, "deleted configset", attribute.String("configset", name))
	return nil
}

func isConfigSetInUseMessage(msg string) bool {
	msg = strings.ToLower(msg)
	return strings.Contains(msg, "not delete configset") || strings.Contains(msg, "in use")
}
