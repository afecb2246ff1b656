package solrcloudx

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"strings"

	"github.com/mlibrary/solr-cloud-connection/httpx"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

const healthGreen = "GREEN"

// CommitMode selects between a soft and a hard commit.
type CommitMode int

const (
	SoftCommit CommitMode = iota
	HardCommit
)

// Collectioner is implemented by Collection and Alias. Operations on an Alias
// apply to the collection it points to at the time of the call.
type Collectioner interface {
	Named
	fmt.Stringer

	IsAlias() bool
	Connection() *Connection

	Alive(ctx context.Context) (bool, error)
	Healthy(ctx context.Context) (bool, error)
	Info(ctx context.Context) (*CollectionInfo, error)
	ConfigSet(ctx context.Context) (ConfigSet, error)

	Aliases(ctx context.Context) ([]Alias, error)
	AliasNames(ctx context.Context) ([]string, error)
	GetAlias(ctx context.Context, name string) (Alias, bool, error)
	CreateAlias(ctx context.Context, name string, policy OverwritePolicy) (Alias, error)

	Commit(ctx context.Context, mode CommitMode) (Collectioner, error)
	AddDocuments(ctx context.Context, docs ...any) error
	Count(ctx context.Context) (int64, error)

	Delete(ctx context.Context) error
}

// Collection is a handle on a collection by name. It holds no state besides
// the name, two handles with the same name and connection are equal.
type Collection struct {
	name string
	conn *Connection
}

var _ Collectioner = Collection{}

func (c Collection) Name() string {
	return c.name
}

func (c Collection) IsAlias() bool {
	return false
}

func (c Collection) Connection() *Connection {
	return c.conn
}

func (c Collection) String() string {
	return fmt.Sprintf("<Collection '%s'>", c.name)
}

// Describe is String with the names of the aliases pointing to the collection.
func (c Collection) Describe(ctx context.Context) (string, error) {
	names, err := c.AliasNames(ctx)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return c.String(), nil
	}
	quoted := lo.Map(names, func(n string, _ int) string { return "'" + n + "'" })
	return fmt.Sprintf("<Collection '%s' (aliased by %s)>", c.name, strings.Join(quoted, ", ")), nil
}

// Exists reports whether the collection is still present on the server.
func (c Collection) Exists(ctx context.Context) (bool, error) {
	return c.conn.CollectionExists(ctx, c.name)
}

// Alive pings the collection. A collection that doesn't exist isn't alive.
func (c Collection) Alive(ctx context.Context) (bool, error) {
	resp, err := c.conn.get(ctx, pathFor("solr", c.name, "admin", "ping"), nil)
	if err != nil {
		if httpx.IsStatusError(err, http.StatusNotFound) {
			return false, nil
		}
		return false, err
	}
	return gjson.GetBytes(resp.Body, "status").String() == "OK", nil
}

// Info returns the cluster status of the collection.
func (c Collection) Info(ctx context.Context) (*CollectionInfo, error) {
	resp, err := c.conn.get(ctx, pathFor("api", "collections", c.name), nil)
	if err != nil {
		if httpx.IsStatusError(err, http.StatusNotFound) {
			return nil, noSuchCollectionError(c.name)
		}
		return nil, err
	}

	info, ok := parseCollectionInfo(c.name, resp.Body)
	if !ok {
		return nil, noSuchCollectionError(c.name)
	}
	return info, nil
}

// Healthy reports whether every replica of the collection is active.
func (c Collection) Healthy(ctx context.Context) (bool, error) {
	info, err := c.Info(ctx)
	if err != nil {
		return false, err
	}
	return info.Health == healthGreen, nil
}

// ConfigSet returns the configset the collection was created with.
func (c Collection) ConfigSet(ctx context.Context) (ConfigSet, error) {
	info, err := c.Info(ctx)
	if err != nil {
		return ConfigSet{}, err
	}
	return ConfigSet{name: info.ConfigName, conn: c.conn}, nil
}

// Aliases returns the aliases pointing to this collection, sorted by name.
func (c Collection) Aliases(ctx context.Context) ([]Alias, error) {
	names, err := c.AliasNames(ctx)
	if err != nil {
		return nil, err
	}
	return lo.Map(names, func(name string, _ int) Alias {
		return Alias{name: name, conn: c.conn}
	}), nil
}

func (c Collection) AliasNames(ctx context.Context) ([]string, error) {
	m, err := c.conn.AliasMap(ctx)
	if err != nil {
		return nil, err
	}
	names := lo.Keys(lo.PickByValues(m, []string{c.name}))
	slices.Sort(names)
	return names, nil
}

// GetAlias returns the alias only if it points to this collection.
func (c Collection) GetAlias(ctx context.Context, name string) (Alias, bool, error) {
	target, ok, err := c.conn.aliasTarget(ctx, name)
	if err != nil || !ok || target != c.name {
		return Alias{}, false, err
	}
	return Alias{name: name, conn: c.conn}, true, nil
}

// CreateAlias points a new alias at this collection.
func (c Collection) CreateAlias(ctx context.Context, name string, policy OverwritePolicy) (Alias, error) {
	return c.conn.CreateAlias(ctx, name, c.name, policy)
}

// Commit makes the indexed documents visible and returns the collection.
func (c Collection) Commit(ctx context.Context, mode CommitMode) (Collectioner, error) {
	q := url.Values{"softCommit": {"true"}}
	if mode == HardCommit {
		q = url.Values{"commit": {"true"}}
	}
	if _, err := c.conn.get(ctx, pathFor("solr", c.name, "update"), q); err != nil {
		return nil, err
	}
	return c, nil
}

// AddDocuments sends the documents to the json update handler without committing.
// A single slice or array argument is a list of documents.
func (c Collection) AddDocuments(ctx context.Context, docs ...any) error {
	docs = documentList(docs)
	if len(docs) == 0 {
		return nil
	}
	_, err := c.conn.do(ctx, &httpx.Request{
		Method: http.MethodPost,
		URL:    pathFor("solr", c.name, "update", "json"),
		Body:   docs,
	})
	return err
}

// documentList flattens a lone slice or array argument. Byte slices such as
// json.RawMessage are single documents.
func documentList(docs []any) []any {
	if len(docs) != 1 {
		return docs
	}
	v := reflect.ValueOf(docs[0])
	if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) || v.Type().Elem().Kind() == reflect.Uint8 {
		return docs
	}
	out := make([]any, v.Len())
	for i := range out {
		out[i] = v.Index(i).Interface()
	}
	return out
}

// Count returns the number of committed documents.
func (c Collection) Count(ctx context.Context) (int64, error) {
	resp, err := c.conn.get(ctx, pathFor("solr", c.name, "select"), url.Values{
		"q":    {"*:*"},
		"rows": {"0"},
	})
	if err != nil {
		return 0, err
	}
	return gjson.GetBytes(resp.Body, "response.numFound").Int(), nil
}

// Delete removes the collection and fails with ErrNoSuchCollection when it is
// already gone.
func (c Collection) Delete(ctx context.Context) error {
	exists, err := c.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		return noSuchCollectionError(c.name)
	}
	return c.conn.DeleteCollection(ctx, c.name)
}
