package solrcloudx

import (
	"context"
	"fmt"
)

// Alias is a handle on an alias by name. Every call resolves the collection
// the alias points to again.
type Alias struct {
	name string
	conn *Connection
}

var _ Collectioner = Alias{}

func (a Alias) Name() string {
	return a.name
}

func (a Alias) IsAlias() bool {
	return true
}

func (a Alias) Connection() *Connection {
	return a.conn
}

func (a Alias) String() string {
	return fmt.Sprintf("<Alias '%s'>", a.name)
}

// Describe is String with the current target of the alias.
func (a Alias) Describe(ctx context.Context) (string, error) {
	target, err := a.Target(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<Alias '%s' (alias of '%s')>", a.name, target.Name()), nil
}

func (a Alias) Exists(ctx context.Context) (bool, error) {
	return a.conn.AliasExists(ctx, a.name)
}

// Target returns the collection the alias points to, or an ErrNoSuchAlias
// error when the alias is gone.
func (a Alias) Target(ctx context.Context) (Collection, error) {
	return a.conn.CollectionForAlias(ctx, a.name)
}

// Retarget points the alias at another collection, which must exist.
func (a Alias) Retarget(ctx context.Context, target Named) error {
	name := target.Name()
	exists, err := a.conn.CollectionExists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return noSuchCollectionError(name)
	}
	_, err = a.conn.CreateAlias(ctx, a.name, name, OverwriteForce)
	return err
}

// Delete removes the alias. It does nothing when the alias is already gone.
func (a Alias) Delete(ctx context.Context) error {
	return a.conn.DeleteAlias(ctx, a.name)
}

func (a Alias) Alive(ctx context.Context) (bool, error) {
	t, err := a.Target(ctx)
	if err != nil {
		return false, err
	}
	return t.Alive(ctx)
}

func (a Alias) Healthy(ctx context.Context) (bool, error) {
	t, err := a.Target(ctx)
	if err != nil {
		return false, err
	}
	return t.Healthy(ctx)
}

func (a Alias) Info(ctx context.Context) (*CollectionInfo, error) {
	t, err := a.Target(ctx)
	if err != nil {
		return nil, err
	}
	return t.Info(ctx)
}

func (a Alias) ConfigSet(ctx context.Context) (ConfigSet, error) {
	t, err := a.Target(ctx)
	if err != nil {
		return ConfigSet{}, err
	}
	return t.ConfigSet(ctx)
}

// Aliases returns every alias of the target collection, this one included.
func (a Alias) Aliases(ctx context.Context) ([]Alias, error) {
	t, err := a.Target(ctx)
	if err != nil {
		return nil, err
	}
	return t.Aliases(ctx)
}

func (a Alias) AliasNames(ctx context.Context) ([]string, error) {
	t, err := a.Target(ctx)
	if err != nil {
		return nil, err
	}
	return t.AliasNames(ctx)
}

func (a Alias) GetAlias(ctx context.Context, name string) (Alias, bool, error) {
	t, err := a.Target(ctx)
	if err != nil {
		return Alias{}, false, err
	}
	return t.GetAlias(ctx, name)
}

// CreateAlias points a new alias at the target collection.
func (a Alias) CreateAlias(ctx context.Context, name string, policy OverwritePolicy) (Alias, error) {
	t, err := a.Target(ctx)
	if err != nil {
		return Alias{}, err
	}
	return t.CreateAlias(ctx, name, policy)
}

// Commit commits the target collection and returns the alias.
func (a Alias) Commit(ctx context.Context, mode CommitMode) (Collectioner, error) {
	t, err := a.Target(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := t.Commit(ctx, mode); err != nil {
		return nil, err
	}
	return a, nil
}

func (a Alias) AddDocuments(ctx context.Context, docs ...any) error {
	t, err := a.Target(ctx)
	if err != nil {
		return err
	}
	return t.AddDocuments(ctx, docs...)
}

func (a Alias) Count(ctx context.Context) (int64, error) {
	t, err := a.Target(ctx)
	if err != nil {
		return 0, err
	}
	return t.Count(ctx)
}
