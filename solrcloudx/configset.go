package solrcloudx

import (
	"context"
	"errors"
	"fmt"
)

// ConfigSet is a handle on a configset by name.
type ConfigSet struct {
	name string
	conn *Connection
}

func (c ConfigSet) Name() string {
	return c.name
}

func (c ConfigSet) Connection() *Connection {
	return c.conn
}

func (c ConfigSet) String() string {
	return fmt.Sprintf("<ConfigSet '%s'>", c.name)
}

func (c ConfigSet) Exists(ctx context.Context) (bool, error) {
	return c.conn.ConfigSetExists(ctx, c.name)
}

// UsedBy returns the collections created with this configset.
func (c ConfigSet) UsedBy(ctx context.Context) ([]Collection, error) {
	collections, err := c.conn.Collections(ctx)
	if err != nil {
		return nil, err
	}

	var used []Collection
	for _, coll := range collections {
		cs, err := coll.ConfigSet(ctx)
		if errors.Is(err, ErrNoSuchCollection) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if cs.name == c.name {
			used = append(used, coll)
		}
	}
	return used, nil
}

// InUse reports whether any collection uses this configset.
func (c ConfigSet) InUse(ctx context.Context) (bool, error) {
	used, err := c.UsedBy(ctx)
	if err != nil {
		return false, err
	}
	return len(used) > 0, nil
}

// Delete removes the configset, see Connection.DeleteConfigSet.
func (c ConfigSet) Delete(ctx context.Context) error {
	return c.conn.DeleteConfigSet(ctx, c.name)
}
