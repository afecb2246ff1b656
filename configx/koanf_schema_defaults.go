package configx

import (
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// KoanfSchemaDefaults provides the "default" values declared in a JSON schema.
type KoanfSchemaDefaults struct {
	values map[string]any
}

var _ koanf.Provider = (*KoanfSchemaDefaults)(nil)

func NewKoanfSchemaDefaults(rawSchema []byte) (*KoanfSchemaDefaults, error) {
	if len(rawSchema) == 0 {
		return &KoanfSchemaDefaults{values: map[string]any{}}, nil
	}
	if !gjson.ValidBytes(rawSchema) {
		return nil, errors.New("the configuration schema is not valid JSON")
	}

	values := make(map[string]any)
	collectDefaults(gjson.ParseBytes(rawSchema), "", values)

	return &KoanfSchemaDefaults{values: values}, nil
}

func collectDefaults(node gjson.Result, prefix string, out map[string]any) {
	node.Get("properties").ForEach(func(key, prop gjson.Result) bool {
		path := key.String()
		if prefix != "" {
			path = prefix + Delimiter + path
		}
		if d := prop.Get("default"); d.Exists() {
			out[path] = d.Value()
		}
		collectDefaults(prop, path, out)
		return true
	})
}

func (k *KoanfSchemaDefaults) ReadBytes() ([]byte, error) {
	return nil, errors.New("schema defaults provider does not support this method")
}

func (k *KoanfSchemaDefaults) Read() (map[string]any, error) {
	return confmap.Provider(k.values, Delimiter).Read()
}
