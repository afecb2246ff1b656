package configx

import (
	"encoding/json"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// MergeAllTypes deep merges src into dst. Objects are merged key by key,
// every other value, arrays included, replaces the one in dst.
func MergeAllTypes(src, dst map[string]any) error {
	rawSrc, err := json.Marshal(src)
	if err != nil {
		return errors.WithStack(err)
	}

	dstSrc, err := json.Marshal(dst)
	if err != nil {
		return errors.WithStack(err)
	}

	for key, value := range flatten(rawSrc) {
		dstSrc, err = sjson.SetBytes(dstSrc, key, value)
		if err != nil {
			return errors.WithStack(err)
		}
	}

	return errors.WithStack(json.Unmarshal(dstSrc, &dst))
}

// flatten maps every leaf of a JSON object to its escaped gjson/sjson path.
func flatten(raw []byte) map[string]any {
	out := make(map[string]any)

	var walk func(prefix string, r gjson.Result)
	walk = func(prefix string, r gjson.Result) {
		if !r.IsObject() {
			out[prefix] = r.Value()
			return
		}

		empty := true
		r.ForEach(func(key, value gjson.Result) bool {
			empty = false
			path := gjson.Escape(key.String())
			if prefix != "" {
				path = prefix + "." + path
			}
			walk(path, value)
			return true
		})
		if empty && prefix != "" {
			out[prefix] = map[string]any{}
		}
	}

	walk("", gjson.ParseBytes(raw))
	return out
}
