package solrcloudx

import (
	"strconv"
	"strings"

	"github.com/mlibrary/solr-cloud-connection/errorx"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
)

const cloudMode = "solrcloud"

// Version is the Solr version reported by the system info endpoint.
type Version struct {
	Major int
	Minor int
	Patch int
	Raw   string
}

func (v Version) String() string {
	return v.Raw
}

// ParseVersion reads versions such as "9.4.1" or "8.11.2 1a2b3c - builder - 2022-06-15".
func ParseVersion(raw string) (Version, error) {
	v := Version{Raw: raw}

	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return v, errorx.InvalidArgumentErrorf("empty solr version")
	}

	parts := strings.SplitN(fields[0], ".", 3)
	dst := []*int{&v.Major, &v.Minor, &v.Patch}
	for i, p := range parts {
		// Trailing qualifiers like "-SNAPSHOT" are ignored.
		p, _, _ = strings.Cut(p, "-")
		n, err := strconv.Atoi(p)
		if err != nil {
			return v, errorx.InvalidArgumentErrorf("invalid solr version %q", raw).WithOriginalError(err)
		}
		*dst[i] = n
	}
	return v, nil
}

// SystemInfo is the subset of solr/admin/info/system used to check compatibility.
type SystemInfo struct {
	Mode    string
	Version Version
	Raw     []byte
}

// IsCloud reports whether the node runs in SolrCloud mode.
func (s *SystemInfo) IsCloud() bool {
	return s.Mode == cloudMode
}

func parseSystemInfo(body []byte) (*SystemInfo, error) {
	if !gjson.ValidBytes(body) {
		return nil, errorx.InternalErrorf("system info response is not valid json")
	}

	r := gjson.ParseBytes(body)
	version, err := ParseVersion(r.Get("lucene.solr-spec-version").String())
	if err != nil {
		return nil, err
	}

	return &SystemInfo{
		Mode:    r.Get("mode").String(),
		Version: version,
		Raw:     body,
	}, nil
}

// ShardInfo describes one shard of a collection.
type ShardInfo struct {
	Name     string
	Range    string
	State    string
	Health   string
	Replicas int
}

// CollectionInfo is the cluster status of a single collection.
type CollectionInfo struct {
	Name              string
	ConfigName        string
	Health            string
	ReplicationFactor int
	ZnodeVersion      int64
	Shards            map[string]ShardInfo
	Aliases           []string
	Raw               []byte
}

func parseCollectionInfo(name string, body []byte) (*CollectionInfo, bool) {
	r := gjson.GetBytes(body, "cluster.collections."+gjson.Escape(name))
	if !r.IsObject() {
		return nil, false
	}

	info := &CollectionInfo{
		Name:              name,
		ConfigName:        r.Get("configName").String(),
		Health:            r.Get("health").String(),
		ReplicationFactor: int(r.Get("replicationFactor").Int()),
		ZnodeVersion:      r.Get("znodeVersion").Int(),
		Shards:            map[string]ShardInfo{},
		Aliases:           stringArray(r.Get("aliases")),
		Raw:               []byte(r.Raw),
	}

	r.Get("shards").ForEach(func(key, shard gjson.Result) bool {
		info.Shards[key.String()] = ShardInfo{
			Name:     key.String(),
			Range:    shard.Get("range").String(),
			State:    shard.Get("state").String(),
			Health:   shard.Get("health").String(),
			Replicas: len(shard.Get("replicas").Map()),
		}
		return true
	})

	return info, true
}

func stringArray(r gjson.Result) []string {
	return lo.Map(r.Array(), func(item gjson.Result, _ int) string {
		return item.String()
	})
}

func stringMap(r gjson.Result) map[string]string {
	out := map[string]string{}
	r.ForEach(func(key, value gjson.Result) bool {
		out[key.String()] = value.String()
		return true
	})
	return out
}
