package solrcloudxtest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/felixge/httpsnoop"
	"github.com/klauspost/compress/zip"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	DefaultVersion = "9.4.1"
	ModeCloud      = "solrcloud"
	ModeStandalone = "std"
)

// Request is a request received by the Server and the status it was answered with.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Status int
}

type collection struct {
	configName        string
	shards            int
	replicationFactor int
	health            string
	pending           []json.RawMessage
	committed         []json.RawMessage
	znodeVersion      int
}

// Server is an in-memory SolrCloud admin API. It keeps configsets,
// collections and aliases and refuses the same operations Solr refuses.
type Server struct {
	*httptest.Server

	mu          sync.Mutex
	user        string
	password    string
	mode        string
	version     string
	configSets  map[string]map[string][]byte
	collections map[string]*collection
	aliases     map[string]string
	failing     map[string]int
	requests    []Request
}

type Option func(*Server)

// WithCredentials makes every request without these basic auth credentials fail with 401.
func WithCredentials(user, password string) Option {
	return func(s *Server) {
		s.user = user
		s.password = password
	}
}

func WithMode(mode string) Option {
	return func(s *Server) {
		s.mode = mode
	}
}

func WithVersion(version string) Option {
	return func(s *Server) {
		s.version = version
	}
}

// WithConfigSet preloads a configset made of the given files.
func WithConfigSet(name string, files map[string]string) Option {
	return func(s *Server) {
		s.configSets[name] = lo.MapValues(files, func(content string, _ string) []byte {
			return []byte(content)
		})
	}
}

// WithCollection preloads a healthy single shard collection.
func WithCollection(name, configSet string) Option {
	return func(s *Server) {
		s.collections[name] = newCollection(configSet, 1, 1)
	}
}

func WithAlias(name, collection string) Option {
	return func(s *Server) {
		s.aliases[name] = collection
	}
}

// NewServer starts a Server closed at the end of the test.
func NewServer(t testing.TB, opts ...Option) *Server {
	t.Helper()

	s := &Server{
		mode:        ModeCloud,
		version:     DefaultVersion,
		configSets:  map[string]map[string][]byte{},
		collections: map[string]*collection{},
		aliases:     map[string]string{},
		failing:     map[string]int{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(s.Close)
	return s
}

func newCollection(configName string, shards, replicationFactor int) *collection {
	return &collection{
		configName:        configName,
		shards:            shards,
		replicationFactor: replicationFactor,
		health:            "GREEN",
		znodeVersion:      1,
	}
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /solr/admin/info/system", s.systemInfo)
	mux.HandleFunc("GET /api/cluster/configs", s.listConfigSets)
	mux.HandleFunc("PUT /api/cluster/configs/{name}", s.uploadConfigSet)
	mux.HandleFunc("DELETE /api/cluster/configs/{name}", s.deleteConfigSet)
	mux.HandleFunc("GET /api/collections", s.listCollections)
	mux.HandleFunc("GET /api/collections/{name}", s.collectionStatus)
	mux.HandleFunc("GET /solr/admin/collections", s.collectionsAdmin)
	mux.HandleFunc("GET /solr/{name}/admin/ping", s.ping)
	mux.HandleFunc("GET /solr/{name}/update", s.commit)
	mux.HandleFunc("POST /solr/{name}/update/json", s.update)
	mux.HandleFunc("GET /solr/{name}/select", s.selectAll)

	guarded := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.user != "" {
			user, password, ok := r.BasicAuth()
			if !ok || user != s.user || password != s.password {
				writeError(w, http.StatusUnauthorized, "require authentication")
				return
			}
		}
		mux.ServeHTTP(w, r)
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		defer s.mu.Unlock()

		m := httpsnoop.CaptureMetrics(guarded, w, r)
		s.requests = append(s.requests, Request{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query(), Status: m.Code})
	})
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

func writeOK(w http.ResponseWriter, body []byte) {
	if len(body) == 0 {
		body = []byte(`{}`)
	}
	body, _ = sjson.SetBytes(body, "responseHeader.status", 0)
	writeJSON(w, http.StatusOK, body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	body, _ := sjson.SetBytes(nil, "responseHeader.status", status)
	body, _ = sjson.SetBytes(body, "error.msg", msg)
	body, _ = sjson.SetBytes(body, "error.code", status)
	writeJSON(w, status, body)
}

func setArray(body []byte, path string, values []string) []byte {
	if values == nil {
		values = []string{}
	}
	out, _ := sjson.SetBytes(body, path, values)
	return out
}

func (s *Server) systemInfo(w http.ResponseWriter, _ *http.Request) {
	body, _ := sjson.SetBytes(nil, "mode", s.mode)
	body, _ = sjson.SetBytes(body, "lucene.solr-spec-version", s.version)
	writeOK(w, body)
}

func (s *Server) listConfigSets(w http.ResponseWriter, _ *http.Request) {
	names := lo.Keys(s.configSets)
	slices.Sort(names)
	writeOK(w, setArray(nil, "configSets", names))
}

func (s *Server) uploadConfigSet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if _, ok := s.configSets[name]; ok && r.URL.Query().Get("overwrite") != "true" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("The configuration %s already exists in zookeeper", name))
		return
	}

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	files, err := unzip(payload)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid zip: "+err.Error())
		return
	}

	s.configSets[name] = files
	writeOK(w, nil)
}

func unzip(payload []byte) (map[string][]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(payload), int64(len(payload)))
	if err != nil {
		return nil, err
	}

	files := map[string][]byte{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, err
		}
		files[f.Name] = content
	}
	return files, nil
}

func (s *Server) deleteConfigSet(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if _, ok := s.configSets[name]; !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("ConfigSet does not exist to delete: %s", name))
		return
	}

	users := lo.Keys(lo.PickBy(s.collections, func(_ string, c *collection) bool {
		return c.configName == name
	}))
	if len(users) > 0 {
		slices.Sort(users)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Can not delete ConfigSet as it is currently being used by collection %v", users))
		return
	}

	delete(s.configSets, name)
	writeOK(w, nil)
}

func (s *Server) listCollections(w http.ResponseWriter, _ *http.Request) {
	names := lo.Keys(s.collections)
	slices.Sort(names)
	writeOK(w, setArray(nil, "collections", names))
}

func (s *Server) aliasesOf(name string) []string {
	names := lo.Keys(lo.PickByValues(s.aliases, []string{name}))
	slices.Sort(names)
	return names
}

func (s *Server) collectionStatus(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	c, ok := s.collections[name]
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("Collection: %s not found", name))
		return
	}

	info, _ := sjson.SetBytes(nil, "configName", c.configName)
	info, _ = sjson.SetBytes(info, "health", c.health)
	info, _ = sjson.SetBytes(info, "replicationFactor", strconv.Itoa(c.replicationFactor))
	info, _ = sjson.SetBytes(info, "znodeVersion", c.znodeVersion)
	info = setArray(info, "aliases", s.aliasesOf(name))
	for i := 1; i <= c.shards; i++ {
		shard := "shards.shard" + strconv.Itoa(i)
		info, _ = sjson.SetBytes(info, shard+".state", "active")
		info, _ = sjson.SetBytes(info, shard+".health", c.health)
		info, _ = sjson.SetBytes(info, shard+".range", "80000000-7fffffff")
		for j := 1; j <= c.replicationFactor; j++ {
			replica := fmt.Sprintf("%s.replicas.core_node%d", shard, j)
			info, _ = sjson.SetBytes(info, replica+".state", "active")
		}
	}

	body, _ := sjson.SetRawBytes(nil, "cluster.collections."+gjson.Escape(name), info)
	writeOK(w, body)
}

func (s *Server) collectionsAdmin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	action := q.Get("action")
	if status, ok := s.failing[action]; ok {
		writeError(w, status, fmt.Sprintf("%s failed", action))
		return
	}
	switch action {
	case "CREATE":
		s.createCollection(w, q)
	case "DELETE":
		s.deleteCollection(w, q)
	case "CREATEALIAS":
		s.createAlias(w, q)
	case "DELETEALIAS":
		delete(s.aliases, q.Get("name"))
		writeOK(w, nil)
	case "LISTALIASES":
		body := []byte(`{"aliases":{}}`)
		for name, target := range s.aliases {
			body, _ = sjson.SetBytes(body, "aliases."+gjson.Escape(name), target)
		}
		writeOK(w, body)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid action: %s", action))
	}
}

func (s *Server) createCollection(w http.ResponseWriter, q url.Values) {
	name := q.Get("name")
	if _, ok := s.collections[name]; ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("collection already exists: %s", name))
		return
	}
	configName := q.Get("collection.configName")
	if _, ok := s.configSets[configName]; !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Can not find the specified config set: %s", configName))
		return
	}

	shards, _ := strconv.Atoi(q.Get("numShards"))
	rf, _ := strconv.Atoi(q.Get("replicationFactor"))
	s.collections[name] = newCollection(configName, max(shards, 1), max(rf, 1))
	writeOK(w, nil)
}

func (s *Server) deleteCollection(w http.ResponseWriter, q url.Values) {
	name := q.Get("name")
	if _, ok := s.collections[name]; !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Could not find collection : %s", name))
		return
	}
	if aliases := s.aliasesOf(name); len(aliases) > 0 {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Collection : %s is part of aliases: [%s], remove or modify the aliases before removing this collection.", name, strings.Join(aliases, ", ")))
		return
	}

	delete(s.collections, name)
	writeOK(w, nil)
}

func (s *Server) createAlias(w http.ResponseWriter, q url.Values) {
	name, target := q.Get("name"), q.Get("collections")
	if _, ok := s.collections[target]; !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Can't create collection alias for collections='%s', '%s' is not an existing collection or alias", target, target))
		return
	}

	s.aliases[name] = target
	writeOK(w, nil)
}

// resolve follows an alias to its collection.
func (s *Server) resolve(name string) (*collection, bool) {
	if target, ok := s.aliases[name]; ok {
		name = target
	}
	c, ok := s.collections[name]
	return c, ok
}

func (s *Server) ping(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.resolve(r.PathValue("name")); !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	writeOK(w, []byte(`{"status":"OK"}`))
}

func (s *Server) commit(w http.ResponseWriter, r *http.Request) {
	c, ok := s.resolve(r.PathValue("name"))
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	q := r.URL.Query()
	if q.Get("commit") == "true" || q.Get("softCommit") == "true" {
		c.committed = append(c.committed, c.pending...)
		c.pending = nil
	}
	writeOK(w, nil)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	c, ok := s.resolve(r.PathValue("name"))
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}

	var docs []json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&docs); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	for _, doc := range docs {
		if !gjson.ParseBytes(doc).IsObject() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown command or document: %s", doc))
			return
		}
	}
	c.pending = append(c.pending, docs...)
	writeOK(w, nil)
}

func (s *Server) selectAll(w http.ResponseWriter, r *http.Request) {
	c, ok := s.resolve(r.PathValue("name"))
	if !ok {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	body, _ := sjson.SetBytes(nil, "response.numFound", len(c.committed))
	body = setArray(body, "response.docs", nil)
	writeOK(w, body)
}
