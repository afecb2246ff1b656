package solrcloudxtest

import (
	"maps"
	"slices"
)

// ConfigSetFiles returns the files of an uploaded configset keyed by zip entry name.
func (s *Server) ConfigSetFiles(name string) (map[string][]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	files, ok := s.configSets[name]
	return maps.Clone(files), ok
}

// RemoveCollection deletes a collection behind the client's back.
func (s *Server) RemoveCollection(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections, name)
}

// RemoveAlias deletes an alias behind the client's back.
func (s *Server) RemoveAlias(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.aliases, name)
}

// SetHealth changes the reported health of a collection, e.g. "YELLOW".
func (s *Server) SetHealth(name, health string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[name]; ok {
		c.health = health
	}
}

// PendingDocuments is the number of documents waiting for a commit.
func (s *Server) PendingDocuments(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.collections[name]; ok {
		return len(c.pending)
	}
	return 0
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// LastRequest returns the most recent request matching method and path.
func (s *Server) LastRequest(method, path string) (Request, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.requests) - 1; i >= 0; i-- {
		if r := s.requests[i]; r.Method == method && r.Path == path {
			return r, true
		}
	}
	return Request{}, false
}

// FailAction makes every collections admin call with this action fail with status.
func (s *Server) FailAction(action string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failing[action] = status
}
