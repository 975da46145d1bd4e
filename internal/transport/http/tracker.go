package httptransport

import "sync"

// PathTracker adapts the authority's Navigator port to a stateless HTTP
// client. The client reports its current path on each request; navigation
// triggered by the core is parked here and handed back as a redirect hint on
// the next session read.
type PathTracker struct {
	mu       sync.Mutex
	current  string
	redirect string
}

// NewPathTracker starts at the root path.
func NewPathTracker() *PathTracker {
	return &PathTracker{current: "/"}
}

// CurrentPath implements auth.Navigator.
func (t *PathTracker) CurrentPath() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.current
}

// NavigateTo implements auth.Navigator by parking the redirect for the
// client to consume.
func (t *PathTracker) NavigateTo(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = path
	t.redirect = path
}

// SetCurrentPath records the path the client reports itself at.
func (t *PathTracker) SetCurrentPath(path string) {
	if path == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = path
}

// ConsumeRedirect returns a parked redirect hint, at most once.
func (t *PathTracker) ConsumeRedirect() (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.redirect == "" {
		return "", false
	}
	r := t.redirect
	t.redirect = ""
	return r, true
}
