package module

import (
	"net/http"
	"strings"
)

// Router dispatches on the first path segment to mounted modules and sends
// everything else to a fallback ServeMux.
type Router struct {
	modules map[string]*Module
	native  *http.ServeMux
}

// NewRouter returns an empty Router.
func NewRouter() *Router {
	return &Router{
		modules: make(map[string]*Module),
		native:  http.NewServeMux(),
	}
}

// Mount registers m under its prefix.
func (r *Router) Mount(m *Module) {
	r.modules[m.prefix] = m
}

// HandleNative registers a handler outside any module, e.g. health probes.
func (r *Router) HandleNative(pattern string, h http.HandlerFunc) {
	r.native.HandleFunc(pattern, h)
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	if p := req.URL.Path; len(p) > 1 && strings.HasSuffix(p, "/") {
		req.URL.Path = strings.TrimSuffix(p, "/")
	}

	segment := req.URL.Path
	if rest, ok := strings.CutPrefix(segment, "/"); ok {
		head, _, _ := strings.Cut(rest, "/")
		segment = "/" + head
	}

	if m, ok := r.modules[segment]; ok {
		m.ServeHTTP(w, req)
		return
	}
	r.native.ServeHTTP(w, req)
}
