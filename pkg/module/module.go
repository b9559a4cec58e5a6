// Package module mounts versioned HTTP modules on a top-level router. Each
// module owns a single path segment, its own middleware, and a ServeMux
// populated from route groups.
package module

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/tuya-yu/HeartDrawing/pkg/middleware"
	"github.com/tuya-yu/HeartDrawing/pkg/openapi"
)

// Route binds a method and pattern to a handler. OpenAPI is optional and
// only feeds Describe.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	OpenAPI *openapi.Operation
}

// Group is a set of routes sharing a path prefix.
type Group struct {
	Prefix   string
	Routes   []Route
	Children []Group
}

// Register adds every route in groups to mux as "METHOD prefix+pattern".
func Register(mux *http.ServeMux, groups ...Group) {
	for _, g := range groups {
		register(mux, "", g)
	}
}

func register(mux *http.ServeMux, parent string, g Group) {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		mux.HandleFunc(r.Method+" "+prefix+r.Pattern, r.Handler)
	}
	for _, child := range g.Children {
		register(mux, prefix, child)
	}
}

// Describe adds every route in groups that carries OpenAPI metadata to spec.
// Paths are relative to the module prefix.
func Describe(spec *openapi.Spec, groups ...Group) error {
	for _, g := range groups {
		if err := describe(spec, "", g); err != nil {
			return err
		}
	}
	return nil
}

func describe(spec *openapi.Spec, parent string, g Group) error {
	prefix := parent + g.Prefix
	for _, r := range g.Routes {
		if r.OpenAPI == nil {
			continue
		}
		path := prefix + r.Pattern
		if path == "" {
			path = "/"
		}
		if err := spec.AddOperation(r.Method, path, r.OpenAPI); err != nil {
			return err
		}
	}
	for _, child := range g.Children {
		if err := describe(spec, prefix, child); err != nil {
			return err
		}
	}
	return nil
}

// Module serves one prefix such as "/v1", stripping it before dispatch.
type Module struct {
	prefix     string
	mux        *http.ServeMux
	middleware middleware.System
}

// New creates a Module. It panics unless prefix is a single "/segment".
func New(prefix string, groups ...Group) *Module {
	if prefix == "" || !strings.HasPrefix(prefix, "/") || strings.Count(prefix, "/") != 1 {
		panic(fmt.Sprintf("module prefix must be a single /segment: %q", prefix))
	}

	mux := http.NewServeMux()
	Register(mux, groups...)

	return &Module{
		prefix:     prefix,
		mux:        mux,
		middleware: middleware.New(),
	}
}

// Prefix returns the mounted path segment.
func (m *Module) Prefix() string {
	return m.prefix
}

// Use appends middleware that runs only for this module.
func (m *Module) Use(mw func(http.Handler) http.Handler) {
	m.middleware.Use(mw)
}

func (m *Module) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, m.prefix)
	if path == "" {
		path = "/"
	}

	r2 := req.Clone(req.Context())
	r2.URL.Path = path
	r2.URL.RawPath = ""

	m.middleware.Apply(m.mux).ServeHTTP(w, r2)
}
