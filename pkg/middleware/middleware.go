// Package middleware provides the HTTP middleware chain and the handlers that
// run in it.
package middleware

import "net/http"

// System is an ordered middleware stack. The first middleware added runs outermost.
type System interface {
	Use(mw func(http.Handler) http.Handler)
	Apply(h http.Handler) http.Handler
}

type stack []func(http.Handler) http.Handler

// New returns an empty stack.
func New() System {
	return &stack{}
}

func (s *stack) Use(mw func(http.Handler) http.Handler) {
	*s = append(*s, mw)
}

func (s *stack) Apply(h http.Handler) http.Handler {
	for i := len(*s) - 1; i >= 0; i-- {
		h = (*s)[i](h)
	}
	return h
}
