// Package ctl implements the TCP control API of hidmuxd: a single
// null-terminated request per connection, answered with one JSON line. It
// carries the external activation signal and exposes the multiplexer state
// for inspection.
package ctl

import (
	"context"
	"log/slog"
	"strings"
)

// Request contains route parameters and the raw payload of the command.
type Request struct {
	Ctx     context.Context
	Params  map[string]string
	Payload string
}

// Response holds the JSON string to return to the client.
type Response struct {
	JSON string
}

// HandlerFunc processes a request and populates the response. The logger is
// connection-scoped, enriched with remote address metadata by the server.
type HandlerFunc func(req *Request, res *Response, logger *slog.Logger) error

// Router matches request paths against patterns with {name} placeholders.
type Router struct {
	routes []routeEntry
}

type routeEntry struct {
	parts   []string
	names   []string // placeholder name per part, "" for literals
	handler HandlerFunc
}

// NewRouter returns an empty Router.
func NewRouter() *Router { return &Router{} }

// Register registers a handler for a path pattern like "device/{id}".
func (r *Router) Register(pattern string, handler HandlerFunc) {
	parts := strings.Split(strings.ToLower(pattern), "/")
	names := make([]string, len(parts))
	for i, p := range strings.Split(pattern, "/") {
		if strings.HasPrefix(p, "{") && strings.HasSuffix(p, "}") {
			names[i] = p[1 : len(p)-1]
		}
	}
	r.routes = append(r.routes, routeEntry{parts: parts, names: names, handler: handler})
}

// Match returns the handler and extracted params for a path, or nil if no
// registered pattern matches.
func (r *Router) Match(path string) (HandlerFunc, map[string]string) {
	parts := strings.Split(strings.ToLower(path), "/")
	for _, rt := range r.routes {
		if len(rt.parts) != len(parts) {
			continue
		}
		params := map[string]string{}
		ok := true
		for i := range parts {
			if rt.names[i] != "" {
				params[rt.names[i]] = parts[i]
				continue
			}
			if rt.parts[i] != parts[i] {
				ok = false
				break
			}
		}
		if ok {
			return rt.handler, params
		}
	}
	return nil, nil
}
