package server

import "net/http"

// Handler is an HTTP handler that knows which routes it serves, so a
// router can register it without external route tables.
type Handler interface {
	http.Handler
	Routes() []string
}

// BasicRouter is a minimal route multiplexer for the callback server.
type BasicRouter struct {
	mux *http.ServeMux
}

// NewBasicRouter creates an empty router.
func NewBasicRouter() *BasicRouter {
	return &BasicRouter{mux: http.NewServeMux()}
}

// Handler registers all routes served by h.
func (r *BasicRouter) Handler(h Handler) {
	for _, route := range h.Routes() {
		r.mux.Handle(route, h)
	}
}

func (r *BasicRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}
