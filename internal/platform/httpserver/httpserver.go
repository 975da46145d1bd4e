package httpserver

import (
	"net/http"
	"time"
)

// New builds the HTTP server for the presentation boundary. Timeouts are
// conservative; the handlers only read snapshots and dispatch intents, so
// nothing long-running runs inside a request.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
