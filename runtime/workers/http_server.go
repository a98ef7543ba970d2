package workers

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"
)

const shutdownTimeout = 5 * time.Second

// HTTPServerWorker serves handler until the context is cancelled, then shuts down gracefully.
type HTTPServerWorker struct {
	log    *slog.Logger
	server *http.Server
	ln     net.Listener
}

func NewHTTPServerWorker(log *slog.Logger, addr string, handler http.Handler) *HTTPServerWorker {
	return &HTTPServerWorker{
		log: log,
		server: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Listen binds the address ahead of Run, so callers learn the bound port before serving.
func (w *HTTPServerWorker) Listen() (net.Addr, error) {
	ln, err := net.Listen("tcp", w.server.Addr)
	if err != nil {
		return nil, err
	}
	w.ln = ln
	return ln.Addr(), nil
}

func (w *HTTPServerWorker) Run(ctx context.Context) error {
	if w.ln == nil {
		if _, err := w.Listen(); err != nil {
			return err
		}
	}
	ln := w.ln
	// a restart after a crash binds again
	w.ln = nil

	errCh := make(chan error, 1)
	go func() {
		w.log.Info("HTTP server listening", "addr", ln.Addr().String())
		errCh <- w.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := w.server.Shutdown(shutdownCtx); err != nil {
			w.log.Warn("HTTP server shutdown incomplete", "error", err)
		}
		<-errCh
		return nil
	}
}
