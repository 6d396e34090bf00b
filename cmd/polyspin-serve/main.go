// Command polyspin-serve serves the wasm build of polyspin.
//
//	GOOS=js GOARCH=wasm go build -o cmd/polyspin-serve/web/main.wasm ./cmd/polyspin
//	cp "$(go env GOROOT)/lib/wasm/wasm_exec.js" cmd/polyspin-serve/web/
//	go run ./cmd/polyspin-serve
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address.")
	baseDir := flag.String("dir", filepath.Join("cmd", "polyspin-serve", "web"), "Directory holding index.html, main.wasm and wasm_exec.js.")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	srv := &http.Server{
		Addr:              *addr,
		Handler:           logRequests(log, newHandler(*baseDir)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("serving", "url", "http://localhost"+*addr, "dir", *baseDir)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("listen", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
	log.Info("server stopped")
}

func newHandler(baseDir string) http.Handler {
	mux := http.NewServeMux()
	fs := http.FileServer(http.Dir(baseDir))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.ServeFile(w, r, filepath.Join(baseDir, "index.html"))
			return
		}
		fs.ServeHTTP(w, r)
	})
	return mux
}

func logRequests(log *slog.Logger, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Info("request", "method", r.Method, "path", r.URL.Path)
		h.ServeHTTP(w, r)
	})
}
