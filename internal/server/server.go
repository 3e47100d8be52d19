package server

import (
	"context"
	"crypto/sha256"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"github.com/tartampluch/go-boxdlist/internal/config"
	"github.com/tartampluch/go-boxdlist/internal/diary"
	"github.com/tartampluch/go-boxdlist/internal/locale"
)

//go:embed templates/*.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// cacheItem stores the last generated list and its metadata for HTTP caching.
type cacheItem struct {
	data         []byte
	filename     string
	contentType  string
	etag         string
	lastModified string // RFC1123 format required by HTTP headers
}

// ListServer serves the upload page and turns uploaded diaries into list downloads.
type ListServer struct {
	// cache uses atomic.Pointer for lock-free reads of the latest list.
	cache atomic.Pointer[cacheItem]

	Addr      string
	RPS       float64
	Burst     int
	Generator *diary.Generator
	Catalog   *locale.Catalog
}

// NewListServer creates a server with the default rate limits.
func NewListServer(addr string, gen *diary.Generator, cat *locale.Catalog) *ListServer {
	return &ListServer{
		Addr:      addr,
		RPS:       config.DefaultRPS,
		Burst:     config.DefaultBurst,
		Generator: gen,
		Catalog:   cat,
	}
}

// Router builds the HTTP routes.
func (s *ListServer) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(securityHeaders)
	r.MethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)

	r.HandleFunc(config.RouteHealth, handleHealth).Methods(http.MethodGet)
	r.HandleFunc(config.RouteIndex, s.handleIndex).Methods(http.MethodGet, http.MethodHead)
	r.Handle(config.RouteList, rateLimitGlobal(s.RPS, s.Burst, http.HandlerFunc(s.handleCreateList))).
		Methods(http.MethodPost)
	r.HandleFunc(config.RouteLatest, s.handleLatest).Methods(http.MethodGet, http.MethodHead)
	return r
}

// Start initializes the HTTP server and blocks until the context is cancelled.
func (s *ListServer) Start(ctx context.Context) error {
	if s.Addr == "" {
		return errors.New(config.ErrAddrRequired)
	}

	srv := &http.Server{
		Addr:         s.Addr,
		Handler:      s.Router(),
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	serverError := make(chan error, config.ChannelBufferSize)

	go func() {
		slog.Info(config.MsgServerListen,
			config.LogKeyComponent, config.CompServer,
			config.LogKeyAddr, s.Addr,
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverError <- err
		}
	}()

	select {
	case <-ctx.Done():
		slog.Info(config.MsgServerStop, config.LogKeyComponent, config.CompServer)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("%s: %w", config.ErrServerShutdown, err)
		}
		return nil

	case err := <-serverError:
		return fmt.Errorf("%s: %w", config.ErrServerStartup, err)
	}
}

func (s *ListServer) now() time.Time {
	if s.Generator != nil {
		return s.Generator.Now()
	}
	return time.Now()
}

// Update atomically replaces the list served by the latest route.
func (s *ListServer) Update(data []byte, filename, contentType string) {
	hash := sha256.Sum256(data)
	etag := fmt.Sprintf(config.FormatETag, hex.EncodeToString(hash[:]))

	item := &cacheItem{
		data:         data,
		filename:     filename,
		contentType:  contentType,
		etag:         etag,
		lastModified: time.Now().UTC().Format(http.TimeFormat),
	}

	// Concurrent readers see either the old or the new complete item.
	s.cache.Store(item)

	slog.Debug(config.MsgCacheUpdated,
		config.LogKeyComponent, config.CompServer,
		config.LogKeySizeBytes, len(data),
		config.LogKeyETag, etag,
	)
}
