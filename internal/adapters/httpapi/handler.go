// Package httpapi serves GraphQL requests and blob downloads over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/satishbabariya/gqlsql/internal/core/query/domain"
	"github.com/satishbabariya/gqlsql/internal/debug"
	"github.com/satishbabariya/gqlsql/internal/service"
)

const maxBodyBytes = 1 << 20

// Options configures the endpoint paths.
type Options struct {
	GraphQLPath string
	BlobsPath   string
}

// Handler routes GraphQL and blob requests.
type Handler struct {
	graphql *service.GraphQLService
	queries *service.QueryService
	mux     *http.ServeMux
}

// NewHandler creates a new handler. Empty paths default to /graphql and
// /blobs.
func NewHandler(graphql *service.GraphQLService, queries *service.QueryService, opts Options) *Handler {
	if opts.GraphQLPath == "" {
		opts.GraphQLPath = "/graphql"
	}
	if opts.BlobsPath == "" {
		opts.BlobsPath = "/blobs"
	}
	h := &Handler{graphql: graphql, queries: queries, mux: http.NewServeMux()}
	h.mux.HandleFunc(opts.GraphQLPath, h.serveGraphQL)
	h.mux.HandleFunc(opts.BlobsPath, h.serveBlob)
	return h
}

// ServeHTTP tags the request with an id and dispatches it.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get("X-Request-Id")
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set("X-Request-Id", id)

	start := time.Now()
	h.mux.ServeHTTP(w, r.WithContext(service.WithRequestID(r.Context(), id)))
	debug.Debug("HTTP request", "request", id, "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
}

func (h *Handler) serveGraphQL(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req, err := readRequest(r)
	if err != nil {
		var status statusError
		code := http.StatusBadRequest
		if errors.As(err, &status) {
			code = status.code
		}
		http.Error(w, err.Error(), code)
		return
	}

	resp := h.graphql.Execute(r.Context(), req)
	if resp.Extensions == nil {
		resp.Extensions = make(map[string]interface{})
	}
	resp.Extensions["runTime"] = time.Since(start).Milliseconds()

	body, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(body)
}

type statusError struct {
	code int
	msg  string
}

func (e statusError) Error() string {
	return e.msg
}

// readRequest accepts GET with query parameters, POST with a JSON body and
// POST with an application/graphql body.
func readRequest(r *http.Request) (service.Request, error) {
	var req service.Request
	switch r.Method {
	case http.MethodGet:
		q := r.URL.Query()
		req.Query = q.Get("query")
		req.OperationName = q.Get("operationName")
		if vars := q.Get("variables"); vars != "" {
			if err := json.Unmarshal([]byte(vars), &req.Variables); err != nil {
				return req, fmt.Errorf("invalid variables: %w", err)
			}
		}
	case http.MethodPost:
		body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err != nil {
			return req, fmt.Errorf("failed to read body: %w", err)
		}
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/graphql") {
			req.Query = string(body)
			break
		}
		if err := json.Unmarshal(body, &req); err != nil {
			return req, fmt.Errorf("invalid request body: %w", err)
		}
	default:
		return req, statusError{code: http.StatusMethodNotAllowed, msg: "method not allowed"}
	}
	if req.Query == "" {
		return req, fmt.Errorf("query is required")
	}
	return req, nil
}

func (h *Handler) serveBlob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	id, err := service.DecodeBlobID(r.URL.Query().Get("id"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	content, err := h.queries.FetchBlob(r.Context(), id)
	switch {
	case errors.Is(err, service.ErrBlobNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	case errors.Is(err, domain.ErrInvalidArgument), errors.Is(err, domain.ErrUnknownColumn), errors.Is(err, domain.ErrNoPrimaryKey):
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	case err != nil:
		debug.Warn("Failed to fetch blob", "table", id.Table, "field", id.Field, "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	case content == nil:
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", http.DetectContentType(content))
	w.Write(content)
}

// NewServer creates an HTTP server for handler.
func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Serve runs srv until ctx is cancelled, then shuts it down gracefully.
func Serve(ctx context.Context, srv *http.Server) error {
	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP server shutdown: %w", err)
		}
		return nil
	}
}
