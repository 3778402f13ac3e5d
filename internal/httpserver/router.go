package httpserver

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/goccy/go-json"

	"github.com/KaramelBytes/datalens/internal/analysis"
	"github.com/KaramelBytes/datalens/internal/middleware"
)

const banner = "Smart Data Visualization API running!"

// Options configures the HTTP surface.
type Options struct {
	AllowedOrigins []string
	MaxUploadBytes int64
	Analysis       analysis.Options
}

type Router struct {
	opt Options
}

// NewRouter builds the chi handler with CORS, request IDs, access logs and panic recovery.
func NewRouter(opt Options) http.Handler {
	if opt.MaxUploadBytes <= 0 {
		opt.MaxUploadBytes = 32 << 20
	}
	r := &Router{opt: opt}
	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	mux.Use(middleware.LoggingMiddleware)
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opt.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Get("/", r.wrap(r.handleRoot))
	mux.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.Post("/analyze", r.wrap(r.handleAnalyze))
	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			log.Printf("request_id=%s error=%v", middleware.GetRequestID(req.Context()), err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}

// GET /
func (r *Router) handleRoot(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, map[string]any{"message": banner})
}

// POST /analyze
// Multipart form with the upload in field "file". Failures are reported as {"error": msg}
// with status 200.
func (r *Router) handleAnalyze(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, r.opt.MaxUploadBytes)
	file, header, err := req.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return writeJSON(w, map[string]any{"error": "File too large"})
		}
		return writeJSON(w, map[string]any{"error": "No file uploaded"})
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		return writeJSON(w, analysis.ErrorPayload(err))
	}
	return writeJSON(w, analysis.Run(header.Filename, raw, r.opt.Analysis))
}

func writeJSON(w http.ResponseWriter, v any) error {
	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(v)
}
