package http

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-playground/validator/v10"
	httpSwagger "github.com/swaggo/http-swagger"

	"urlshortener/internal/models"
)

// URLService is the business logic contract the HTTP layer depends on.
type URLService interface {
	ShortenURL(ctx context.Context, fullURL string) (*models.URL, error)
	ResolveShortID(ctx context.Context, shortID string) (*models.URL, error)
	GetURLStats(ctx context.Context, shortID string) (*models.URL, error)
}

// NewRouter wires the routes and middleware stack. baseURL is the fixed
// prefix used to compose externally visible short URLs.
func NewRouter(logger *httplog.Logger, urlSvc URLService, baseURL string) http.Handler {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"POST", "GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)

	validate := getValidate()

	r.Get("/health", handleHealth)

	r.With(middleware.AllowContentType("application/json")).
		Post("/shorten", handleShortenURL(urlSvc, validate, baseURL))

	r.Get("/stats/{shortID}", handleGetURLStats(urlSvc, baseURL))

	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/swagger.yml"),
	))
	r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
		http.ServeFile(w, r, "./docs/swagger.yml")
	})

	// Catch-all, so it must stay last. Literal routes above take
	// precedence in chi's trie.
	r.Get("/{shortID}", handleRedirect(urlSvc))

	return r
}

func getValidate() *validator.Validate {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}
