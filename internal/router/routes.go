package router

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/aashari/go-worklist-extractor/docs"
	"github.com/aashari/go-worklist-extractor/internal/handlers"
	"github.com/aashari/go-worklist-extractor/internal/middleware"
	"github.com/aashari/go-worklist-extractor/internal/monitoring"
)

// Extraction endpoints. The second path keeps existing Netlify clients working.
const (
	ExtractPath       = "/api/extract-info"
	LegacyExtractPath = "/.netlify/functions/extract-info"
)

// SetupRoutes configures all routes for the application
func SetupRoutes(apiHandlers *handlers.APIHandlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", apiHandlers.HealthHandler)
	mux.HandleFunc(ExtractPath, apiHandlers.ExtractHandler)
	mux.HandleFunc(LegacyExtractPath, apiHandlers.ExtractHandler)

	mux.HandleFunc("/metrics", monitoring.MetricsHandler)

	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("none"),
		httpSwagger.DomID("swagger-ui"),
	))

	return wrap(mux, apiHandlers.MaxBodyBytes(),
		"/health", ExtractPath, LegacyExtractPath, "/metrics", "/swagger/")
}

// SetupFunction serves only the extraction handler, whatever the path
func SetupFunction(apiHandlers *handlers.APIHandlers) http.Handler {
	return wrap(http.HandlerFunc(apiHandlers.ExtractHandler), apiHandlers.MaxBodyBytes())
}

// wrap applies the middleware chain; the body cap sits outside the
// correlation logger, which buffers the body
func wrap(next http.Handler, maxBodyBytes int64, routes ...string) http.Handler {
	handler := middleware.CORSMiddleware(next)
	handler = middleware.RequestCorrelationMiddleware(handler)
	handler = middleware.BodyLimitMiddleware(maxBodyBytes)(handler)
	return monitoring.MetricsMiddleware(handler, routes...)
}
