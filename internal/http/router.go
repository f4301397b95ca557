package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter registers HTTP routes and returns the handler with middleware.
// A nil gatherer serves the default prometheus registry.
func NewRouter(app *App, gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r := chi.NewRouter()
	r.Use(Recoverer(app.log), RequestID(app.log), Logging(app.log))

	r.Get("/products", app.productsHandler)
	r.Post("/products", app.addProductHandler)
	r.Get("/products/updated", app.updatedProductsHandler)
	r.Get("/products/filtered", app.filteredProductsHandler)
	r.Delete("/products/{id}", app.deleteProductHandler)
	r.Post("/products/{id}/edit", app.editProductHandler)
	r.Get("/categories", app.categoriesHandler)

	r.Get("/selection", app.selectionHandler)
	r.Post("/selection", app.changeSelectionHandler)
	r.Get("/selection/suppliers", app.suppliersHandler)
	r.Get("/selection/detail", app.detailHandler)
	r.Post("/filter", app.setFilterHandler)
	r.Get("/errors/latest", app.latestErrorHandler)

	r.Get("/healthz", app.healthHandler)
	r.Get("/debug/loop", app.loopHandler)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Get("/openapi.yaml", app.openapiHandler)
	r.Get("/docs", app.docsHandler)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteJSONError(w, http.StatusNotFound, "not_found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteJSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", "")
	})
	return r
}
