package backend

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/product-catalog-state/internal/apperrors"
	"github.com/fairyhunter13/product-catalog-state/internal/model"
	"github.com/fairyhunter13/product-catalog-state/internal/obs"
)

// Handler serves the store under /api.
func Handler(st *Store, log *obs.Logger) http.Handler {
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Get("/products", func(w http.ResponseWriter, r *http.Request) {
			respond[[]model.Product](w, r, log)(st.FetchProducts(r.Context()))
		})
		r.Get("/productCategories", func(w http.ResponseWriter, r *http.Request) {
			respond[[]model.Category](w, r, log)(st.FetchCategories(r.Context()))
		})
		r.Get("/suppliers", func(w http.ResponseWriter, r *http.Request) {
			respond[[]model.Supplier](w, r, log)(st.Suppliers(r.Context()))
		})
		r.Get("/suppliers/{id}", func(w http.ResponseWriter, r *http.Request) {
			id, err := strconv.Atoi(chi.URLParam(r, "id"))
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_id"})
				return
			}
			respond[model.Supplier](w, r, log)(st.FetchSupplier(r.Context(), id))
		})
	})
	return r
}

func respond[T any](w http.ResponseWriter, r *http.Request, log *obs.Logger) func(T, error) {
	return func(v T, err error) {
		if err == nil {
			writeJSON(w, http.StatusOK, v)
			return
		}
		status := http.StatusServiceUnavailable
		if typed := apperrors.As(err); typed != nil && typed.Kind() == apperrors.KindBackend {
			status = typed.Status()
		}
		log.Warn(log.WithFields(r.Context(), map[string]any{"path": r.URL.Path, "status": status}), "backend request failed")
		writeJSON(w, status, map[string]string{"error": http.StatusText(status), "details": apperrors.As(err).Detail()})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
