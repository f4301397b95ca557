package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/product-catalog-state/internal/catalog"
	httpopenapi "github.com/fairyhunter13/product-catalog-state/internal/http/openapi"
	"github.com/fairyhunter13/product-catalog-state/internal/model"
	"github.com/fairyhunter13/product-catalog-state/internal/obs"
)

type App struct {
	state   *catalog.State
	log     *obs.Logger
	closing atomic.Bool
	started time.Time
}

type ack struct {
	Status      string `json:"status"`
	RequestID   string `json:"request_id"`
	Command     string `json:"command"`
	ReceivedAt  string `json:"received_at"`
	BacklogSize int    `json:"backlog_size"`
}

type selectionRequest struct {
	ID *int `json:"id"`
}

type filterRequest struct {
	CategoryID *int `json:"categoryId"`
}

type suppliersResponse struct {
	Suppliers []model.Supplier `json:"suppliers"`
	Loading   bool             `json:"loading"`
}

type errorResponse struct {
	Message string `json:"message"`
}

func NewApp(state *catalog.State, log *obs.Logger) *App {
	return &App{state: state, log: log, started: time.Now()}
}

// StartShutdown makes every command endpoint answer 503.
func (a *App) StartShutdown() {
	a.closing.Store(true)
}

// views

func (a *App) productsHandler(w http.ResponseWriter, r *http.Request) {
	a.writeView(w, a.state.Snapshot().ProductsWithCategory)
}

func (a *App) updatedProductsHandler(w http.ResponseWriter, r *http.Request) {
	a.writeView(w, a.state.Snapshot().UpdatedProducts)
}

func (a *App) filteredProductsHandler(w http.ResponseWriter, r *http.Request) {
	a.writeView(w, a.state.Snapshot().FilteredProducts)
}

func (a *App) categoriesHandler(w http.ResponseWriter, r *http.Request) {
	a.writeView(w, a.state.Snapshot().Categories)
}

// writeView answers 503 until the view has produced a value, pointing at the
// latest pipeline error if there is one.
func (a *App) writeView(w http.ResponseWriter, v any) {
	if isNilSlice(v) {
		WriteJSONError(w, http.StatusServiceUnavailable, "view_not_ready", a.state.Snapshot().LastError)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func isNilSlice(v any) bool {
	switch s := v.(type) {
	case []model.Product:
		return s == nil
	case []model.Category:
		return s == nil
	default:
		return v == nil
	}
}

func (a *App) selectionHandler(w http.ResponseWriter, r *http.Request) {
	snap := a.state.Snapshot()
	if snap.SelectedProduct == nil {
		WriteJSONError(w, http.StatusNotFound, "no_selection", "selection "+strconv.Itoa(snap.Selection)+" matches no product")
		return
	}
	writeJSON(w, http.StatusOK, snap.SelectedProduct)
}

func (a *App) suppliersHandler(w http.ResponseWriter, r *http.Request) {
	snap := a.state.Snapshot()
	resp := suppliersResponse{Suppliers: snap.Suppliers, Loading: snap.SuppliersLoading}
	if resp.Suppliers == nil {
		resp.Suppliers = []model.Supplier{}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *App) detailHandler(w http.ResponseWriter, r *http.Request) {
	d := a.state.Snapshot().Detail
	if d == nil {
		WriteJSONError(w, http.StatusNotFound, "no_selection", "")
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (a *App) latestErrorHandler(w http.ResponseWriter, r *http.Request) {
	msg := a.state.Snapshot().LastError
	if msg == "" {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, errorResponse{Message: msg})
}

// commands

func (a *App) changeSelectionHandler(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if !a.decodeCommand(w, r, &req, false) {
		return
	}
	if req.ID == nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "id is required")
		return
	}
	a.accept(w, r, "change_selection", a.state.ChangeSelection(*req.ID))
}

func (a *App) setFilterHandler(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if !a.decodeCommand(w, r, &req, false) {
		return
	}
	if req.CategoryID == nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "categoryId is required")
		return
	}
	if *req.CategoryID < 0 {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "categoryId must be >= 0")
		return
	}
	a.accept(w, r, "set_category_filter", a.state.SetCategoryFilter(*req.CategoryID))
}

func (a *App) addProductHandler(w http.ResponseWriter, r *http.Request) {
	var p *model.Product
	if !a.decodeCommand(w, r, &p, true) {
		return
	}
	// no body adds the default product
	if p != nil {
		if p.ID <= 0 {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "id must be > 0")
			return
		}
		if p.Price < 0 {
			WriteJSONError(w, http.StatusBadRequest, "validation_error", "price must be >= 0")
			return
		}
	}
	a.accept(w, r, "add_product", a.state.AddProduct(p))
}

func (a *App) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	if a.rejectClosing(w) {
		return
	}
	a.accept(w, r, "delete_product", a.state.DeleteProduct(id))
}

func (a *App) editProductHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := a.pathID(w, r)
	if !ok {
		return
	}
	if a.rejectClosing(w) {
		return
	}
	a.accept(w, r, "edit_product", a.state.EditProduct(id))
}

func (a *App) rejectClosing(w http.ResponseWriter) bool {
	if a.closing.Load() {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return true
	}
	return false
}

// decodeCommand checks shutdown and content type and decodes the body into
// dst. An empty body is accepted when optional is set.
func (a *App) decodeCommand(w http.ResponseWriter, r *http.Request, dst any, optional bool) bool {
	if a.rejectClosing(w) {
		return false
	}
	if optional && r.ContentLength == 0 {
		return true
	}
	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		WriteJSONError(w, http.StatusUnsupportedMediaType, "unsupported_media_type", "expected application/json")
		return false
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if optional && errors.Is(err, io.EOF) {
			return true
		}
		WriteJSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

func (a *App) pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "validation_error", "id must be an integer")
		return 0, false
	}
	return id, true
}

func (a *App) accept(w http.ResponseWriter, r *http.Request, command string, ok bool) {
	if !ok {
		WriteJSONError(w, http.StatusServiceUnavailable, "shutting_down", "")
		return
	}
	ac := ack{
		Status:      "accepted",
		RequestID:   RequestIDFromContext(r.Context()),
		Command:     command,
		ReceivedAt:  time.Now().UTC().Format(time.RFC3339),
		BacklogSize: a.state.LoopStats().Backlog,
	}
	writeJSON(w, http.StatusAccepted, ac)
	a.log.Info(a.log.WithField(r.Context(), "command", command), "command_accepted")
}

// operational

func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if a.closing.Load() {
		status = "shutting_down"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (a *App) loopHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"loop":       a.state.LoopStats(),
		"uptime_sec": time.Since(a.started).Seconds(),
	})
}

func (a *App) openapiHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(httpopenapi.YAML)
}

func (a *App) docsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	html := `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>Product Catalog State API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui'
      });
    </script>
  </body>
</html>`
	_, _ = w.Write([]byte(html))
}
