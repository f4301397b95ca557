package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fairyhunter13/product-catalog-state/internal/backend"
	"github.com/fairyhunter13/product-catalog-state/internal/catalog"
	"github.com/fairyhunter13/product-catalog-state/internal/client"
	httpapi "github.com/fairyhunter13/product-catalog-state/internal/http"
	"github.com/fairyhunter13/product-catalog-state/internal/model"
	"github.com/fairyhunter13/product-catalog-state/internal/obs"
)

type stack struct {
	url   string
	state *catalog.State
}

// startStack runs the backend and the catalog API as two real HTTP servers,
// the catalog reading the backend through the HTTP client.
func startStack(t testing.TB, latency time.Duration) *stack {
	t.Helper()
	be := httptest.NewServer(backend.Handler(backend.NewStore(backend.WithLatency(latency)), nil))
	t.Cleanup(be.Close)

	src, err := client.New(be.URL+"/api", client.WithTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	reg := prometheus.NewRegistry()
	st := catalog.New(src, catalog.Options{Metrics: obs.NewMetrics(reg)})
	st.Start(context.Background())
	st.Connect()

	api := httptest.NewServer(httpapi.NewRouter(httpapi.NewApp(st, nil), reg))
	t.Cleanup(func() {
		api.Close()
		st.Close()
	})
	return &stack{url: api.URL, state: st}
}

func (s *stack) settle(t testing.TB) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if !s.state.Settle(ctx) {
		t.Fatalf("settle timeout")
	}
}

func post(t testing.TB, url, body string) {
	t.Helper()
	var r *http.Request
	if body == "" {
		r, _ = http.NewRequest(http.MethodPost, url, nil)
	} else {
		r, _ = http.NewRequest(http.MethodPost, url, bytes.NewBufferString(body))
		r.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("POST %s: expected 202, got %d", url, resp.StatusCode)
	}
}

func getJSON(t testing.TB, url string, dst any) int {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusOK && dst != nil {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			t.Fatalf("decode %s: %v", url, err)
		}
	}
	return resp.StatusCode
}

func TestIntegration_JoinedCatalogOverHTTP(t *testing.T) {
	s := startStack(t, 0)
	s.settle(t)

	var products []model.Product
	if code := getJSON(t, s.url+"/products", &products); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if len(products) != len(backend.SeedProducts()) {
		t.Fatalf("expected %d products, got %d", len(backend.SeedProducts()), len(products))
	}
	for _, p := range products {
		if p.OriginalPrice > 0 && p.Price != catalog.DisplayPrice(p.OriginalPrice, catalog.DefaultMarkup) {
			t.Fatalf("price not marked up: %+v", p)
		}
		if len(p.SearchKey) != 1 || p.SearchKey[0] != p.ProductName {
			t.Fatalf("search key missing: %+v", p)
		}
	}

	var detail catalog.Detail
	if code := getJSON(t, s.url+"/selection/detail", &detail); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	if detail.Product.ID != 1 || len(detail.Suppliers) != 2 {
		t.Fatalf("unexpected detail: %+v", detail)
	}
}

func TestIntegration_AddEditDelete(t *testing.T) {
	s := startStack(t, 0)
	s.settle(t)

	post(t, s.url+"/products", "")
	post(t, s.url+"/products/7/edit", "")
	post(t, s.url+"/products/2/edit", "")
	s.settle(t)

	var updated []model.Product
	getJSON(t, s.url+"/products/updated", &updated)
	seen := map[int]int{}
	for _, p := range updated {
		seen[p.ID]++
	}
	for id, n := range seen {
		if n != 1 {
			t.Fatalf("id %d appears %d times", id, n)
		}
	}
	if seen[42] != 1 || seen[7] != 1 {
		t.Fatalf("expected ids 42 and 7 present: %v", seen)
	}
	if updated[1].ID != 2 || updated[1].ProductName != "Another One" {
		t.Fatalf("edit must replace in place, got %+v", updated[1])
	}

	r, _ := http.NewRequest(http.MethodDelete, s.url+"/products/42", nil)
	resp, err := http.DefaultClient.Do(r)
	if err != nil {
		t.Fatal(err)
	}
	_ = resp.Body.Close()
	s.settle(t)
	var after []model.Product
	getJSON(t, s.url+"/products/updated", &after)
	if len(after) != len(updated)-1 {
		t.Fatalf("expected %d products after delete, got %d", len(updated)-1, len(after))
	}
}

// Rapid selection changes against a slow backend: only the last selection's
// suppliers may surface.
func TestIntegration_RapidSelectionKeepsLatest(t *testing.T) {
	s := startStack(t, 30*time.Millisecond)
	s.settle(t)

	for _, id := range []int{2, 5, 8, 1, 5} {
		post(t, s.url+"/selection", fmt.Sprintf(`{"id":%d}`, id))
	}
	s.settle(t)

	var resp struct {
		Suppliers []model.Supplier `json:"suppliers"`
		Loading   bool             `json:"loading"`
	}
	getJSON(t, s.url+"/selection/suppliers", &resp)
	if resp.Loading {
		t.Fatalf("loading must be false once settled")
	}
	if len(resp.Suppliers) != 2 || resp.Suppliers[0].ID != 5 || resp.Suppliers[1].ID != 6 {
		t.Fatalf("expected suppliers of product 5, got %+v", resp.Suppliers)
	}
	if code := getJSON(t, s.url+"/errors/latest", nil); code != http.StatusNoContent {
		t.Fatalf("superseded fetches must not report errors, got %d", code)
	}
}

func TestIntegration_SupplierFailureThenRecovery(t *testing.T) {
	s := startStack(t, 0)
	s.settle(t)

	post(t, s.url+"/selection", `{"id":10}`)
	s.settle(t)
	var e struct {
		Message string `json:"message"`
	}
	if code := getJSON(t, s.url+"/errors/latest", &e); code != http.StatusOK {
		t.Fatalf("expected 200, got %d", code)
	}
	want := "Backend returned code 404: Http failure response for "
	if len(e.Message) < len(want) || e.Message[:len(want)] != want {
		t.Fatalf("unexpected message %q", e.Message)
	}

	post(t, s.url+"/selection", `{"id":8}`)
	s.settle(t)
	var resp struct {
		Suppliers []model.Supplier `json:"suppliers"`
	}
	getJSON(t, s.url+"/selection/suppliers", &resp)
	if len(resp.Suppliers) != 2 || resp.Suppliers[0].ID != 7 {
		t.Fatalf("expected suppliers of product 8, got %+v", resp.Suppliers)
	}
}

// Sends many commands concurrently and asserts every one is accepted.
func TestIntegration_HighLoadNonBlocking(t *testing.T) {
	s := startStack(t, 0)
	s.settle(t)
	concurrency := 20
	perGoroutine := 10
	hc := &http.Client{Timeout: 5 * time.Second}

	var wg sync.WaitGroup
	wg.Add(concurrency)
	errCh := make(chan error, concurrency*perGoroutine)
	for g := 0; g < concurrency; g++ {
		go func(gid int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				body := fmt.Sprintf(`{"id":%d,"productName":"load-%d-%d"}`, 1000+gid*perGoroutine+i, gid, i)
				r, _ := http.NewRequest(http.MethodPost, s.url+"/products", bytes.NewBufferString(body))
				r.Header.Set("Content-Type", "application/json")
				resp, err := hc.Do(r)
				if err != nil {
					errCh <- err
					return
				}
				if resp.StatusCode != http.StatusAccepted {
					errCh <- fmt.Errorf("expected 202, got %d", resp.StatusCode)
				}
				_ = resp.Body.Close()
			}
		}(g)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatal(err)
	}

	s.settle(t)
	var updated []model.Product
	getJSON(t, s.url+"/products/updated", &updated)
	if want := len(backend.SeedProducts()) + concurrency*perGoroutine; len(updated) != want {
		t.Fatalf("expected %d products, got %d", want, len(updated))
	}
}

// to run: go test -bench=. ./internal/integration -run ^$
func BenchmarkChangeSelection(b *testing.B) {
	s := startStack(b, 0)
	s.settle(b)
	hc := &http.Client{}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			r, _ := http.NewRequest(http.MethodPost, s.url+"/selection", bytes.NewBufferString(`{"id":5}`))
			r.Header.Set("Content-Type", "application/json")
			resp, err := hc.Do(r)
			if err == nil {
				_ = resp.Body.Close()
			}
		}
	})
}
