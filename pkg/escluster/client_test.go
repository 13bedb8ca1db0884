package escluster

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"logfleet/curator/pkg/config"
)

// fakeCluster is a minimal Elasticsearch stand-in covering the endpoints
// the client uses.
type fakeCluster struct {
	// allocation is the raw _cat/allocation response body.
	allocation string

	// indices maps index name to (sizeBytes, creationDate).
	indices map[string][2]int64

	// failStats returns HTTP 500 from the stats endpoint when set.
	failStats bool

	// deleted records DELETE calls in order.
	deleted []string

	// deleteStatus overrides the status code for DELETE per index.
	deleteStatus map[string]int
}

func (f *fakeCluster) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		switch {
		case path == "/_cluster/health":
			fmt.Fprint(w, `{"status":"green"}`)

		case path == "/_cat/allocation":
			fmt.Fprint(w, f.allocation)

		case r.Method == http.MethodDelete:
			name := path[1:]
			if status, ok := f.deleteStatus[name]; ok {
				w.WriteHeader(status)
				return
			}
			if _, ok := f.indices[name]; !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			f.deleted = append(f.deleted, name)
			fmt.Fprint(w, `{"acknowledged":true}`)

		case len(path) > len("/_alias") && path[len(path)-len("/_alias"):] == "/_alias":
			pattern := path[1 : len(path)-len("/_alias")]
			out := map[string]any{}
			for name := range f.indices {
				if matchWildcard(pattern, name) {
					out[name] = map[string]any{"aliases": map[string]any{}}
				}
			}
			json.NewEncoder(w).Encode(out)

		case len(path) > len("/_stats/store") && path[len(path)-len("/_stats/store"):] == "/_stats/store":
			if f.failStats {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			name := path[1 : len(path)-len("/_stats/store")]
			meta, ok := f.indices[name]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprintf(w, `{"indices":{%q:{"total":{"store":{"size_in_bytes":%d}}}}}`, name, meta[0])

		case len(path) > len("/_settings") && path[len(path)-len("/_settings"):] == "/_settings":
			name := path[1 : len(path)-len("/_settings")]
			meta, ok := f.indices[name]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			fmt.Fprintf(w, `{%q:{"settings":{"index":{"creation_date":"%d"}}}}`, name, meta[1])

		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}
}

// matchWildcard supports the single trailing-star patterns the collector
// issues.
func matchWildcard(pattern, name string) bool {
	if pattern == "" {
		return false
	}
	if pattern[len(pattern)-1] == '*' {
		prefix := pattern[:len(pattern)-1]
		return len(name) >= len(prefix) && name[:len(prefix)] == prefix
	}
	return pattern == name
}

func newTestClient(t *testing.T, f *fakeCluster) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(f.handler())
	t.Cleanup(srv.Close)

	cfg := config.ElasticsearchConfig{
		Host:           srv.URL,
		RequestTimeout: 5 * time.Second,
		TLS:            config.TLSConfig{Enabled: false},
	}
	client, err := NewClient(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client, srv
}

func TestClient_Ping(t *testing.T) {
	client, _ := newTestClient(t, &fakeCluster{})
	if err := client.Ping(context.Background()); err != nil {
		t.Errorf("Ping failed: %v", err)
	}
}

func TestClient_DiskTotals(t *testing.T) {
	f := &fakeCluster{
		// Third row mimics the UNASSIGNED row, which has a null total.
		allocation: `[{"disk.total":"1000"},{"disk.total":"2000"},{"disk.total":null}]`,
	}
	client, _ := newTestClient(t, f)

	totals, err := client.DiskTotals(context.Background())
	if err != nil {
		t.Fatalf("DiskTotals failed: %v", err)
	}
	if len(totals) != 2 || totals[0] != 1000 || totals[1] != 2000 {
		t.Errorf("unexpected totals: %v", totals)
	}
}

func TestClient_DiskTotals_Empty(t *testing.T) {
	client, _ := newTestClient(t, &fakeCluster{allocation: `[]`})

	totals, err := client.DiskTotals(context.Background())
	if err != nil {
		t.Fatalf("DiskTotals failed: %v", err)
	}
	if len(totals) != 0 {
		t.Errorf("expected no totals, got %v", totals)
	}
}

func TestClient_ResolveAliases(t *testing.T) {
	f := &fakeCluster{indices: map[string][2]int64{
		"infra-000001": {100, 1},
		"infra-000002": {200, 2},
		"app-000001":   {300, 3},
	}}
	client, _ := newTestClient(t, f)

	names, err := client.ResolveAliases(context.Background(), "infra-*")
	if err != nil {
		t.Fatalf("ResolveAliases failed: %v", err)
	}
	if len(names) != 2 || names[0] != "infra-000001" || names[1] != "infra-000002" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestClient_StoreSizeAndCreationDate(t *testing.T) {
	f := &fakeCluster{indices: map[string][2]int64{
		"audit-000007": {4096, 1690000000000},
	}}
	client, _ := newTestClient(t, f)

	size, err := client.StoreSize(context.Background(), "audit-000007")
	if err != nil {
		t.Fatalf("StoreSize failed: %v", err)
	}
	if size != 4096 {
		t.Errorf("size = %d, want 4096", size)
	}

	created, err := client.CreationDate(context.Background(), "audit-000007")
	if err != nil {
		t.Fatalf("CreationDate failed: %v", err)
	}
	if created != 1690000000000 {
		t.Errorf("creation date = %d, want 1690000000000", created)
	}
}

func TestClient_StoreSize_ServerError(t *testing.T) {
	f := &fakeCluster{
		indices:   map[string][2]int64{"infra-000001": {1, 1}},
		failStats: true,
	}
	client, _ := newTestClient(t, f)

	_, err := client.StoreSize(context.Background(), "infra-000001")
	if err == nil {
		t.Fatal("expected error from failing stats endpoint")
	}
	var qerr *QueryError
	if !errors.As(err, &qerr) {
		t.Errorf("expected QueryError, got %T", err)
	}
}

func TestClient_DeleteIndex(t *testing.T) {
	f := &fakeCluster{indices: map[string][2]int64{"infra-000001": {1, 1}}}
	client, _ := newTestClient(t, f)

	if err := client.DeleteIndex(context.Background(), "infra-000001"); err != nil {
		t.Fatalf("DeleteIndex failed: %v", err)
	}
	if len(f.deleted) != 1 || f.deleted[0] != "infra-000001" {
		t.Errorf("unexpected delete calls: %v", f.deleted)
	}
}

func TestClient_DeleteIndex_NotFound(t *testing.T) {
	client, _ := newTestClient(t, &fakeCluster{})

	err := client.DeleteIndex(context.Background(), "gone-000001")
	if !errors.Is(err, ErrIndexNotFound) {
		t.Errorf("expected ErrIndexNotFound, got %v", err)
	}
}

func TestClient_DeleteIndex_ServerError(t *testing.T) {
	f := &fakeCluster{
		indices:      map[string][2]int64{"infra-000001": {1, 1}},
		deleteStatus: map[string]int{"infra-000001": http.StatusServiceUnavailable},
	}
	client, _ := newTestClient(t, f)

	err := client.DeleteIndex(context.Background(), "infra-000001")
	if err == nil {
		t.Fatal("expected error for 503 delete")
	}
	if errors.Is(err, ErrIndexNotFound) {
		t.Error("503 must not be reported as not-found")
	}
}
