package escluster

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"logfleet/curator/pkg/config"
)

// Client is a thin REST client for the Elasticsearch operations curator
// needs: the cluster-wide disk allocation, alias resolution by prefix
// wildcard, per-index store size and creation date, index deletion, and a
// health probe. All calls are blocking round-trips bounded by the
// configured request timeout and the caller's context.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient builds a client for the configured cluster. With TLS enabled
// the connection is HTTPS with mutual authentication; certificate problems
// surface here, before any retry loop.
func NewClient(cfg config.ElasticsearchConfig, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		MaxIdleConns:        4,
		MaxIdleConnsPerHost: 4,
		IdleConnTimeout:     90 * time.Second,
	}

	scheme := "http"
	if cfg.TLS.Enabled {
		tlsConfig, err := buildTLSConfig(cfg.TLS)
		if err != nil {
			return nil, err
		}
		transport.TLSClientConfig = tlsConfig
		scheme = "https"
	}

	host := strings.TrimSuffix(cfg.Host, "/")
	if strings.Contains(host, "://") {
		// Allow a fully qualified URL in ELASTICSEARCH_HOST.
		host = host[strings.Index(host, "://")+3:]
	}

	return &Client{
		baseURL: fmt.Sprintf("%s://%s", scheme, host),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.RequestTimeout,
		},
		logger: logger,
	}, nil
}

// Ping performs a lightweight connectivity probe against the cluster
// health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	var health struct {
		Status string `json:"status"`
	}
	if err := c.getJSON(ctx, "/_cluster/health", &health); err != nil {
		return err
	}
	c.logger.Debug("cluster health probe", "status", health.Status)
	return nil
}

// allocationRow is one row of the _cat/allocation response. disk.total is
// null for the UNASSIGNED row, which json leaves as the empty string.
type allocationRow struct {
	DiskTotal string `json:"disk.total"`
}

// DiskTotals returns the total disk capacity in bytes for every data node
// in the cluster.
func (c *Client) DiskTotals(ctx context.Context) ([]int64, error) {
	var rows []allocationRow
	if err := c.getJSON(ctx, "/_cat/allocation?h=disk.total&bytes=b&format=json", &rows); err != nil {
		return nil, &QueryError{Op: "disk allocation query", Err: err}
	}

	totals := make([]int64, 0, len(rows))
	for _, row := range rows {
		if row.DiskTotal == "" {
			continue
		}
		total, err := strconv.ParseInt(row.DiskTotal, 10, 64)
		if err != nil {
			return nil, &QueryError{Op: "disk allocation query", Err: fmt.Errorf("unparseable disk.total %q: %w", row.DiskTotal, err)}
		}
		totals = append(totals, total)
	}
	return totals, nil
}

// ResolveAliases returns the concrete index names matching the given
// wildcard pattern, sorted for deterministic iteration.
func (c *Client) ResolveAliases(ctx context.Context, pattern string) ([]string, error) {
	var body map[string]json.RawMessage
	if err := c.getJSON(ctx, "/"+url.PathEscape(pattern)+"/_alias", &body); err != nil {
		return nil, &QueryError{Op: "alias resolution", Index: pattern, Err: err}
	}

	names := make([]string, 0, len(body))
	for name := range body {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// StoreSize returns the total store size in bytes for the given index.
func (c *Client) StoreSize(ctx context.Context, index string) (int64, error) {
	var body struct {
		Indices map[string]struct {
			Total struct {
				Store struct {
					SizeInBytes int64 `json:"size_in_bytes"`
				} `json:"store"`
			} `json:"total"`
		} `json:"indices"`
	}
	if err := c.getJSON(ctx, "/"+url.PathEscape(index)+"/_stats/store", &body); err != nil {
		return 0, &QueryError{Op: "store size query", Index: index, Err: err}
	}

	stats, ok := body.Indices[index]
	if !ok {
		return 0, &QueryError{Op: "store size query", Index: index, Err: fmt.Errorf("index missing from stats response")}
	}
	return stats.Total.Store.SizeInBytes, nil
}

// CreationDate returns the index creation timestamp in epoch milliseconds,
// read from the index settings.
func (c *Client) CreationDate(ctx context.Context, index string) (int64, error) {
	var body map[string]struct {
		Settings struct {
			Index struct {
				CreationDate string `json:"creation_date"`
			} `json:"index"`
		} `json:"settings"`
	}
	if err := c.getJSON(ctx, "/"+url.PathEscape(index)+"/_settings", &body); err != nil {
		return 0, &QueryError{Op: "settings query", Index: index, Err: err}
	}

	settings, ok := body[index]
	if !ok {
		return 0, &QueryError{Op: "settings query", Index: index, Err: fmt.Errorf("index missing from settings response")}
	}
	created, err := strconv.ParseInt(settings.Settings.Index.CreationDate, 10, 64)
	if err != nil {
		return 0, &QueryError{Op: "settings query", Index: index, Err: fmt.Errorf("unparseable creation_date %q: %w", settings.Settings.Index.CreationDate, err)}
	}
	return created, nil
}

// DeleteIndex deletes the given index. A missing index is reported as
// ErrIndexNotFound so the caller can treat it as already done.
func (c *Client) DeleteIndex(ctx context.Context, index string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/"+url.PathEscape(index), nil)
	if err != nil {
		return fmt.Errorf("failed to build delete request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete request failed: %w", err)
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrIndexNotFound, index)
	case resp.StatusCode >= 300:
		return fmt.Errorf("delete %s: unexpected status %s", index, resp.Status)
	}
	return nil
}

// getJSON performs a GET against the cluster and decodes the JSON response
// into out.
func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode >= 300 {
		return fmt.Errorf("GET %s: unexpected status %s", path, resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("GET %s: failed to decode response: %w", path, err)
	}
	return nil
}

// drainAndClose keeps the connection reusable by the pooled transport.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, body)
	_ = body.Close()
}
