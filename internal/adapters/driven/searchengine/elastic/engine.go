package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/lexroster/internal/core/domain"
	"github.com/custodia-labs/lexroster/internal/core/ports/driven"
)

// Ensure Engine implements the interface.
var _ driven.PrimaryEngine = (*Engine)(nil)

// Default configuration values.
const (
	DefaultIndex             = "lexroster-documents"
	DefaultTimeout           = 10 * time.Second
	DefaultRequestsPerSecond = 20.0
	DefaultBurst             = 40

	// fragmentSize and fragmentCount shape full-text highlights.
	fragmentSize  = 150
	fragmentCount = 3

	// maxErrorBody caps how much of an error response is kept.
	maxErrorBody = 512
)

// Config holds configuration for the search engine client.
type Config struct {
	// BaseURL is the cluster URL, e.g. http://localhost:9200.
	BaseURL string

	// Index is the index documents are mirrored into.
	Index string

	// Username and Password enable basic auth. APIKey takes precedence.
	Username string
	Password string
	APIKey   string

	// Timeout bounds the wait for response headers. Callers also bound
	// each request through its context.
	Timeout time.Duration

	// RequestsPerSecond and Burst throttle outgoing requests.
	RequestsPerSecond float64
	Burst             int
}

// Engine is a search engine client.
type Engine struct {
	client  *elasticsearch.Client
	index   string
	cfg     Config
	limiter *rate.Limiter
}

// New creates a search engine client.
func New(cfg Config) (*Engine, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("elastic: base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("elastic: invalid base URL: %w", err)
	}
	if cfg.Index == "" {
		cfg.Index = DefaultIndex
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = DefaultBurst
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = cfg.Timeout

	// Retries stay off: the search gateway falls back to the document store
	// instead of waiting on a struggling cluster.
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:    []string{strings.TrimRight(cfg.BaseURL, "/")},
		Username:     cfg.Username,
		Password:     cfg.Password,
		APIKey:       cfg.APIKey,
		Transport:    transport,
		DisableRetry: true,
	})
	if err != nil {
		return nil, fmt.Errorf("elastic: create client: %w", err)
	}

	return &Engine{
		client:  client,
		index:   cfg.Index,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
	}, nil
}

// Index returns the index name documents are mirrored into.
func (e *Engine) Index() string {
	return e.index
}

// EnsureIndex creates the index with its mapping when it does not exist.
func (e *Engine) EnsureIndex(ctx context.Context) error {
	body, err := jsonBody(indexMapping())
	if err != nil {
		return err
	}
	res, err := e.perform(ctx, esapi.IndicesCreateRequest{Index: e.index, Body: body})
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusBadRequest {
		msg := readError(res)
		if strings.Contains(msg, "resource_already_exists_exception") {
			return nil
		}
		return fmt.Errorf("elastic create index: status %d: %s", res.StatusCode, msg)
	}
	return statusError("create index", res)
}

// IndexDocument mirrors a stored document and returns its reference.
func (e *Engine) IndexDocument(ctx context.Context, doc *domain.Document) (domain.SearchEngineRef, error) {
	body, err := jsonBody(toSource(doc))
	if err != nil {
		return domain.SearchEngineRef{}, err
	}
	res, err := e.perform(ctx, esapi.IndexRequest{Index: e.index, DocumentID: doc.ID, Body: body})
	if err != nil {
		return domain.SearchEngineRef{}, err
	}
	defer res.Body.Close()

	if err := statusError("index", res); err != nil {
		return domain.SearchEngineRef{}, err
	}
	return domain.SearchEngineRef{IndexName: e.index, ExternalID: doc.ID}, nil
}

// Search runs a free-text query with optional term filters and returns
// highlighted hits.
func (e *Engine) Search(ctx context.Context, query domain.TextQuery, size int) (*driven.EngineResult, error) {
	return e.search(ctx, "search", textRequest(query, size))
}

// Filter runs a structural query with term filters only.
func (e *Engine) Filter(
	ctx context.Context, filter domain.DocumentFilter, page domain.Pagination,
) (*driven.EngineResult, error) {
	return e.search(ctx, "filter", filterRequest(filter, page.Normalised()))
}

// DeleteDocument removes a mirrored document. A missing document is not an
// error.
func (e *Engine) DeleteDocument(ctx context.Context, ref domain.SearchEngineRef) error {
	index := ref.IndexName
	if index == "" {
		index = e.index
	}
	res, err := e.perform(ctx, esapi.DeleteRequest{Index: index, DocumentID: ref.ExternalID})
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil
	}
	return statusError("delete", res)
}

// Ping checks reachability.
func (e *Engine) Ping(ctx context.Context) error {
	res, err := e.perform(ctx, esapi.PingRequest{})
	if err != nil {
		return err
	}
	defer res.Body.Close()
	return statusError("ping", res)
}

func (e *Engine) search(ctx context.Context, op string, req *search.Request) (*driven.EngineResult, error) {
	body, err := jsonBody(req)
	if err != nil {
		return nil, err
	}
	res, err := e.perform(ctx, esapi.SearchRequest{Index: []string{e.index}, Body: body})
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if err := statusError(op, res); err != nil {
		return nil, err
	}

	var resp search.Response
	if err := json.NewDecoder(res.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("elastic %s: decode response: %w", op, err)
	}
	result, err := toResult(&resp)
	if err != nil {
		return nil, fmt.Errorf("elastic %s: %w", op, err)
	}
	return result, nil
}

// perform sends one throttled request. The caller closes the response body.
func (e *Engine) perform(ctx context.Context, req esapi.Request) (*esapi.Response, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("elastic: rate limit wait: %w", err)
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return nil, fmt.Errorf("elastic: send request: %w", err)
	}
	return res, nil
}

func jsonBody(v any) (io.Reader, error) {
	buf, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("elastic: marshal request: %w", err)
	}
	return bytes.NewReader(buf), nil
}

// statusError returns nil for 2xx responses.
func statusError(op string, res *esapi.Response) error {
	if !res.IsError() {
		return nil
	}
	return fmt.Errorf("elastic %s: status %d: %s", op, res.StatusCode, readError(res))
}

// readError returns the start of an error response body.
func readError(res *esapi.Response) string {
	body, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
	return strings.TrimSpace(string(body))
}
