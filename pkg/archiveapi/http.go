package archiveapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/grovetools/archive/composer"
	"github.com/grovetools/archive/config"
	"github.com/grovetools/archive/errors"
	"github.com/grovetools/archive/logging"
	"github.com/grovetools/archive/pkg/models"
)

// RequestIDHeader carries a per-request UUID for gateway log correlation.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of an error response is kept in details.
const maxErrorBody = 2048

// Options configures an HTTPClient.
type Options struct {
	BaseURL           string
	Token             string
	Timeout           time.Duration
	RequestsPerMinute int
	// CacheTTL enables the GET cache when positive.
	CacheTTL time.Duration
	// Catalog restricts request fields. Nil accepts any lower-case id.
	Catalog *composer.Catalog
	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
	Logger     *logrus.Entry
}

// OptionsFromConfig builds client options from the api and categories sections.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	comp, err := cfg.Composer()
	if err != nil {
		return Options{}, err
	}
	return Options{
		BaseURL:           cfg.API.BaseURL,
		Token:             cfg.API.Token,
		Timeout:           cfg.RequestTimeout(),
		RequestsPerMinute: cfg.API.RequestsPerMinute,
		CacheTTL:          cfg.CacheTTL(),
		Catalog:           comp.Catalog(),
	}, nil
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL    *url.URL
	token      string
	httpClient *http.Client
	limiter    *rate.Limiter
	cache      *gocache.Cache
	validate   *validator.Validate
	logger     *logrus.Entry
}

// New creates an HTTPClient from configuration.
func New(cfg *config.Config) (*HTTPClient, error) {
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewHTTPClient(opts)
}

// NewHTTPClient creates an HTTPClient from explicit options.
func NewHTTPClient(opts Options) (*HTTPClient, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = config.DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimRight(opts.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.ConfigInvalid(fmt.Sprintf("api.base_url %q is not an absolute URL", opts.BaseURL))
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = config.DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerMinute > 0 {
		perSecond := rate.Limit(float64(opts.RequestsPerMinute) / 60.0)
		limiter = rate.NewLimiter(perSecond, opts.RequestsPerMinute)
	}

	var cache *gocache.Cache
	if opts.CacheTTL > 0 {
		cache = gocache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger("archiveapi")
	}

	return &HTTPClient{
		baseURL:    base,
		token:      opts.Token,
		httpClient: httpClient,
		limiter:    limiter,
		cache:      cache,
		validate:   newValidator(opts.Catalog),
		logger:     logger,
	}, nil
}

var _ Client = (*HTTPClient)(nil)

// Health calls GET /health on the gateway root.
func (c *HTTPClient) Health(ctx context.Context) (*models.Health, error) {
	root := *c.baseURL
	root.Path = "/health"
	root.RawQuery = ""

	var health models.Health
	if err := c.do(ctx, http.MethodGet, root.String(), nil, "", &health); err != nil {
		return nil, err
	}
	return &health, nil
}

// ListItems calls GET /archive/items.
func (c *HTTPClient) ListItems(ctx context.Context, opts ListOptions) (*models.ItemList, error) {
	if opts.Field != "" {
		if err := c.validateRequest(struct {
			Field string `validate:"category"`
		}{opts.Field}); err != nil {
			return nil, err
		}
	}
	if opts.Limit <= 0 {
		opts.Limit = DefaultListLimit
	}
	if opts.Skip < 0 {
		opts.Skip = 0
	}

	q := url.Values{}
	if opts.Field != "" {
		q.Set("field", opts.Field)
	}
	q.Set("skip", strconv.Itoa(opts.Skip))
	q.Set("limit", strconv.Itoa(opts.Limit))

	var list models.ItemList
	if err := c.cachedGet(ctx, c.endpoint("archive/items", q), &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateText calls POST /archive/text.
func (c *HTTPClient) CreateText(ctx context.Context, req models.TextItemRequest) (*models.Item, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}
	return c.mutateJSON(ctx, http.MethodPost, c.endpoint("archive/text", nil), req)
}

// CreateLink calls POST /archive/instagram.
func (c *HTTPClient) CreateLink(ctx context.Context, req models.LinkItemRequest) (*models.Item, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}
	return c.mutateJSON(ctx, http.MethodPost, c.endpoint("archive/instagram", nil), req)
}

// UploadFile calls POST /archive/file with a multipart body.
func (c *HTTPClient) UploadFile(ctx context.Context, req models.FileItemRequest) (*models.Item, error) {
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	body, contentType, err := encodeUpload(req)
	if err != nil {
		return nil, err
	}

	var item models.Item
	if err := c.do(ctx, http.MethodPost, c.endpoint("archive/file", nil), body, contentType, &item); err != nil {
		return nil, err
	}
	c.invalidate()
	return &item, nil
}

// UpdateItem calls PUT /archive/{id}.
func (c *HTTPClient) UpdateItem(ctx context.Context, id string, req models.UpdateItemRequest) (*models.Item, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.InvalidInput("item id is required", nil)
	}
	if req.IsEmpty() {
		return nil, errors.InvalidInput("nothing to update", nil)
	}
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}
	item, err := c.mutateJSON(ctx, http.MethodPut, c.endpoint("archive/"+url.PathEscape(id), nil), req)
	return item, itemError(err, id)
}

// DeleteItem calls DELETE /archive/{id}.
func (c *HTTPClient) DeleteItem(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return errors.InvalidInput("item id is required", nil)
	}
	err := c.do(ctx, http.MethodDelete, c.endpoint("archive/"+url.PathEscape(id), nil), nil, "", nil)
	if err == nil {
		c.invalidate()
	}
	return itemError(err, id)
}

// MapView calls GET /archive/map/all.
func (c *HTTPClient) MapView(ctx context.Context, opts MapOptions) (*models.MapView, error) {
	if opts.Field != "" {
		if err := c.validateRequest(struct {
			Field string `validate:"category"`
		}{opts.Field}); err != nil {
			return nil, err
		}
	}

	q := url.Values{}
	if opts.Field != "" {
		q.Set("field", opts.Field)
	}
	if len(opts.Tags) > 0 {
		q.Set("tags", strings.Join(opts.Tags, ","))
	}

	var view models.MapView
	if err := c.cachedGet(ctx, c.endpoint("archive/map/all", q), &view); err != nil {
		return nil, err
	}
	return &view, nil
}

// Query calls POST /query. Empty queries are rejected without a request.
func (c *HTTPClient) Query(ctx context.Context, req models.QueryRequest) (*models.QueryResponse, error) {
	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		return nil, errors.EmptyQuery()
	}
	if err := c.validateRequest(req); err != nil {
		return nil, err
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to encode query")
	}

	var resp models.QueryResponse
	if err := c.do(ctx, http.MethodPost, c.endpoint("query", nil), bytes.NewReader(body), "application/json", &resp); err != nil {
		return nil, err
	}
	if resp.Field == "" {
		resp.Field = req.Field
	}
	return &resp, nil
}

func (c *HTTPClient) endpoint(path string, q url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + "/" + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func (c *HTTPClient) cachedGet(ctx context.Context, endpoint string, out interface{}) error {
	if c.cache != nil {
		if raw, ok := c.cache.Get(endpoint); ok {
			c.logger.WithField("endpoint", endpoint).Debug("Serving cached response")
			return json.Unmarshal(raw.([]byte), out)
		}
	}

	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, endpoint, nil, "", &raw); err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.APIDecode(endpoint, err)
	}
	if c.cache != nil {
		c.cache.SetDefault(endpoint, []byte(raw))
	}
	return nil
}

func (c *HTTPClient) mutateJSON(ctx context.Context, method, endpoint string, payload interface{}) (*models.Item, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to encode request")
	}

	var item models.Item
	if err := c.do(ctx, method, endpoint, bytes.NewReader(body), "application/json", &item); err != nil {
		return nil, err
	}
	c.invalidate()
	return &item, nil
}

func (c *HTTPClient) invalidate() {
	if c.cache != nil {
		c.cache.Flush()
	}
}

// do sends one request and decodes a JSON response into out when out is
// non-nil and the response has a body.
func (c *HTTPClient) do(ctx context.Context, method, endpoint string, body io.Reader, contentType string, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeCancelled, "request cancelled while rate limited").
			WithDetail("endpoint", endpoint)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create request")
	}
	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log := c.logger.WithFields(logrus.Fields{
		"method":     method,
		"endpoint":   endpoint,
		"request_id": requestID,
	})
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Debug("Request failed")
		if ctx.Err() != nil {
			return errors.Wrap(ctx.Err(), errors.ErrCodeCancelled, "request cancelled").
				WithDetail("endpoint", endpoint)
		}
		return errors.APIUnavailable(endpoint, err)
	}
	defer resp.Body.Close()

	log.WithFields(logrus.Fields{
		"status":      resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("Request completed")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.APIStatus(endpoint, resp.StatusCode, errorMessage(data))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.APIUnavailable(endpoint, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.APIDecode(endpoint, err)
	}
	return nil
}

// errorMessage extracts the gateway's {"detail": ...} message when present.
func errorMessage(body []byte) string {
	var payload struct {
		Detail interface{} `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Detail != nil {
		if s, ok := payload.Detail.(string); ok {
			return s
		}
		if b, err := json.Marshal(payload.Detail); err == nil {
			return string(b)
		}
	}
	return strings.TrimSpace(string(body))
}

// itemError maps a 404 on an item route to ITEM_NOT_FOUND.
func itemError(err error, id string) error {
	if err == nil {
		return nil
	}
	if ae, ok := errors.As(err); ok && ae.Code == errors.ErrCodeAPIStatus {
		if status, _ := ae.Details["status"].(int); status == http.StatusNotFound {
			return errors.ItemNotFound(id)
		}
	}
	return err
}

// encodeUpload builds the multipart body for a file upload. Tags are sent
// comma-separated, which is what the archive service parses.
func encodeUpload(req models.FileItemRequest) (io.Reader, string, error) {
	f, err := os.Open(req.Path)
	if err != nil {
		return nil, "", errors.InvalidInput(fmt.Sprintf("cannot open %s", req.Path), err)
	}
	defer f.Close()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := [][2]string{
		{"field", req.Field},
		{"title", req.Title},
	}
	if len(req.Tags) > 0 {
		fields = append(fields, [2]string{"tags", strings.Join(req.Tags, ",")})
	}
	if loc := req.Location; loc != nil {
		if loc.Address != "" {
			fields = append(fields, [2]string{"location_address", loc.Address})
		}
		if loc.GoogleMapsURL != "" {
			fields = append(fields, [2]string{"location_google_maps_url", loc.GoogleMapsURL})
		}
		if loc.HasCoordinates() {
			fields = append(fields,
				[2]string{"location_latitude", strconv.FormatFloat(*loc.Latitude, 'f', -1, 64)},
				[2]string{"location_longitude", strconv.FormatFloat(*loc.Longitude, 'f', -1, 64)},
			)
		}
	}
	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return nil, "", errors.Wrap(err, errors.ErrCodeInternal, "failed to encode upload")
		}
	}

	part, err := w.CreateFormFile("file", filepath.Base(req.Path))
	if err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeInternal, "failed to encode upload")
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", errors.InvalidInput(fmt.Sprintf("cannot read %s", req.Path), err)
	}
	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, errors.ErrCodeInternal, "failed to encode upload")
	}
	return &buf, w.FormDataContentType(), nil
}
