package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/grovetools/archive/pkg/models"
)

// Request is a request recorded by FakeGateway.
type Request struct {
	Method  string
	Path    string
	Query   string
	Header  http.Header
	Body    []byte
	Form    map[string]string
	Upload  string
	Content []byte
}

// FakeGateway is an in-memory archive gateway backed by httptest.
type FakeGateway struct {
	Server *httptest.Server

	mu       sync.Mutex
	items    map[string]models.Item
	order    []string
	requests []Request
	failures map[string]int

	// QueryFunc answers POST /query. The default echoes the query.
	QueryFunc func(models.QueryRequest) (models.QueryResponse, int)
}

// NewFakeGateway starts a fake gateway that is closed with the test.
func NewFakeGateway(t *testing.T) *FakeGateway {
	t.Helper()

	g := &FakeGateway{
		items:    make(map[string]models.Item),
		failures: make(map[string]int),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/health", g.handleHealth)
	mux.HandleFunc("/api/v1/archive/", g.handleArchive)
	mux.HandleFunc("/api/v1/query", g.handleQuery)
	g.Server = httptest.NewServer(g.record(mux))
	t.Cleanup(g.Server.Close)
	return g
}

// BaseURL is the value for api.base_url.
func (g *FakeGateway) BaseURL() string {
	return g.Server.URL + "/api/v1"
}

// AddItem seeds an item and returns it with an id and timestamp filled in.
func (g *FakeGateway) AddItem(item models.Item) models.Item {
	g.mu.Lock()
	defer g.mu.Unlock()

	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = models.NewTimestamp(time.Date(2024, 5, 1, 12, 0, len(g.order), 0, time.UTC))
	}
	if item.ContentType == "" {
		item.ContentType = models.ContentText
	}
	if _, exists := g.items[item.ID]; !exists {
		g.order = append(g.order, item.ID)
	}
	g.items[item.ID] = item
	return item
}

// Items returns the stored items in insertion order.
func (g *FakeGateway) Items() []models.Item {
	g.mu.Lock()
	defer g.mu.Unlock()

	out := make([]models.Item, 0, len(g.order))
	for _, id := range g.order {
		if item, ok := g.items[id]; ok {
			out = append(out, item)
		}
	}
	return out
}

// FailWith makes every request whose path ends in suffix return status.
func (g *FakeGateway) FailWith(suffix string, status int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.failures[suffix] = status
}

// Requests returns the recorded requests.
func (g *FakeGateway) Requests() []Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]Request(nil), g.requests...)
}

// CountRequests counts recorded requests with the given method and path.
func (g *FakeGateway) CountRequests(method, path string) int {
	n := 0
	for _, r := range g.Requests() {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (g *FakeGateway) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
		}

		mediaType, params, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if strings.HasPrefix(mediaType, "multipart/") {
			rec.Form = make(map[string]string)
			reader := multipart.NewReader(r.Body, params["boundary"])
			for {
				part, err := reader.NextPart()
				if err != nil {
					break
				}
				data, _ := io.ReadAll(part)
				if part.FileName() != "" {
					rec.Upload = part.FileName()
					rec.Content = data
				} else {
					rec.Form[part.FormName()] = string(data)
				}
			}
		} else if r.Body != nil {
			rec.Body, _ = io.ReadAll(r.Body)
		}

		g.mu.Lock()
		g.requests = append(g.requests, rec)
		status := 0
		for suffix, code := range g.failures {
			if strings.HasSuffix(r.URL.Path, suffix) {
				status = code
			}
		}
		g.mu.Unlock()

		if status != 0 {
			writeJSON(w, status, map[string]string{"detail": http.StatusText(status)})
			return
		}

		r = r.Clone(r.Context())
		r.Body = io.NopCloser(bytes.NewReader(rec.Body))
		if rec.Form != nil {
			r = r.WithContext(context.WithValue(r.Context(), formKey{}, formData{fields: rec.Form, upload: rec.Upload}))
		}
		next.ServeHTTP(w, r)
	})
}

type formKey struct{}

type formData struct {
	fields map[string]string
	upload string
}

func formFrom(r *http.Request) (formData, bool) {
	f, ok := r.Context().Value(formKey{}).(formData)
	return f, ok
}

func (g *FakeGateway) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.Health{Status: "healthy", Services: map[string]string{"archive": "healthy"}})
}

func (g *FakeGateway) handleArchive(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/v1/archive/")

	switch {
	case r.Method == http.MethodGet && rest == "items":
		g.listItems(w, r)
	case r.Method == http.MethodGet && rest == "map/all":
		g.mapView(w, r)
	case r.Method == http.MethodPost && rest == "text":
		var req models.TextItemRequest
		if !decode(w, r, &req) {
			return
		}
		item := g.AddItem(models.Item{Field: req.Field, Title: req.Title, Content: req.Content, Tags: req.Tags, Location: req.Location, ContentType: models.ContentText})
		writeJSON(w, http.StatusCreated, item)
	case r.Method == http.MethodPost && rest == "instagram":
		var req models.LinkItemRequest
		if !decode(w, r, &req) {
			return
		}
		item := g.AddItem(models.Item{Field: req.Field, Title: req.Title, FileURL: req.URL, Tags: req.Tags, Location: req.Location, ContentType: models.ContentInstagram})
		writeJSON(w, http.StatusCreated, item)
	case r.Method == http.MethodPost && rest == "file":
		form, ok := formFrom(r)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "expected multipart form"})
			return
		}
		var tags []string
		if raw := form.fields["tags"]; raw != "" {
			for _, tag := range strings.Split(raw, ",") {
				tags = append(tags, strings.TrimSpace(tag))
			}
		}
		item := g.AddItem(models.Item{
			Field:       form.fields["field"],
			Title:       form.fields["title"],
			FileName:    form.upload,
			FileURL:     "/files/" + form.fields["field"] + "/" + form.upload,
			Tags:        tags,
			ContentType: models.ContentFile,
		})
		writeJSON(w, http.StatusCreated, item)
	case r.Method == http.MethodPut:
		g.updateItem(w, r, rest)
	case r.Method == http.MethodDelete:
		g.mu.Lock()
		_, ok := g.items[rest]
		delete(g.items, rest)
		g.mu.Unlock()
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Archive item not found"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not Found"})
	}
}

func (g *FakeGateway) listItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	field := q.Get("field")
	skip, _ := strconv.Atoi(q.Get("skip"))
	limit, err := strconv.Atoi(q.Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	var matched []models.Item
	for _, item := range g.Items() {
		if field == "" || item.Field == field {
			matched = append(matched, item)
		}
	}

	page := []models.Item{}
	for i := skip; i < len(matched) && i < skip+limit; i++ {
		page = append(page, matched[i])
	}
	writeJSON(w, http.StatusOK, models.ItemList{Items: page, Total: len(matched), Skip: skip, Limit: limit})
}

func (g *FakeGateway) mapView(w http.ResponseWriter, r *http.Request) {
	field := r.URL.Query().Get("field")
	var tags []string
	if raw := r.URL.Query().Get("tags"); raw != "" {
		tags = strings.Split(raw, ",")
	}

	view := models.MapView{Markers: []models.MapMarker{}}
	var latSum, lonSum float64
	for _, item := range g.Items() {
		if !item.Location.HasCoordinates() || (field != "" && item.Field != field) {
			continue
		}
		if len(tags) > 0 && !hasAny(item.Tags, tags) {
			continue
		}
		view.Markers = append(view.Markers, models.MapMarker{
			ID:             item.ID,
			Title:          item.Title,
			Latitude:       *item.Location.Latitude,
			Longitude:      *item.Location.Longitude,
			Field:          item.Field,
			ContentPreview: item.Content,
			CreatedAt:      item.CreatedAt,
		})
		latSum += *item.Location.Latitude
		lonSum += *item.Location.Longitude
	}
	view.Total = len(view.Markers)
	if view.Total > 0 {
		lat, lon := latSum/float64(view.Total), lonSum/float64(view.Total)
		view.CenterLatitude, view.CenterLongitude = &lat, &lon
	}
	writeJSON(w, http.StatusOK, view)
}

func (g *FakeGateway) updateItem(w http.ResponseWriter, r *http.Request, id string) {
	var req models.UpdateItemRequest
	if !decode(w, r, &req) {
		return
	}

	g.mu.Lock()
	item, ok := g.items[id]
	if ok {
		if req.Field != "" {
			item.Field = req.Field
		}
		if req.Title != "" {
			item.Title = req.Title
		}
		if req.Content != "" {
			item.Content = req.Content
		}
		if req.Tags != nil {
			item.Tags = req.Tags
		}
		updated := models.NewTimestamp(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC))
		item.UpdatedAt = &updated
		g.items[id] = item
	}
	g.mu.Unlock()

	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Archive item not found"})
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (g *FakeGateway) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"detail": "Method Not Allowed"})
		return
	}
	var req models.QueryRequest
	if !decode(w, r, &req) {
		return
	}

	if g.QueryFunc != nil {
		resp, status := g.QueryFunc(req)
		if status == 0 {
			status = http.StatusOK
		}
		writeJSON(w, status, resp)
		return
	}

	scope := "all fields"
	if req.Field != "" {
		scope = req.Field
	}
	writeJSON(w, http.StatusOK, models.QueryResponse{
		Query:    req.Query,
		Response: fmt.Sprintf("You asked about **%s** in %s.", req.Query, scope),
		Sources:  []models.Source{},
		Field:    req.Field,
	})
}

func decode(w http.ResponseWriter, r *http.Request, out interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func hasAny(have, want []string) bool {
	set := make(map[string]bool, len(have))
	for _, tag := range have {
		set[tag] = true
	}
	for _, tag := range want {
		if set[strings.TrimSpace(tag)] {
			return true
		}
	}
	return false
}

// SortedKeys returns the keys of m in order; handy for asserting form fields.
func SortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
