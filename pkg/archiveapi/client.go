// Package archiveapi is the client for the archive gateway's REST API.
package archiveapi

import (
	"context"

	"github.com/grovetools/archive/pkg/models"
)

// Client defines the operations the CLI and TUI need from the gateway.
type Client interface {
	// Health calls the gateway's /health endpoint.
	Health(ctx context.Context) (*models.Health, error)

	// ListItems returns a page of items, optionally filtered by field.
	ListItems(ctx context.Context, opts ListOptions) (*models.ItemList, error)

	// CreateText archives a text note.
	CreateText(ctx context.Context, req models.TextItemRequest) (*models.Item, error)

	// CreateLink archives an Instagram link.
	CreateLink(ctx context.Context, req models.LinkItemRequest) (*models.Item, error)

	// UploadFile archives a local file.
	UploadFile(ctx context.Context, req models.FileItemRequest) (*models.Item, error)

	// UpdateItem edits an existing item.
	UpdateItem(ctx context.Context, id string, req models.UpdateItemRequest) (*models.Item, error)

	// DeleteItem removes an item.
	DeleteItem(ctx context.Context, id string) error

	// MapView returns the items that carry coordinates.
	MapView(ctx context.Context, opts MapOptions) (*models.MapView, error)

	// Query asks the agent a question.
	Query(ctx context.Context, req models.QueryRequest) (*models.QueryResponse, error)
}

// ListOptions filters ListItems.
type ListOptions struct {
	Field string
	Skip  int
	Limit int
}

// MapOptions filters MapView.
type MapOptions struct {
	Field string
	Tags  []string
}

// DefaultListLimit matches the gateway's page size.
const DefaultListLimit = 50
