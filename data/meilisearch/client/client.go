package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/meilisearch/meilisearch-go"
)

var (
	// ErrNilClient is returned by every call on a client built without a host.
	ErrNilClient = errors.New("meilisearch client is nil")
	// ErrDocumentNotFound is returned by GetDocument for an unknown id.
	ErrDocumentNotFound = errors.New("meilisearch document not found")
)

// Client Meilisearch client wrapper
type Client struct {
	client meilisearch.ServiceManager
}

// SearchParams is an alias for meilisearch.SearchRequest type
type SearchParams = meilisearch.SearchRequest

// NewMeilisearch creates new Meilisearch client
func NewMeilisearch(host, apiKey string) *Client {
	if host == "" {
		return &Client{client: nil}
	}
	ms := meilisearch.New(host, meilisearch.WithAPIKey(apiKey))
	return &Client{client: ms}
}

// GetClient returns the underlying meilisearch client
func (c *Client) GetClient() meilisearch.ServiceManager {
	if c == nil {
		return nil
	}
	return c.client
}

// Search posts a search to index and returns the undecoded response body,
// so callers see exactly which counters the server reported.
func (c *Client) Search(ctx context.Context, index, query string, params *SearchParams) (*json.RawMessage, error) {
	if c == nil || c.client == nil {
		return nil, ErrNilClient
	}
	if params == nil {
		params = &SearchParams{}
	}
	raw, err := c.client.Index(index).SearchRawWithContext(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("meilisearch search error: %w", err)
	}
	return raw, nil
}

// GetDocument decodes the document with the given id into documentPtr. An
// unknown document or index yields ErrDocumentNotFound.
func (c *Client) GetDocument(ctx context.Context, index, documentID string, documentPtr any) error {
	if c == nil || c.client == nil {
		return ErrNilClient
	}

	err := c.client.Index(index).GetDocumentWithContext(ctx, documentID, nil, documentPtr)
	if err != nil {
		var me *meilisearch.Error
		if errors.As(err, &me) && me.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%w: %s/%s", ErrDocumentNotFound, index, documentID)
		}
		return fmt.Errorf("meilisearch get document error: %w", err)
	}
	return nil
}

// UpdateDocuments adds or replaces documents in index and returns the uid of
// the enqueued task.
func (c *Client) UpdateDocuments(ctx context.Context, index string, documents any, primaryKey string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, ErrNilClient
	}

	var pk *string
	if primaryKey != "" {
		pk = &primaryKey
	}

	task, err := c.client.Index(index).UpdateDocumentsWithContext(ctx, documents, &meilisearch.DocumentOptions{PrimaryKey: pk})
	if err != nil {
		return 0, fmt.Errorf("meilisearch update documents error: %w", err)
	}
	return task.TaskUID, nil
}

// UpdateFilterableAttributes sets the attributes usable in search filters.
func (c *Client) UpdateFilterableAttributes(ctx context.Context, index string, attributes []string) (int64, error) {
	if c == nil || c.client == nil {
		return 0, ErrNilClient
	}

	attrs := make([]any, len(attributes))
	for i, a := range attributes {
		attrs[i] = a
	}
	task, err := c.client.Index(index).UpdateFilterableAttributesWithContext(ctx, &attrs)
	if err != nil {
		return 0, fmt.Errorf("meilisearch update filterable attributes error: %w", err)
	}
	return task.TaskUID, nil
}

// Health checks if Meilisearch is healthy
func (c *Client) Health() (*meilisearch.Health, error) {
	if c == nil || c.client == nil {
		return nil, ErrNilClient
	}

	health, err := c.client.Health()
	if err != nil {
		return nil, fmt.Errorf("meilisearch health check error: %w", err)
	}
	return health, nil
}

// IsHealthy checks if Meilisearch is healthy (convenience method)
func (c *Client) IsHealthy() bool {
	if c == nil || c.client == nil {
		return false
	}
	return c.client.IsHealthy()
}
