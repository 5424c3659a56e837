package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
)

// ErrNilClient is returned by every call on a client built without addresses.
var ErrNilClient = errors.New("elasticsearch client is nil")

// Client Elasticsearch client
type Client struct {
	client *elasticsearch.Client
}

// Hit is one document of a search result.
type Hit struct {
	Index  string          `json:"_index"`
	ID     string          `json:"_id"`
	Score  float64         `json:"_score"`
	Source json.RawMessage `json:"_source"`
}

// SearchResult is the decoded part of a search response.
type SearchResult struct {
	Hits struct {
		Total struct {
			Value    int    `json:"value"`
			Relation string `json:"relation"`
		} `json:"total"`
		Hits []Hit `json:"hits"`
	} `json:"hits"`
}

// ResponseError is a non-2xx answer of the cluster.
type ResponseError struct {
	StatusCode int
	Type       string
	Reason     string
}

func (e *ResponseError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("elasticsearch: status %d", e.StatusCode)
	}
	return fmt.Sprintf("elasticsearch: status %d: %s: %s", e.StatusCode, e.Type, e.Reason)
}

// NewClient new Elasticsearch client. transport may be nil.
func NewClient(addresses []string, username, password string, transport http.RoundTripper) (*Client, error) {
	if len(addresses) == 0 {
		return &Client{client: nil}, nil
	}

	cfg := elasticsearch.Config{
		Addresses: addresses,
		Username:  username,
		Password:  password,
		Transport: transport,
	}

	es, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client creation error: %w", err)
	}

	return &Client{client: es}, nil
}

// Search runs a query DSL body against indexName.
func (c *Client) Search(ctx context.Context, indexName string, body any) (*SearchResult, error) {
	if c == nil || c.client == nil {
		return nil, ErrNilClient
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch encoding error: %w", err)
	}

	res, err := c.client.Search(
		c.client.Search.WithContext(ctx),
		c.client.Search.WithIndex(indexName),
		c.client.Search.WithBody(bytes.NewReader(payload)),
		c.client.Search.WithTrackTotalHits(true),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(res.Body)

	if res.IsError() {
		return nil, responseError(res)
	}

	var sr SearchResult
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("elasticsearch parsing error: %w", err)
	}
	return &sr, nil
}

// Ping checks the cluster answers.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.client == nil {
		return ErrNilClient
	}

	res, err := c.client.Info(c.client.Info.WithContext(ctx))
	if err != nil {
		return err
	}
	defer func(Body io.ReadCloser) {
		_ = Body.Close()
	}(res.Body)

	if res.IsError() {
		return responseError(res)
	}
	return nil
}

// GetClient get Elasticsearch client
func (c *Client) GetClient() *elasticsearch.Client {
	if c == nil {
		return nil
	}
	return c.client
}

func responseError(res *esapi.Response) error {
	var body struct {
		Error struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	}
	// error bodies are not always JSON
	_ = json.NewDecoder(res.Body).Decode(&body)
	return &ResponseError{StatusCode: res.StatusCode, Type: body.Error.Type, Reason: body.Error.Reason}
}
