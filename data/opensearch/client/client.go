package client

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/opensearch-project/opensearch-go/v4"
	"github.com/opensearch-project/opensearch-go/v4/opensearchapi"
)

// ErrNilClient is returned by every call on a client built without addresses.
var ErrNilClient = errors.New("opensearch client is nil")

// Client OpenSearch client
type Client struct {
	client *opensearchapi.Client
}

// NewClient creates a new OpenSearch client
func NewClient(addresses []string, username, password string, insecure bool) (*Client, error) {
	if len(addresses) == 0 {
		return &Client{client: nil}, nil
	}

	transport := &http.Transport{
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: insecure,
		},
	}

	client, err := opensearchapi.NewClient(
		opensearchapi.Config{
			Client: opensearch.Config{
				Addresses:  addresses,
				Username:   username,
				Password:   password,
				Transport:  transport,
				MaxRetries: 3,
			},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("opensearch client creation error: %w", err)
	}

	return &Client{client: client}, nil
}

// Search runs a query DSL body against indexName.
func (c *Client) Search(ctx context.Context, indexName string, body any) (*opensearchapi.SearchResp, error) {
	if c == nil || c.client == nil {
		return nil, ErrNilClient
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("opensearch encoding error: %w", err)
	}

	res, err := c.client.Search(ctx, &opensearchapi.SearchReq{
		Indices: []string{indexName},
		Body:    bytes.NewReader(payload),
	})
	if err != nil {
		return nil, fmt.Errorf("opensearch search error: %w", err)
	}
	return res, nil
}

// Health checks cluster health
func (c *Client) Health(ctx context.Context) (string, error) {
	if c == nil || c.client == nil {
		return "", ErrNilClient
	}

	res, err := c.client.Cluster.Health(ctx, &opensearchapi.ClusterHealthReq{})
	if err != nil {
		return "", fmt.Errorf("opensearch health check error: %w", err)
	}

	return res.Status, nil
}

// GetClient returns the OpenSearch client
func (c *Client) GetClient() *opensearchapi.Client {
	if c == nil {
		return nil
	}
	return c.client
}
