package live

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// BridgeClient talks to the bridge process running inside the host over
// JSON/HTTP. One request per accessor call; the bridge resolves the path and
// performs the get/set/call against the host API.
type BridgeClient struct {
	baseURL string
	http    *http.Client
}

// NewBridgeClient creates a client for the bridge at baseURL.
func NewBridgeClient(baseURL string) *BridgeClient {
	return &BridgeClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type bridgeRequest struct {
	Path     string `json:"path"`
	Property string `json:"property,omitempty"`
	Method   string `json:"method,omitempty"`
	Value    any    `json:"value,omitempty"`
	Args     []any  `json:"args,omitempty"`
}

type bridgeResponse struct {
	Result any    `json:"result"`
	Error  string `json:"error,omitempty"`
}

func (c *BridgeClient) Get(ctx context.Context, path, property string) (any, error) {
	return c.post(ctx, "/get", bridgeRequest{Path: path, Property: property})
}

func (c *BridgeClient) Set(ctx context.Context, path, property string, value any) error {
	_, err := c.post(ctx, "/set", bridgeRequest{Path: path, Property: property, Value: value})
	return err
}

func (c *BridgeClient) Call(ctx context.Context, path, method string, args ...any) (any, error) {
	return c.post(ctx, "/call", bridgeRequest{Path: path, Method: method, Args: args})
}

func (c *BridgeClient) post(ctx context.Context, endpoint string, reqBody bridgeRequest) (any, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("live: encode bridge request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("live: build bridge request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("live: bridge request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("live: bridge returned status %d for %s %s", resp.StatusCode, endpoint, reqBody.Path)
	}

	var decoded bridgeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("live: decode bridge response: %w", err)
	}
	if decoded.Error != "" {
		return nil, fmt.Errorf("live: %s", decoded.Error)
	}
	return decoded.Result, nil
}
