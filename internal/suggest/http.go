package suggest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/personalink/internal/utils"
)

// maxResponseBytes caps how much of the upstream body is read.
const maxResponseBytes = 1 << 20

// HTTPSource posts a Request as JSON to an LLM gateway and decodes a Response.
type HTTPSource struct {
	endpoint string
	apiKey   string
	model    string
	client   *http.Client
}

// NewHTTPSource creates an HTTPSource with the given per-call timeout.
func NewHTTPSource(endpoint, apiKey, model string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		endpoint: endpoint,
		apiKey:   apiKey,
		model:    model,
		client:   &http.Client{Timeout: timeout},
	}
}

// Suggest implements Source.
func (s *HTTPSource) Suggest(ctx context.Context, req Request) (*Response, error) {
	if s.endpoint == "" {
		return nil, fmt.Errorf("suggestion endpoint not configured")
	}
	if req.Model == "" {
		req.Model = s.model
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal suggestion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build suggestion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if s.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("suggestion request failed: %w", err)
	}
	defer utils.Close(resp.Body)

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read suggestion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggestion service returned %d: %s", resp.StatusCode, truncate(data, 200))
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("malformed suggestion response: %w", err)
	}
	return &out, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
