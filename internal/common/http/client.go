// internal/common/http/client.go
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "plot-query-service/internal/common/errors"
	"plot-query-service/internal/models"
)

// PlotsPath is the query endpoint served by cmd/plot-service.
const PlotsPath = "/api/v1/plots"

// Client talks to a running plot query service.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// QueryPlots sends params as query string values and decodes the plot list.
// Error responses carrying a StandardError body are returned as that error.
func (c *Client) QueryPlots(ctx context.Context, params map[string]string) (*models.PlotList, error) {
	u, err := url.Parse(c.baseURL + PlotsPath)
	if err != nil {
		return nil, fmt.Errorf("invalid server address %q: %w", c.baseURL, err)
	}
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query plots: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var stdErr apperrors.StandardError
		if json.Unmarshal(body, &stdErr) == nil && stdErr.Code != "" {
			return nil, &stdErr
		}
		return nil, fmt.Errorf("query plots: unexpected status %d", resp.StatusCode)
	}

	var list models.PlotList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("decode plots: %w", err)
	}
	return models.NewPlotList(list.Plots), nil
}
