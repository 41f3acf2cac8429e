package scraper

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/fr4nk3nst1ner/devsalaries/internal/client"
	"github.com/pterm/pterm"
)

var (
	// ErrStatus is wrapped by every non-2xx API response
	ErrStatus = errors.New("unexpected status")
	// ErrMalformed means a 2xx response body could not be decoded
	ErrMalformed = errors.New("malformed response")
)

// StatusError carries the status code and a short summary of the failed response
type StatusError struct {
	Code    int
	Summary string
}

func (e *StatusError) Error() string {
	if e.Summary == "" {
		return fmt.Sprintf("received status code %d", e.Code)
	}
	return fmt.Sprintf("received status code %d: %s", e.Code, e.Summary)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

// apiClient is the JSON GET plumbing shared by the sources
type apiClient struct {
	httpClient *http.Client
	headers    http.Header
	logger     *pterm.Logger
}

func (c *apiClient) getJSON(ctx context.Context, baseURL string, params url.Values, out any) error {
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("parse base URL: %w", err)
	}
	u.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for key, values := range c.headers {
		req.Header[key] = values
	}

	c.logger.Debug("requesting page", c.logger.Args("url", u.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := client.ReadResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			Code:    resp.StatusCode,
			Summary: client.SummarizeBody(resp.Header.Get("Content-Type"), body),
		}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}
