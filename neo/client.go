// Package neo is the REST client for the broker's trade API. Report
// payloads are handed back as raw records; shape tolerance belongs to
// the views package.
package neo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rustyeddy/terminal/views"
)

// DefaultBaseURL is the broker's production gateway.
const DefaultBaseURL = "https://gw-napi.kotaksecurities.com"

// Client is a broker API client bound to one session token.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a client. An empty baseURL selects the production
// gateway; tests point baseURL at an httptest server.
func NewClient(baseURL, token string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// envelope is the broker's response wrapper. Older endpoints answer
// with stat:"Ok", newer ones with a success flag.
type envelope struct {
	Stat    string          `json:"stat"`
	Success *bool           `json:"success"`
	Data    json.RawMessage `json:"data"`
	ErrMsg  string          `json:"errMsg"`
	Message string          `json:"message"`
}

func (e *envelope) ok() bool {
	if e.Success != nil {
		return *e.Success
	}
	return e.Stat == "" || strings.EqualFold(e.Stat, "ok")
}

func (e *envelope) errText() string {
	if e.ErrMsg != "" {
		return e.ErrMsg
	}
	if e.Message != "" {
		return e.Message
	}
	return "request rejected"
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if !env.ok() {
		return nil, fmt.Errorf("%s %s: %s", method, path, env.errText())
	}
	return &env, nil
}

// records decodes the envelope data as a list of raw records. A null
// or absent data field is an empty report, not an error.
func (e *envelope) records() ([]views.Raw, error) {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil, nil
	}
	var out []views.Raw
	if err := json.Unmarshal(e.Data, &out); err != nil {
		return nil, fmt.Errorf("decode report data: %w", err)
	}
	return out, nil
}
