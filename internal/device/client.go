package device

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"irconsole"
)

const requestTimeout = 10 * time.Second

// Client is the one-shot HTTP side of the device API: catalog reads, catalog
// mutations and the send fallback used while the persistent channel is down.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient builds a client for the device at baseURL (e.g. "http://192.168.4.1").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

// ackResponse is the device's generic mutation reply.
type ackResponse struct {
	OK bool `json:"ok"`
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (*http.Response, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	return c.http.Do(req)
}

func (c *Client) post(ctx context.Context, path string, q url.Values, body io.Reader, contentType string) (*http.Response, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.http.Do(req)
}

// decodeAck drains a mutation response and reports its ok flag. A missing or
// false flag is not an error: the absence of success is itself the signal.
func decodeAck(resp *http.Response) (bool, error) {
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		// The device answers mutations with 200 + {"ok":...}; anything else
		// is still a parseable rejection on its API, so read it the same way.
		var ack ackResponse
		_ = json.NewDecoder(resp.Body).Decode(&ack)
		return ack.OK, nil
	}
	var ack ackResponse
	if err := json.NewDecoder(resp.Body).Decode(&ack); err != nil {
		return false, fmt.Errorf("decode ack: %w", err)
	}
	return ack.OK, nil
}

// FetchSaved loads the authoritative saved-command list.
func (c *Client) FetchSaved(ctx context.Context) ([]irconsole.SavedCommand, error) {
	resp, err := c.get(ctx, "/saved", nil)
	if err != nil {
		return nil, fmt.Errorf("fetch saved list: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch saved list: status %d", resp.StatusCode)
	}
	var items []irconsole.SavedCommand
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode saved list: %w", err)
	}
	return items, nil
}

// SendCode fires a one-shot NEC transmission: GET /send?type=nec&data&length.
// The device replies with plain text; only transport failure is an error.
func (c *Client) SendCode(ctx context.Context, data string, length int) error {
	q := url.Values{}
	q.Set("type", "nec")
	q.Set("data", data)
	q.Set("length", strconv.Itoa(length))
	resp, err := c.get(ctx, "/send", q)
	if err != nil {
		return fmt.Errorf("send code: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("send code: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("send code: status %d", resp.StatusCode)
	}
	return nil
}

// Save persists a command on the device. Reports the device's ok flag.
func (c *Client) Save(ctx context.Context, protocol, value string, length int, name string) (bool, error) {
	q := url.Values{}
	q.Set("protocol", protocol)
	q.Set("value", value)
	q.Set("length", strconv.Itoa(length))
	if name != "" {
		q.Set("name", name)
	}
	resp, err := c.get(ctx, "/save", q)
	if err != nil {
		return false, fmt.Errorf("save: %w", err)
	}
	return decodeAck(resp)
}

// Rename changes the display name of a stored command.
func (c *Client) Rename(ctx context.Context, index int, name string) (bool, error) {
	q := url.Values{}
	q.Set("index", strconv.Itoa(index))
	q.Set("name", name)
	resp, err := c.post(ctx, "/saved/rename", q, nil, "")
	if err != nil {
		return false, fmt.Errorf("rename: %w", err)
	}
	return decodeAck(resp)
}

// Delete removes a stored command.
func (c *Client) Delete(ctx context.Context, index int) (bool, error) {
	q := url.Values{}
	q.Set("index", strconv.Itoa(index))
	resp, err := c.post(ctx, "/saved/delete", q, nil, "")
	if err != nil {
		return false, fmt.Errorf("delete: %w", err)
	}
	return decodeAck(resp)
}

// Import uploads a validated command array and returns the device's
// imported/skipped summary.
func (c *Client) Import(ctx context.Context, items []irconsole.SavedCommand) (irconsole.ImportResult, error) {
	payload, err := json.Marshal(items)
	if err != nil {
		return irconsole.ImportResult{}, fmt.Errorf("encode import: %w", err)
	}
	resp, err := c.post(ctx, "/saved/import", nil, bytes.NewReader(payload), "application/json")
	if err != nil {
		return irconsole.ImportResult{}, fmt.Errorf("import: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	var res irconsole.ImportResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return irconsole.ImportResult{}, fmt.Errorf("decode import result: %w", err)
	}
	return res, nil
}
