package nzbget

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/imroc/req/v3"
	"go.uber.org/zap"

	"github.com/mikey/nzbget-notify/internal/core"
)

// Client calls NZBGet's JSON-RPC API
type Client struct {
	http     *req.Client
	endpoint string
	logger   *zap.Logger
}

type rpcRequest struct {
	Version string        `json:"version"`
	Method  string        `json:"method"`
	Params  []interface{} `json:"params"`
	ID      int           `json:"id"`
}

type rpcResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Name    string `json:"name"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("%s (%d): %s", e.Name, e.Code, e.Message)
}

// groupRecord mirrors the listgroups fields used for statistics
type groupRecord struct {
	NZBID            int64   `json:"NZBID"`
	DownloadedSizeMB float64 `json:"DownloadedSizeMB"`
	DownloadTimeSec  int64   `json:"DownloadTimeSec"`
	ParTimeSec       int64   `json:"ParTimeSec"`
	RepairTimeSec    int64   `json:"RepairTimeSec"`
	UnpackTimeSec    int64   `json:"UnpackTimeSec"`
	PostTotalTimeSec int64   `json:"PostTotalTimeSec"`
}

type logRecord struct {
	ID   int64  `json:"ID"`
	Kind string `json:"Kind"`
	Time int64  `json:"Time"`
	Text string `json:"Text"`
}

// NewClient creates a client for the API at address (host:port)
func NewClient(address, username, password string, timeout time.Duration, logger *zap.Logger) *Client {
	httpClient := req.C().
		SetTimeout(timeout).
		SetUserAgent("nzbget-notify").
		SetCommonBasicAuth(username, password)

	return &Client{
		http:     httpClient,
		endpoint: fmt.Sprintf("http://%s/jsonrpc", address),
		logger:   logger,
	}
}

// Endpoint returns the JSON-RPC URL without credentials
func (c *Client) Endpoint() string {
	return c.endpoint
}

// ListGroups implements core.ControlClient
func (c *Client) ListGroups(ctx context.Context) ([]core.GroupStats, error) {
	var records []groupRecord
	if err := c.call(ctx, "listgroups", &records, 0); err != nil {
		return nil, err
	}

	groups := make([]core.GroupStats, 0, len(records))
	for _, r := range records {
		groups = append(groups, core.GroupStats{
			NZBID:            r.NZBID,
			DownloadedSizeMB: r.DownloadedSizeMB,
			DownloadTimeSec:  r.DownloadTimeSec,
			ParTimeSec:       r.ParTimeSec,
			RepairTimeSec:    r.RepairTimeSec,
			UnpackTimeSec:    r.UnpackTimeSec,
			PostTotalTimeSec: r.PostTotalTimeSec,
		})
	}
	return groups, nil
}

// LoadLog implements core.ControlClient
func (c *Client) LoadLog(ctx context.Context, nzbID int64, idFrom int64, count int) ([]core.LogEntry, error) {
	var records []logRecord
	if err := c.call(ctx, "loadlog", &records, nzbID, idFrom, count); err != nil {
		return nil, err
	}

	entries := make([]core.LogEntry, 0, len(records))
	for _, r := range records {
		entries = append(entries, core.LogEntry{
			ID:   r.ID,
			Kind: r.Kind,
			Time: time.Unix(r.Time, 0),
			Text: r.Text,
		})
	}
	return entries, nil
}

func (c *Client) call(ctx context.Context, method string, result interface{}, params ...interface{}) error {
	c.logger.Debug("Calling control API", zap.String("method", method), zap.String("endpoint", c.endpoint))

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(&rpcRequest{Version: "1.1", Method: method, Params: params, ID: 1}).
		Post(c.endpoint)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", method, err)
	}
	if !resp.IsSuccessState() {
		return fmt.Errorf("%s request failed: %s", method, resp.Status)
	}

	body, err := resp.ToBytes()
	if err != nil {
		return fmt.Errorf("failed to read %s response: %w", method, err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(body, &rpcResp); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", method, err)
	}
	if rpcResp.Error != nil {
		return fmt.Errorf("%s failed: %w", method, rpcResp.Error)
	}
	if err := json.Unmarshal(rpcResp.Result, result); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}
