package payroll

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"salarycheck/internal/sheet"

	"github.com/rotisserie/eris"
)

var ErrUpstream = eris.New("payroll upstream error")

type Options struct {
	URL       string
	AppCode   string
	UserID    string
	PowerType int
	IsLock    string
	Sheet     string
	Timeout   time.Duration
}

// Client downloads the monthly payroll upload export.
type Client struct {
	opts   Options
	client *http.Client
}

type header struct {
	RequestID    string `json:"requestId"`
	TimeStamp    string `json:"timeStamp"`
	AccessToken  string `json:"accessToken"`
	AppCode      string `json:"appCode"`
	AppSecretKey string `json:"appSecretKey"`
}

type body struct {
	SaMonth       string `json:"saMonth"`
	CurrentUserID string `json:"currentUserId"`
	IsLock        string `json:"isLock"`
	PowerType     int    `json:"powerType"`
	SocketID      string `json:"socketId"`
}

type exportRequest struct {
	Action string `json:"action"`
	Header header `json:"header"`
	Body   body   `json:"body"`
}

func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	return &Client{
		opts: opts,
		client: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// UseDefaultClient routes requests through http.DefaultClient.
func (c *Client) UseDefaultClient() {
	c.client = http.DefaultClient
}

// FetchSheet downloads the export for month (2006-01) and returns the raw
// rows of the configured sheet.
func (c *Client) FetchSheet(ctx context.Context, month string) ([][]string, error) {
	payload, err := json.Marshal(exportRequest{
		Header: header{
			RequestID:    "1",
			TimeStamp:    "1",
			AppCode:      c.opts.AppCode,
			AppSecretKey: "1",
		},
		Body: body{
			SaMonth:       month,
			CurrentUserID: c.opts.UserID,
			IsLock:        c.opts.IsLock,
			PowerType:     c.opts.PowerType,
		},
	})
	if err != nil {
		return nil, eris.Wrap(err, "encode payroll request")
	}

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "build payroll request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/plain, */*")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "payroll request failed")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "read payroll response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, eris.Wrapf(ErrUpstream, "payroll http %d: %s", resp.StatusCode, snippet(data))
	}

	rows, err := sheet.ReadRows(data, c.opts.Sheet)
	if err != nil {
		return nil, eris.Wrapf(err, "parse payroll export for %s", month)
	}
	return rows, nil
}

func snippet(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max]) + "..."
	}
	return string(b)
}
