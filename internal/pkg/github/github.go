package github

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"salarycheck/internal/sheet"

	"github.com/rotisserie/eris"
)

var ErrUpstream = eris.New("github upstream error")

// Client reads raw workbook files from a repository through the contents API.
type Client struct {
	baseURL string
	repo    string
	token   string
	timeout time.Duration
	client  *http.Client
}

func New(baseURL, repo, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		repo:    repo,
		token:   token,
		timeout: timeout,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// UseDefaultClient routes requests through http.DefaultClient.
func (c *Client) UseDefaultClient() {
	c.client = http.DefaultClient
}

// ContentsURL is the contents endpoint for path, each segment escaped.
func (c *Client) ContentsURL(path string) string {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return fmt.Sprintf("%s/repos/%s/contents/%s", c.baseURL, c.repo, strings.Join(segments, "/"))
}

// Download returns the raw bytes of the file at path.
func (c *Client) Download(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ContentsURL(path), nil)
	if err != nil {
		return nil, eris.Wrapf(err, "build request for %s", path)
	}
	req.Header.Set("Authorization", "token "+c.token)
	req.Header.Set("Accept", "application/vnd.github.v3.raw")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "download %s", path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrapf(err, "read %s", path)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Wrapf(ErrUpstream, "github http %d for %s", resp.StatusCode, path)
	}
	return data, nil
}

// FetchSheet downloads the workbook at path and returns the raw rows of the
// named sheet.
func (c *Client) FetchSheet(ctx context.Context, path, sheetName string) ([][]string, error) {
	data, err := c.Download(ctx, path)
	if err != nil {
		return nil, err
	}
	rows, err := sheet.ReadRows(data, sheetName)
	if err != nil {
		return nil, eris.Wrapf(err, "parse %s", path)
	}
	return rows, nil
}
