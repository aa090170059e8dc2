package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/duynhne/newsroom-service/internal/core/domain"
)

// ErrArticleNotFound is returned by FetchArticle for a 404.
var ErrArticleNotFound = errors.New("article not found")

// Client talks to the newsroom public API. It implements PageProvider and
// UrgentFetcher.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	window  time.Duration
}

// NewClient creates a client for the server at baseURL. window is the
// freshness window sent with breaking-news requests; zero uses the server
// default.
func NewClient(baseURL string, timeout, window time.Duration) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("server url %q: scheme must be http or https", baseURL)
	}
	return &Client{
		baseURL: u,
		http:    &http.Client{Timeout: timeout},
		window:  window,
	}, nil
}

// FetchPage implements PageProvider.
func (c *Client) FetchPage(ctx context.Context, req domain.PageRequest) ([]domain.Article, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(req.Limit))
	q.Set("offset", strconv.Itoa(req.Offset))
	if req.CategoryID != nil {
		q.Set("category", strconv.FormatInt(*req.CategoryID, 10))
	}

	var out []domain.Article
	if err := c.get(ctx, "/api/v1/articles", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchBreaking implements UrgentFetcher.
func (c *Client) FetchBreaking(ctx context.Context) ([]domain.Article, error) {
	q := url.Values{}
	if c.window > 0 {
		q.Set("window", c.window.String())
	}

	var out []domain.Article
	if err := c.get(ctx, "/api/v1/breaking", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FetchArticle returns one article including its body.
func (c *Client) FetchArticle(ctx context.Context, id int64) (*domain.Article, error) {
	var out domain.Article
	if err := c.get(ctx, "/api/v1/articles/"+strconv.FormatInt(id, 10), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Categories lists the server's categories.
func (c *Client) Categories(ctx context.Context) ([]domain.Category, error) {
	var out []domain.Category
	if err := c.get(ctx, "/api/v1/categories", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, dst any) error {
	u := *c.baseURL
	u.Path += path
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", ErrTransientFetch, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("GET %s: %w", path, ErrArticleNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: GET %s: status %d", ErrTransientFetch, path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: decode %s: %w", ErrTransientFetch, path, err)
	}
	return nil
}
