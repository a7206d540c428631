package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/cineco-calendar/internal/logger"
	"golang.org/x/net/publicsuffix"
)

const (
	DefaultBaseURL = "https://cineco.cinegestion.fr"
	UserAgent      = "cineco-calendar/1.0 (github.com/pfrederiksen/cineco-calendar)"
	Timeout        = 30 * time.Second

	loginPath   = "/login"
	listingPath = "/admin?all=24"
)

// ErrUnreachable is returned when Cinegestion cannot be logged into or read.
var ErrUnreachable = errors.New("cinegestion unreachable")

// Fetcher returns the raw HTML of the Cinegestion listing page.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// Client logs into Cinegestion and downloads the listing page
type Client struct {
	transport http.RoundTripper
	timeout   time.Duration
	baseURL   string
	login     string
	password  string
}

// New creates a Client for the Cinegestion instance at baseURL.
func New(baseURL, login, password string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = Timeout
	}
	return &Client{
		transport: http.DefaultTransport,
		timeout:   timeout,
		baseURL:   strings.TrimRight(baseURL, "/"),
		login:     login,
		password:  password,
	}
}

// Fetch logs in and returns the listing page. Each call uses its own session
// so that concurrent requests never share cookies. All failures wrap
// ErrUnreachable.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	started := time.Now()
	defer func() { logger.RecordTiming("fetch.duration", time.Since(started)) }()

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return "", fmt.Errorf("%w: creating cookie jar: %w", ErrUnreachable, err)
	}
	client := &http.Client{
		Transport: c.transport,
		Timeout:   c.timeout,
		Jar:       jar,
	}

	if err := c.signIn(ctx, client); err != nil {
		return "", fmt.Errorf("%w: logging in: %w", ErrUnreachable, err)
	}

	html, err := c.listing(ctx, client)
	if err != nil {
		return "", fmt.Errorf("%w: fetching listing: %w", ErrUnreachable, err)
	}
	return html, nil
}

func (c *Client) signIn(ctx context.Context, client *http.Client) error {
	form := url.Values{}
	form.Set("login", c.login)
	form.Set("password", c.password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("posting credentials: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) listing(ctx context.Context, client *http.Client) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+listingPath, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading page: %w", err)
	}
	return string(body), nil
}
