package stackexchange

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	userAgent = "sobot (+https://github.com/sipeed/sobot)"

	defaultTimeout     = 10 * time.Second
	defaultMaxAttempts = 3

	// Search responses are small; anything larger is not a search response.
	maxBodyBytes = 4 << 20
)

// createHTTPClient creates an HTTP client with optional proxy support
func createHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	client := &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        10,
			IdleConnTimeout:     30 * time.Second,
			DisableCompression:  false,
			TLSHandshakeTimeout: 15 * time.Second,
		},
	}

	if proxyURL != "" {
		proxy, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL: %w", err)
		}
		scheme := strings.ToLower(proxy.Scheme)
		switch scheme {
		case "http", "https", "socks5", "socks5h":
		default:
			return nil, fmt.Errorf(
				"unsupported proxy scheme %q (supported: http, https, socks5, socks5h)",
				proxy.Scheme,
			)
		}
		if proxy.Host == "" {
			return nil, fmt.Errorf("invalid proxy URL: missing host")
		}
		client.Transport.(*http.Transport).Proxy = http.ProxyURL(proxy)
	} else {
		client.Transport.(*http.Transport).Proxy = http.ProxyFromEnvironment
	}

	return client, nil
}

type ClientOptions struct {
	APIURL      string
	SiteURL     string
	Site        string
	MaxAttempts int
	Timeout     time.Duration
	Proxy       string

	// HTTPClient overrides the client built from Timeout and Proxy.
	HTTPClient *http.Client
}

// Client queries the search/advanced endpoint. It is safe for concurrent use;
// the only shared state is the underlying *http.Client.
type Client struct {
	apiURL      string
	siteURL     string
	site        string
	maxAttempts int
	client      *http.Client
}

func NewClient(opts ClientOptions) (*Client, error) {
	if opts.APIURL == "" {
		return nil, fmt.Errorf("api URL is required")
	}
	if opts.SiteURL == "" {
		return nil, fmt.Errorf("site URL is required")
	}
	if opts.Site == "" {
		opts.Site = "stackoverflow"
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}

	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		var err error
		client, err = createHTTPClient(opts.Proxy, timeout)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
	}

	return &Client{
		apiURL:      opts.APIURL,
		siteURL:     opts.SiteURL,
		site:        opts.Site,
		maxAttempts: opts.MaxAttempts,
		client:      client,
	}, nil
}

// EncodeQuery form-encodes a raw query (spaces become '+').
func EncodeQuery(query string) string {
	return url.QueryEscape(query)
}

// SearchURL is the API request URL for an already encoded query.
func (c *Client) SearchURL(encodedQuery string) string {
	return fmt.Sprintf("%s?order=desc&sort=activity&site=%s&q=%s",
		c.apiURL, url.QueryEscape(c.site), encodedQuery)
}

// WebURL is the human search page for an already encoded query.
func (c *Client) WebURL(encodedQuery string) string {
	return fmt.Sprintf("%s?q=%s", c.siteURL, encodedQuery)
}

// Fetch GETs the search endpoint, retrying non-200 responses up to the
// configured attempt count. Transport errors are returned immediately.
func (c *Client) Fetch(ctx context.Context, encodedQuery string) (FetchResult, error) {
	searchURL := c.SearchURL(encodedQuery)

	return Retry(ctx, c.maxAttempts, func(ctx context.Context) (int, []byte, error) {
		return c.get(ctx, searchURL)
	})
}

func (c *Client) get(ctx context.Context, searchURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused by the next attempt.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return resp.StatusCode, nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, body, nil
}
