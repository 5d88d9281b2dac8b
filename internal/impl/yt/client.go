package yt

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/pkg/errors"
	"google.golang.org/api/googleapi"
)

const DefaultBaseURL = "https://youtube.googleapis.com/youtube/v3"

var ErrUnexpectedResponse = errors.New("unexpected response shape")

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithRequestTimeout bounds every single request. Zero leaves only the
// HTTP client's own limits in place.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.requestTimeout = timeout
	}
}

// Client issues list calls against the YouTube Data API v3 REST endpoints,
// authenticated with an API key in the query string.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	apiKey         string
	requestTimeout time.Duration
}

func NewClient(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// list GETs {baseURL}/{resource} and decodes the JSON body into out.
// Non-2xx responses are returned as *googleapi.Error.
func (c *Client) list(ctx context.Context, resource string, params url.Values, out any) error {
	if 0 < c.requestTimeout {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.requestTimeout)
		defer cancel()
	}

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+resource+"?"+query.Encode(), nil)
	if err != nil {
		return errors.WithStack(err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return errors.WithStack(redactKey(err))
	}
	defer res.Body.Close()

	if err := googleapi.CheckResponse(res); err != nil {
		return errors.WithStack(err)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrapf(err, "decode %s response", resource)
	}
	return nil
}

// redactKey drops the query string from transport errors so the API key
// does not end up in logs.
func redactKey(err error) error {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return err
	}
	u, parseErr := url.Parse(urlErr.URL)
	if parseErr != nil {
		return err
	}
	u.RawQuery = ""
	return &url.Error{Op: urlErr.Op, URL: u.String(), Err: urlErr.Err}
}

func logCall(name string, attrs ...slog.Attr) {
	slog.LogAttrs(context.Background(), slog.LevelInfo, "called "+name, attrs...)
}
