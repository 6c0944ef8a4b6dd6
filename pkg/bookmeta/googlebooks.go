package bookmeta

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/segmentio/encoding/json"
	"golang.org/x/time/rate"
)

const googleBooksDefaultBaseURL = "https://www.googleapis.com/books/v1"

// GoogleBooksClient queries the Google Books volumes API. Unauthenticated
// requests are limited to roughly one per second to stay under the
// anonymous quota.
type GoogleBooksClient struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

func NewGoogleBooksClient(baseURL string) *GoogleBooksClient {
	if baseURL == "" {
		baseURL = googleBooksDefaultBaseURL
	}
	return &GoogleBooksClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(time.Second), 3),
	}
}

func (c *GoogleBooksClient) Name() string {
	return "googlebooks"
}

type googleBooksResponse struct {
	TotalItems int `json:"totalItems"`
	Items      []struct {
		VolumeInfo struct {
			Title      string   `json:"title"`
			Authors    []string `json:"authors"`
			ImageLinks struct {
				Thumbnail string `json:"thumbnail"`
			} `json:"imageLinks"`
		} `json:"volumeInfo"`
	} `json:"items"`
}

func (c *GoogleBooksClient) LookupISBN(ctx context.Context, isbn string) (*Meta, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	u := c.baseURL + "/volumes?q=" + url.QueryEscape("isbn:"+isbn)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("google books returned status %d", resp.StatusCode)
	}

	var body googleBooksResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, errors.WithStack(err)
	}
	if body.TotalItems == 0 || len(body.Items) == 0 {
		return nil, nil
	}

	info := body.Items[0].VolumeInfo
	meta := &Meta{}
	if info.Title != "" {
		meta.Title = pointerutil.String(info.Title)
	}
	if len(info.Authors) > 0 {
		meta.Author = pointerutil.String(strings.Join(info.Authors, ", "))
	}
	if info.ImageLinks.Thumbnail != "" {
		meta.ImageURL = pointerutil.String(info.ImageLinks.Thumbnail)
	}
	if meta.Empty() {
		return nil, nil
	}
	return meta, nil
}
