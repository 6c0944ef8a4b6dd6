package bookmeta

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/pointerutil"
	"github.com/segmentio/encoding/json"
	"golang.org/x/time/rate"
)

const openBDDefaultBaseURL = "https://api.openbd.jp/v1"

// OpenBDClient queries the OpenBD bibliographic API. OpenBD is free and
// asks for nothing more than restraint, so requests are rate limited.
type OpenBDClient struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

func NewOpenBDClient(baseURL string) *OpenBDClient {
	if baseURL == "" {
		baseURL = openBDDefaultBaseURL
	}
	return &OpenBDClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		rateLimiter: rate.NewLimiter(rate.Every(100*time.Millisecond), 5),
	}
}

func (c *OpenBDClient) Name() string {
	return "openbd"
}

type openBDRecord struct {
	Summary struct {
		Title  string `json:"title"`
		Author string `json:"author"`
		Cover  string `json:"cover"`
	} `json:"summary"`
}

func (c *OpenBDClient) LookupISBN(ctx context.Context, isbn string) (*Meta, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	u := c.baseURL + "/get?isbn=" + url.QueryEscape(isbn)
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
		return nil, errors.Errorf("openbd returned status %d", resp.StatusCode)
	}

	// OpenBD responds with one array element per requested ISBN, null when
	// the ISBN is unknown.
	var records []*openBDRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, errors.WithStack(err)
	}
	if len(records) == 0 || records[0] == nil {
		return nil, nil
	}

	summary := records[0].Summary
	meta := &Meta{}
	if summary.Title != "" {
		meta.Title = pointerutil.String(summary.Title)
	}
	if summary.Author != "" {
		meta.Author = pointerutil.String(summary.Author)
	}
	if summary.Cover != "" {
		meta.ImageURL = pointerutil.String(summary.Cover)
	}
	if meta.Empty() {
		return nil, nil
	}
	return meta, nil
}
