// Package revalidate tells the frontend to regenerate a cached shelf page
// after its contents change. Delivery is best effort; the page also expires
// on its own schedule.
package revalidate

import (
	"bytes"
	"context"
	"net/http"
	"time"

	"github.com/robinjoseph08/golib/logger"
	"github.com/segmentio/encoding/json"
)

type Notifier struct {
	url        string
	secret     string
	httpClient *http.Client
	log        logger.Logger
}

// NewNotifier creates a notifier. An empty url disables it, which is how
// development and tests run.
func NewNotifier(url, secret string) *Notifier {
	return &Notifier{
		url:    url,
		secret: secret,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: logger.New(),
	}
}

type payload struct {
	Path   string `json:"path"`
	Secret string `json:"secret,omitempty"`
}

// ShelfUpdated asynchronously notifies the frontend that the public page
// for handle is stale. Failures are logged and never propagated.
func (n *Notifier) ShelfUpdated(handle string) {
	if n == nil || n.url == "" || handle == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		body, err := json.Marshal(payload{Path: "/" + handle, Secret: n.secret})
		if err != nil {
			n.log.Warn("revalidate payload encode failed", logger.Data{"handle": handle, "error": err.Error()})
			return
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
		if err != nil {
			n.log.Warn("revalidate request build failed", logger.Data{"handle": handle, "error": err.Error()})
			return
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := n.httpClient.Do(req)
		if err != nil {
			n.log.Warn("revalidate request failed", logger.Data{"handle": handle, "error": err.Error()})
			return
		}
		defer resp.Body.Close()

		if resp.StatusCode >= http.StatusBadRequest {
			n.log.Warn("revalidate request rejected", logger.Data{"handle": handle, "status": resp.StatusCode})
		}
	}()
}
