package revalidate

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifierShelfUpdated(t *testing.T) {
	t.Run("posts the shelf path", func(t *testing.T) {
		received := make(chan string, 1)
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			body, _ := io.ReadAll(r.Body)
			received <- string(body)
		}))
		defer srv.Close()

		notifier := NewNotifier(srv.URL, "sekrit")
		notifier.ShelfUpdated("yamada-books")

		select {
		case body := <-received:
			assert.JSONEq(t, `{"path":"/yamada-books","secret":"sekrit"}`, body)
		case <-time.After(5 * time.Second):
			require.Fail(t, "revalidate request never arrived")
		}
	})

	t.Run("disabled notifier is a no-op", func(t *testing.T) {
		notifier := NewNotifier("", "")
		notifier.ShelfUpdated("yamada-books")
	})

	t.Run("nil notifier is safe", func(t *testing.T) {
		var notifier *Notifier
		notifier.ShelfUpdated("yamada-books")
	})
}
