package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/dramabox/internal/config"
)

func TestClient_Get(t *testing.T) {
	var gotPath, gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotQuery, gotUA = r.URL.Path, r.URL.RawQuery, r.Header.Get("User-Agent")
		switch r.URL.Path {
		case "/api/dramabox/search":
			_, _ = w.Write([]byte(`{"columnVoList": []}`))
		case "/api/dramabox/slow":
			time.Sleep(200 * time.Millisecond)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	c := NewClient(config.Catalog{
		CatalogBaseURL:   srv.URL + "/api/",
		CatalogTimeout:   time.Second,
		CatalogUserAgent: "test-agent",
	})

	t.Run("ok", func(t *testing.T) {
		body, err := c.Get(context.Background(), "/dramabox/search", url.Values{"query": {"cinta abadi"}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"columnVoList": []}`, string(body))
		assert.Equal(t, "/api/dramabox/search", gotPath)
		assert.Equal(t, "query=cinta+abadi", gotQuery)
		assert.Equal(t, "test-agent", gotUA)
	})

	t.Run("upstream error", func(t *testing.T) {
		_, err := c.Get(context.Background(), "/dramabox/broken", nil)
		require.ErrorIs(t, err, ErrUpstream)
	})

	t.Run("context cancelled", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		_, err := c.Get(ctx, "/dramabox/slow", nil)
		require.Error(t, err)
	})
}
