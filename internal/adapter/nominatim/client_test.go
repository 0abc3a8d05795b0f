package nominatim

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justaride/sundland-pipeline/internal/observability"
)

const testUserAgent = "SundlandPipeline/test"

func testClient(baseURL string) *Client {
	return NewClient(Config{
		BaseURL:      baseURL,
		UserAgent:    testUserAgent,
		QuerySuffix:  ", Drammen, Norway",
		CountryCodes: "no",
		Timeout:      5 * time.Second,
	}, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestLookupAddress_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testUserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "Storgata 6, Drammen, Norway", r.URL.Query().Get("q"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		assert.Equal(t, "no", r.URL.Query().Get("countrycodes"))

		w.Header().Set("Content-Type", "application/json")
		_, err := w.Write([]byte(`[{"lat": "59.7429", "lon": "10.2068"}]`))
		require.NoError(t, err)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	coord, found, err := c.LookupAddress(context.Background(), "Storgata 6")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 59.7429, coord.Lat)
	assert.Equal(t, 10.2068, coord.Lng)
}

func TestLookupAddress_NoHits(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, found, err := c.LookupAddress(context.Background(), "Finnes Ikke 1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLookupAddress_UnparseableCoordinates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"lat": "not-a-number", "lon": "10.2"}]`))
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, found, err := c.LookupAddress(context.Background(), "Storgata 6")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestLookupAddress_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "blocked", http.StatusForbidden)
	}))
	defer srv.Close()

	c := testClient(srv.URL)
	_, _, err := c.LookupAddress(context.Background(), "Storgata 6")
	assert.ErrorContains(t, err, "status 403")
}
