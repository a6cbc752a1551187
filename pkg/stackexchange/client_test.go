package stackexchange

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, apiURL string) *Client {
	t.Helper()

	client, err := NewClient(ClientOptions{
		APIURL:  apiURL,
		SiteURL: "https://stackoverflow.com/search",
	})
	require.NoError(t, err)
	return client
}

func TestEncodeQuery_ProducesValidURLs(t *testing.T) {
	client := newTestClient(t, "https://api.stackexchange.com/2.2/search/advanced")

	queries := []string{
		"python list",
		"a&b=c",
		"c# generics",
		"path/to/file",
		"100% coverage?",
		"unicode ✓ 日本語",
		"+plus+",
	}

	for _, query := range queries {
		t.Run(query, func(t *testing.T) {
			encoded := EncodeQuery(query)

			webURL, err := url.Parse(client.WebURL(encoded))
			require.NoError(t, err)
			assert.Equal(t, "stackoverflow.com", webURL.Host)
			assert.Empty(t, webURL.Fragment)
			assert.Equal(t, query, webURL.Query().Get("q"))

			apiURL, err := url.Parse(client.SearchURL(encoded))
			require.NoError(t, err)
			params := apiURL.Query()
			assert.Equal(t, query, params.Get("q"))
			assert.Equal(t, "desc", params.Get("order"))
			assert.Equal(t, "activity", params.Get("sort"))
			assert.Equal(t, "stackoverflow", params.Get("site"))
		})
	}
}

func TestEncodeQuery_SpaceBecomesPlus(t *testing.T) {
	assert.Equal(t, "how+to+exit+vim", EncodeQuery("how to exit vim"))
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(ClientOptions{SiteURL: "https://stackoverflow.com/search"})
	assert.Error(t, err)

	_, err = NewClient(ClientOptions{APIURL: "https://api.stackexchange.com"})
	assert.Error(t, err)

	_, err = NewClient(ClientOptions{
		APIURL:  "https://api.stackexchange.com",
		SiteURL: "https://stackoverflow.com/search",
		Proxy:   "ftp://proxy.local",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported proxy scheme")
}

func TestNewClient_Defaults(t *testing.T) {
	client := newTestClient(t, "https://api.stackexchange.com")

	assert.Equal(t, defaultMaxAttempts, client.maxAttempts)
	assert.Equal(t, "stackoverflow", client.site)
	assert.Equal(t, defaultTimeout, client.client.Timeout)
}

func TestCreateHTTPClient_Proxy(t *testing.T) {
	client, err := createHTTPClient("socks5://127.0.0.1:1080", defaultTimeout)
	require.NoError(t, err)
	assert.NotNil(t, client.Transport.(*http.Transport).Proxy)

	_, err = createHTTPClient("http://", defaultTimeout)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing host")
}

func TestClient_Fetch_SuccessFirstAttempt(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "go channels", r.URL.Query().Get("q"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.Fetch(context.Background(), EncodeQuery("go channels"))

	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, http.StatusOK, result.Status)
	assert.Equal(t, 1, result.Attempts)
	assert.JSONEq(t, `{"items": []}`, string(result.Body))
	assert.EqualValues(t, 1, hits.Load())
}

func TestClient_Fetch_RetriesThenSucceeds(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(`{"items": []}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.Fetch(context.Background(), EncodeQuery("q"))

	require.NoError(t, err)
	assert.Equal(t, OutcomeSuccess, result.Outcome)
	assert.Equal(t, 3, result.Attempts)
	assert.EqualValues(t, 3, hits.Load())
}

func TestClient_Fetch_Exhausted(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)

	result, err := client.Fetch(context.Background(), EncodeQuery("q"))

	require.NoError(t, err)
	assert.Equal(t, OutcomeExhausted, result.Outcome)
	assert.Equal(t, http.StatusBadGateway, result.Status)
	assert.Equal(t, 3, result.Attempts)
	assert.Nil(t, result.Body)
	assert.EqualValues(t, 3, hits.Load())
}

func TestClient_Fetch_TransportErrorNotRetried(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	apiURL := server.URL
	server.Close()

	client := newTestClient(t, apiURL)

	_, err := client.Fetch(context.Background(), EncodeQuery("q"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "request failed")
}

func TestRetry_StopsOnAttemptError(t *testing.T) {
	calls := 0
	boom := errors.New("boom")

	_, err := Retry(context.Background(), 3, func(context.Context) (int, []byte, error) {
		calls++
		return 0, nil, boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRetry_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	_, err := Retry(ctx, 3, func(context.Context) (int, []byte, error) {
		calls++
		cancel()
		return http.StatusInternalServerError, nil, nil
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestRetry_ClampsAttempts(t *testing.T) {
	calls := 0

	result, err := Retry(context.Background(), 0, func(context.Context) (int, []byte, error) {
		calls++
		return http.StatusTooManyRequests, nil, nil
	})

	require.NoError(t, err)
	assert.Equal(t, OutcomeExhausted, result.Outcome)
	assert.Equal(t, http.StatusTooManyRequests, result.Status)
	assert.Equal(t, 1, calls)
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "success", OutcomeSuccess.String())
	assert.Equal(t, "exhausted", OutcomeExhausted.String())
	assert.Equal(t, "unknown", Outcome(9).String())
}
