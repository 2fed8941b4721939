// Package testing provides HTTP mocking helpers for status list and DID
// resolution tests.
package testing

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type mockedRouterTripper struct {
	t         testing.TB
	routes    map[string][]byte
	posted    map[string][][]byte
	seenURLsM sync.Mutex
	seenURLs  map[string]struct{}
}

func (m *mockedRouterTripper) RoundTrip(
	request *http.Request) (*http.Response, error) {

	urlStr := request.URL.String()
	rr := httptest.NewRecorder()

	if request.Method == http.MethodPost {
		postData, err := io.ReadAll(request.Body)
		if err != nil {
			http.Error(rr, err.Error(), http.StatusInternalServerError)

			httpResp := rr.Result()
			httpResp.Request = request
			return httpResp, nil
		}

		m.seenURLsM.Lock()
		if m.posted == nil {
			m.posted = make(map[string][][]byte)
		}
		m.posted[urlStr] = append(m.posted[urlStr], postData)
		m.seenURLsM.Unlock()
	}

	body, routed := m.routes[urlStr]
	if !routed && request.Method != http.MethodPost {
		m.t.Errorf("unexpected http request: %v", urlStr)

		rr2 := httptest.NewRecorder()
		rr2.WriteHeader(http.StatusNotFound)
		httpResp := rr2.Result()
		httpResp.Request = request
		return httpResp, nil
	}

	m.seenURLsM.Lock()
	if m.seenURLs == nil {
		m.seenURLs = make(map[string]struct{})
	}
	m.seenURLs[urlStr] = struct{}{}
	m.seenURLsM.Unlock()

	rr.Header().Set("Content-Type", "application/json")
	_, _ = rr.Write(body)

	rr2 := rr.Result()
	rr2.Request = request
	return rr2, nil
}

type mockHTTPClientOptions struct {
	ignoreUntouchedURLs bool
}

type MockHTTPClientOption func(*mockHTTPClientOptions)

func IgnoreUntouchedURLs() MockHTTPClientOption {
	return func(opts *mockHTTPClientOptions) {
		opts.ignoreUntouchedURLs = true
	}
}

// MockHTTPClient swaps http.DefaultTransport for an in-memory router
// serving the given url → JSON body routes. POST bodies are recorded and
// retrievable through the returned posted func. restore puts the original
// transport back and, unless IgnoreUntouchedURLs is given, asserts every
// route was hit.
func MockHTTPClient(t testing.TB, routes map[string][]byte,
	opts ...MockHTTPClientOption) (posted func(url string) [][]byte, restore func()) {

	var op mockHTTPClientOptions
	for _, o := range opts {
		o(&op)
	}

	oldRoundTripper := http.DefaultTransport
	transport := &mockedRouterTripper{t: t, routes: routes}
	http.DefaultTransport = transport

	posted = func(url string) [][]byte {
		transport.seenURLsM.Lock()
		defer transport.seenURLsM.Unlock()
		return transport.posted[url]
	}

	restore = func() {
		http.DefaultTransport = oldRoundTripper

		if !op.ignoreUntouchedURLs {
			for u := range transport.routes {
				_, ok := transport.seenURLs[u]
				assert.True(t, ok,
					"found a URL in routes that we did not touch: %v", u)
			}
		}
	}
	return posted, restore
}
