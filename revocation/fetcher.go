package revocation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/pkg/errors"

	"github.com/crednet/go-credential-processor/loaders"
	"github.com/crednet/go-credential-processor/verifiable"
)

// StatusListFetcher retrieves and publishes status list credentials.
type StatusListFetcher interface {
	Get(ctx context.Context, url string) (*verifiable.W3CCredential, error)
	Post(ctx context.Context, url string, vc *verifiable.W3CCredential) error
}

// HTTPStatusListFetcher fetches status list credentials through the shared
// document loader (http(s) and ipfs origins, cache-control aware caching)
// and publishes updated lists with JSON POSTs.
type HTTPStatusListFetcher struct {
	docLoader  *loaders.DocumentLoader
	httpClient *http.Client

	// validateContext runs the JSON-LD context check on fetched
	// credentials before returning them.
	validateContext bool
}

// StatusListFetcherOption configures an HTTPStatusListFetcher.
type StatusListFetcherOption func(*HTTPStatusListFetcher)

// WithFetcherHTTPClient overrides http.DefaultClient for publishing.
func WithFetcherHTTPClient(client *http.Client) StatusListFetcherOption {
	return func(f *HTTPStatusListFetcher) {
		f.httpClient = client
	}
}

// WithContextValidation enables the JSON-LD context check on every fetched
// status list credential.
func WithContextValidation() StatusListFetcherOption {
	return func(f *HTTPStatusListFetcher) {
		f.validateContext = true
	}
}

// NewHTTPStatusListFetcher builds a fetcher over the given document loader.
func NewHTTPStatusListFetcher(docLoader *loaders.DocumentLoader,
	opts ...StatusListFetcherOption) *HTTPStatusListFetcher {

	f := &HTTPStatusListFetcher{docLoader: docLoader}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *HTTPStatusListFetcher) Get(ctx context.Context,
	url string) (*verifiable.W3CCredential, error) {

	doc, err := f.docLoader.LoadDocumentContext(ctx, url)
	if err != nil {
		return nil, errors.WithMessage(err, "load status list")
	}

	raw, err := json.Marshal(doc.Document)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var vc verifiable.W3CCredential
	if err := json.Unmarshal(raw, &vc); err != nil {
		return nil, errors.WithMessage(err, "parse status list credential")
	}

	if f.validateContext {
		if err := verifiable.ValidateLDContext(&vc, f.docLoader); err != nil {
			return nil, err
		}
	}

	return &vc, nil
}

func (f *HTTPStatusListFetcher) Post(ctx context.Context, url string,
	vc *verifiable.W3CCredential) error {

	body, err := json.Marshal(vc)
	if err != nil {
		return errors.WithStack(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url,
		bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")

	c := f.httpClient
	if c == nil {
		c = http.DefaultClient
	}

	resp, err := c.Do(req)
	if err != nil {
		return errors.WithMessage(err, "publish status list")
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return errors.Errorf("publish returned status code %d", resp.StatusCode)
	}
	return nil
}
