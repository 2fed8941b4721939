package loaders

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/piprate/json-gold/ld"
	"github.com/pkg/errors"
	"github.com/pquerna/cachecontrol"
)

// ErrCacheMiss is returned by cache engines for unknown keys.
var ErrCacheMiss = errors.New("cache miss")

// CacheEngine stores fetched remote documents until their expiry.
type CacheEngine interface {
	Get(key string) (doc *ld.RemoteDocument, expireTime time.Time, err error)
	Set(key string, doc *ld.RemoteDocument, expireTime time.Time) error
}

// DocumentLoader dispatches document URLs to the http and ipfs loaders and
// caches responses according to their cache-control headers. It implements
// json-gold's ld.DocumentLoader so it can also back JSON-LD context
// resolution.
type DocumentLoader struct {
	ipfsURL     string
	httpClient  *http.Client
	cacheEngine CacheEngine
	noCache     bool
}

type DocumentLoaderOption func(*DocumentLoader)

// WithCacheEngine overrides the default in-memory cache. Passing nil
// disables caching entirely.
func WithCacheEngine(cacheEngine CacheEngine) DocumentLoaderOption {
	return func(loader *DocumentLoader) {
		if cacheEngine == nil {
			loader.noCache = true
			return
		}
		loader.cacheEngine = cacheEngine
	}
}

// WithDocumentHTTPClient overrides http.DefaultClient for http(s) documents.
func WithDocumentHTTPClient(client *http.Client) DocumentLoaderOption {
	return func(loader *DocumentLoader) {
		loader.httpClient = client
	}
}

// NewDocumentLoader creates a document loader. ipfsURL may be empty when no
// ipfs:// documents are expected.
func NewDocumentLoader(ipfsURL string, opts ...DocumentLoaderOption) *DocumentLoader {
	loader := &DocumentLoader{ipfsURL: ipfsURL}

	for _, opt := range opts {
		opt(loader)
	}

	if loader.cacheEngine == nil && !loader.noCache {
		// no errors possible without options
		loader.cacheEngine, _ = NewMemoryCacheEngine()
	}

	return loader
}

// LoadDocument fetches u, serving from cache while the previous response is
// still fresh.
func (d *DocumentLoader) LoadDocument(u string) (*ld.RemoteDocument, error) {
	return d.LoadDocumentContext(context.Background(), u)
}

// LoadDocumentContext is LoadDocument with caller-controlled cancellation.
func (d *DocumentLoader) LoadDocumentContext(ctx context.Context,
	u string) (doc *ld.RemoteDocument, err error) {

	const ipfsPrefix = "ipfs://"

	if d.cacheEngine != nil {
		cached, expireTime, err2 := d.cacheEngine.Get(u)
		if err2 == nil && time.Now().Before(expireTime) {
			return cached, nil
		}
	}

	switch {
	case strings.HasPrefix(u, "http://") || strings.HasPrefix(u, "https://"):
		doc, err = d.loadDocumentFromHTTP(ctx, u)

	case strings.HasPrefix(u, ipfsPrefix):
		// supported URLs:
		// ipfs://<cid>
		// ipfs://<cid>/dir/document.json
		if d.ipfsURL == "" {
			return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed,
				errors.New("ipfs is not configured"))
		}
		doc, err = d.loadDocumentFromIPFS(ctx, u, strings.TrimPrefix(u, ipfsPrefix))

	default:
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed,
			errors.Errorf("unsupported URL scheme: %v", u))
	}
	if err != nil {
		return nil, err
	}

	return doc, nil
}

func (d *DocumentLoader) loadDocumentFromHTTP(ctx context.Context,
	u string) (*ld.RemoteDocument, error) {

	newCtx, cancel := context.WithTimeout(ctx, httpLoadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(newCtx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
	}
	req.Header.Set("Accept", "application/ld+json, application/json;q=0.9, */*;q=0.1")

	c := d.httpClient
	if c == nil {
		c = http.DefaultClient
	}

	res, err := c.Do(req)
	if err != nil {
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
	}
	defer func() {
		_ = res.Body.Close()
	}()

	if res.StatusCode != http.StatusOK {
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed,
			errors.Errorf("request failed with status code %v", res.StatusCode))
	}

	doc := &ld.RemoteDocument{DocumentURL: u}
	doc.Document, err = ld.DocumentFromReader(res.Body)
	if err != nil {
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
	}

	// cache only what the response headers allow
	reasons, expireTime, err := cachecontrol.CachableResponse(req, res,
		cachecontrol.Options{})
	if err == nil && len(reasons) == 0 && d.cacheEngine != nil {
		if err = d.cacheEngine.Set(u, doc, expireTime); err != nil {
			return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
		}
	}

	return doc, nil
}

func (d *DocumentLoader) loadDocumentFromIPFS(ctx context.Context,
	u, path string) (*ld.RemoteDocument, error) {

	raw, _, err := IPFS{URL: d.ipfsURL, CID: path}.Load(ctx)
	if err != nil {
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
	}

	doc := &ld.RemoteDocument{DocumentURL: u}
	doc.Document, err = ld.DocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
	}

	if d.cacheEngine != nil {
		// ipfs content is immutable, cache it for a long time
		if err = d.cacheEngine.Set(u, doc, time.Now().Add(24*time.Hour)); err != nil {
			return nil, ld.NewJsonLdError(ld.LoadingDocumentFailed, err)
		}
	}

	return doc, nil
}
