package loaders

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// ErrorURLEmpty is empty url error
var ErrorURLEmpty = errors.New("URL is empty")

const (
	httpLoadTimeout = 30 * time.Second

	// documents larger than this are rejected rather than read
	maxDocumentBytes = 1 << 20
)

// HTTP is loader for http / https documents
type HTTP struct {
	URL string

	// Client overrides http.DefaultClient when set.
	Client *http.Client
}

// Load fetches the document at URL.
func (l HTTP) Load(ctx context.Context) (document []byte, contentType string, err error) {
	if l.URL == "" {
		return nil, "", ErrorURLEmpty
	}

	u, err := url.Parse(l.URL)
	if err != nil {
		return nil, "", errors.WithStack(err)
	}

	newCtx, cancel := context.WithTimeout(ctx, httpLoadTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(newCtx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, "", errors.WithStack(err)
	}
	req.Header.Set("Accept", "application/ld+json, application/json;q=0.9, */*;q=0.1")

	c := l.Client
	if c == nil {
		c = http.DefaultClient
	}

	resp, err := c.Do(req)
	if err != nil {
		return nil, "", errors.WithMessage(err, "http request failed")
	}
	defer func() {
		if err2 := resp.Body.Close(); err2 != nil && err == nil {
			err = errors.WithStack(err2)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, "", errors.Errorf("request failed with status code %v",
			resp.StatusCode)
	}

	contentType = resp.Header.Get("Content-Type")
	if mt, _, err2 := mime.ParseMediaType(contentType); err2 == nil {
		contentType = mt
	}

	limited := &io.LimitedReader{R: resp.Body, N: maxDocumentBytes + 1}
	document, err = io.ReadAll(limited)
	if err != nil {
		return nil, "", errors.WithStack(err)
	}
	if limited.N <= 0 {
		return nil, "", errors.Errorf("document exceeds %d bytes", maxDocumentBytes)
	}

	return document, contentType, nil
}
