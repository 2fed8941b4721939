// Package loaders fetches remote credential documents, such as status list
// credentials and the JSON-LD contexts they reference, from http(s) and
// ipfs origins, with cache-control aware in-memory caching.
package loaders

import "context"

// Loader is the basic interface for document loaders.
type Loader interface {
	Load(ctx context.Context) (document []byte, contentType string, err error)
}
