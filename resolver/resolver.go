// Package resolver maps decentralized identifiers to verification keys.
//
// The package ships local drivers for did:key and did:ethr plus an HTTP
// driver that delegates to a universal resolver endpoint. Drivers are
// registered per DID method in a Registry; the credential pipeline only
// depends on the DIDResolver interface.
package resolver

import (
	"context"
	"crypto"
	"strings"

	"github.com/pkg/errors"
)

// DIDResolver resolves a DID to the public key used for JWS verification.
type DIDResolver interface {
	Resolve(ctx context.Context, did string) (crypto.PublicKey, error)
}

// ErrUnsupportedMethod is returned when no driver is registered for the
// method of a DID.
var ErrUnsupportedMethod = errors.New("unsupported DID method")

// ErrInvalidDID is returned for identifiers that do not parse as DIDs.
var ErrInvalidDID = errors.New("invalid DID")

// Method extracts the method name from a DID, e.g. "key" from "did:key:z6Mk...".
func Method(did string) (string, error) {
	parts := strings.SplitN(did, ":", 3)
	if len(parts) != 3 || parts[0] != "did" || parts[1] == "" || parts[2] == "" {
		return "", errors.WithMessagef(ErrInvalidDID, "%q", did)
	}
	return parts[1], nil
}

// Registry dispatches resolution to per-method drivers.
type Registry struct {
	drivers map[string]DIDResolver
}

// NewRegistry returns a registry with the local did:key and did:ethr
// drivers pre-registered.
func NewRegistry() *Registry {
	r := &Registry{}
	r.Register("key", &KeyResolver{})
	r.Register("ethr", &EthrResolver{})
	return r
}

func (r *Registry) Register(method string, driver DIDResolver) {
	if r.drivers == nil {
		r.drivers = make(map[string]DIDResolver)
	}
	r.drivers[method] = driver
}

func (r *Registry) Resolve(ctx context.Context, did string) (crypto.PublicKey, error) {
	method, err := Method(did)
	if err != nil {
		return nil, err
	}
	driver, ok := r.drivers[method]
	if !ok {
		return nil, errors.WithMessagef(ErrUnsupportedMethod, "did:%s", method)
	}
	return driver.Resolve(ctx, did)
}
