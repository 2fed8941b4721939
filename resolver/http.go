package resolver

import (
	"context"
	"crypto"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/multiformats/go-multibase"
	"github.com/pkg/errors"
)

// HTTPResolver delegates resolution to a universal resolver endpoint
// (https://{host}/1.0/identifiers/{did} style). It is the driver for
// methods whose documents live off-device, e.g. address-form did:ethr.
type HTTPResolver struct {
	resolverURL      string
	customHTTPClient *http.Client
}

// HTTPResolverOption configures an HTTPResolver.
type HTTPResolverOption func(*HTTPResolver)

// WithHTTPClient overrides http.DefaultClient.
func WithHTTPClient(client *http.Client) HTTPResolverOption {
	return func(r *HTTPResolver) {
		r.customHTTPClient = client
	}
}

// NewHTTPResolver creates a driver that queries resolverURL.
func NewHTTPResolver(resolverURL string, opts ...HTTPResolverOption) *HTTPResolver {
	r := &HTTPResolver{resolverURL: resolverURL}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *HTTPResolver) Resolve(ctx context.Context, did string) (out crypto.PublicKey, err error) {
	type didResolutionResult struct {
		DIDDocument DIDDocument `json:"didDocument"`
	}
	res := &didResolutionResult{}

	httpClient := r.customHTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	reqURL := fmt.Sprintf("%s/%s", strings.Trim(r.resolverURL, "/"), url.QueryEscape(did))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, errors.WithMessage(err, "resolver request failed")
	}
	defer func() {
		err2 := resp.Body.Close()
		if err == nil && err2 != nil {
			err = errors.WithStack(err2)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Errorf("resolver returned status code %v", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(res); err != nil {
		return nil, errors.WithStack(err)
	}

	return verificationKeyFromDocument(&res.DIDDocument)
}

func verificationKeyFromDocument(doc *DIDDocument) (crypto.PublicKey, error) {
	if len(doc.VerificationMethod) == 0 {
		return nil, errors.Errorf("DID document %q has no verification method", doc.ID)
	}

	var firstErr error
	for i := range doc.VerificationMethod {
		key, err := verificationKey(&doc.VerificationMethod[i])
		if err == nil {
			return key, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return nil, firstErr
}

func verificationKey(vm *VerificationMethod) (crypto.PublicKey, error) {
	switch {
	case vm.PublicKeyMultibase != "":
		_, decoded, err := multibase.Decode(vm.PublicKeyMultibase)
		if err != nil {
			return nil, errors.WithMessage(err, "multibase decode")
		}
		return keyFromRawBytes(vm.Type, decoded)

	case vm.PublicKeyHex != "":
		decoded, err := hex.DecodeString(strings.TrimPrefix(vm.PublicKeyHex, "0x"))
		if err != nil {
			return nil, errors.WithMessage(err, "hex decode")
		}
		return keyFromRawBytes(vm.Type, decoded)

	case vm.PublicKeyJwk != nil:
		return keyFromJWK(vm.PublicKeyJwk)

	default:
		return nil, errors.Errorf("verification method %q carries no key material", vm.ID)
	}
}

func keyFromRawBytes(methodType string, raw []byte) (crypto.PublicKey, error) {
	// multicodec-tagged values are did:key payloads regardless of method type
	if hasPrefix(raw, multicodecEd25519Pub) {
		raw = raw[len(multicodecEd25519Pub):]
	} else if hasPrefix(raw, multicodecSecp256k1Pub) {
		raw = raw[len(multicodecSecp256k1Pub):]
	}

	switch {
	case strings.Contains(methodType, "Ed25519"):
		if len(raw) != ed25519.PublicKeySize {
			return nil, errors.Errorf("ed25519 key must be %d bytes, got %d",
				ed25519.PublicKeySize, len(raw))
		}
		return ed25519.PublicKey(raw), nil

	case strings.Contains(methodType, "Secp256k1"), strings.Contains(methodType, "EcdsaSecp256k1"):
		key, err := gethcrypto.DecompressPubkey(raw)
		if err != nil {
			return nil, errors.WithMessage(err, "secp256k1 decompress")
		}
		return key, nil

	default:
		return nil, errors.Errorf("unsupported verification method type %q", methodType)
	}
}

func keyFromJWK(jwk map[string]any) (crypto.PublicKey, error) {
	kty, _ := jwk["kty"].(string)
	crv, _ := jwk["crv"].(string)

	switch {
	case kty == "OKP" && crv == "Ed25519":
		x, _ := jwk["x"].(string)
		raw, err := base64.RawURLEncoding.DecodeString(x)
		if err != nil {
			return nil, errors.WithMessage(err, "jwk x decode")
		}
		if len(raw) != ed25519.PublicKeySize {
			return nil, errors.Errorf("ed25519 key must be %d bytes, got %d",
				ed25519.PublicKeySize, len(raw))
		}
		return ed25519.PublicKey(raw), nil

	case kty == "EC" && crv == "secp256k1":
		xs, _ := jwk["x"].(string)
		ys, _ := jwk["y"].(string)
		x, err := base64.RawURLEncoding.DecodeString(xs)
		if err != nil {
			return nil, errors.WithMessage(err, "jwk x decode")
		}
		y, err := base64.RawURLEncoding.DecodeString(ys)
		if err != nil {
			return nil, errors.WithMessage(err, "jwk y decode")
		}
		uncompressed := make([]byte, 0, 65)
		uncompressed = append(uncompressed, 0x04)
		uncompressed = append(uncompressed, x...)
		uncompressed = append(uncompressed, y...)
		key, err := gethcrypto.UnmarshalPubkey(uncompressed)
		if err != nil {
			return nil, errors.WithMessage(err, "secp256k1 unmarshal")
		}
		return key, nil

	default:
		return nil, errors.Errorf("unsupported jwk kty=%q crv=%q", kty, crv)
	}
}
