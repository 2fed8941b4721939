// Package sdjwt implements selective-disclosure JWTs for verifiable
// credentials: issuance with salted digest commitments, holder-side
// disclosure filtering, a multi-credential presentation format and its
// verification.
package sdjwt

import (
	"crypto"
	_ "crypto/sha256" // linked in for ES256K commitments
	_ "crypto/sha512" // linked in for EdDSA commitments
	"encoding/base64"
	"strings"

	"github.com/pkg/errors"
)

// ErrUnsupportedAlg is returned when the digest behind a JWS algorithm
// identifier is unknown or not linked into the binary.
var ErrUnsupportedAlg = errors.New("unsupported hash algorithm")

// digestForAlg maps an IANA JWS algorithm identifier to the hash used for
// disclosure commitments. Signature algorithms map to the digest of their
// signing scheme; plain digest names (e.g. "SHA-384") are allow-listed
// explicitly so unknown identifiers fail closed.
func digestForAlg(alg string) (crypto.Hash, error) {
	var h crypto.Hash

	switch strings.ToLower(strings.ReplaceAll(alg, "-", "")) {
	case "es256k", "sha256":
		h = crypto.SHA256
	case "sha384":
		h = crypto.SHA384
	case "eddsa", "sha512":
		h = crypto.SHA512
	default:
		return h, errors.WithMessagef(ErrUnsupportedAlg, "%q", alg)
	}

	if !h.Available() {
		return h, errors.WithMessagef(ErrUnsupportedAlg, "%q is not linked in", alg)
	}
	return h, nil
}

// digest hashes the encoded disclosure string with the digest of alg and
// returns the unpadded base64url form. The hash is taken over the encoded
// string, not the decoded triple, to keep commitments byte-exact.
func digest(alg, encodedDisclosure string) (string, error) {
	h, err := digestForAlg(alg)
	if err != nil {
		return "", err
	}

	hasher := h.New()
	if _, err := hasher.Write([]byte(encodedDisclosure)); err != nil {
		return "", errors.WithStack(err)
	}

	return base64.RawURLEncoding.EncodeToString(hasher.Sum(nil)), nil
}
