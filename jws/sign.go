package jws

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// Signer produces a compact JWS over a JSON payload.
type Signer interface {
	Sign(key KeyMaterial, payload map[string]interface{}) (string, error)
}

// TokenSigner is the default Signer. It signs payloads as JWTs with the
// algorithm carried by the key material and puts the signer DID into the
// "kid" header. This package's Verifier does not read that header; it
// resolves the key from the payload's iss claim.
type TokenSigner struct{}

// NewSigner returns a TokenSigner.
func NewSigner() *TokenSigner {
	return &TokenSigner{}
}

func (s *TokenSigner) Sign(key KeyMaterial, payload map[string]interface{}) (string, error) {
	if err := key.validateForSigning(); err != nil {
		return "", err
	}

	method := jwt.GetSigningMethod(string(key.Alg))
	if method == nil {
		return "", errors.WithMessagef(ErrUnknownAlgorithm, "%s", key.Alg)
	}

	token := jwt.NewWithClaims(method, jwt.MapClaims(payload))
	token.Header["kid"] = key.DID

	signed, err := token.SignedString(key.PrivateKey)
	if err != nil {
		return "", errors.WithMessage(err, "signing failed")
	}
	return signed, nil
}
