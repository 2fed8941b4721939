package jws

import (
	"crypto/ecdsa"
	"crypto/sha256"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// es256kSignatureSize is the JOSE R || S encoding, without the recovery byte
// go-ethereum appends.
const es256kSignatureSize = 64

// SigningMethodES256K implements the ES256K JOSE algorithm (ECDSA over
// secp256k1 with SHA-256) on top of go-ethereum's curve implementation.
// golang-jwt has no built-in support for secp256k1, so the method is
// registered here.
type SigningMethodES256K struct{}

// ES256K is the singleton used by all tokens.
var ES256K = &SigningMethodES256K{}

//nolint:gochecknoinits // jwt.RegisterSigningMethod is the library's extension point
func init() {
	jwt.RegisterSigningMethod(ES256K.Alg(), func() jwt.SigningMethod {
		return ES256K
	})
}

func (m *SigningMethodES256K) Alg() string {
	return string(AlgES256K)
}

// Sign produces a 64-byte R||S signature over SHA-256(signingString).
func (m *SigningMethodES256K) Sign(signingString string, key interface{}) ([]byte, error) {
	privateKey, ok := key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, errors.Errorf("ES256K sign expects *ecdsa.PrivateKey, got %T", key)
	}
	if privateKey.Curve != gethcrypto.S256() {
		return nil, errors.New("ES256K sign expects a secp256k1 key")
	}

	digest := sha256.Sum256([]byte(signingString))

	sig, err := gethcrypto.Sign(digest[:], privateKey)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	// drop the recovery id, JOSE carries R || S only
	return sig[:es256kSignatureSize], nil
}

// Verify checks a 64-byte R||S signature against SHA-256(signingString).
func (m *SigningMethodES256K) Verify(signingString string, sig []byte, key interface{}) error {
	publicKey, ok := key.(*ecdsa.PublicKey)
	if !ok {
		return errors.Errorf("ES256K verify expects *ecdsa.PublicKey, got %T", key)
	}
	if len(sig) != es256kSignatureSize {
		return errors.Errorf("ES256K signature must be %d bytes, got %d",
			es256kSignatureSize, len(sig))
	}

	digest := sha256.Sum256([]byte(signingString))

	if !gethcrypto.VerifySignature(gethcrypto.CompressPubkey(publicKey), digest[:], sig) {
		return errors.New("ES256K signature verification failed")
	}
	return nil
}
