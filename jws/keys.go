package jws

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/ed25519"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
)

// Algorithm is an IANA JOSE signature algorithm identifier.
type Algorithm string

const (
	// AlgES256K is ECDSA over secp256k1 with SHA-256.
	AlgES256K Algorithm = "ES256K"

	// AlgEdDSA is Ed25519 per RFC 8037.
	AlgEdDSA Algorithm = "EdDSA"
)

// ErrUnknownAlgorithm is returned for algorithms outside the supported set.
var ErrUnknownAlgorithm = errors.New("unknown signature algorithm")

// KeyMaterial binds a DID to the key pair that signs on its behalf.
// PrivateKey may be nil when the material is used for verification only.
type KeyMaterial struct {
	DID        string
	Alg        Algorithm
	PublicKey  crypto.PublicKey
	PrivateKey crypto.PrivateKey
}

// NewES256KKeyMaterial wraps a secp256k1 key pair.
func NewES256KKeyMaterial(did string, privateKey *ecdsa.PrivateKey) KeyMaterial {
	return KeyMaterial{
		DID:        did,
		Alg:        AlgES256K,
		PublicKey:  &privateKey.PublicKey,
		PrivateKey: privateKey,
	}
}

// NewEdDSAKeyMaterial wraps an Ed25519 key pair.
func NewEdDSAKeyMaterial(did string, privateKey ed25519.PrivateKey) KeyMaterial {
	return KeyMaterial{
		DID:        did,
		Alg:        AlgEdDSA,
		PublicKey:  privateKey.Public(),
		PrivateKey: privateKey,
	}
}

// GenerateES256KKey creates a fresh secp256k1 key pair.
func GenerateES256KKey() (*ecdsa.PrivateKey, error) {
	k, err := gethcrypto.GenerateKey()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return k, nil
}

func (k KeyMaterial) validateForSigning() error {
	if k.PrivateKey == nil {
		return errors.New("key material has no private key")
	}
	switch k.Alg {
	case AlgES256K, AlgEdDSA:
		return nil
	default:
		return errors.WithMessagef(ErrUnknownAlgorithm, "%s", k.Alg)
	}
}
