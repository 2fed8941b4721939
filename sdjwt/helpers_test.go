package sdjwt

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/crednet/go-credential-processor/jws"
	"github.com/crednet/go-credential-processor/resolver"
)

// newES256KIssuer generates a secp256k1 key pair addressed by its did:key.
func newES256KIssuer(t *testing.T) (jws.KeyMaterial, string) {
	t.Helper()

	k, err := jws.GenerateES256KKey()
	require.NoError(t, err)

	did, err := resolver.EncodeSecp256k1DIDKey(gethcrypto.CompressPubkey(&k.PublicKey))
	require.NoError(t, err)

	return jws.NewES256KKeyMaterial(did, k), did
}

// newEdDSAIssuer generates an Ed25519 key pair addressed by its did:key.
func newEdDSAIssuer(t *testing.T) (jws.KeyMaterial, string) {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	did, err := resolver.EncodeEd25519DIDKey(pub)
	require.NoError(t, err)

	return jws.NewEdDSAKeyMaterial(did, priv), did
}
