package resolver

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"testing"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"
)

func TestMethod(t *testing.T) {
	method, err := Method("did:key:z6MkhaXgBZDvotDkL5257faiztiGiC2QtKLGpbnnEGta2doK")
	require.NoError(t, err)
	require.Equal(t, "key", method)

	for _, bad := range []string{"", "did:", "did:key", "key:z6Mk", "urn:uuid:x"} {
		_, err := Method(bad)
		require.ErrorIs(t, err, ErrInvalidDID, "input %q", bad)
	}
}

func TestKeyResolverEd25519RoundTrip(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	did, err := EncodeEd25519DIDKey(pub)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(did, "did:key:z"))

	resolved, err := NewRegistry().Resolve(context.Background(), did)
	require.NoError(t, err)
	require.Equal(t, pub, resolved)
}

func TestKeyResolverSecp256k1RoundTrip(t *testing.T) {
	k, err := gethcrypto.GenerateKey()
	require.NoError(t, err)

	did, err := EncodeSecp256k1DIDKey(gethcrypto.CompressPubkey(&k.PublicKey))
	require.NoError(t, err)

	resolved, err := NewRegistry().Resolve(context.Background(), did)
	require.NoError(t, err)

	resolvedKey, ok := resolved.(*ecdsa.PublicKey)
	require.True(t, ok)
	require.True(t, resolvedKey.Equal(&k.PublicKey))
}

func TestKeyResolverRejectsUnknownCodec(t *testing.T) {
	// multicodec 0x1200 (p-256) is not supported
	did, err := encodeDIDKey([]byte{0x80, 0x24}, make([]byte, 33))
	require.NoError(t, err)

	_, err = KeyResolver{}.Resolve(context.Background(), did)
	require.Error(t, err)
}

func TestEthrResolverPublicKeyForm(t *testing.T) {
	k, err := gethcrypto.GenerateKey()
	require.NoError(t, err)

	compressed := gethcrypto.CompressPubkey(&k.PublicKey)
	did := "did:ethr:0x" + hex.EncodeToString(compressed)

	resolved, err := NewRegistry().Resolve(context.Background(), did)
	require.NoError(t, err)

	resolvedKey, ok := resolved.(*ecdsa.PublicKey)
	require.True(t, ok)
	require.True(t, resolvedKey.Equal(&k.PublicKey))

	// network-qualified form resolves the same
	resolved, err = EthrResolver{}.Resolve(context.Background(),
		"did:ethr:sepolia:0x"+hex.EncodeToString(compressed))
	require.NoError(t, err)
	require.True(t, resolved.(*ecdsa.PublicKey).Equal(&k.PublicKey))
}

func TestEthrResolverAddressFormNeedsDocument(t *testing.T) {
	_, err := EthrResolver{}.Resolve(context.Background(),
		"did:ethr:0xb9c5714089478a327f09197987f16f9e5d936e8a")
	require.Error(t, err)
	require.Contains(t, err.Error(), "DID document")
}

func TestEthereumAddressChecksum(t *testing.T) {
	k, err := gethcrypto.GenerateKey()
	require.NoError(t, err)

	address, err := EthereumAddress(gethcrypto.CompressPubkey(&k.PublicKey))
	require.NoError(t, err)
	require.Len(t, address, 42)

	// matches go-ethereum's own derivation, modulo checksum casing
	want := gethcrypto.PubkeyToAddress(k.PublicKey)
	require.Equal(t, strings.ToLower(want.Hex()), strings.ToLower(address))
}

func TestRegistryUnsupportedMethod(t *testing.T) {
	_, err := NewRegistry().Resolve(context.Background(), "did:web:example.com")
	require.ErrorIs(t, err, ErrUnsupportedMethod)
}
