package resolver

import (
	"context"
	"crypto"
	"crypto/ed25519"
	"strings"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/multiformats/go-multibase"
	"github.com/pkg/errors"
)

// multicodec prefixes (unsigned varint) for the key types did:key can carry.
var (
	multicodecEd25519Pub   = []byte{0xed, 0x01}
	multicodecSecp256k1Pub = []byte{0xe7, 0x01}
)

const didKeyPrefix = "did:key:"

// KeyResolver resolves did:key identifiers locally. The public key is
// embedded in the method-specific id as a multibase-encoded multicodec
// value, so no network access is needed.
type KeyResolver struct{}

func (KeyResolver) Resolve(_ context.Context, did string) (crypto.PublicKey, error) {
	if !strings.HasPrefix(did, didKeyPrefix) {
		return nil, errors.WithMessagef(ErrInvalidDID, "%q is not a did:key", did)
	}

	_, decoded, err := multibase.Decode(strings.TrimPrefix(did, didKeyPrefix))
	if err != nil {
		return nil, errors.WithMessage(err, "multibase decode")
	}

	switch {
	case hasPrefix(decoded, multicodecEd25519Pub):
		keyBytes := decoded[len(multicodecEd25519Pub):]
		if len(keyBytes) != ed25519.PublicKeySize {
			return nil, errors.Errorf("ed25519 key must be %d bytes, got %d",
				ed25519.PublicKeySize, len(keyBytes))
		}
		return ed25519.PublicKey(keyBytes), nil

	case hasPrefix(decoded, multicodecSecp256k1Pub):
		publicKey, err := gethcrypto.DecompressPubkey(decoded[len(multicodecSecp256k1Pub):])
		if err != nil {
			return nil, errors.WithMessage(err, "secp256k1 decompress")
		}
		return publicKey, nil

	default:
		return nil, errors.Errorf("unsupported did:key multicodec in %q", did)
	}
}

// EncodeEd25519DIDKey builds the did:key form of an Ed25519 public key.
func EncodeEd25519DIDKey(publicKey ed25519.PublicKey) (string, error) {
	return encodeDIDKey(multicodecEd25519Pub, publicKey)
}

// EncodeSecp256k1DIDKey builds the did:key form of a compressed secp256k1
// public key.
func EncodeSecp256k1DIDKey(compressed []byte) (string, error) {
	return encodeDIDKey(multicodecSecp256k1Pub, compressed)
}

func encodeDIDKey(codec, keyBytes []byte) (string, error) {
	encoded, err := multibase.Encode(multibase.Base58BTC,
		append(append([]byte{}, codec...), keyBytes...))
	if err != nil {
		return "", errors.WithStack(err)
	}
	return didKeyPrefix + encoded, nil
}

func hasPrefix(b, prefix []byte) bool {
	if len(b) < len(prefix) {
		return false
	}
	for i := range prefix {
		if b[i] != prefix[i] {
			return false
		}
	}
	return true
}
