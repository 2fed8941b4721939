package resolver

import (
	"context"
	"crypto"
	"encoding/hex"
	"strings"

	gethcrypto "github.com/ethereum/go-ethereum/crypto"
	"github.com/pkg/errors"
	"golang.org/x/crypto/sha3"
)

const (
	didEthrPrefix = "did:ethr:"

	compressedKeyHexLen = 66 // 33 bytes: 0x02/0x03 prefix + X coordinate
	addressHexLen       = 40 // 20-byte account address
)

// EthrResolver resolves did:ethr identifiers whose method-specific id is a
// hex-encoded compressed secp256k1 public key. Address-form identifiers
// carry no recoverable key material and must be resolved through a DID
// document service such as HTTPResolver.
type EthrResolver struct{}

func (EthrResolver) Resolve(_ context.Context, did string) (crypto.PublicKey, error) {
	if !strings.HasPrefix(did, didEthrPrefix) {
		return nil, errors.WithMessagef(ErrInvalidDID, "%q is not a did:ethr", did)
	}

	id := strings.TrimPrefix(did, didEthrPrefix)
	// optional network qualifier, e.g. did:ethr:sepolia:0x...
	if i := strings.LastIndex(id, ":"); i >= 0 {
		id = id[i+1:]
	}
	id = strings.TrimPrefix(id, "0x")

	switch len(id) {
	case compressedKeyHexLen:
		raw, err := hex.DecodeString(id)
		if err != nil {
			return nil, errors.WithMessage(err, "decode did:ethr key")
		}
		publicKey, err := gethcrypto.DecompressPubkey(raw)
		if err != nil {
			return nil, errors.WithMessage(err, "secp256k1 decompress")
		}
		return publicKey, nil

	case addressHexLen:
		return nil, errors.Errorf(
			"did:ethr address form %q carries no public key, resolve it via a DID document", did)

	default:
		return nil, errors.WithMessagef(ErrInvalidDID, "%q", did)
	}
}

// EthereumAddress derives the EIP-55 checksummed account address of a
// compressed secp256k1 public key, as used in did:ethr address-form
// identifiers.
func EthereumAddress(compressed []byte) (string, error) {
	publicKey, err := gethcrypto.DecompressPubkey(compressed)
	if err != nil {
		return "", errors.WithMessage(err, "secp256k1 decompress")
	}

	keccak := sha3.NewLegacyKeccak256()
	keccak.Write(gethcrypto.FromECDSAPub(publicKey)[1:]) // strip the 0x04 point marker
	address := hex.EncodeToString(keccak.Sum(nil)[12:])

	return "0x" + checksumAddress(address), nil
}

// checksumAddress applies EIP-55 mixed-case checksum encoding to a lowercase
// hex address without the 0x prefix.
func checksumAddress(address string) string {
	keccak := sha3.NewLegacyKeccak256()
	keccak.Write([]byte(address))
	digest := keccak.Sum(nil)

	out := []byte(address)
	for i, c := range out {
		if c < 'a' || c > 'f' {
			continue
		}
		nibble := digest[i/2]
		if i%2 == 0 {
			nibble >>= 4
		}
		if nibble&0x0f >= 8 {
			out[i] = c - ('a' - 'A')
		}
	}
	return string(out)
}
