package sdjwt

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"

	"github.com/pkg/errors"
)

const saltSize = 16

// ErrMalformedDisclosure is returned when a disclosure string does not
// decode to a [salt, name, value] triple.
var ErrMalformedDisclosure = errors.New("malformed disclosure")

// ErrNestedNotSupported is returned when a selectively disclosable claim
// value is an object or array. Only primitive values can be hidden.
var ErrNestedNotSupported = errors.New("nested claims are not supported")

// Disclosure is a single salted claim opening: hashing its encoded form
// with the credential's _sd_alg must yield a digest present in the
// credential's _sd array.
type Disclosure struct {
	Salt  string
	Name  string
	Value interface{}
}

// NewDisclosure creates a disclosure for one claim with a fresh 16-byte
// salt from the platform CSPRNG.
func NewDisclosure(name string, value interface{}) (*Disclosure, error) {
	if !isPrimitive(value) {
		return nil, errors.WithMessagef(ErrNestedNotSupported, "claim %q", name)
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.WithStack(err)
	}

	return &Disclosure{
		Salt:  base64.RawURLEncoding.EncodeToString(salt),
		Name:  name,
		Value: value,
	}, nil
}

// Encode renders the disclosure as base64url(JSON [salt, name, value])
// without padding. The JSON array is compact, no whitespace.
func (d *Disclosure) Encode() (string, error) {
	raw, err := json.Marshal([]interface{}{d.Salt, d.Name, d.Value})
	if err != nil {
		return "", errors.WithStack(err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// ParseDisclosure decodes an encoded disclosure back into its triple.
func ParseDisclosure(encoded string) (*Disclosure, error) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.WithMessage(ErrMalformedDisclosure, err.Error())
	}

	var triple []interface{}
	if err := json.Unmarshal(raw, &triple); err != nil {
		return nil, errors.WithMessage(ErrMalformedDisclosure, err.Error())
	}
	if len(triple) != 3 {
		return nil, errors.WithMessagef(ErrMalformedDisclosure,
			"expected 3 elements, got %d", len(triple))
	}

	salt, ok := triple[0].(string)
	if !ok {
		return nil, errors.WithMessage(ErrMalformedDisclosure, "salt is not a string")
	}
	name, ok := triple[1].(string)
	if !ok {
		return nil, errors.WithMessage(ErrMalformedDisclosure, "claim name is not a string")
	}

	return &Disclosure{Salt: salt, Name: name, Value: triple[2]}, nil
}

// Digest hashes the encoded disclosure with the digest behind alg.
func (d *Disclosure) Digest(alg string) (string, error) {
	encoded, err := d.Encode()
	if err != nil {
		return "", err
	}
	return digest(alg, encoded)
}

func isPrimitive(value interface{}) bool {
	switch value.(type) {
	case nil, string, bool,
		float32, float64,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		json.Number:
		return true
	default:
		return false
	}
}
