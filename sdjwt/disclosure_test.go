package sdjwt

import (
	"crypto"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDisclosureRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value interface{}
	}{
		{"string", "John"},
		{"number", float64(42)},
		{"bool", true},
		{"null", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := NewDisclosure("claim", tt.value)
			require.NoError(t, err)

			salt, err := base64.RawURLEncoding.DecodeString(d.Salt)
			require.NoError(t, err)
			require.Len(t, salt, saltSize)

			encoded, err := d.Encode()
			require.NoError(t, err)

			parsed, err := ParseDisclosure(encoded)
			require.NoError(t, err)
			require.Equal(t, d.Salt, parsed.Salt)
			require.Equal(t, d.Name, parsed.Name)
			require.Equal(t, tt.value, parsed.Value)
		})
	}
}

func TestNewDisclosureRejectsNestedValues(t *testing.T) {
	_, err := NewDisclosure("address", map[string]interface{}{"city": "Berlin"})
	require.ErrorIs(t, err, ErrNestedNotSupported)

	_, err = NewDisclosure("tags", []interface{}{"a", "b"})
	require.ErrorIs(t, err, ErrNestedNotSupported)
}

func TestParseDisclosureRejectsMalformedInput(t *testing.T) {
	tests := []struct {
		name    string
		encoded string
	}{
		{"not base64url", "!!!"},
		{"not json", base64.RawURLEncoding.EncodeToString([]byte("hello"))},
		{"wrong arity", base64.RawURLEncoding.EncodeToString([]byte(`["salt","name"]`))},
		{"four elements", base64.RawURLEncoding.EncodeToString([]byte(`["s","n","v","x"]`))},
		{"salt not string", base64.RawURLEncoding.EncodeToString([]byte(`[1,"n","v"]`))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDisclosure(tt.encoded)
			require.ErrorIs(t, err, ErrMalformedDisclosure)
		})
	}
}

func TestDigestForAlg(t *testing.T) {
	h, err := digestForAlg("ES256K")
	require.NoError(t, err)
	require.Equal(t, crypto.SHA256, h)

	h, err = digestForAlg("EdDSA")
	require.NoError(t, err)
	require.Equal(t, crypto.SHA512, h)

	h, err = digestForAlg("SHA-384")
	require.NoError(t, err)
	require.Equal(t, crypto.SHA384, h)

	_, err = digestForAlg("PS256")
	require.ErrorIs(t, err, ErrUnsupportedAlg)

	_, err = digestForAlg("md5")
	require.ErrorIs(t, err, ErrUnsupportedAlg)
}

func TestDigestCommitsToEncodedForm(t *testing.T) {
	d := &Disclosure{Salt: "c2FsdHNhbHRzYWx0c2FsdA", Name: "fname", Value: "John"}

	encoded, err := d.Encode()
	require.NoError(t, err)

	dig, err := d.Digest("ES256K")
	require.NoError(t, err)

	again, err := digest("ES256K", encoded)
	require.NoError(t, err)
	require.Equal(t, dig, again)

	// any change to the encoded string must change the digest
	tampered, err := digest("ES256K", encoded+"A")
	require.NoError(t, err)
	require.NotEqual(t, dig, tampered)

	require.False(t, strings.ContainsAny(dig, "+/="))
}
