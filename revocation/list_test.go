package revocation

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/binary"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRevokeAndQuery(t *testing.T) {
	l := New()

	revoked, err := l.IsRevoked(42)
	require.NoError(t, err)
	require.False(t, revoked)

	require.NoError(t, l.Revoke(42))

	for i, want := range map[uint64]bool{41: false, 42: true, 43: false} {
		revoked, err := l.IsRevoked(i)
		require.NoError(t, err)
		require.Equal(t, want, revoked, "index %d", i)
	}

	// revoking twice is a no-op
	require.NoError(t, l.Revoke(42))
	revoked, err = l.IsRevoked(42)
	require.NoError(t, err)
	require.True(t, revoked)
}

func TestIndexBounds(t *testing.T) {
	l := New()

	require.NoError(t, l.Revoke(0))
	require.NoError(t, l.Revoke(Capacity-1))

	require.ErrorIs(t, l.Revoke(Capacity), ErrIndexOutOfRange)
	require.ErrorIs(t, l.Revoke(Capacity+1), ErrIndexOutOfRange)

	_, err := l.IsRevoked(Capacity)
	require.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestSerializeRoundTrip(t *testing.T) {
	l := New()
	for _, i := range []uint64{0, 1, 63, 64, 42, 127999} {
		require.NoError(t, l.Revoke(i))
	}

	encoded, err := l.Serialize()
	require.NoError(t, err)

	parsed, err := Parse(encoded)
	require.NoError(t, err)
	require.True(t, l.Equal(parsed))

	for _, i := range []uint64{0, 1, 63, 64, 42, 127999} {
		revoked, err := parsed.IsRevoked(i)
		require.NoError(t, err)
		require.True(t, revoked, "index %d", i)
	}

	revoked, err := parsed.IsRevoked(2)
	require.NoError(t, err)
	require.False(t, revoked)
}

func TestSerializedLayout(t *testing.T) {
	l := New()
	require.NoError(t, l.Revoke(0))

	encoded, err := l.Serialize()
	require.NoError(t, err)

	compressed, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(t, err)

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	require.NoError(t, err)
	raw, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.Len(t, raw, WordCount*8)

	// index 0 lives in the lowest bit of the last word
	lastWord := binary.LittleEndian.Uint64(raw[(WordCount-1)*8:])
	require.Equal(t, uint64(1), lastWord)
	require.Equal(t, uint64(0), binary.LittleEndian.Uint64(raw[:8]))
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse("not base64!!!")
	require.Error(t, err)

	// valid base64, not gzip
	_, err = Parse(base64.StdEncoding.EncodeToString([]byte("hello")))
	require.Error(t, err)

	// gzip of a short buffer
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err = zw.Write(make([]byte, 8))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Parse(base64.StdEncoding.EncodeToString(buf.Bytes()))
	require.Error(t, err)
}
