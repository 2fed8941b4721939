// Package revocation implements the StatusList2021 revocation scheme: a
// fixed 128000-bit bitmap published as a compressed bitstring inside a
// verifiable credential, plus the issuer-side flow that flips a bit and
// republishes the list.
package revocation

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

const (
	// WordCount is the number of 64-bit words in a list.
	WordCount = 2000

	// BitsPerWord is the index capacity of one word.
	BitsPerWord = 64

	// Capacity is the index domain of a list: [0, Capacity).
	Capacity = WordCount * BitsPerWord

	listByteSize = WordCount * 8
)

// ErrIndexOutOfRange is returned for indexes outside [0, Capacity).
var ErrIndexOutOfRange = errors.New("revocation index out of range")

// List is a revocation bitmap. Bit i set means credential i is revoked.
// Bits only ever transition from unset to set; revoking twice is a no-op.
//
// The word order is reversed: index 0 lives in the last word. The layout is
// part of the serialized format and interoperates with lists produced by
// other implementations of the scheme.
type List struct {
	words []uint64
}

// New returns an empty list with no bits set.
func New() *List {
	return &List{words: make([]uint64, WordCount)}
}

// wordBit locates index i inside the reversed word layout.
func wordBit(i uint64) (word int, bit uint) {
	return WordCount - 1 - int(i/BitsPerWord), uint(i % BitsPerWord)
}

// IsRevoked reports whether bit i is set.
func (l *List) IsRevoked(i uint64) (bool, error) {
	if i >= Capacity {
		return false, errors.WithMessagef(ErrIndexOutOfRange, "%d", i)
	}
	word, bit := wordBit(i)
	return l.words[word]&(1<<bit) != 0, nil
}

// Revoke sets bit i. Setting an already-set bit is not an error.
func (l *List) Revoke(i uint64) error {
	if i >= Capacity {
		return errors.WithMessagef(ErrIndexOutOfRange, "%d", i)
	}
	word, bit := wordBit(i)
	l.words[word] |= 1 << bit
	return nil
}

// Serialize encodes the bitmap as base64(gzip(little-endian word bytes)).
// Standard base64, not base64url: the value travels inside a JSON document,
// not a URL.
func (l *List) Serialize() (string, error) {
	raw := make([]byte, listByteSize)
	for i, word := range l.words {
		binary.LittleEndian.PutUint64(raw[i*8:], word)
	}

	var compressed bytes.Buffer
	zw := gzip.NewWriter(&compressed)
	if _, err := zw.Write(raw); err != nil {
		return "", errors.WithStack(err)
	}
	if err := zw.Close(); err != nil {
		return "", errors.WithStack(err)
	}

	return base64.StdEncoding.EncodeToString(compressed.Bytes()), nil
}

// Parse decodes a bitmap produced by Serialize.
func Parse(encoded string) (*List, error) {
	compressed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, errors.WithMessage(err, "decode encodedList")
	}

	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, errors.WithMessage(err, "gunzip encodedList")
	}
	defer func() {
		_ = zr.Close()
	}()

	raw, err := io.ReadAll(io.LimitReader(zr, listByteSize+1))
	if err != nil {
		return nil, errors.WithMessage(err, "gunzip encodedList")
	}
	if len(raw) != listByteSize {
		return nil, errors.Errorf("bitmap must be %d bytes, got %d",
			listByteSize, len(raw))
	}

	l := New()
	for i := range l.words {
		l.words[i] = binary.LittleEndian.Uint64(raw[i*8:])
	}
	return l, nil
}

// Equal reports whether two lists carry identical bitmaps.
func (l *List) Equal(other *List) bool {
	for i := range l.words {
		if l.words[i] != other.words[i] {
			return false
		}
	}
	return true
}
