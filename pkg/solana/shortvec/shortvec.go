// Package shortvec implements the compact length prefix used by the Solana
// wire format: little endian base 128 with at most three bytes.
package shortvec

import (
	"io"
	"math"

	"github.com/pkg/errors"
)

// MaxEncodedLen is the largest number of bytes a length can occupy.
const MaxEncodedLen = 3

var (
	ErrLenTooLarge  = errors.Errorf("len exceeds %d", math.MaxUint16)
	ErrInvalidLen   = errors.New("invalid shortvec length")
	ErrNonCanonical = errors.New("non-canonical shortvec length")
)

// Append appends the encoding of n to dst.
func Append(dst []byte, n int) ([]byte, error) {
	if n < 0 || n > math.MaxUint16 {
		return dst, ErrLenTooLarge
	}

	for n >= 0x80 {
		dst = append(dst, byte(n&0x7f)|0x80)
		n >>= 7
	}
	return append(dst, byte(n)), nil
}

// EncodeLen writes the encoding of n to w and returns the number of bytes
// written.
func EncodeLen(w io.Writer, n int) (int, error) {
	var scratch [MaxEncodedLen]byte
	encoded, err := Append(scratch[:0], n)
	if err != nil {
		return 0, err
	}
	return w.Write(encoded)
}

// DecodeLen reads an encoded length from r. Encodings longer than three bytes,
// values above math.MaxUint16 and encodings with a trailing zero byte are
// rejected.
func DecodeLen(r io.Reader) (int, error) {
	var (
		val int
		b   [1]byte
	)

	for i := 0; i < MaxEncodedLen; i++ {
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return 0, err
		}

		if i > 0 && b[0] == 0 {
			return 0, ErrNonCanonical
		}

		val |= int(b[0]&0x7f) << (7 * i)
		if b[0]&0x80 == 0 {
			if val > math.MaxUint16 {
				return 0, ErrInvalidLen
			}
			return val, nil
		}
	}

	return 0, ErrInvalidLen
}
