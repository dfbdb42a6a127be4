package binary

import (
	"crypto/ed25519"
	"encoding/binary"

	"github.com/pkg/errors"
)

var (
	ErrTruncatedBuffer = errors.New("truncated buffer")
	ErrInvalidOption   = errors.New("invalid option presence flag")
	ErrInvalidBool     = errors.New("invalid bool value")
)

// Decoder reads little-endian fixed width values from a byte slice. Every
// read is bounds checked and fails with ErrTruncatedBuffer if the remaining
// bytes can't hold the requested field.
type Decoder struct {
	buf    []byte
	offset int
}

func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

// Offset is the number of bytes consumed so far.
func (d *Decoder) Offset() int {
	return d.offset
}

// Remaining is the number of unread bytes.
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.offset
}

func (d *Decoder) next(n int) ([]byte, error) {
	if n < 0 || d.Remaining() < n {
		return nil, errors.Wrapf(ErrTruncatedBuffer, "need %d bytes at offset %d, have %d", n, d.offset, d.Remaining())
	}

	b := d.buf[d.offset : d.offset+n]
	d.offset += n
	return b, nil
}

// Bytes returns a copy of the next n bytes.
func (d *Decoder) Bytes(n int) ([]byte, error) {
	b, err := d.next(n)
	if err != nil {
		return nil, err
	}

	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

func (d *Decoder) Skip(n int) error {
	_, err := d.next(n)
	return err
}

func (d *Decoder) Uint8() (uint8, error) {
	b, err := d.next(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) Bool() (bool, error) {
	v, err := d.Uint8()
	if err != nil {
		return false, err
	}

	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, errors.Wrapf(ErrInvalidBool, "value %d at offset %d", v, d.offset-1)
	}
}

func (d *Decoder) Uint16() (uint16, error) {
	b, err := d.next(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *Decoder) Uint32() (uint32, error) {
	b, err := d.next(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *Decoder) Uint64() (uint64, error) {
	b, err := d.next(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *Decoder) Int64() (int64, error) {
	v, err := d.Uint64()
	return int64(v), err
}

func (d *Decoder) Uint128() (Uint128, error) {
	b, err := d.next(16)
	if err != nil {
		return Uint128{}, err
	}
	return Uint128{
		Lo: binary.LittleEndian.Uint64(b[:8]),
		Hi: binary.LittleEndian.Uint64(b[8:]),
	}, nil
}

func (d *Decoder) Key32() (ed25519.PublicKey, error) {
	return d.Bytes(ed25519.PublicKeySize)
}

// OptionalUint8 reads a presence byte followed by the value when present.
func (d *Decoder) OptionalUint8() (*uint8, error) {
	present, err := d.Uint8()
	if err != nil {
		return nil, err
	}

	switch present {
	case 0:
		return nil, nil
	case 1:
		v, err := d.Uint8()
		if err != nil {
			return nil, err
		}
		return &v, nil
	default:
		return nil, errors.Wrapf(ErrInvalidOption, "flag %d at offset %d", present, d.offset-1)
	}
}

// VecLen reads a u32 vector length and checks that at least itemSize bytes
// per item remain.
func (d *Decoder) VecLen(itemSize int) (int, error) {
	n, err := d.Uint32()
	if err != nil {
		return 0, err
	}

	if uint64(n)*uint64(itemSize) > uint64(d.Remaining()) {
		return 0, errors.Wrapf(ErrTruncatedBuffer, "vector of %d items at offset %d", n, d.offset)
	}
	return int(n), nil
}
