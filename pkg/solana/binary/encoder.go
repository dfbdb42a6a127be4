package binary

import (
	"crypto/ed25519"
	"encoding/binary"
)

// Encoder appends little-endian fixed width values to a growing buffer.
type Encoder struct {
	buf []byte
}

func NewEncoder(capacity int) *Encoder {
	return &Encoder{buf: make([]byte, 0, capacity)}
}

// Bytes returns the encoded buffer.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

func (e *Encoder) Len() int {
	return len(e.buf)
}

func (e *Encoder) PutBytes(b []byte) *Encoder {
	e.buf = append(e.buf, b...)
	return e
}

// PutPadding appends n zero bytes.
func (e *Encoder) PutPadding(n int) *Encoder {
	e.buf = append(e.buf, make([]byte, n)...)
	return e
}

func (e *Encoder) PutUint8(v uint8) *Encoder {
	e.buf = append(e.buf, v)
	return e
}

func (e *Encoder) PutBool(v bool) *Encoder {
	if v {
		return e.PutUint8(1)
	}
	return e.PutUint8(0)
}

func (e *Encoder) PutUint16(v uint16) *Encoder {
	e.buf = binary.LittleEndian.AppendUint16(e.buf, v)
	return e
}

func (e *Encoder) PutUint32(v uint32) *Encoder {
	e.buf = binary.LittleEndian.AppendUint32(e.buf, v)
	return e
}

func (e *Encoder) PutUint64(v uint64) *Encoder {
	e.buf = binary.LittleEndian.AppendUint64(e.buf, v)
	return e
}

func (e *Encoder) PutInt64(v int64) *Encoder {
	return e.PutUint64(uint64(v))
}

func (e *Encoder) PutUint128(v Uint128) *Encoder {
	return e.PutUint64(v.Lo).PutUint64(v.Hi)
}

// PutKey32 appends a 32 byte key. A nil key is encoded as all zeros, which
// is the default key on chain.
func (e *Encoder) PutKey32(key ed25519.PublicKey) *Encoder {
	var raw [ed25519.PublicKeySize]byte
	copy(raw[:], key)
	return e.PutBytes(raw[:])
}

// PutOptionalUint8 appends a presence byte, followed by the value if set.
func (e *Encoder) PutOptionalUint8(v *uint8) *Encoder {
	if v == nil {
		return e.PutUint8(0)
	}
	return e.PutUint8(1).PutUint8(*v)
}

// PutVecLen appends a u32 vector length prefix.
func (e *Encoder) PutVecLen(n int) *Encoder {
	return e.PutUint32(uint32(n))
}
