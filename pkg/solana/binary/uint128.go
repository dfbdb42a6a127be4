package binary

import (
	"encoding/binary"

	"github.com/decred/dcrd/math/uint256"
	"github.com/pkg/errors"
)

var ErrValueOverflow = errors.New("value does not fit in 128 bits")

// Uint128 is an unsigned 128-bit integer as stored on chain. Arithmetic is
// done with uint256.Uint256 so intermediate products can't overflow.
type Uint128 struct {
	Lo uint64
	Hi uint64
}

func NewUint128(v uint64) Uint128 {
	return Uint128{Lo: v}
}

// Uint128FromUint256 narrows v, failing with ErrValueOverflow if any of the
// upper 128 bits are set.
func Uint128FromUint256(v *uint256.Uint256) (Uint128, error) {
	if v.BitLen() > 128 {
		return Uint128{}, ErrValueOverflow
	}

	var raw [32]byte
	v.PutBytesLE(&raw)
	return Uint128{
		Lo: binary.LittleEndian.Uint64(raw[0:8]),
		Hi: binary.LittleEndian.Uint64(raw[8:16]),
	}, nil
}

// Uint256 widens the value for arithmetic.
func (u Uint128) Uint256() *uint256.Uint256 {
	var raw [32]byte
	binary.LittleEndian.PutUint64(raw[0:8], u.Lo)
	binary.LittleEndian.PutUint64(raw[8:16], u.Hi)
	return new(uint256.Uint256).SetBytesLE(&raw)
}

func (u Uint128) IsZero() bool {
	return u.Lo == 0 && u.Hi == 0
}

func (u Uint128) String() string {
	return u.Uint256().String()
}
