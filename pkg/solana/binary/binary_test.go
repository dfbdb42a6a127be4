package binary

import (
	"crypto/ed25519"
	"math"
	"testing"

	"github.com/decred/dcrd/math/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncoder_LittleEndian(t *testing.T) {
	rig := uint8(3)

	actual := NewEncoder(0).
		PutUint8(0xab).
		PutUint16(0x0102).
		PutUint32(0x01020304).
		PutUint64(0x0102030405060708).
		PutInt64(-2).
		PutBool(true).
		PutOptionalUint8(nil).
		PutOptionalUint8(&rig).
		Bytes()

	expected := []byte{
		0xab,
		0x02, 0x01,
		0x04, 0x03, 0x02, 0x01,
		0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
		0xfe, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
		0x01,
		0x00,
		0x01, 0x03,
	}
	assert.Equal(t, expected, actual)
}

func TestRoundTrip(t *testing.T) {
	key, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	rig := uint8(math.MaxUint8)
	wide := Uint128{Lo: math.MaxUint64, Hi: 42}

	data := NewEncoder(0).
		PutKey32(key).
		PutUint16(math.MaxUint16).
		PutUint64(math.MaxUint64).
		PutInt64(math.MinInt64).
		PutUint128(wide).
		PutOptionalUint8(&rig).
		PutOptionalUint8(nil).
		PutVecLen(2).
		PutUint8(1).
		PutUint8(2).
		Bytes()

	d := NewDecoder(data)

	actualKey, err := d.Key32()
	require.NoError(t, err)
	assert.EqualValues(t, key, actualKey)

	u16, err := d.Uint16()
	require.NoError(t, err)
	assert.EqualValues(t, math.MaxUint16, u16)

	u64, err := d.Uint64()
	require.NoError(t, err)
	assert.EqualValues(t, uint64(math.MaxUint64), u64)

	i64, err := d.Int64()
	require.NoError(t, err)
	assert.EqualValues(t, math.MinInt64, i64)

	u128, err := d.Uint128()
	require.NoError(t, err)
	assert.Equal(t, wide, u128)

	some, err := d.OptionalUint8()
	require.NoError(t, err)
	require.NotNil(t, some)
	assert.Equal(t, rig, *some)

	none, err := d.OptionalUint8()
	require.NoError(t, err)
	assert.Nil(t, none)

	n, err := d.VecLen(1)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.NoError(t, d.Skip(2))

	assert.Equal(t, 0, d.Remaining())
	assert.Equal(t, len(data), d.Offset())
}

func TestDecoder_Truncated(t *testing.T) {
	for _, tc := range []struct {
		name string
		data []byte
		read func(d *Decoder) error
	}{
		{"u8", nil, func(d *Decoder) error { _, err := d.Uint8(); return err }},
		{"u16", []byte{1}, func(d *Decoder) error { _, err := d.Uint16(); return err }},
		{"u32", []byte{1, 2, 3}, func(d *Decoder) error { _, err := d.Uint32(); return err }},
		{"u64", make([]byte, 7), func(d *Decoder) error { _, err := d.Uint64(); return err }},
		{"i64", make([]byte, 4), func(d *Decoder) error { _, err := d.Int64(); return err }},
		{"u128", make([]byte, 15), func(d *Decoder) error { _, err := d.Uint128(); return err }},
		{"key", make([]byte, 31), func(d *Decoder) error { _, err := d.Key32(); return err }},
		{"option value", []byte{1}, func(d *Decoder) error { _, err := d.OptionalUint8(); return err }},
		{"vec", []byte{3, 0, 0, 0, 1, 2}, func(d *Decoder) error { _, err := d.VecLen(1); return err }},
		{"skip", make([]byte, 3), func(d *Decoder) error { return d.Skip(4) }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.read(NewDecoder(tc.data))
			assert.True(t, errors.Is(err, ErrTruncatedBuffer), "unexpected error: %v", err)
		})
	}
}

func TestDecoder_InvalidFlags(t *testing.T) {
	_, err := NewDecoder([]byte{2, 0}).OptionalUint8()
	assert.True(t, errors.Is(err, ErrInvalidOption))

	_, err = NewDecoder([]byte{7}).Bool()
	assert.True(t, errors.Is(err, ErrInvalidBool))
}

func TestUint128(t *testing.T) {
	v := Uint128{Lo: 5, Hi: 1}

	wide := v.Uint256()
	expected := new(uint256.Uint256).SetUint64(math.MaxUint64)
	expected.Add(new(uint256.Uint256).SetUint64(6))
	assert.True(t, expected.Eq(wide))

	narrowed, err := Uint128FromUint256(wide)
	require.NoError(t, err)
	assert.Equal(t, v, narrowed)

	assert.Equal(t, "18446744073709551621", v.String())
	assert.True(t, Uint128{}.IsZero())
	assert.False(t, NewUint128(1).IsZero())

	var raw [32]byte
	raw[16] = 1
	_, err = Uint128FromUint256(new(uint256.Uint256).SetBytesLE(&raw))
	assert.Equal(t, ErrValueOverflow, err)
}
