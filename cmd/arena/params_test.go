package main

import (
	"testing"

	"github.com/mr-tron/base58"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x1-mining-arena/arena-go/pkg/solana/token"
)

func newTestParams(t *testing.T, args ...string) *params {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	uintFlag(fs, "rig-id", 8, 1, "")
	uintFlag(fs, "lock-days", 16, 7, "")
	int64Flag(fs, "day-id", 0, "")
	fs.String("user", "", "")
	fs.String("amount", "0.3", "")
	require.NoError(t, fs.Parse(args))

	p, err := newParams(fs, map[string]string{
		"rig-id":    "RIG_ID",
		"user":      "USER_PUBKEY",
		"amount":    "AMOUNT",
		"lock-days": "LOCK_DAYS",
		"day-id":    "DAY_ID",
	})
	require.NoError(t, err)
	return p
}

func TestParams_Precedence(t *testing.T) {
	t.Setenv("RIG_ID", "")

	p := newTestParams(t)
	assert.False(t, p.IsSet("rig-id"))
	rig, err := p.Uint8("rig-id")
	require.NoError(t, err)
	assert.EqualValues(t, 1, rig)

	t.Setenv("RIG_ID", "3")
	p = newTestParams(t)
	assert.True(t, p.IsSet("rig-id"))
	rig, err = p.Uint8("rig-id")
	require.NoError(t, err)
	assert.EqualValues(t, 3, rig)

	p = newTestParams(t, "--rig-id", "2")
	rig, err = p.Uint8("rig-id")
	require.NoError(t, err)
	assert.EqualValues(t, 2, rig)
}

func TestParams_InvalidNumbers(t *testing.T) {
	for _, value := range []string{"256", "-1", "two", "0x1e", "0b11", "1e3", "+"} {
		t.Setenv("RIG_ID", value)
		_, err := newTestParams(t).Uint8("rig-id")
		assert.Error(t, err, value)
	}
}

func TestParams_DecimalOnly(t *testing.T) {
	for _, tc := range []struct {
		raw      string
		expected uint16
	}{
		{"030", 30},
		{"014", 14},
		{"7", 7},
		{"+7", 7},
		{"000", 0},
	} {
		t.Setenv("LOCK_DAYS", tc.raw)
		days, err := newTestParams(t).Uint16("lock-days")
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.expected, days, tc.raw)

		t.Setenv("LOCK_DAYS", "")
		days, err = newTestParams(t, "--lock-days="+tc.raw).Uint16("lock-days")
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.expected, days, tc.raw)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	uintFlag(fs, "lock-days", 16, 7, "")
	assert.Error(t, fs.Parse([]string{"--lock-days=0x1e"}))
	assert.Error(t, fs.Parse([]string{"--lock-days=65536"}))

	t.Setenv("DAY_ID", "-020")
	day, err := newTestParams(t).Int64("day-id")
	require.NoError(t, err)
	assert.EqualValues(t, -20, day)

	t.Setenv("DAY_ID", "0x10")
	_, err = newTestParams(t).Int64("day-id")
	assert.Error(t, err)
}

func TestParams_Key(t *testing.T) {
	t.Setenv("USER_PUBKEY", "")

	key, err := newTestParams(t).Key("user")
	require.NoError(t, err)
	assert.Nil(t, key)

	key, err = newTestParams(t, "--user", base58.Encode(token.NativeMint)).Key("user")
	require.NoError(t, err)
	assert.EqualValues(t, token.NativeMint, key)

	_, err = newTestParams(t, "--user", "abc").Key("user")
	assert.Error(t, err)

	_, err = newTestParams(t, "--user", "0OIl").Key("user")
	assert.Error(t, err)
}

func TestParams_Amount(t *testing.T) {
	t.Setenv("AMOUNT", "")

	lamports, err := newTestParams(t).Amount("amount", 9)
	require.NoError(t, err)
	assert.EqualValues(t, 300_000_000, lamports)

	t.Setenv("AMOUNT", "2")
	lamports, err = newTestParams(t).Amount("amount", 9)
	require.NoError(t, err)
	assert.EqualValues(t, 2_000_000_000, lamports)
}

func TestParseAmount(t *testing.T) {
	for _, tc := range []struct {
		raw      string
		decimals int32
		expected uint64
		valid    bool
	}{
		{"1", 9, 1_000_000_000, true},
		{"0.000000001", 9, 1, true},
		{"12.34", 2, 1234, true},
		{"18446744073709551615", 0, 18446744073709551615, true},
		{"18446744073709551616", 0, 0, false},
		{"0.0000000001", 9, 0, false},
		{"0", 9, 0, false},
		{"-1", 9, 0, false},
		{"", 9, 0, false},
		{"1e3", 2, 100_000, true},
		{"abc", 9, 0, false},
	} {
		actual, err := parseAmount(tc.raw, tc.decimals)
		if !tc.valid {
			assert.Error(t, err, tc.raw)
			continue
		}
		require.NoError(t, err, tc.raw)
		assert.Equal(t, tc.expected, actual, tc.raw)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0.300000000", formatAmount(300_000_000, 9))
	assert.Equal(t, "123.45", formatAmount(12345, 2))
	assert.Equal(t, "0.00", formatAmount(0, 2))
}
