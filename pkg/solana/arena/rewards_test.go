package mining_arena

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x1-mining-arena/arena-go/pkg/solana/binary"
)

func TestPendingReward(t *testing.T) {
	for _, tc := range []struct {
		effective binary.Uint128
		acc       binary.Uint128
		debt      binary.Uint128
		expected  uint64
	}{
		{
			effective: binary.NewUint128(5_000_000_000),
			acc:       binary.NewUint128(2_000_000_000_000),
			debt:      binary.NewUint128(1_000_000_000),
			expected:  9_000_000_000,
		},
		// Debt above accrued floors at zero.
		{
			effective: binary.NewUint128(1),
			acc:       binary.NewUint128(Precision),
			debt:      binary.NewUint128(2),
			expected:  0,
		},
		// Flooring, not rounding.
		{
			effective: binary.NewUint128(3),
			acc:       binary.NewUint128(Precision/2 + 1),
			expected:  1,
		},
		// The product overflows 128 bits before the division.
		{
			effective: binary.NewUint128(math.MaxUint64),
			acc:       binary.Uint128{Lo: math.MaxUint64, Hi: math.MaxUint64},
			expected:  math.MaxUint64,
		},
	} {
		position := &UserStakePositionAccount{EffectiveStake: tc.effective, RewardDebt: tc.debt}
		pool := &StakingPoolAccount{AccRewardPerShare: tc.acc}
		assert.Equal(t, tc.expected, PendingReward(position, pool))
	}
}

func TestRewardDebt(t *testing.T) {
	debt, err := RewardDebt(binary.NewUint128(5_000_000_000), binary.NewUint128(2_000_000_000_000))
	require.NoError(t, err)
	assert.Equal(t, binary.NewUint128(10_000_000_000), debt)

	widest := binary.Uint128{Lo: math.MaxUint64, Hi: math.MaxUint64}
	_, err = RewardDebt(widest, widest)
	assert.ErrorIs(t, err, binary.ErrValueOverflow)
}

func TestEffectiveStake(t *testing.T) {
	assert.Equal(t, binary.NewUint128(1_000), EffectiveStake(1_000, 10_000, 10_000))
	assert.Equal(t, binary.NewUint128(1_200), EffectiveStake(1_000, 12_000, 10_000))
	assert.Equal(t, binary.NewUint128(1_320), EffectiveStake(1_000, 12_000, 11_000))
}

func TestLockMultiplierBps(t *testing.T) {
	for days, expected := range map[uint16]uint16{7: 10_500, 14: 11_000, 30: 12_000} {
		actual, err := LockMultiplierBps(days)
		require.NoError(t, err)
		assert.Equal(t, expected, actual)
	}

	for _, days := range []uint16{0, 1, 8, 31, 365} {
		_, err := LockMultiplierBps(days)
		assert.ErrorIs(t, err, ErrInvalidArgument)
	}
}

func TestRigConfigs(t *testing.T) {
	for rigID := uint8(0); rigID < NumRigs; rigID++ {
		rig, ok := GetRigConfig(rigID)
		require.True(t, ok)
		assert.Equal(t, rigID, rig.RigID)
		assert.True(t, rig.BaseRewardLow < rig.BaseRewardHigh)
	}

	_, ok := GetRigConfig(NumRigs)
	assert.False(t, ok)

	rig, _ := GetRigConfig(2)
	low, high := rig.Rewards(0)
	assert.EqualValues(t, 1_400, low)
	assert.EqualValues(t, 1_600, high)

	low, high = rig.Rewards(1)
	assert.EqualValues(t, 700, low)
	assert.EqualValues(t, 800, high)
}
