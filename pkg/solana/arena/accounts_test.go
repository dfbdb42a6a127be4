package mining_arena

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x1-mining-arena/arena-go/pkg/solana/binary"
)

func TestGlobalConfigAccount_RoundTrip(t *testing.T) {
	expected := &GlobalConfigAccount{
		Admin:            generateKey(t),
		GameMint:         generateKey(t),
		XntMint:          generateKey(t),
		TreasuryXntVault: generateKey(t),
		HalvingInterval:  DefaultHalvingInterval,
		HalvingLevel:     3,
		TotalMinted:      123_456_789,
		StakingShareBps:  DefaultStakingShareBps,
	}

	data := expected.Marshal()
	assert.Len(t, data, GlobalConfigAccountSize)

	var actual GlobalConfigAccount
	require.NoError(t, actual.Unmarshal(data))
	assert.Equal(t, expected, &actual)
	assert.True(t, actual.HasTreasury())
}

func TestStakingPoolAccount_RoundTrip(t *testing.T) {
	expected := &StakingPoolAccount{
		TokenMint:           generateKey(t),
		XntMint:             generateKey(t),
		StakingVault:        generateKey(t),
		TreasuryXntVault:    generateKey(t),
		TotalEffectiveStake: binary.Uint128{Lo: 1 << 63, Hi: 7},
		AccRewardPerShare:   binary.NewUint128(2_000_000_000_000),
	}

	data := expected.Marshal()
	assert.Len(t, data, StakingPoolAccountSize)

	var actual StakingPoolAccount
	require.NoError(t, actual.Unmarshal(data))
	assert.Equal(t, expected, &actual)
}

func TestUserAccount_RoundTrip(t *testing.T) {
	rig := uint8(2)
	expected := &UserAccount{
		Owner:             generateKey(t),
		DailyPoints:       42,
		LifetimePoints:    1_000,
		BoostPoints:       250,
		MiningXntSpent:    5_000_000_000,
		MiningTokensMined: 9_900,
		MiningRunsByRig:   [NumRigs]uint64{1, 2, 3, 4},
		MiningCritCount:   6,
		StakingXntEarned:  77,
		LastDayID:         20_123,
		Achievements:      Achievements{FirstMine: true, HeavyOperator: true},
		NextPositionID:    4,
		ActiveBoosts: []UserBoost{
			{BoostID: 1, Kind: BoostKindMiningRewardBps, ValueBps: 1_500, ExpiresAtTs: 1_700_000_000, AppliedToMining: true},
			{BoostID: 2, Kind: BoostKindStakingMultiplierBps, ValueBps: 12_000, ExpiresAtTs: 1_800_000_000, RigID: &rig, AppliedToStaking: true},
		},
	}

	data := expected.Marshal()
	assert.Len(t, data, UserAccountSize)

	var actual UserAccount
	require.NoError(t, actual.Unmarshal(data))
	assert.Equal(t, expected, &actual)
	assert.Equal(t, IndexedPosition(4), actual.NextPosition())
	assert.Len(t, actual.LiveBoosts(1_750_000_000), 1)
	assert.EqualValues(t, 12_000, StakingMultiplierBps(&actual, 1_750_000_000))
	assert.EqualValues(t, BpsDenominator, StakingMultiplierBps(&actual, 1_900_000_000))
}

func TestUserBoost_AppliesToRig(t *testing.T) {
	unrestricted := &UserBoost{Kind: BoostKindMiningRewardBps}
	for rig := uint8(0); rig < NumRigs; rig++ {
		assert.True(t, unrestricted.AppliesToRig(rig))
	}

	rig := uint8(2)
	restricted := &UserBoost{Kind: BoostKindMiningPointsBps, RigID: &rig}
	assert.True(t, restricted.AppliesToRig(2))
	assert.False(t, restricted.AppliesToRig(1))
	assert.False(t, restricted.AppliesToRig(3))
}

func TestUserAccount_TooManyBoosts(t *testing.T) {
	account := &UserAccount{Owner: generateKey(t)}
	for i := 0; i < MaxActiveBoosts; i++ {
		account.ActiveBoosts = append(account.ActiveBoosts, UserBoost{BoostID: uint8(i)})
	}
	data := account.Marshal()

	// Patch the vector length past the cap.
	offset := UserAccountSize - 12 - 4 - MaxActiveBoosts*maxUserBoostSize
	data[offset] = MaxActiveBoosts + 1

	var actual UserAccount
	assert.ErrorIs(t, actual.Unmarshal(data), ErrInvalidAccountData)
}

func TestUserAccount_NextPosition(t *testing.T) {
	account := &UserAccount{}
	assert.Equal(t, IndexedPosition(1), account.NextPosition())
}

func TestUserStakePositionAccount_RoundTrip(t *testing.T) {
	for _, positionID := range []uint32{0, 7} {
		expected := &UserStakePositionAccount{
			Owner:              generateKey(t),
			AmountStaked:       5_000,
			LockMultiplierBps:  11_000,
			BoostMultiplierBps: 10_000,
			EffectiveStake:     binary.NewUint128(5_500),
			RewardDebt:         binary.Uint128{Hi: 1},
			LockUntilTs:        1_700_000_000,
			PositionID:         positionID,
		}

		data := expected.Marshal()
		assert.Len(t, data, UserStakePositionAccountSize)

		var actual UserStakePositionAccount
		require.NoError(t, actual.Unmarshal(data))
		assert.Equal(t, expected, &actual)
		assert.Equal(t, PositionFromID(positionID), actual.Position())
		assert.Equal(t, positionID == 0, actual.Position().IsLegacy())
		assert.True(t, actual.IsLocked(1_699_999_999))
		assert.False(t, actual.IsLocked(1_700_000_000))
	}
}

func TestUserStakePositionAccount_Truncated(t *testing.T) {
	position := &UserStakePositionAccount{Owner: generateKey(t), PositionID: 3}
	data := position.Marshal()

	var actual UserStakePositionAccount
	assert.ErrorIs(t, actual.Unmarshal(data[:len(data)-8]), binary.ErrTruncatedBuffer)
	assert.ErrorIs(t, actual.Unmarshal(data[:4]), binary.ErrTruncatedBuffer)
}

func TestBoostConfigAccount_RoundTrip(t *testing.T) {
	rig := uint8(3)
	for _, expected := range []*BoostConfigAccount{
		{ID: 1, Kind: BoostKindFreeRigTicket, CostBoostPoints: 100, ValueBps: 0, DurationSeconds: 3_600},
		{ID: 9, Kind: BoostKindMiningPointsBps, CostBoostPoints: 1, ValueBps: 2_000, DurationSeconds: 86_400, RigID: &rig},
	} {
		data := expected.Marshal()
		assert.Len(t, data, BoostConfigAccountSize)

		var actual BoostConfigAccount
		require.NoError(t, actual.Unmarshal(data))
		assert.Equal(t, expected, &actual)
	}
}

func TestBoostConfigAccount_InvalidKind(t *testing.T) {
	data := (&BoostConfigAccount{ID: 1}).Marshal()
	data[discriminatorSize+1] = 9

	var actual BoostConfigAccount
	assert.ErrorIs(t, actual.Unmarshal(data), ErrInvalidAccountData)
}

func TestDecodeAccount(t *testing.T) {
	records := map[AccountKind][]byte{
		AccountKindGlobalConfig:      (&GlobalConfigAccount{}).Marshal(),
		AccountKindStakingPool:       (&StakingPoolAccount{}).Marshal(),
		AccountKindUserAccount:       (&UserAccount{}).Marshal(),
		AccountKindUserStakePosition: (&UserStakePositionAccount{}).Marshal(),
		AccountKindBoostConfig:       (&BoostConfigAccount{}).Marshal(),
	}

	for kind, data := range records {
		identified, ok := IdentifyAccount(data)
		require.True(t, ok)
		assert.Equal(t, kind, identified)

		decoded, err := DecodeAccount(kind, data)
		require.NoError(t, err)
		assert.NotNil(t, decoded)

		for other := range records {
			if other == kind {
				continue
			}
			_, err := DecodeAccount(other, data)
			assert.ErrorIs(t, err, ErrAccountKindMismatch, "%s decoded as %s", kind, other)
		}
	}

	decoded, err := DecodeAccount(AccountKindUserStakePosition, records[AccountKindUserStakePosition])
	require.NoError(t, err)
	assert.IsType(t, &UserStakePositionAccount{}, decoded)

	_, err = DecodeAccount("vault", records[AccountKindStakingPool])
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = DecodeAccount(AccountKindGlobalConfig, []byte{1, 2})
	assert.ErrorIs(t, err, binary.ErrTruncatedBuffer)

	_, ok := IdentifyAccount(make([]byte, 64))
	assert.False(t, ok)
}
