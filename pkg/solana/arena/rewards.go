package mining_arena

import (
	"math"

	"github.com/decred/dcrd/math/uint256"

	"github.com/x1-mining-arena/arena-go/pkg/solana/binary"
)

var (
	precision      = new(uint256.Uint256).SetUint64(Precision)
	bpsDenominator = new(uint256.Uint256).SetUint64(BpsDenominator)
	maxUint64      = new(uint256.Uint256).SetUint64(math.MaxUint64)
)

// PendingReward is the reward claimable by a position:
//
//	floor(effective_stake * acc_reward_per_share / Precision) - reward_debt
//
// floored at zero and clamped to a u64. Intermediates are 256 bits wide so
// the product of two 128-bit values can't overflow.
func PendingReward(position *UserStakePositionAccount, pool *StakingPoolAccount) uint64 {
	accrued := accruedReward(position.EffectiveStake, pool.AccRewardPerShare)

	debt := position.RewardDebt.Uint256()
	if !accrued.Gt(debt) {
		return 0
	}

	pending := accrued.Sub(debt)
	if pending.Gt(maxUint64) {
		return math.MaxUint64
	}
	return pending.Uint64()
}

// RewardDebt is the debt recorded for a position after settling against the
// current accumulator.
func RewardDebt(effectiveStake, accRewardPerShare binary.Uint128) (binary.Uint128, error) {
	return binary.Uint128FromUint256(accruedReward(effectiveStake, accRewardPerShare))
}

func accruedReward(effectiveStake, accRewardPerShare binary.Uint128) *uint256.Uint256 {
	return effectiveStake.Uint256().
		Mul(accRewardPerShare.Uint256()).
		Div(precision)
}

// EffectiveStake applies the lock and boost multipliers to a staked amount.
func EffectiveStake(amount uint64, lockMultiplierBps, boostMultiplierBps uint16) binary.Uint128 {
	effective := new(uint256.Uint256).SetUint64(amount).
		Mul(new(uint256.Uint256).SetUint64(uint64(lockMultiplierBps))).
		Mul(new(uint256.Uint256).SetUint64(uint64(boostMultiplierBps))).
		Div(bpsDenominator).
		Div(bpsDenominator)

	// u64 * u16 * u16 / 10^8 always fits in 128 bits.
	result, _ := binary.Uint128FromUint256(effective)
	return result
}

// LockMultiplierBps returns the stake multiplier for a lock period. Only 7,
// 14 and 30 day locks are accepted by the program.
func LockMultiplierBps(lockDays uint16) (uint16, error) {
	switch lockDays {
	case 7:
		return 10_500, nil
	case 14:
		return 11_000, nil
	case 30:
		return 12_000, nil
	}
	return 0, invalidArgumentf("lock of %d days, expected 7, 14 or 30", lockDays)
}

// StakingMultiplierBps is the highest live staking multiplier boost held by
// the user, or 1x when there is none.
func StakingMultiplierBps(user *UserAccount, now int64) uint16 {
	multiplier := uint16(BpsDenominator)
	for _, boost := range user.ActiveBoosts {
		if !boost.AppliedToStaking || boost.IsExpired(now) || boost.Kind != BoostKindStakingMultiplierBps {
			continue
		}
		if boost.ValueBps > multiplier {
			multiplier = boost.ValueBps
		}
	}
	return multiplier
}
