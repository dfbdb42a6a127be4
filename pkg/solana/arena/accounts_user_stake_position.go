package mining_arena

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/x1-mining-arena/arena-go/pkg/solana/binary"
)

// Legacy positions were allocated with the same size and carry zeroed
// padding where the position id now lives, so they decode with id 0.
const UserStakePositionAccountSize = (8 + // discriminator
	32 + // owner
	8 + // amount_staked
	2 + // lock_multiplier_bps
	2 + // boost_multiplier_bps
	16 + // effective_stake
	16 + // reward_debt
	8 + // lock_until_ts
	4 + // position_id
	4) // padding

type UserStakePositionAccount struct {
	Owner              ed25519.PublicKey
	AmountStaked       uint64
	LockMultiplierBps  uint16
	BoostMultiplierBps uint16
	EffectiveStake     binary.Uint128
	RewardDebt         binary.Uint128
	LockUntilTs        int64
	PositionID         uint32
}

func (obj *UserStakePositionAccount) Marshal() []byte {
	e := newAccountEncoder(userStakePositionAccountDiscriminator, UserStakePositionAccountSize).
		PutKey32(obj.Owner).
		PutUint64(obj.AmountStaked).
		PutUint16(obj.LockMultiplierBps).
		PutUint16(obj.BoostMultiplierBps).
		PutUint128(obj.EffectiveStake).
		PutUint128(obj.RewardDebt).
		PutInt64(obj.LockUntilTs).
		PutUint32(obj.PositionID)

	return padTo(e, UserStakePositionAccountSize)
}

func (obj *UserStakePositionAccount) Unmarshal(data []byte) (err error) {
	d, err := newAccountDecoder(AccountKindUserStakePosition, userStakePositionAccountDiscriminator, data)
	if err != nil {
		return err
	}

	if obj.Owner, err = d.Key32(); err != nil {
		return err
	}
	if obj.AmountStaked, err = d.Uint64(); err != nil {
		return err
	}
	if obj.LockMultiplierBps, err = d.Uint16(); err != nil {
		return err
	}
	if obj.BoostMultiplierBps, err = d.Uint16(); err != nil {
		return err
	}
	if obj.EffectiveStake, err = d.Uint128(); err != nil {
		return err
	}
	if obj.RewardDebt, err = d.Uint128(); err != nil {
		return err
	}
	if obj.LockUntilTs, err = d.Int64(); err != nil {
		return err
	}
	obj.PositionID, err = d.Uint32()
	return err
}

// Position returns the reference used to address this position.
func (obj *UserStakePositionAccount) Position() PositionRef {
	return PositionFromID(obj.PositionID)
}

// IsLocked reports whether unstaking is still blocked at now.
func (obj *UserStakePositionAccount) IsLocked(now int64) bool {
	return now < obj.LockUntilTs
}

func (obj *UserStakePositionAccount) String() string {
	return fmt.Sprintf(
		"UserStakePositionAccount{owner=%s,position=%s,amount_staked=%d,lock_multiplier_bps=%d,boost_multiplier_bps=%d,effective_stake=%s,reward_debt=%s,lock_until_ts=%d}",
		base58.Encode(obj.Owner),
		obj.Position(),
		obj.AmountStaked,
		obj.LockMultiplierBps,
		obj.BoostMultiplierBps,
		obj.EffectiveStake,
		obj.RewardDebt,
		obj.LockUntilTs,
	)
}
