package mining_arena

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/x1-mining-arena/arena-go/pkg/solana/binary"
)

const StakingPoolAccountSize = (8 + // discriminator
	32 + // token_mint
	32 + // xnt_mint
	32 + // staking_vault
	32 + // treasury_xnt_vault
	16 + // total_effective_stake
	16 + // acc_reward_per_share
	8) // padding

// StakingPoolAccount tracks total stake and the reward accumulator, which is
// scaled by Precision.
type StakingPoolAccount struct {
	TokenMint           ed25519.PublicKey
	XntMint             ed25519.PublicKey
	StakingVault        ed25519.PublicKey
	TreasuryXntVault    ed25519.PublicKey
	TotalEffectiveStake binary.Uint128
	AccRewardPerShare   binary.Uint128
}

func (obj *StakingPoolAccount) Marshal() []byte {
	e := newAccountEncoder(stakingPoolAccountDiscriminator, StakingPoolAccountSize).
		PutKey32(obj.TokenMint).
		PutKey32(obj.XntMint).
		PutKey32(obj.StakingVault).
		PutKey32(obj.TreasuryXntVault).
		PutUint128(obj.TotalEffectiveStake).
		PutUint128(obj.AccRewardPerShare)

	return padTo(e, StakingPoolAccountSize)
}

func (obj *StakingPoolAccount) Unmarshal(data []byte) (err error) {
	d, err := newAccountDecoder(AccountKindStakingPool, stakingPoolAccountDiscriminator, data)
	if err != nil {
		return err
	}

	if obj.TokenMint, err = d.Key32(); err != nil {
		return err
	}
	if obj.XntMint, err = d.Key32(); err != nil {
		return err
	}
	if obj.StakingVault, err = d.Key32(); err != nil {
		return err
	}
	if obj.TreasuryXntVault, err = d.Key32(); err != nil {
		return err
	}
	if obj.TotalEffectiveStake, err = d.Uint128(); err != nil {
		return err
	}
	obj.AccRewardPerShare, err = d.Uint128()
	return err
}

func (obj *StakingPoolAccount) String() string {
	return fmt.Sprintf(
		"StakingPoolAccount{token_mint=%s,xnt_mint=%s,staking_vault=%s,treasury_xnt_vault=%s,total_effective_stake=%s,acc_reward_per_share=%s}",
		base58.Encode(obj.TokenMint),
		base58.Encode(obj.XntMint),
		base58.Encode(obj.StakingVault),
		base58.Encode(obj.TreasuryXntVault),
		obj.TotalEffectiveStake,
		obj.AccRewardPerShare,
	)
}
