package mining_arena

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
)

const GlobalConfigAccountSize = (8 + // discriminator
	32 + // admin
	32 + // game_mint
	32 + // xnt_mint
	32 + // treasury_xnt_vault
	8 + // halving_interval
	1 + // halving_level
	8 + // total_minted
	2 + // staking_share_bps
	8) // padding

// GlobalConfigAccount is the program's singleton configuration.
type GlobalConfigAccount struct {
	Admin            ed25519.PublicKey
	GameMint         ed25519.PublicKey
	XntMint          ed25519.PublicKey
	TreasuryXntVault ed25519.PublicKey
	HalvingInterval  uint64
	HalvingLevel     uint8
	TotalMinted      uint64
	StakingShareBps  uint16
}

func (obj *GlobalConfigAccount) Marshal() []byte {
	e := newAccountEncoder(globalConfigAccountDiscriminator, GlobalConfigAccountSize).
		PutKey32(obj.Admin).
		PutKey32(obj.GameMint).
		PutKey32(obj.XntMint).
		PutKey32(obj.TreasuryXntVault).
		PutUint64(obj.HalvingInterval).
		PutUint8(obj.HalvingLevel).
		PutUint64(obj.TotalMinted).
		PutUint16(obj.StakingShareBps)

	return padTo(e, GlobalConfigAccountSize)
}

func (obj *GlobalConfigAccount) Unmarshal(data []byte) (err error) {
	d, err := newAccountDecoder(AccountKindGlobalConfig, globalConfigAccountDiscriminator, data)
	if err != nil {
		return err
	}

	if obj.Admin, err = d.Key32(); err != nil {
		return err
	}
	if obj.GameMint, err = d.Key32(); err != nil {
		return err
	}
	if obj.XntMint, err = d.Key32(); err != nil {
		return err
	}
	if obj.TreasuryXntVault, err = d.Key32(); err != nil {
		return err
	}
	if obj.HalvingInterval, err = d.Uint64(); err != nil {
		return err
	}
	if obj.HalvingLevel, err = d.Uint8(); err != nil {
		return err
	}
	if obj.TotalMinted, err = d.Uint64(); err != nil {
		return err
	}
	obj.StakingShareBps, err = d.Uint16()
	return err
}

// HasTreasury reports whether initialize_treasury_vault has run.
func (obj *GlobalConfigAccount) HasTreasury() bool {
	for _, b := range obj.TreasuryXntVault {
		if b != 0 {
			return true
		}
	}
	return false
}

func (obj *GlobalConfigAccount) String() string {
	return fmt.Sprintf(
		"GlobalConfigAccount{admin=%s,game_mint=%s,xnt_mint=%s,treasury_xnt_vault=%s,halving_interval=%d,halving_level=%d,total_minted=%d,staking_share_bps=%d}",
		base58.Encode(obj.Admin),
		base58.Encode(obj.GameMint),
		base58.Encode(obj.XntMint),
		base58.Encode(obj.TreasuryXntVault),
		obj.HalvingInterval,
		obj.HalvingLevel,
		obj.TotalMinted,
		obj.StakingShareBps,
	)
}
