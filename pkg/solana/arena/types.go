package mining_arena

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/x1-mining-arena/arena-go/pkg/solana/binary"
)

type BoostKind uint8

const (
	BoostKindMiningRewardBps BoostKind = iota
	BoostKindMiningPointsBps
	BoostKindFreeRigTicket
	BoostKindStakingMultiplierBps
)

func (k BoostKind) IsValid() bool {
	return k <= BoostKindStakingMultiplierBps
}

func (k BoostKind) String() string {
	switch k {
	case BoostKindMiningRewardBps:
		return "mining_reward_bps"
	case BoostKindMiningPointsBps:
		return "mining_points_bps"
	case BoostKindFreeRigTicket:
		return "free_rig_ticket"
	case BoostKindStakingMultiplierBps:
		return "staking_multiplier_bps"
	}
	return fmt.Sprintf("unknown(%d)", uint8(k))
}

func getBoostKind(d *binary.Decoder) (BoostKind, error) {
	v, err := d.Uint8()
	if err != nil {
		return 0, err
	}

	kind := BoostKind(v)
	if !kind.IsValid() {
		return 0, errors.Wrapf(ErrInvalidAccountData, "boost kind %d", v)
	}
	return kind, nil
}

// UserBoost is a boost activated by a user, stored in the user account.
type UserBoost struct {
	BoostID          uint8
	Kind             BoostKind
	ValueBps         uint16
	ExpiresAtTs      int64
	RigID            *uint8
	AppliedToMining  bool
	AppliedToStaking bool
}

// Minimum encoded size, with no rig restriction.
const minUserBoostSize = (1 + // boost_id
	1 + // kind
	2 + // value_bps
	8 + // expires_at_ts
	1 + // rig_id
	1 + // applied_to_mining
	1) // applied_to_staking

// IsExpired reports whether the boost has lapsed at now. Boosts without an
// expiry never expire.
func (b *UserBoost) IsExpired(now int64) bool {
	return b.ExpiresAtTs > 0 && b.ExpiresAtTs < now
}

// AppliesToRig reports whether the boost can be used with the rig. Boosts
// without a rig restriction apply to every rig.
func (b *UserBoost) AppliesToRig(rigID uint8) bool {
	return b.RigID == nil || *b.RigID == rigID
}

func (b *UserBoost) marshal(e *binary.Encoder) {
	e.PutUint8(b.BoostID).
		PutUint8(uint8(b.Kind)).
		PutUint16(b.ValueBps).
		PutInt64(b.ExpiresAtTs).
		PutOptionalUint8(b.RigID).
		PutBool(b.AppliedToMining).
		PutBool(b.AppliedToStaking)
}

func (b *UserBoost) unmarshal(d *binary.Decoder) (err error) {
	if b.BoostID, err = d.Uint8(); err != nil {
		return err
	}
	if b.Kind, err = getBoostKind(d); err != nil {
		return err
	}
	if b.ValueBps, err = d.Uint16(); err != nil {
		return err
	}
	if b.ExpiresAtTs, err = d.Int64(); err != nil {
		return err
	}
	if b.RigID, err = d.OptionalUint8(); err != nil {
		return err
	}
	if b.AppliedToMining, err = d.Bool(); err != nil {
		return err
	}
	b.AppliedToStaking, err = d.Bool()
	return err
}

type Achievements struct {
	FirstMine      bool
	FirstStake     bool
	SevenDayStreak bool
	HeavyOperator  bool
}
