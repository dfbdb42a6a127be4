package mining_arena

import (
	"crypto/ed25519"
	"fmt"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
)

const NumRigs = 4

const maxUserBoostSize = minUserBoostSize + 1 // rig_id present

const UserAccountSize = (8 + // discriminator
	32 + // owner
	4 + // daily_points
	8 + // lifetime_points
	8 + // boost_points
	8 + // mining_xnt_spent
	8 + // mining_tokens_mined
	8*NumRigs + // mining_runs_by_rig
	8 + // mining_crit_count
	8 + // staking_xnt_earned
	8 + // last_day_id
	4 + // achievements
	4 + // next_position_id
	4 + MaxActiveBoosts*maxUserBoostSize + // active_boosts
	12) // padding

// UserAccount holds per-user mining stats, boost points and active boosts.
type UserAccount struct {
	Owner             ed25519.PublicKey
	DailyPoints       uint32
	LifetimePoints    uint64
	BoostPoints       uint64
	MiningXntSpent    uint64
	MiningTokensMined uint64
	MiningRunsByRig   [NumRigs]uint64
	MiningCritCount   uint64
	StakingXntEarned  uint64
	LastDayID         int64
	Achievements      Achievements
	NextPositionID    uint32
	ActiveBoosts      []UserBoost
}

func (obj *UserAccount) Marshal() []byte {
	e := newAccountEncoder(userAccountDiscriminator, UserAccountSize).
		PutKey32(obj.Owner).
		PutUint32(obj.DailyPoints).
		PutUint64(obj.LifetimePoints).
		PutUint64(obj.BoostPoints).
		PutUint64(obj.MiningXntSpent).
		PutUint64(obj.MiningTokensMined)
	for _, runs := range obj.MiningRunsByRig {
		e.PutUint64(runs)
	}
	e.PutUint64(obj.MiningCritCount).
		PutUint64(obj.StakingXntEarned).
		PutInt64(obj.LastDayID).
		PutBool(obj.Achievements.FirstMine).
		PutBool(obj.Achievements.FirstStake).
		PutBool(obj.Achievements.SevenDayStreak).
		PutBool(obj.Achievements.HeavyOperator).
		PutUint32(obj.NextPositionID).
		PutVecLen(len(obj.ActiveBoosts))
	for i := range obj.ActiveBoosts {
		obj.ActiveBoosts[i].marshal(e)
	}

	return padTo(e, UserAccountSize)
}

func (obj *UserAccount) Unmarshal(data []byte) (err error) {
	d, err := newAccountDecoder(AccountKindUserAccount, userAccountDiscriminator, data)
	if err != nil {
		return err
	}

	if obj.Owner, err = d.Key32(); err != nil {
		return err
	}
	if obj.DailyPoints, err = d.Uint32(); err != nil {
		return err
	}
	if obj.LifetimePoints, err = d.Uint64(); err != nil {
		return err
	}
	if obj.BoostPoints, err = d.Uint64(); err != nil {
		return err
	}
	if obj.MiningXntSpent, err = d.Uint64(); err != nil {
		return err
	}
	if obj.MiningTokensMined, err = d.Uint64(); err != nil {
		return err
	}
	for i := range obj.MiningRunsByRig {
		if obj.MiningRunsByRig[i], err = d.Uint64(); err != nil {
			return err
		}
	}
	if obj.MiningCritCount, err = d.Uint64(); err != nil {
		return err
	}
	if obj.StakingXntEarned, err = d.Uint64(); err != nil {
		return err
	}
	if obj.LastDayID, err = d.Int64(); err != nil {
		return err
	}
	for _, flag := range []*bool{
		&obj.Achievements.FirstMine,
		&obj.Achievements.FirstStake,
		&obj.Achievements.SevenDayStreak,
		&obj.Achievements.HeavyOperator,
	} {
		if *flag, err = d.Bool(); err != nil {
			return err
		}
	}
	if obj.NextPositionID, err = d.Uint32(); err != nil {
		return err
	}

	count, err := d.VecLen(minUserBoostSize)
	if err != nil {
		return err
	}
	if count > MaxActiveBoosts {
		return errors.Wrapf(ErrInvalidAccountData, "%d active boosts", count)
	}

	obj.ActiveBoosts = make([]UserBoost, count)
	for i := range obj.ActiveBoosts {
		if err := obj.ActiveBoosts[i].unmarshal(d); err != nil {
			return errors.Wrapf(err, "active boost %d", i)
		}
	}
	return nil
}

// NextPosition is the position a new stake will be created at.
func (obj *UserAccount) NextPosition() PositionRef {
	if obj.NextPositionID == 0 {
		return IndexedPosition(1)
	}
	return IndexedPosition(obj.NextPositionID)
}

// LiveBoosts returns the active boosts that haven't expired at now.
func (obj *UserAccount) LiveBoosts(now int64) []UserBoost {
	var live []UserBoost
	for _, boost := range obj.ActiveBoosts {
		if !boost.IsExpired(now) {
			live = append(live, boost)
		}
	}
	return live
}

func (obj *UserAccount) String() string {
	return fmt.Sprintf(
		"UserAccount{owner=%s,daily_points=%d,lifetime_points=%d,boost_points=%d,mining_xnt_spent=%d,mining_tokens_mined=%d,mining_runs_by_rig=%v,mining_crit_count=%d,staking_xnt_earned=%d,last_day_id=%d,next_position_id=%d,active_boosts=%d}",
		base58.Encode(obj.Owner),
		obj.DailyPoints,
		obj.LifetimePoints,
		obj.BoostPoints,
		obj.MiningXntSpent,
		obj.MiningTokensMined,
		obj.MiningRunsByRig,
		obj.MiningCritCount,
		obj.StakingXntEarned,
		obj.LastDayID,
		obj.NextPositionID,
		len(obj.ActiveBoosts),
	)
}
