package mining_arena

import (
	"fmt"
)

const BoostConfigAccountSize = (8 + // discriminator
	1 + // id
	1 + // kind
	8 + // cost_boost_points
	2 + // value_bps
	8 + // duration_seconds
	2 + // rig_id
	8) // padding

// BoostConfigAccount describes a boost users can buy with boost points.
type BoostConfigAccount struct {
	ID              uint8
	Kind            BoostKind
	CostBoostPoints uint64
	ValueBps        uint16
	DurationSeconds int64
	RigID           *uint8
}

func (obj *BoostConfigAccount) Marshal() []byte {
	e := newAccountEncoder(boostConfigAccountDiscriminator, BoostConfigAccountSize).
		PutUint8(obj.ID).
		PutUint8(uint8(obj.Kind)).
		PutUint64(obj.CostBoostPoints).
		PutUint16(obj.ValueBps).
		PutInt64(obj.DurationSeconds).
		PutOptionalUint8(obj.RigID)

	return padTo(e, BoostConfigAccountSize)
}

func (obj *BoostConfigAccount) Unmarshal(data []byte) (err error) {
	d, err := newAccountDecoder(AccountKindBoostConfig, boostConfigAccountDiscriminator, data)
	if err != nil {
		return err
	}

	if obj.ID, err = d.Uint8(); err != nil {
		return err
	}
	if obj.Kind, err = getBoostKind(d); err != nil {
		return err
	}
	if obj.CostBoostPoints, err = d.Uint64(); err != nil {
		return err
	}
	if obj.ValueBps, err = d.Uint16(); err != nil {
		return err
	}
	if obj.DurationSeconds, err = d.Int64(); err != nil {
		return err
	}
	obj.RigID, err = d.OptionalUint8()
	return err
}

func (obj *BoostConfigAccount) String() string {
	rig := "any"
	if obj.RigID != nil {
		rig = fmt.Sprintf("%d", *obj.RigID)
	}

	return fmt.Sprintf(
		"BoostConfigAccount{id=%d,kind=%s,cost_boost_points=%d,value_bps=%d,duration_seconds=%d,rig_id=%s}",
		obj.ID,
		obj.Kind,
		obj.CostBoostPoints,
		obj.ValueBps,
		obj.DurationSeconds,
		rig,
	)
}
