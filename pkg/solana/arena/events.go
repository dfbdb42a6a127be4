package mining_arena

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/x1-mining-arena/arena-go/pkg/solana/binary"
)

// ProgramDataLogPrefix marks log lines carrying an emitted event.
const ProgramDataLogPrefix = "Program data: "

var ErrUnknownEvent = errors.New("unknown event")

var (
	miningEventDiscriminator         = EventDiscriminator("MiningEvent")
	stakeEventDiscriminator          = EventDiscriminator("StakeEvent")
	unstakeEventDiscriminator        = EventDiscriminator("UnstakeEvent")
	claimEventDiscriminator          = EventDiscriminator("ClaimEvent")
	boostActivatedEventDiscriminator = EventDiscriminator("BoostActivatedEvent")
	rankingAppliedEventDiscriminator = EventDiscriminator("RankingAppliedEvent")
)

// Event is one of the typed arena events below.
type Event interface {
	Name() string
}

type MiningEvent struct {
	User        ed25519.PublicKey
	RigID       uint8
	DepositXnt  uint64
	RewardGame  uint64
	UsedFreeRig bool
}

type StakeEvent struct {
	Owner      ed25519.PublicKey
	PositionID uint32
	Amount     uint64
	LockDays   uint16
	Effective  binary.Uint128
}

type UnstakeEvent struct {
	Owner      ed25519.PublicKey
	PositionID uint32
	Amount     uint64
}

type ClaimEvent struct {
	Owner          ed25519.PublicKey
	PositionID     uint32
	RewardsClaimed uint64
}

type BoostActivatedEvent struct {
	User      ed25519.PublicKey
	BoostID   uint8
	ExpiresAt int64
}

type RankingAppliedEvent struct {
	User             ed25519.PublicKey
	AddedBoostPoints uint64
}

func (MiningEvent) Name() string         { return "MiningEvent" }
func (StakeEvent) Name() string          { return "StakeEvent" }
func (UnstakeEvent) Name() string        { return "UnstakeEvent" }
func (ClaimEvent) Name() string          { return "ClaimEvent" }
func (BoostActivatedEvent) Name() string { return "BoostActivatedEvent" }
func (RankingAppliedEvent) Name() string { return "RankingAppliedEvent" }

func (e MiningEvent) String() string {
	return fmt.Sprintf("MiningEvent{user=%s,rig_id=%d,deposit_xnt=%d,reward_game=%d,used_free_rig=%v}",
		base58.Encode(e.User), e.RigID, e.DepositXnt, e.RewardGame, e.UsedFreeRig)
}

func (e StakeEvent) String() string {
	return fmt.Sprintf("StakeEvent{owner=%s,position_id=%d,amount=%d,lock_days=%d,effective=%s}",
		base58.Encode(e.Owner), e.PositionID, e.Amount, e.LockDays, e.Effective)
}

// DecodeEvent decodes a discriminator-prefixed event payload.
func DecodeEvent(data []byte) (Event, error) {
	d := binary.NewDecoder(data)
	discriminator, err := d.Bytes(discriminatorSize)
	if err != nil {
		return nil, err
	}

	switch {
	case hasDiscriminator(discriminator, miningEventDiscriminator):
		var e MiningEvent
		if e.User, err = d.Key32(); err != nil {
			return nil, err
		}
		if e.RigID, err = d.Uint8(); err != nil {
			return nil, err
		}
		if e.DepositXnt, err = d.Uint64(); err != nil {
			return nil, err
		}
		if e.RewardGame, err = d.Uint64(); err != nil {
			return nil, err
		}
		if e.UsedFreeRig, err = d.Bool(); err != nil {
			return nil, err
		}
		return e, nil
	case hasDiscriminator(discriminator, stakeEventDiscriminator):
		var e StakeEvent
		if e.Owner, err = d.Key32(); err != nil {
			return nil, err
		}
		if e.PositionID, err = d.Uint32(); err != nil {
			return nil, err
		}
		if e.Amount, err = d.Uint64(); err != nil {
			return nil, err
		}
		if e.LockDays, err = d.Uint16(); err != nil {
			return nil, err
		}
		if e.Effective, err = d.Uint128(); err != nil {
			return nil, err
		}
		return e, nil
	case hasDiscriminator(discriminator, unstakeEventDiscriminator):
		var e UnstakeEvent
		if e.Owner, err = d.Key32(); err != nil {
			return nil, err
		}
		if e.PositionID, err = d.Uint32(); err != nil {
			return nil, err
		}
		if e.Amount, err = d.Uint64(); err != nil {
			return nil, err
		}
		return e, nil
	case hasDiscriminator(discriminator, claimEventDiscriminator):
		var e ClaimEvent
		if e.Owner, err = d.Key32(); err != nil {
			return nil, err
		}
		if e.PositionID, err = d.Uint32(); err != nil {
			return nil, err
		}
		if e.RewardsClaimed, err = d.Uint64(); err != nil {
			return nil, err
		}
		return e, nil
	case hasDiscriminator(discriminator, boostActivatedEventDiscriminator):
		var e BoostActivatedEvent
		if e.User, err = d.Key32(); err != nil {
			return nil, err
		}
		if e.BoostID, err = d.Uint8(); err != nil {
			return nil, err
		}
		if e.ExpiresAt, err = d.Int64(); err != nil {
			return nil, err
		}
		return e, nil
	case hasDiscriminator(discriminator, rankingAppliedEventDiscriminator):
		var e RankingAppliedEvent
		if e.User, err = d.Key32(); err != nil {
			return nil, err
		}
		if e.AddedBoostPoints, err = d.Uint64(); err != nil {
			return nil, err
		}
		return e, nil
	}

	return nil, ErrUnknownEvent
}

// ParseEventLogs extracts arena events from a transaction's log messages.
// Lines that are not event payloads, or carry events of other programs, are
// skipped.
func ParseEventLogs(logs []string) ([]Event, error) {
	var events []Event
	for _, line := range logs {
		if !strings.HasPrefix(line, ProgramDataLogPrefix) {
			continue
		}

		data, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(line, ProgramDataLogPrefix))
		if err != nil {
			return nil, errors.Wrap(err, "invalid program data log")
		}

		event, err := DecodeEvent(data)
		if err == ErrUnknownEvent {
			continue
		} else if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, nil
}
