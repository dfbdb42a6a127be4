package mining_arena

import (
	"fmt"
)

// PositionRef selects a user's staking position. A position is either the
// single legacy position, addressed without an id, or an indexed position.
// The zero value is the legacy position.
type PositionRef struct {
	id uint32
}

// LegacyPosition refers to the position addressed by ["user-stake", owner].
func LegacyPosition() PositionRef {
	return PositionRef{}
}

// IndexedPosition refers to the position with the given id. Id 0 is reserved
// for the legacy position, so IndexedPosition(0) == LegacyPosition().
func IndexedPosition(id uint32) PositionRef {
	return PositionRef{id: id}
}

// PositionFromID maps a stored position id to its reference.
func PositionFromID(id uint32) PositionRef {
	return IndexedPosition(id)
}

func (r PositionRef) IsLegacy() bool {
	return r.id == 0
}

// ID is the position id, 0 for the legacy position.
func (r PositionRef) ID() uint32 {
	return r.id
}

func (r PositionRef) String() string {
	if r.IsLegacy() {
		return "legacy"
	}
	return fmt.Sprintf("indexed(%d)", r.id)
}
