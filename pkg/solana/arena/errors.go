package mining_arena

import (
	"fmt"
)

// ProgramError is a custom error code returned by the arena program.
//
// Codes start at Anchor's custom error offset and follow the declaration
// order of the program's error enum.
type ProgramError uint32

const anchorErrorOffset = 6000

const (
	ProgramErrorUnauthorized ProgramError = anchorErrorOffset + iota
	ProgramErrorMathOverflow
	ProgramErrorInvalidRig
	ProgramErrorInvalidLock
	ProgramErrorStakeLocked
	ProgramErrorInvalidBps
	ProgramErrorTooManyActiveBoosts
	ProgramErrorInsufficientBoostPoints
	ProgramErrorIncompleteConfig
	ProgramErrorInvalidStakePda
)

var programErrorMessages = map[ProgramError]string{
	ProgramErrorUnauthorized:            "Unauthorized",
	ProgramErrorMathOverflow:            "Math overflow",
	ProgramErrorInvalidRig:              "Invalid rig",
	ProgramErrorInvalidLock:             "Invalid lock",
	ProgramErrorStakeLocked:             "Stake still locked",
	ProgramErrorInvalidBps:              "Invalid basis points value",
	ProgramErrorTooManyActiveBoosts:     "Too many active boosts",
	ProgramErrorInsufficientBoostPoints: "Insufficient boost points",
	ProgramErrorIncompleteConfig:        "Configuration incomplete",
	ProgramErrorInvalidStakePda:         "Invalid stake PDA",
}

// LookupProgramError returns the arena error for a custom program error code,
// if the code belongs to the arena program.
func LookupProgramError(code int) (ProgramError, bool) {
	if code < 0 {
		return 0, false
	}

	pe := ProgramError(code)
	_, ok := programErrorMessages[pe]
	return pe, ok
}

func (e ProgramError) Error() string {
	msg, ok := programErrorMessages[e]
	if !ok {
		return fmt.Sprintf("unknown arena error: %d", uint32(e))
	}
	return fmt.Sprintf("arena error %d: %s", uint32(e), msg)
}
