package mining_arena

import (
	"crypto/ed25519"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
	"github.com/x1-mining-arena/arena-go/pkg/solana/binary"
)

var resetDailyPointsInstructionDiscriminator = InstructionDiscriminator(InstructionResetDailyPoints)

const ResetDailyPointsInstructionArgsSize = 8 // day_id

type ResetDailyPointsInstructionArgs struct {
	DayID int64
}

type ResetDailyPointsInstructionAccounts struct {
	Admin ed25519.PublicKey
	User  ed25519.PublicKey
}

func (p Program) NewResetDailyPointsInstruction(
	accounts *ResetDailyPointsInstructionAccounts,
	args *ResetDailyPointsInstructionArgs,
) (solana.Instruction, error) {
	if args.DayID < 0 {
		return solana.Instruction{}, invalidArgumentf("negative day id %d", args.DayID)
	}
	if err := requireKeys(map[string]ed25519.PublicKey{
		"admin": accounts.Admin,
		"user":  accounts.User,
	}); err != nil {
		return solana.Instruction{}, err
	}

	globalConfig, _, err := p.GetGlobalConfigAddress()
	if err != nil {
		return solana.Instruction{}, err
	}
	userAccount, _, err := p.GetUserAccountAddress(accounts.User)
	if err != nil {
		return solana.Instruction{}, err
	}

	data := binary.NewEncoder(discriminatorSize+ResetDailyPointsInstructionArgsSize).
		PutBytes(resetDailyPointsInstructionDiscriminator).
		PutInt64(args.DayID).
		Bytes()

	return p.newInstruction(
		data,
		signerWritable(accounts.Admin),
		writable(globalConfig),
		readonly(accounts.User),
		writable(userAccount),
		readonly(SYSTEM_PROGRAM_ID),
	), nil
}
