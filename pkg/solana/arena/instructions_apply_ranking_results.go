package mining_arena

import (
	"crypto/ed25519"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
	"github.com/x1-mining-arena/arena-go/pkg/solana/binary"
)

var applyRankingResultsInstructionDiscriminator = InstructionDiscriminator(InstructionApplyRankingResults)

const ApplyRankingResultsInstructionArgsSize = (32 + // user
	8) // added_boost_points

type ApplyRankingResultsInstructionArgs struct {
	User             ed25519.PublicKey
	AddedBoostPoints uint64
}

type ApplyRankingResultsInstructionAccounts struct {
	Admin ed25519.PublicKey
}

func (p Program) NewApplyRankingResultsInstruction(
	accounts *ApplyRankingResultsInstructionAccounts,
	args *ApplyRankingResultsInstructionArgs,
) (solana.Instruction, error) {
	if err := requireKeys(map[string]ed25519.PublicKey{
		"admin": accounts.Admin,
		"user":  args.User,
	}); err != nil {
		return solana.Instruction{}, err
	}

	globalConfig, _, err := p.GetGlobalConfigAddress()
	if err != nil {
		return solana.Instruction{}, err
	}
	userAccount, _, err := p.GetUserAccountAddress(args.User)
	if err != nil {
		return solana.Instruction{}, err
	}

	data := binary.NewEncoder(discriminatorSize+ApplyRankingResultsInstructionArgsSize).
		PutBytes(applyRankingResultsInstructionDiscriminator).
		PutKey32(args.User).
		PutUint64(args.AddedBoostPoints).
		Bytes()

	return p.newInstruction(
		data,
		signerWritable(accounts.Admin),
		writable(globalConfig),
		readonly(args.User),
		writable(userAccount),
		readonly(SYSTEM_PROGRAM_ID),
	), nil
}
