package mining_arena

import (
	"crypto/ed25519"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
	"github.com/x1-mining-arena/arena-go/pkg/solana/binary"
)

var initializeGlobalInstructionDiscriminator = InstructionDiscriminator(InstructionInitializeGlobal)

const InitializeGlobalInstructionArgsSize = (32 + // admin
	2 + // staking_share_bps
	8) // halving_interval

// Zero values for StakingShareBps and HalvingInterval select the program
// defaults.
type InitializeGlobalInstructionArgs struct {
	Admin           ed25519.PublicKey
	StakingShareBps uint16
	HalvingInterval uint64
}

type InitializeGlobalInstructionAccounts struct {
	Payer    ed25519.PublicKey
	XntMint  ed25519.PublicKey
	GameMint ed25519.PublicKey
}

func (p Program) NewInitializeGlobalInstruction(
	accounts *InitializeGlobalInstructionAccounts,
	args *InitializeGlobalInstructionArgs,
) (solana.Instruction, error) {
	if args.StakingShareBps > BpsDenominator {
		return solana.Instruction{}, invalidArgumentf("staking share of %d bps", args.StakingShareBps)
	}
	if err := requireKeys(map[string]ed25519.PublicKey{
		"admin":    args.Admin,
		"payer":    accounts.Payer,
		"xntMint":  accounts.XntMint,
		"gameMint": accounts.GameMint,
	}); err != nil {
		return solana.Instruction{}, err
	}

	globalConfig, _, err := p.GetGlobalConfigAddress()
	if err != nil {
		return solana.Instruction{}, err
	}

	data := binary.NewEncoder(discriminatorSize+InitializeGlobalInstructionArgsSize).
		PutBytes(initializeGlobalInstructionDiscriminator).
		PutKey32(args.Admin).
		PutUint16(args.StakingShareBps).
		PutUint64(args.HalvingInterval).
		Bytes()

	return p.newInstruction(
		data,
		writable(globalConfig),
		signerWritable(accounts.Payer),
		readonly(accounts.XntMint),
		// The mint is created here, so its keypair signs.
		signerWritable(accounts.GameMint),
		readonly(SYSTEM_PROGRAM_ID),
		readonly(SPL_TOKEN_PROGRAM_ID),
	), nil
}
