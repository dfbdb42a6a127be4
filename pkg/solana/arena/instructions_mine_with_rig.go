package mining_arena

import (
	"crypto/ed25519"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
	"github.com/x1-mining-arena/arena-go/pkg/solana/binary"
)

var mineWithRigInstructionDiscriminator = InstructionDiscriminator(InstructionMineWithRig)

const MineWithRigInstructionArgsSize = 1 // rig_id

type MineWithRigInstructionArgs struct {
	RigID uint8
}

type MineWithRigInstructionAccounts struct {
	Payer           ed25519.PublicKey
	GameMint        ed25519.PublicKey
	UserGameAccount ed25519.PublicKey
	UserXntAccount  ed25519.PublicKey
	TreasuryVault   ed25519.PublicKey
}

func (p Program) NewMineWithRigInstruction(
	accounts *MineWithRigInstructionAccounts,
	args *MineWithRigInstructionArgs,
) (solana.Instruction, error) {
	if _, ok := GetRigConfig(args.RigID); !ok {
		return solana.Instruction{}, invalidArgumentf("rig %d", args.RigID)
	}
	if err := requireKeys(map[string]ed25519.PublicKey{
		"payer":           accounts.Payer,
		"gameMint":        accounts.GameMint,
		"userGameAccount": accounts.UserGameAccount,
		"userXntAccount":  accounts.UserXntAccount,
		"treasuryVault":   accounts.TreasuryVault,
	}); err != nil {
		return solana.Instruction{}, err
	}

	globalConfig, stakingPool, err := p.singletons()
	if err != nil {
		return solana.Instruction{}, err
	}
	userAccount, _, err := p.GetUserAccountAddress(accounts.Payer)
	if err != nil {
		return solana.Instruction{}, err
	}

	data := binary.NewEncoder(discriminatorSize+MineWithRigInstructionArgsSize).
		PutBytes(mineWithRigInstructionDiscriminator).
		PutUint8(args.RigID).
		Bytes()

	return p.newInstruction(
		data,
		signerWritable(accounts.Payer),
		writable(globalConfig),
		writable(stakingPool),
		writable(accounts.GameMint),
		writable(accounts.UserGameAccount),
		writable(accounts.UserXntAccount),
		writable(accounts.TreasuryVault),
		writable(userAccount),
		readonly(SPL_TOKEN_PROGRAM_ID),
		readonly(SYSTEM_PROGRAM_ID),
		readonly(SPL_ASSOCIATED_TOKEN_PROGRAM_ID),
		readonly(SYSVAR_RENT_PUBKEY),
	), nil
}
