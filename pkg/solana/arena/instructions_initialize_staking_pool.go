package mining_arena

import (
	"crypto/ed25519"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
)

var initializeStakingPoolInstructionDiscriminator = InstructionDiscriminator(InstructionInitializeStakingPool)

// StakingVault is created by the program from a fresh keypair, which must
// co-sign.
type InitializeStakingPoolInstructionAccounts struct {
	Admin        ed25519.PublicKey
	GameMint     ed25519.PublicKey
	XntMint      ed25519.PublicKey
	StakingVault ed25519.PublicKey
}

func (p Program) NewInitializeStakingPoolInstruction(
	accounts *InitializeStakingPoolInstructionAccounts,
) (solana.Instruction, error) {
	if err := requireKeys(map[string]ed25519.PublicKey{
		"admin":        accounts.Admin,
		"gameMint":     accounts.GameMint,
		"xntMint":      accounts.XntMint,
		"stakingVault": accounts.StakingVault,
	}); err != nil {
		return solana.Instruction{}, err
	}

	globalConfig, stakingPool, err := p.singletons()
	if err != nil {
		return solana.Instruction{}, err
	}

	return p.newInstruction(
		initializeStakingPoolInstructionDiscriminator,
		signerWritable(accounts.Admin),
		writable(globalConfig),
		writable(stakingPool),
		writable(accounts.GameMint),
		readonly(accounts.XntMint),
		signerWritable(accounts.StakingVault),
		readonly(SYSTEM_PROGRAM_ID),
		readonly(SPL_TOKEN_PROGRAM_ID),
		readonly(SYSVAR_RENT_PUBKEY),
	), nil
}
