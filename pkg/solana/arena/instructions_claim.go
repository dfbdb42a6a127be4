package mining_arena

import (
	"crypto/ed25519"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
)

var claimInstructionDiscriminator = InstructionDiscriminator(InstructionClaim)

type ClaimInstructionAccounts struct {
	Owner          ed25519.PublicKey
	Position       PositionRef
	TreasuryVault  ed25519.PublicKey
	UserXntAccount ed25519.PublicKey
}

func (p Program) NewClaimInstruction(
	accounts *ClaimInstructionAccounts,
) (solana.Instruction, error) {
	if err := requireKeys(map[string]ed25519.PublicKey{
		"owner":          accounts.Owner,
		"treasuryVault":  accounts.TreasuryVault,
		"userXntAccount": accounts.UserXntAccount,
	}); err != nil {
		return solana.Instruction{}, err
	}

	globalConfig, stakingPool, err := p.singletons()
	if err != nil {
		return solana.Instruction{}, err
	}
	userStakePosition, _, err := p.GetUserStakeAddress(accounts.Owner, accounts.Position)
	if err != nil {
		return solana.Instruction{}, err
	}

	return p.newInstruction(
		claimInstructionDiscriminator,
		signerWritable(accounts.Owner),
		writable(globalConfig),
		writable(stakingPool),
		writable(accounts.TreasuryVault),
		writable(accounts.UserXntAccount),
		writable(userStakePosition),
		readonly(SPL_TOKEN_PROGRAM_ID),
	), nil
}
