package mining_arena

import (
	"crypto/ed25519"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
)

var unstakeInstructionDiscriminator = InstructionDiscriminator(InstructionUnstake)

type UnstakeInstructionAccounts struct {
	Owner           ed25519.PublicKey
	Position        PositionRef
	StakingVault    ed25519.PublicKey
	TreasuryVault   ed25519.PublicKey
	UserGameAccount ed25519.PublicKey
	UserXntAccount  ed25519.PublicKey
}

func (p Program) NewUnstakeInstruction(
	accounts *UnstakeInstructionAccounts,
) (solana.Instruction, error) {
	if err := requireKeys(map[string]ed25519.PublicKey{
		"owner":           accounts.Owner,
		"stakingVault":    accounts.StakingVault,
		"treasuryVault":   accounts.TreasuryVault,
		"userGameAccount": accounts.UserGameAccount,
		"userXntAccount":  accounts.UserXntAccount,
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
		unstakeInstructionDiscriminator,
		signerWritable(accounts.Owner),
		writable(globalConfig),
		writable(stakingPool),
		writable(accounts.StakingVault),
		writable(accounts.TreasuryVault),
		writable(accounts.UserGameAccount),
		writable(accounts.UserXntAccount),
		writable(userStakePosition),
		readonly(SPL_TOKEN_PROGRAM_ID),
	), nil
}
