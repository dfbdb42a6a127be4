package mining_arena

import (
	"crypto/ed25519"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
)

var activateBoostInstructionDiscriminator = InstructionDiscriminator(InstructionActivateBoost)

type ActivateBoostInstructionAccounts struct {
	User    ed25519.PublicKey
	BoostID uint8
}

func (p Program) NewActivateBoostInstruction(
	accounts *ActivateBoostInstructionAccounts,
) (solana.Instruction, error) {
	if err := requireKeys(map[string]ed25519.PublicKey{"user": accounts.User}); err != nil {
		return solana.Instruction{}, err
	}

	globalConfig, _, err := p.GetGlobalConfigAddress()
	if err != nil {
		return solana.Instruction{}, err
	}
	boostConfig, _, err := p.GetBoostConfigAddress(accounts.BoostID)
	if err != nil {
		return solana.Instruction{}, err
	}
	userAccount, _, err := p.GetUserAccountAddress(accounts.User)
	if err != nil {
		return solana.Instruction{}, err
	}

	return p.newInstruction(
		activateBoostInstructionDiscriminator,
		signerWritable(accounts.User),
		readonly(globalConfig),
		readonly(boostConfig),
		writable(userAccount),
		readonly(SYSTEM_PROGRAM_ID),
	), nil
}
