package mining_arena

import (
	"crypto/ed25519"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
)

var updateHalvingInstructionDiscriminator = InstructionDiscriminator(InstructionUpdateHalving)

type UpdateHalvingInstructionAccounts struct {
	Admin ed25519.PublicKey
}

func (p Program) NewUpdateHalvingInstruction(
	accounts *UpdateHalvingInstructionAccounts,
) (solana.Instruction, error) {
	if err := requireKeys(map[string]ed25519.PublicKey{"admin": accounts.Admin}); err != nil {
		return solana.Instruction{}, err
	}

	globalConfig, _, err := p.GetGlobalConfigAddress()
	if err != nil {
		return solana.Instruction{}, err
	}

	return p.newInstruction(
		updateHalvingInstructionDiscriminator,
		readonlySigner(accounts.Admin),
		writable(globalConfig),
	), nil
}
