package mining_arena

import (
	"crypto/ed25519"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
)

var initializeTreasuryVaultInstructionDiscriminator = InstructionDiscriminator(InstructionInitializeTreasuryVault)

// TreasuryVault is a fresh keypair's public key; the vault must also sign the
// transaction since the program creates it.
type InitializeTreasuryVaultInstructionAccounts struct {
	Admin         ed25519.PublicKey
	XntMint       ed25519.PublicKey
	TreasuryVault ed25519.PublicKey
}

func (p Program) NewInitializeTreasuryVaultInstruction(
	accounts *InitializeTreasuryVaultInstructionAccounts,
) (solana.Instruction, error) {
	if err := requireKeys(map[string]ed25519.PublicKey{
		"admin":         accounts.Admin,
		"xntMint":       accounts.XntMint,
		"treasuryVault": accounts.TreasuryVault,
	}); err != nil {
		return solana.Instruction{}, err
	}

	globalConfig, _, err := p.GetGlobalConfigAddress()
	if err != nil {
		return solana.Instruction{}, err
	}

	// The program declares the xnt mint as mut, so it has to be passed as
	// writable even though nothing is written to it.
	return p.newInstruction(
		initializeTreasuryVaultInstructionDiscriminator,
		signerWritable(accounts.Admin),
		writable(globalConfig),
		writable(accounts.XntMint),
		signerWritable(accounts.TreasuryVault),
		readonly(SYSTEM_PROGRAM_ID),
		readonly(SPL_TOKEN_PROGRAM_ID),
	), nil
}
