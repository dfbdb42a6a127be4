package mining_arena

import (
	"crypto/ed25519"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
	"github.com/x1-mining-arena/arena-go/pkg/solana/binary"
)

var stakeInstructionDiscriminator = InstructionDiscriminator(InstructionStake)

const StakeInstructionArgsSize = (8 + // amount
	2) // lock_days

type StakeInstructionArgs struct {
	Amount   uint64
	LockDays uint16
}

// Position must be the owner's next unused position, see
// UserAccount.NextPosition. The program creates it at that address.
type StakeInstructionAccounts struct {
	Owner           ed25519.PublicKey
	Position        PositionRef
	StakingVault    ed25519.PublicKey
	TreasuryVault   ed25519.PublicKey
	UserGameAccount ed25519.PublicKey
	UserXntAccount  ed25519.PublicKey
}

func (p Program) NewStakeInstruction(
	accounts *StakeInstructionAccounts,
	args *StakeInstructionArgs,
) (solana.Instruction, error) {
	if args.Amount == 0 {
		return solana.Instruction{}, invalidArgumentf("stake amount must be positive")
	}
	if _, err := LockMultiplierBps(args.LockDays); err != nil {
		return solana.Instruction{}, err
	}
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
	userAccount, _, err := p.GetUserAccountAddress(accounts.Owner)
	if err != nil {
		return solana.Instruction{}, err
	}

	data := binary.NewEncoder(discriminatorSize+StakeInstructionArgsSize).
		PutBytes(stakeInstructionDiscriminator).
		PutUint64(args.Amount).
		PutUint16(args.LockDays).
		Bytes()

	return p.newInstruction(
		data,
		signerWritable(accounts.Owner),
		writable(globalConfig),
		writable(stakingPool),
		writable(accounts.StakingVault),
		writable(accounts.TreasuryVault),
		writable(accounts.UserGameAccount),
		writable(accounts.UserXntAccount),
		writable(userStakePosition),
		writable(userAccount),
		readonly(SPL_TOKEN_PROGRAM_ID),
		readonly(SYSTEM_PROGRAM_ID),
		readonly(SPL_ASSOCIATED_TOKEN_PROGRAM_ID),
		readonly(SYSVAR_RENT_PUBKEY),
	), nil
}
