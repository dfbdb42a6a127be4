package mining_arena

import (
	"crypto/ed25519"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
)

const (
	InstructionInitializeGlobal        = "initialize_global"
	InstructionInitializeTreasuryVault = "initialize_treasury_vault"
	InstructionInitializeStakingPool   = "initialize_staking_pool"
	InstructionUpdateHalving           = "update_halving"
	InstructionMineWithRig             = "mine_with_rig"
	InstructionStake                   = "stake"
	InstructionClaim                   = "claim"
	InstructionUnstake                 = "unstake"
	InstructionActivateBoost           = "activate_boost"
	InstructionUpsertBoostConfig       = "upsert_boost_config"
	InstructionApplyRankingResults     = "apply_ranking_results"
	InstructionResetDailyPoints        = "reset_daily_points"
)

// InstructionNames lists every arena instruction.
var InstructionNames = []string{
	InstructionInitializeGlobal,
	InstructionInitializeTreasuryVault,
	InstructionInitializeStakingPool,
	InstructionUpdateHalving,
	InstructionMineWithRig,
	InstructionStake,
	InstructionClaim,
	InstructionUnstake,
	InstructionActivateBoost,
	InstructionUpsertBoostConfig,
	InstructionApplyRankingResults,
	InstructionResetDailyPoints,
}

// ParseInstructionName returns the name of the arena instruction encoded in
// data, matched on its discriminator.
func ParseInstructionName(data []byte) (string, bool) {
	for _, name := range InstructionNames {
		if hasDiscriminator(data, InstructionDiscriminator(name)) {
			return name, true
		}
	}
	return "", false
}

// newInstruction copies data so callers never alias the package level
// discriminators.
func (p Program) newInstruction(data []byte, accounts ...solana.AccountMeta) solana.Instruction {
	owned := make([]byte, len(data))
	copy(owned, data)
	return solana.NewInstruction(p.ID(), owned, accounts...)
}

func signerWritable(key ed25519.PublicKey) solana.AccountMeta {
	return solana.NewAccountMeta(key, true)
}

func writable(key ed25519.PublicKey) solana.AccountMeta {
	return solana.NewAccountMeta(key, false)
}

func readonly(key ed25519.PublicKey) solana.AccountMeta {
	return solana.NewReadonlyAccountMeta(key, false)
}

func readonlySigner(key ed25519.PublicKey) solana.AccountMeta {
	return solana.NewReadonlyAccountMeta(key, true)
}

// singletons derives the global config and staking pool addresses.
func (p Program) singletons() (globalConfig, stakingPool ed25519.PublicKey, err error) {
	if globalConfig, _, err = p.GetGlobalConfigAddress(); err != nil {
		return nil, nil, err
	}
	if stakingPool, _, err = p.GetStakingPoolAddress(); err != nil {
		return nil, nil, err
	}
	return globalConfig, stakingPool, nil
}
