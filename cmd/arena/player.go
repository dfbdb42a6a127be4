package main

import (
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/x1-mining-arena/arena-go/pkg/arena"
	"github.com/x1-mining-arena/arena-go/pkg/solana"
	mining_arena "github.com/x1-mining-arena/arena-go/pkg/solana/arena"
)

func init() {
	register(
		mineCommand,
		stakeCommand,
		claimCommand,
		unstakeCommand,
		activateBoostCommand,
		wrapXntCommand,
		unwrapXntCommand,
	)
}

func positionFlag(fs *pflag.FlagSet) {
	uintFlag(fs, "position-id", 32, 0, "stake position id (0 is the legacy position)")
}

// positionParam returns the position selected by --position-id.
func positionParam(p *params) (mining_arena.PositionRef, error) {
	if !p.IsSet("position-id") {
		return mining_arena.PositionRef{}, errors.New("position-id (or POSITION_ID) is required")
	}
	id, err := p.Uint32("position-id")
	if err != nil {
		return mining_arena.PositionRef{}, err
	}
	return mining_arena.PositionFromID(id), nil
}

// ensureTokenAccounts returns owner's associated accounts for each mint, with
// the instructions creating the missing ones.
func ensureTokenAccounts(ctx context.Context, env *environment, owner ed25519.PublicKey, mints ...ed25519.PublicKey) ([]ed25519.PublicKey, []solana.Instruction, error) {
	var accounts []ed25519.PublicKey
	var instructions []solana.Instruction
	for _, mint := range mints {
		account, create, err := env.client.EnsureAssociatedAccount(ctx, owner, owner, mint)
		if err != nil {
			return nil, nil, err
		}
		accounts = append(accounts, account)
		instructions = append(instructions, create...)
	}
	return accounts, instructions, nil
}

// userAccountOrNil returns the user's arena account, or nil when the user
// hasn't played yet.
func userAccountOrNil(ctx context.Context, env *environment, user ed25519.PublicKey) (*mining_arena.UserAccount, error) {
	account, err := env.client.GetUserAccount(ctx, user)
	switch err {
	case nil:
		return account, nil
	case arena.ErrAccountNotFound:
		return nil, nil
	default:
		return nil, errors.Wrap(err, "failed to get user account")
	}
}

var mineCommand = &command{
	name:  "mine",
	usage: "pay XNT to run a mining rig",
	flags: func(fs *pflag.FlagSet) {
		uintFlag(fs, "rig-id", 8, 1, "rig to mine with")
	},
	envs: map[string]string{
		"rig-id": "RIG_ID",
	},
	transaction: true,
	run: func(ctx context.Context, env *environment, p *params) error {
		payer, err := env.Wallet()
		if err != nil {
			return err
		}
		rigID, err := p.Uint8("rig-id")
		if err != nil {
			return err
		}
		global, err := env.client.GetGlobalConfig(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to get global config")
		}

		payerKey := payer.Public().(ed25519.PublicKey)
		accounts, instructions, err := ensureTokenAccounts(ctx, env, payerKey, global.GameMint, global.XntMint)
		if err != nil {
			return err
		}

		ixn, err := env.client.Program().NewMineWithRigInstruction(
			&mining_arena.MineWithRigInstructionAccounts{
				Payer:           payerKey,
				GameMint:        global.GameMint,
				UserGameAccount: accounts[0],
				UserXntAccount:  accounts[1],
				TreasuryVault:   global.TreasuryXntVault,
			},
			&mining_arena.MineWithRigInstructionArgs{RigID: rigID},
		)
		if err != nil {
			return err
		}

		if err := env.send(ctx, mining_arena.InstructionMineWithRig, []ed25519.PrivateKey{payer}, append(instructions, ixn)...); err != nil {
			return err
		}

		rig, _ := mining_arena.GetRigConfig(rigID)
		low, high := rig.Rewards(global.HalvingLevel)
		env.printf("rig %d: cost %s XNT, reward %s-%s GAME, %d points\n",
			rigID,
			formatAmount(rig.BaseCostXnt, mining_arena.XntDecimals),
			formatAmount(low, mining_arena.GameDecimals),
			formatAmount(high, mining_arena.GameDecimals),
			rig.Points,
		)

		user, err := userAccountOrNil(ctx, env, payerKey)
		if err != nil {
			return err
		}
		if user != nil {
			for _, boost := range user.LiveBoosts(env.now().Unix()) {
				if boost.Kind == mining_arena.BoostKindStakingMultiplierBps || !boost.AppliesToRig(rigID) {
					continue
				}
				env.printf("boost %d applies: %s %d bps\n", boost.BoostID, boost.Kind, boost.ValueBps)
			}
		}
		env.printKey("user GAME account", accounts[0])
		env.printKey("user XNT account", accounts[1])
		return nil
	},
}

var stakeCommand = &command{
	name:  "stake",
	usage: "stake game tokens into a new position",
	flags: func(fs *pflag.FlagSet) {
		uintFlag(fs, "amount", 64, 1_000_000_000, "amount to stake in the game mint's smallest unit")
		uintFlag(fs, "lock-days", 16, 7, "lock period in days (7, 14 or 30)")
		uintFlag(fs, "position-id", 32, 0, "position to stake into (defaults to the next free position)")
	},
	envs: map[string]string{
		"amount":      "STAKE_AMOUNT",
		"lock-days":   "LOCK_DAYS",
		"position-id": "POSITION_ID",
	},
	transaction: true,
	run: func(ctx context.Context, env *environment, p *params) error {
		owner, err := env.Wallet()
		if err != nil {
			return err
		}
		ownerKey := owner.Public().(ed25519.PublicKey)

		amount, err := p.Uint64("amount")
		if err != nil {
			return err
		}
		lockDays, err := p.Uint16("lock-days")
		if err != nil {
			return err
		}

		var position mining_arena.PositionRef
		if p.IsSet("position-id") {
			if position, err = positionParam(p); err != nil {
				return err
			}
		} else if position, err = env.client.NextPositionRef(ctx, ownerKey); err != nil {
			return err
		}

		global, err := env.client.GetGlobalConfig(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to get global config")
		}
		pool, err := env.client.GetStakingPool(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to get staking pool")
		}

		accounts, instructions, err := ensureTokenAccounts(ctx, env, ownerKey, global.GameMint, global.XntMint)
		if err != nil {
			return err
		}

		ixn, err := env.client.Program().NewStakeInstruction(
			&mining_arena.StakeInstructionAccounts{
				Owner:           ownerKey,
				Position:        position,
				StakingVault:    pool.StakingVault,
				TreasuryVault:   global.TreasuryXntVault,
				UserGameAccount: accounts[0],
				UserXntAccount:  accounts[1],
			},
			&mining_arena.StakeInstructionArgs{Amount: amount, LockDays: lockDays},
		)
		if err != nil {
			return err
		}

		if err := env.send(ctx, mining_arena.InstructionStake, []ed25519.PrivateKey{owner}, append(instructions, ixn)...); err != nil {
			return err
		}

		address, _, err := env.client.Program().GetUserStakeAddress(ownerKey, position)
		if err != nil {
			return err
		}

		lockBps, err := mining_arena.LockMultiplierBps(lockDays)
		if err != nil {
			return err
		}
		boostBps := uint16(mining_arena.BpsDenominator)
		user, err := userAccountOrNil(ctx, env, ownerKey)
		if err != nil {
			return err
		}
		if user != nil {
			boostBps = mining_arena.StakingMultiplierBps(user, env.now().Unix())
		}
		effective := mining_arena.EffectiveStake(amount, lockBps, boostBps)

		env.printf("staked %s for %d days at position %s\n", formatAmount(amount, mining_arena.GameDecimals), lockDays, position)
		env.printf("effective stake %s (lock %d bps, boost %d bps)\n", effective, lockBps, boostBps)
		env.printKey("stake position", address)
		return nil
	},
}

var claimCommand = &command{
	name:        "claim",
	usage:       "claim the XNT rewards of a position",
	flags:       positionFlag,
	envs:        map[string]string{"position-id": "POSITION_ID"},
	transaction: true,
	run: func(ctx context.Context, env *environment, p *params) error {
		owner, err := env.Wallet()
		if err != nil {
			return err
		}
		position, err := positionParam(p)
		if err != nil {
			return err
		}
		global, err := env.client.GetGlobalConfig(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to get global config")
		}

		ownerKey := owner.Public().(ed25519.PublicKey)
		accounts, instructions, err := ensureTokenAccounts(ctx, env, ownerKey, global.XntMint)
		if err != nil {
			return err
		}

		ixn, err := env.client.Program().NewClaimInstruction(&mining_arena.ClaimInstructionAccounts{
			Owner:          ownerKey,
			Position:       position,
			TreasuryVault:  global.TreasuryXntVault,
			UserXntAccount: accounts[0],
		})
		if err != nil {
			return err
		}

		if err := env.send(ctx, mining_arena.InstructionClaim, []ed25519.PrivateKey{owner}, append(instructions, ixn)...); err != nil {
			return err
		}
		env.printf("position: %s\n", position)
		env.printKey("user XNT account", accounts[0])
		return nil
	},
}

var unstakeCommand = &command{
	name:        "unstake",
	usage:       "withdraw an unlocked position and its rewards",
	flags:       positionFlag,
	envs:        map[string]string{"position-id": "POSITION_ID"},
	transaction: true,
	run: func(ctx context.Context, env *environment, p *params) error {
		owner, err := env.Wallet()
		if err != nil {
			return err
		}
		position, err := positionParam(p)
		if err != nil {
			return err
		}
		global, err := env.client.GetGlobalConfig(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to get global config")
		}
		pool, err := env.client.GetStakingPool(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to get staking pool")
		}

		ownerKey := owner.Public().(ed25519.PublicKey)
		accounts, instructions, err := ensureTokenAccounts(ctx, env, ownerKey, global.GameMint, global.XntMint)
		if err != nil {
			return err
		}

		ixn, err := env.client.Program().NewUnstakeInstruction(&mining_arena.UnstakeInstructionAccounts{
			Owner:           ownerKey,
			Position:        position,
			StakingVault:    pool.StakingVault,
			TreasuryVault:   global.TreasuryXntVault,
			UserGameAccount: accounts[0],
			UserXntAccount:  accounts[1],
		})
		if err != nil {
			return err
		}

		if err := env.send(ctx, mining_arena.InstructionUnstake, []ed25519.PrivateKey{owner}, append(instructions, ixn)...); err != nil {
			return err
		}
		env.printf("position: %s\n", position)
		return nil
	},
}

var activateBoostCommand = &command{
	name:  "activate-boost",
	usage: "spend boost points on a boost",
	flags: func(fs *pflag.FlagSet) {
		uintFlag(fs, "boost-id", 8, 1, "boost to activate")
	},
	envs:        map[string]string{"boost-id": "BOOST_ID"},
	transaction: true,
	run: func(ctx context.Context, env *environment, p *params) error {
		user, err := env.Wallet()
		if err != nil {
			return err
		}
		boostID, err := p.Uint8("boost-id")
		if err != nil {
			return err
		}

		ixn, err := env.client.Program().NewActivateBoostInstruction(&mining_arena.ActivateBoostInstructionAccounts{
			User:    user.Public().(ed25519.PublicKey),
			BoostID: boostID,
		})
		if err != nil {
			return err
		}

		if err := env.send(ctx, mining_arena.InstructionActivateBoost, []ed25519.PrivateKey{user}, ixn); err != nil {
			return err
		}
		env.printf("boost id: %d\n", boostID)
		return nil
	},
}

var wrapXntCommand = &command{
	name:  "wrap-xnt",
	usage: "wrap native XNT into the wallet's wrapped XNT account",
	flags: func(fs *pflag.FlagSet) {
		fs.String("amount", "0.3", "XNT to wrap")
	},
	envs:        map[string]string{"amount": "AMOUNT"},
	transaction: true,
	run: func(ctx context.Context, env *environment, p *params) error {
		owner, err := env.Wallet()
		if err != nil {
			return err
		}
		lamports, err := p.Amount("amount", mining_arena.XntDecimals)
		if err != nil {
			return err
		}

		account, instructions, err := env.client.WrapXnt(ctx, owner.Public().(ed25519.PublicKey), lamports)
		if err != nil {
			return err
		}

		if err := env.send(ctx, "wrap_xnt", []ed25519.PrivateKey{owner}, instructions...); err != nil {
			return err
		}
		env.printf("wrapped %s XNT\n", formatAmount(lamports, mining_arena.XntDecimals))
		env.printKey("wrapped XNT account", account)
		return nil
	},
}

var unwrapXntCommand = &command{
	name:        "unwrap-xnt",
	usage:       "close the wallet's wrapped XNT account, returning its balance as native XNT",
	transaction: true,
	run: func(ctx context.Context, env *environment, _ *params) error {
		owner, err := env.Wallet()
		if err != nil {
			return err
		}

		balance, instruction, err := env.client.UnwrapXnt(ctx, owner.Public().(ed25519.PublicKey))
		if err != nil {
			return err
		}

		if err := env.send(ctx, "unwrap_xnt", []ed25519.PrivateKey{owner}, instruction); err != nil {
			return err
		}
		env.printf("unwrapped %s XNT\n", formatAmount(balance, mining_arena.XntDecimals))
		return nil
	},
}
