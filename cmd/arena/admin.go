package main

import (
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/x1-mining-arena/arena-go/pkg/app"
	mining_arena "github.com/x1-mining-arena/arena-go/pkg/solana/arena"
	"github.com/x1-mining-arena/arena-go/pkg/solana/token"
)

const secondsPerDay = 86_400

func init() {
	register(
		initGlobalCommand,
		initTreasuryCommand,
		initStakingCommand,
		upsertBoostCommand,
		grantBoostPointsCommand,
		resetDailyPointsCommand,
		updateHalvingCommand,
	)
}

var initGlobalCommand = &command{
	name:  "init-global",
	usage: "create the global config and the game mint",
	flags: func(fs *pflag.FlagSet) {
		fs.String("game-mint-keypair", "~/.config/solana/game-mint.json", "keypair file of the game mint to create")
		fs.String("xnt-mint", base58.Encode(token.NativeMint), "XNT mint")
		uintFlag(fs, "staking-share-bps", 16, mining_arena.DefaultStakingShareBps, "share of mining fees paid to stakers")
		uintFlag(fs, "halving-interval", 64, mining_arena.DefaultHalvingInterval, "game tokens minted between halvings")
	},
	envs: map[string]string{
		"game-mint-keypair": "GAME_MINT_KEYPAIR",
		"xnt-mint":          "XNT_MINT",
		"staking-share-bps": "STAKING_SHARE_BPS",
		"halving-interval":  "HALVING_INTERVAL",
	},
	transaction: true,
	run: func(ctx context.Context, env *environment, p *params) error {
		admin, err := env.Wallet()
		if err != nil {
			return err
		}
		gameMint, err := app.LoadKeypair(p.String("game-mint-keypair"))
		if err != nil {
			return errors.Wrap(err, "failed to load game mint keypair")
		}
		xntMint, err := p.Key("xnt-mint")
		if err != nil {
			return err
		}
		shareBps, err := p.Uint16("staking-share-bps")
		if err != nil {
			return err
		}
		halvingInterval, err := p.Uint64("halving-interval")
		if err != nil {
			return err
		}

		adminKey := admin.Public().(ed25519.PublicKey)
		gameMintKey := gameMint.Public().(ed25519.PublicKey)

		adminXntAccount, instructions, err := env.client.EnsureAssociatedAccount(ctx, adminKey, adminKey, xntMint)
		if err != nil {
			return err
		}

		ixn, err := env.client.Program().NewInitializeGlobalInstruction(
			&mining_arena.InitializeGlobalInstructionAccounts{
				Payer:    adminKey,
				XntMint:  xntMint,
				GameMint: gameMintKey,
			},
			&mining_arena.InitializeGlobalInstructionArgs{
				Admin:           adminKey,
				StakingShareBps: shareBps,
				HalvingInterval: halvingInterval,
			},
		)
		if err != nil {
			return err
		}

		if err := env.send(ctx, mining_arena.InstructionInitializeGlobal, []ed25519.PrivateKey{admin, gameMint}, append(instructions, ixn)...); err != nil {
			return err
		}

		globalConfig, _, err := env.client.Program().GetGlobalConfigAddress()
		if err != nil {
			return err
		}
		env.printKey("global config", globalConfig)
		env.printKey("game mint", gameMintKey)
		env.printKey("admin XNT account", adminXntAccount)
		return nil
	},
}

var initTreasuryCommand = &command{
	name:        "init-treasury",
	usage:       "create the treasury XNT vault",
	transaction: true,
	run: func(ctx context.Context, env *environment, p *params) error {
		admin, err := env.Wallet()
		if err != nil {
			return err
		}
		global, err := env.client.GetGlobalConfig(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to get global config")
		}

		// The vault is a fresh token account initialized by the program.
		vaultKey, vault, err := ed25519.GenerateKey(nil)
		if err != nil {
			return err
		}

		ixn, err := env.client.Program().NewInitializeTreasuryVaultInstruction(&mining_arena.InitializeTreasuryVaultInstructionAccounts{
			Admin:         admin.Public().(ed25519.PublicKey),
			XntMint:       global.XntMint,
			TreasuryVault: vaultKey,
		})
		if err != nil {
			return err
		}

		if err := env.send(ctx, mining_arena.InstructionInitializeTreasuryVault, []ed25519.PrivateKey{admin, vault}, ixn); err != nil {
			return err
		}
		env.printKey("treasury XNT vault", vaultKey)
		return nil
	},
}

var initStakingCommand = &command{
	name:        "init-staking",
	usage:       "create the staking pool and its vault",
	transaction: true,
	run: func(ctx context.Context, env *environment, p *params) error {
		admin, err := env.Wallet()
		if err != nil {
			return err
		}
		global, err := env.client.GetGlobalConfig(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to get global config")
		}

		vaultKey, vault, err := ed25519.GenerateKey(nil)
		if err != nil {
			return err
		}

		ixn, err := env.client.Program().NewInitializeStakingPoolInstruction(&mining_arena.InitializeStakingPoolInstructionAccounts{
			Admin:        admin.Public().(ed25519.PublicKey),
			GameMint:     global.GameMint,
			XntMint:      global.XntMint,
			StakingVault: vaultKey,
		})
		if err != nil {
			return err
		}

		if err := env.send(ctx, mining_arena.InstructionInitializeStakingPool, []ed25519.PrivateKey{admin, vault}, ixn); err != nil {
			return err
		}

		stakingPool, _, err := env.client.Program().GetStakingPoolAddress()
		if err != nil {
			return err
		}
		env.printKey("staking pool", stakingPool)
		env.printKey("staking vault", vaultKey)
		return nil
	},
}

var upsertBoostCommand = &command{
	name:  "upsert-boost",
	usage: "create or update a boost config",
	flags: func(fs *pflag.FlagSet) {
		uintFlag(fs, "boost-id", 8, 1, "boost id")
		uintFlag(fs, "boost-kind", 8, uint64(mining_arena.BoostKindMiningRewardBps), "0 mining reward, 1 mining points, 2 free rig ticket, 3 staking multiplier")
		uintFlag(fs, "boost-cost", 64, 0, "price in boost points")
		uintFlag(fs, "boost-value-bps", 16, 500, "boost value in bps")
		int64Flag(fs, "boost-duration", secondsPerDay, "boost duration in seconds")
		fs.String("boost-rig-id", "", "rig the boost is limited to (any rig when empty)")
	},
	envs: map[string]string{
		"boost-id":        "BOOST_ID",
		"boost-kind":      "BOOST_KIND",
		"boost-cost":      "BOOST_COST",
		"boost-value-bps": "BOOST_VALUE_BPS",
		"boost-duration":  "BOOST_DURATION",
		"boost-rig-id":    "BOOST_RIG_ID",
	},
	transaction: true,
	run: func(ctx context.Context, env *environment, p *params) error {
		admin, err := env.Wallet()
		if err != nil {
			return err
		}

		args := &mining_arena.UpsertBoostConfigInstructionArgs{}
		if args.ID, err = p.Uint8("boost-id"); err != nil {
			return err
		}
		kind, err := p.Uint8("boost-kind")
		if err != nil {
			return err
		}
		args.Kind = mining_arena.BoostKind(kind)
		if args.CostBoostPoints, err = p.Uint64("boost-cost"); err != nil {
			return err
		}
		if args.ValueBps, err = p.Uint16("boost-value-bps"); err != nil {
			return err
		}
		if args.DurationSeconds, err = p.Int64("boost-duration"); err != nil {
			return err
		}
		if len(p.String("boost-rig-id")) > 0 {
			rig, err := p.Uint8("boost-rig-id")
			if err != nil {
				return err
			}
			args.RigID = &rig
		}

		ixn, err := env.client.Program().NewUpsertBoostConfigInstruction(
			&mining_arena.UpsertBoostConfigInstructionAccounts{Admin: admin.Public().(ed25519.PublicKey)},
			args,
		)
		if err != nil {
			return err
		}

		if err := env.send(ctx, mining_arena.InstructionUpsertBoostConfig, []ed25519.PrivateKey{admin}, ixn); err != nil {
			return err
		}

		boostConfig, _, err := env.client.Program().GetBoostConfigAddress(args.ID)
		if err != nil {
			return err
		}
		env.printf("boost %d: kind=%s value_bps=%d duration=%ds cost=%d\n", args.ID, args.Kind, args.ValueBps, args.DurationSeconds, args.CostBoostPoints)
		env.printKey("boost config", boostConfig)
		return nil
	},
}

var grantBoostPointsCommand = &command{
	name:  "grant-boost-points",
	usage: "add boost points to a user (apply_ranking_results)",
	flags: func(fs *pflag.FlagSet) {
		fs.String("user", "", "user to grant points to (defaults to the wallet)")
		uintFlag(fs, "boost-points", 64, 1000, "boost points to add")
	},
	envs: map[string]string{
		"user":         "USER_PUBKEY",
		"boost-points": "BOOST_POINTS",
	},
	transaction: true,
	run: func(ctx context.Context, env *environment, p *params) error {
		admin, err := env.Wallet()
		if err != nil {
			return err
		}
		user, err := env.KeyOrWallet(p, "user")
		if err != nil {
			return err
		}
		points, err := p.Uint64("boost-points")
		if err != nil {
			return err
		}

		ixn, err := env.client.Program().NewApplyRankingResultsInstruction(
			&mining_arena.ApplyRankingResultsInstructionAccounts{Admin: admin.Public().(ed25519.PublicKey)},
			&mining_arena.ApplyRankingResultsInstructionArgs{User: user, AddedBoostPoints: points},
		)
		if err != nil {
			return err
		}

		if err := env.send(ctx, mining_arena.InstructionApplyRankingResults, []ed25519.PrivateKey{admin}, ixn); err != nil {
			return err
		}
		env.printf("granted %d boost points\n", points)
		env.printKey("user", user)
		return nil
	},
}

var resetDailyPointsCommand = &command{
	name:  "reset-daily-points",
	usage: "reset a user's daily points for a new day",
	flags: func(fs *pflag.FlagSet) {
		fs.String("user", "", "user to reset (defaults to the wallet)")
		fs.String("day-id", "", "day id, days since the unix epoch (defaults to today)")
	},
	envs: map[string]string{
		"user":   "USER_PUBKEY",
		"day-id": "DAY_ID",
	},
	transaction: true,
	run: func(ctx context.Context, env *environment, p *params) error {
		admin, err := env.Wallet()
		if err != nil {
			return err
		}
		user, err := env.KeyOrWallet(p, "user")
		if err != nil {
			return err
		}

		dayID := env.now().Unix() / secondsPerDay
		if len(p.String("day-id")) > 0 {
			if dayID, err = p.Int64("day-id"); err != nil {
				return err
			}
		}

		ixn, err := env.client.Program().NewResetDailyPointsInstruction(
			&mining_arena.ResetDailyPointsInstructionAccounts{
				Admin: admin.Public().(ed25519.PublicKey),
				User:  user,
			},
			&mining_arena.ResetDailyPointsInstructionArgs{DayID: dayID},
		)
		if err != nil {
			return err
		}

		if err := env.send(ctx, mining_arena.InstructionResetDailyPoints, []ed25519.PrivateKey{admin}, ixn); err != nil {
			return err
		}
		env.printf("day id: %d\n", dayID)
		return nil
	},
}

var updateHalvingCommand = &command{
	name:        "update-halving",
	usage:       "advance the halving level once the interval is reached",
	transaction: true,
	run: func(ctx context.Context, env *environment, p *params) error {
		admin, err := env.Wallet()
		if err != nil {
			return err
		}

		ixn, err := env.client.Program().NewUpdateHalvingInstruction(&mining_arena.UpdateHalvingInstructionAccounts{
			Admin: admin.Public().(ed25519.PublicKey),
		})
		if err != nil {
			return err
		}

		if err := env.send(ctx, mining_arena.InstructionUpdateHalving, []ed25519.PrivateKey{admin}, ixn); err != nil {
			return err
		}

		global, err := env.client.GetGlobalConfig(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to get global config")
		}
		env.printf("halving level: %d\n", global.HalvingLevel)
		return nil
	},
}
