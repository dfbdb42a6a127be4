package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/x1-mining-arena/arena-go/pkg/arena"
	"github.com/x1-mining-arena/arena-go/pkg/solana"
	mining_arena "github.com/x1-mining-arena/arena-go/pkg/solana/arena"
)

func init() {
	register(
		listPositionsCommand,
		showCommand,
		eventsCommand,
	)
}

var listPositionsCommand = &command{
	name:  "list-positions",
	usage: "list stake positions and their pending rewards",
	flags: func(fs *pflag.FlagSet) {
		fs.String("owner", "", "position owner (defaults to the wallet)")
	},
	envs: map[string]string{"owner": "USER_PUBKEY"},
	run: func(ctx context.Context, env *environment, p *params) error {
		owner, err := env.KeyOrWallet(p, "owner")
		if err != nil {
			return err
		}

		positions, err := env.client.ListPositions(ctx, owner)
		if err != nil {
			return err
		}
		if len(positions) == 0 {
			env.printf("no staking positions found for %s\n", base58.Encode(owner))
			return nil
		}

		now := env.now().Unix()
		env.printf("positions of %s\n", base58.Encode(owner))

		w := tabwriter.NewWriter(env.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "POSITION\tADDRESS\tSTAKED\tLOCK\tUNLOCKS\tPENDING XNT")
		for _, summary := range positions {
			position := summary.Account

			label := summary.Position().String()
			if summary.Legacy && !summary.Position().IsLegacy() {
				label += " at legacy address"
			}

			unlocks := time.Unix(position.LockUntilTs, 0).UTC().Format(time.RFC3339)
			if !position.IsLocked(now) {
				unlocks = "unlocked"
			}

			fmt.Fprintf(w, "%s\t%s\t%s\t%d bps\t%s\t%s\n",
				label,
				base58.Encode(summary.Address),
				formatAmount(position.AmountStaked, mining_arena.GameDecimals),
				position.LockMultiplierBps,
				unlocks,
				formatAmount(summary.PendingReward, mining_arena.XntDecimals),
			)
		}
		return w.Flush()
	},
}

var showCommand = &command{
	name:  "show",
	usage: "print the global config, staking pool and a user's account",
	flags: func(fs *pflag.FlagSet) {
		fs.String("user", "", "user to show (defaults to the wallet)")
		fs.String("boost-id", "", "also show this boost config")
	},
	envs: map[string]string{
		"user":     "USER_PUBKEY",
		"boost-id": "BOOST_ID",
	},
	run: func(ctx context.Context, env *environment, p *params) error {
		global, err := env.client.GetGlobalConfig(ctx)
		if err != nil {
			return errors.Wrap(err, "failed to get global config")
		}
		env.printf("%s\n", global)

		pool, err := env.client.GetStakingPool(ctx)
		switch err {
		case nil:
			env.printf("%s\n", pool)
		case arena.ErrAccountNotFound:
			env.printf("staking pool not initialized\n")
		default:
			return errors.Wrap(err, "failed to get staking pool")
		}

		if len(p.String("boost-id")) > 0 {
			boostID, err := p.Uint8("boost-id")
			if err != nil {
				return err
			}
			boost, err := env.client.GetBoostConfig(ctx, boostID)
			switch err {
			case nil:
				env.printf("%s\n", boost)
			case arena.ErrAccountNotFound:
				env.printf("boost %d not configured\n", boostID)
			default:
				return errors.Wrap(err, "failed to get boost config")
			}
		}

		user, err := env.KeyOrWallet(p, "user")
		if err != nil {
			return err
		}
		account, err := env.client.GetUserAccount(ctx, user)
		switch err {
		case nil:
		case arena.ErrAccountNotFound:
			env.printf("no user account for %s\n", base58.Encode(user))
			return nil
		default:
			return errors.Wrap(err, "failed to get user account")
		}

		now := env.now().Unix()
		env.printf("%s\n", account)
		env.printf("staking multiplier: %d bps\n", mining_arena.StakingMultiplierBps(account, now))
		for _, boost := range account.LiveBoosts(now) {
			rig := "any rig"
			if boost.RigID != nil {
				rig = fmt.Sprintf("rig %d", *boost.RigID)
			}
			env.printf("  boost %d: %s %d bps on %s until %s\n",
				boost.BoostID,
				boost.Kind,
				boost.ValueBps,
				rig,
				time.Unix(boost.ExpiresAtTs, 0).UTC().Format(time.RFC3339),
			)
		}
		return nil
	},
}

var eventsCommand = &command{
	name:  "events",
	usage: "decode the arena events emitted by a transaction",
	flags: func(fs *pflag.FlagSet) {
		fs.String("signature", "", "transaction signature")
	},
	envs: map[string]string{"signature": "SIGNATURE"},
	run: func(ctx context.Context, env *environment, p *params) error {
		raw := p.String("signature")
		if len(raw) == 0 {
			return errors.New("signature (or SIGNATURE) is required")
		}
		decoded, err := base58.Decode(raw)
		if err != nil || len(decoded) != len(solana.Signature{}) {
			return errors.Errorf("invalid signature %s", raw)
		}

		var sig solana.Signature
		copy(sig[:], decoded)

		events, err := env.client.Events(ctx, sig)
		if err != nil {
			return err
		}
		if len(events) == 0 {
			env.printf("no arena events in %s\n", sig)
			return nil
		}
		for _, event := range events {
			env.printf("%s\n", describeEvent(event))
		}
		return nil
	},
}

func describeEvent(event mining_arena.Event) string {
	switch e := event.(type) {
	case mining_arena.MiningEvent:
		return fmt.Sprintf("%s user=%s rig=%d deposit=%s XNT reward=%s GAME free_rig=%t",
			e.Name(),
			base58.Encode(e.User),
			e.RigID,
			formatAmount(e.DepositXnt, mining_arena.XntDecimals),
			formatAmount(e.RewardGame, mining_arena.GameDecimals),
			e.UsedFreeRig,
		)
	case mining_arena.StakeEvent:
		return fmt.Sprintf("%s owner=%s position=%d amount=%s GAME lock_days=%d effective=%s",
			e.Name(),
			base58.Encode(e.Owner),
			e.PositionID,
			formatAmount(e.Amount, mining_arena.GameDecimals),
			e.LockDays,
			e.Effective,
		)
	case mining_arena.UnstakeEvent:
		return fmt.Sprintf("%s owner=%s position=%d amount=%s GAME",
			e.Name(),
			base58.Encode(e.Owner),
			e.PositionID,
			formatAmount(e.Amount, mining_arena.GameDecimals),
		)
	case mining_arena.ClaimEvent:
		return fmt.Sprintf("%s owner=%s position=%d rewards=%s XNT",
			e.Name(),
			base58.Encode(e.Owner),
			e.PositionID,
			formatAmount(e.RewardsClaimed, mining_arena.XntDecimals),
		)
	case mining_arena.BoostActivatedEvent:
		return fmt.Sprintf("%s user=%s boost=%d expires=%s",
			e.Name(),
			base58.Encode(e.User),
			e.BoostID,
			time.Unix(e.ExpiresAt, 0).UTC().Format(time.RFC3339),
		)
	case mining_arena.RankingAppliedEvent:
		return fmt.Sprintf("%s user=%s boost_points=%d",
			e.Name(),
			base58.Encode(e.User),
			e.AddedBoostPoints,
		)
	default:
		return event.Name()
	}
}
