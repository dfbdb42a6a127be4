package arena

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"sort"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/x1-mining-arena/arena-go/pkg/metrics"
	"github.com/x1-mining-arena/arena-go/pkg/solana"
	mining_arena "github.com/x1-mining-arena/arena-go/pkg/solana/arena"
)

// ownerOffset is where the owner key starts in a stake position account.
const ownerOffset = 8

// PositionSummary is a stake position with its reward state resolved against
// the current staking pool.
type PositionSummary struct {
	Address ed25519.PublicKey
	// ExpectedAddress is the address derived from the stored position id. It
	// differs from Address only for accounts created at an unexpected seed.
	ExpectedAddress ed25519.PublicKey
	Legacy          bool
	PendingReward   uint64
	Account         *mining_arena.UserStakePositionAccount
}

func (s *PositionSummary) Position() mining_arena.PositionRef {
	return s.Account.Position()
}

// NextPositionRef returns the position a new stake by owner will create. It
// is the first indexed position when the user account doesn't exist yet.
func (c *Client) NextPositionRef(ctx context.Context, owner ed25519.PublicKey) (mining_arena.PositionRef, error) {
	user, err := c.GetUserAccount(ctx, owner)
	if err == ErrAccountNotFound {
		return mining_arena.IndexedPosition(1), nil
	} else if err != nil {
		return mining_arena.PositionRef{}, err
	}
	return user.NextPosition(), nil
}

// ListPositions returns all of owner's stake positions ordered by position id.
func (c *Client) ListPositions(ctx context.Context, owner ed25519.PublicKey) ([]*PositionSummary, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "ListPositions")
	defer tracer.End()

	log := c.log.WithFields(logrus.Fields{
		"method": "ListPositions",
		"owner":  base58.Encode(owner),
	})

	legacyAddress, _, err := c.program.GetUserStakeAddress(owner, mining_arena.LegacyPosition())
	if err != nil {
		return nil, err
	}

	var pool *mining_arena.StakingPoolAccount
	var accounts []solana.KeyedAccount

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pool, err = c.GetStakingPool(gctx)
		return errors.Wrap(err, "failed to get staking pool")
	})
	g.Go(func() error {
		var err error
		accounts, err = c.sc.GetProgramAccounts(
			gctx,
			c.program.ID(),
			c.commitment(gctx),
			solana.MemcmpFilter(0, mining_arena.AccountDiscriminator(mining_arena.AccountKindUserStakePosition)),
			solana.MemcmpFilter(ownerOffset, owner),
		)
		return errors.Wrap(err, "failed to get program accounts")
	})
	if err := g.Wait(); err != nil {
		tracer.OnError(err)
		log.WithError(err).Warn("failure listing positions")
		return nil, err
	}

	summaries := make([]*PositionSummary, 0, len(accounts))
	for _, keyed := range accounts {
		var position mining_arena.UserStakePositionAccount
		if err := position.Unmarshal(keyed.Account.Data); err != nil {
			log.WithError(err).WithField("address", base58.Encode(keyed.PublicKey)).Warn("skipping undecodable position")
			continue
		}

		// Filters are applied by the RPC node, so check again.
		if !bytes.Equal(position.Owner, owner) {
			continue
		}

		expected, _, err := c.program.GetUserStakeAddress(owner, position.Position())
		if err != nil {
			return nil, err
		}

		summaries = append(summaries, &PositionSummary{
			Address:         keyed.PublicKey,
			ExpectedAddress: expected,
			Legacy:          position.Position().IsLegacy() || bytes.Equal(keyed.PublicKey, legacyAddress),
			PendingReward:   mining_arena.PendingReward(&position, pool),
			Account:         &position,
		})
	}

	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].Account.PositionID < summaries[j].Account.PositionID
	})

	tracer.AddAttribute("positions", len(summaries))
	metrics.RecordCount(ctx, positionsListedMetricName, uint64(len(summaries)))
	return summaries, nil
}

// GetPositions fetches the referenced positions concurrently. Positions that
// don't exist are omitted from the result, which keeps the order of refs.
func (c *Client) GetPositions(ctx context.Context, owner ed25519.PublicKey, refs ...mining_arena.PositionRef) ([]*PositionSummary, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetPositions")
	defer tracer.End()

	pool, err := c.GetStakingPool(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get staking pool")
	}

	results := make([]*PositionSummary, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(int(max(c.conf.maxPositionFetchConcurrency.Get(ctx), 1)))
	for i, ref := range refs {
		g.Go(func() error {
			address, _, err := c.program.GetUserStakeAddress(owner, ref)
			if err != nil {
				return err
			}

			position, err := c.GetUserStakePosition(gctx, owner, ref)
			if err == ErrAccountNotFound {
				return nil
			} else if err != nil {
				return errors.Wrapf(err, "failed to get position %s", ref)
			}

			results[i] = &PositionSummary{
				Address:         address,
				ExpectedAddress: address,
				Legacy:          ref.IsLegacy(),
				PendingReward:   mining_arena.PendingReward(position, pool),
				Account:         position,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		tracer.OnError(err)
		return nil, err
	}

	summaries := make([]*PositionSummary, 0, len(refs))
	for _, s := range results {
		if s != nil {
			summaries = append(summaries, s)
		}
	}
	return summaries, nil
}
