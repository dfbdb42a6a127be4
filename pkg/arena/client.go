package arena

import (
	"bytes"
	"context"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/x1-mining-arena/arena-go/pkg/metrics"
	"github.com/x1-mining-arena/arena-go/pkg/solana"
	mining_arena "github.com/x1-mining-arena/arena-go/pkg/solana/arena"
)

const (
	metricsStructName = "arena.client"

	confirmationTimeMetricName = "Arena/Submit/ConfirmationTime"
	positionsListedMetricName  = "Arena/Positions/Listed"
	rejectionEventName         = "ArenaTransactionRejected"
)

var (
	// ErrAccountNotFound indicates the requested arena account does not exist.
	ErrAccountNotFound = errors.New("arena account not found")

	// ErrUnexpectedOwner indicates an account exists at an arena address, but
	// isn't owned by the arena program.
	ErrUnexpectedOwner = errors.New("account not owned by the arena program")
)

// Client reads and writes arena state through a Solana RPC client.
type Client struct {
	log     *logrus.Entry
	conf    *conf
	sc      solana.Client
	program mining_arena.Program
}

// NewClient returns a Client for the provided program deployment.
func NewClient(sc solana.Client, program mining_arena.Program, configProvider ConfigProvider) *Client {
	return &Client{
		log:     logrus.StandardLogger().WithField("type", "arena/client"),
		conf:    configProvider(),
		sc:      sc,
		program: program,
	}
}

// Program returns the arena deployment the client targets.
func (c *Client) Program() mining_arena.Program {
	return c.program
}

// Solana returns the underlying RPC client.
func (c *Client) Solana() solana.Client {
	return c.sc
}

func (c *Client) commitment(ctx context.Context) solana.Commitment {
	name := c.conf.commitment.Get(ctx)

	commitment, err := solana.ParseCommitment(name)
	if err != nil {
		c.log.WithField("commitment", name).Warn("unknown commitment, using confirmed")
		return solana.CommitmentConfirmed
	}
	return commitment
}

// GetGlobalConfig fetches the program's global configuration.
func (c *Client) GetGlobalConfig(ctx context.Context) (*mining_arena.GlobalConfigAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetGlobalConfig")
	defer tracer.End()

	address, _, err := c.program.GetGlobalConfigAddress()
	if err != nil {
		return nil, err
	}

	var account mining_arena.GlobalConfigAccount
	err = c.fetch(ctx, address, account.Unmarshal)
	tracer.OnError(err)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetStakingPool fetches the staking pool.
func (c *Client) GetStakingPool(ctx context.Context) (*mining_arena.StakingPoolAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetStakingPool")
	defer tracer.End()

	address, _, err := c.program.GetStakingPoolAddress()
	if err != nil {
		return nil, err
	}

	var account mining_arena.StakingPoolAccount
	err = c.fetch(ctx, address, account.Unmarshal)
	tracer.OnError(err)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetUserAccount fetches the user's stats account.
func (c *Client) GetUserAccount(ctx context.Context, user ed25519.PublicKey) (*mining_arena.UserAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetUserAccount")
	defer tracer.End()

	address, _, err := c.program.GetUserAccountAddress(user)
	if err != nil {
		return nil, err
	}

	var account mining_arena.UserAccount
	err = c.fetch(ctx, address, account.Unmarshal)
	tracer.OnError(err)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetUserStakePosition fetches one of the owner's stake positions.
func (c *Client) GetUserStakePosition(ctx context.Context, owner ed25519.PublicKey, ref mining_arena.PositionRef) (*mining_arena.UserStakePositionAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetUserStakePosition")
	defer tracer.End()
	tracer.AddAttribute("position", ref.String())

	address, _, err := c.program.GetUserStakeAddress(owner, ref)
	if err != nil {
		return nil, err
	}

	var account mining_arena.UserStakePositionAccount
	err = c.fetch(ctx, address, account.Unmarshal)
	tracer.OnError(err)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetBoostConfig fetches the configuration of a purchasable boost.
func (c *Client) GetBoostConfig(ctx context.Context, id uint8) (*mining_arena.BoostConfigAccount, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "GetBoostConfig")
	defer tracer.End()

	address, _, err := c.program.GetBoostConfigAddress(id)
	if err != nil {
		return nil, err
	}

	var account mining_arena.BoostConfigAccount
	err = c.fetch(ctx, address, account.Unmarshal)
	tracer.OnError(err)
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (c *Client) fetch(ctx context.Context, address ed25519.PublicKey, unmarshal func([]byte) error) error {
	log := c.log.WithFields(logrus.Fields{
		"method":  "fetch",
		"address": base58.Encode(address),
	})

	info, err := c.sc.GetAccountInfo(ctx, address, c.commitment(ctx))
	if errors.Is(err, solana.ErrNoAccountInfo) {
		return ErrAccountNotFound
	} else if err != nil {
		log.WithError(err).Warn("failure getting account info")
		return errors.Wrap(err, "failed to get account info")
	}

	if !bytes.Equal(info.Owner, c.program.ID()) {
		return ErrUnexpectedOwner
	}

	if err := unmarshal(info.Data); err != nil {
		log.WithError(err).Warn("failure decoding account")
		return errors.Wrapf(err, "failed to decode account %s", base58.Encode(address))
	}
	return nil
}
