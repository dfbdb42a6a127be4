package main

import (
	"bytes"
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"testing"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/x1-mining-arena/arena-go/pkg/arena"
	"github.com/x1-mining-arena/arena-go/pkg/solana"
	mining_arena "github.com/x1-mining-arena/arena-go/pkg/solana/arena"
	"github.com/x1-mining-arena/arena-go/pkg/solana/binary"
	compute_budget "github.com/x1-mining-arena/arena-go/pkg/solana/computebudget"
	"github.com/x1-mining-arena/arena-go/pkg/solana/memo"
	"github.com/x1-mining-arena/arena-go/pkg/solana/memory"
	"github.com/x1-mining-arena/arena-go/pkg/solana/token"
	"github.com/x1-mining-arena/arena-go/pkg/testutil"
)

var commandEnvs = []string{
	"POSITION_ID", "STAKE_AMOUNT", "LOCK_DAYS", "RIG_ID", "BOOST_ID", "BOOST_KIND",
	"BOOST_COST", "BOOST_VALUE_BPS", "BOOST_DURATION", "BOOST_RIG_ID", "USER_PUBKEY",
	"BOOST_POINTS", "AMOUNT", "DAY_ID", "SIGNATURE", "GAME_MINT_KEYPAIR", "XNT_MINT",
	"COMPUTE_UNIT_LIMIT", "COMPUTE_UNIT_PRICE", "TX_MEMO",
}

type cliEnv struct {
	ctx     context.Context
	sc      *memory.Client
	program mining_arena.Program
	wallet  ed25519.PrivateKey
	global  *mining_arena.GlobalConfigAccount
	pool    *mining_arena.StakingPoolAccount
	out     *bytes.Buffer
	env     *environment
}

func setupCLI(t *testing.T) *cliEnv {
	for _, name := range commandEnvs {
		t.Setenv(name, "")
	}

	_, wallet, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	sc := memory.NewClient()
	program := mining_arena.DefaultProgram()
	out := &bytes.Buffer{}

	c := &cliEnv{
		ctx:     context.Background(),
		sc:      sc,
		program: program,
		wallet:  wallet,
		out:     out,
		global: &mining_arena.GlobalConfigAccount{
			Admin:            wallet.Public().(ed25519.PublicKey),
			GameMint:         testutil.GenerateSolanaKey(t),
			XntMint:          token.NativeMint,
			TreasuryXntVault: testutil.GenerateSolanaKey(t),
			HalvingInterval:  mining_arena.DefaultHalvingInterval,
			StakingShareBps:  mining_arena.DefaultStakingShareBps,
		},
		env: &environment{
			log:    logrus.StandardLogger().WithField("type", "cmd/arena"),
			client: arena.NewClient(sc, program, arena.WithEnvConfigs()),
			out:    out,
			now:    func() time.Time { return time.Unix(1_700_000_000, 0) },
			loadWallet: func() (ed25519.PrivateKey, error) {
				return wallet, nil
			},
		},
	}

	c.pool = &mining_arena.StakingPoolAccount{
		TokenMint:         c.global.GameMint,
		XntMint:           c.global.XntMint,
		StakingVault:      testutil.GenerateSolanaKey(t),
		TreasuryXntVault:  c.global.TreasuryXntVault,
		AccRewardPerShare: binary.NewUint128(2 * mining_arena.Precision),
	}

	globalConfig, _, err := program.GetGlobalConfigAddress()
	require.NoError(t, err)
	c.setArenaAccount(globalConfig, c.global.Marshal())

	stakingPool, _, err := program.GetStakingPoolAddress()
	require.NoError(t, err)
	c.setArenaAccount(stakingPool, c.pool.Marshal())

	return c
}

func (c *cliEnv) setArenaAccount(address ed25519.PublicKey, data []byte) {
	c.sc.SetAccount(address, solana.AccountInfo{
		Owner:    c.program.ID(),
		Data:     data,
		Lamports: 1,
	})
}

func (c *cliEnv) walletKey() ed25519.PublicKey {
	return c.wallet.Public().(ed25519.PublicKey)
}

func (c *cliEnv) exec(t *testing.T, name string, args ...string) error {
	cmd, ok := commands[name]
	require.True(t, ok, name)

	fs := cmd.flagSet()
	require.NoError(t, fs.Parse(args))

	p, err := cmd.params(fs)
	require.NoError(t, err)

	if err := cmd.configure(c.env, p); err != nil {
		return err
	}
	return cmd.run(c.ctx, c.env, p)
}

// instructionNames returns the arena instructions of a submitted transaction
// in order, with other programs' instructions as "".
func (c *cliEnv) instructionNames(txn solana.Transaction) []string {
	var names []string
	for _, ixn := range txn.Message.Instructions {
		name := ""
		if bytes.Equal(txn.Message.Accounts[ixn.ProgramIndex], c.program.ID()) {
			name, _ = mining_arena.ParseInstructionName(ixn.Data)
		}
		names = append(names, name)
	}
	return names
}

func hasAccount(txn solana.Transaction, key ed25519.PublicKey) bool {
	for _, account := range txn.Message.Accounts {
		if bytes.Equal(account, key) {
			return true
		}
	}
	return false
}


func TestCommandsRegistered(t *testing.T) {
	for _, name := range []string{
		"init-global", "init-treasury", "init-staking", "mine", "stake", "claim",
		"unstake", "upsert-boost", "activate-boost", "grant-boost-points",
		"reset-daily-points", "update-halving", "list-positions", "show",
		"wrap-xnt", "unwrap-xnt", "events",
	} {
		assert.Contains(t, commands, name)
	}
}

func TestRun_Usage(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), nil, &out))
	assert.Contains(t, out.String(), "list-positions")

	out.Reset()
	err := run(context.Background(), []string{"dig"}, &out)
	assert.Error(t, err)
	assert.Contains(t, out.String(), "usage")
}

func TestStake(t *testing.T) {
	c := setupCLI(t)

	require.NoError(t, c.exec(t, "stake"))

	submitted := c.sc.Submitted()
	require.Len(t, submitted, 1)
	txn := submitted[0]

	// Both associated accounts are created ahead of the stake.
	assert.Equal(t, []string{"", "", mining_arena.InstructionStake}, c.instructionNames(txn))
	assert.True(t, hasAccount(txn, c.pool.StakingVault))

	position, _, err := c.program.GetUserStakeAddress(c.walletKey(), mining_arena.IndexedPosition(1))
	require.NoError(t, err)
	assert.True(t, hasAccount(txn, position))
	assert.Contains(t, c.out.String(), base58.Encode(position))
	assert.Contains(t, c.out.String(), "10000000.00")
	assert.Contains(t, c.out.String(), "effective stake 1050000000 (lock 10500 bps, boost 10000 bps)")
}

func TestStake_NextPosition(t *testing.T) {
	c := setupCLI(t)

	user := &mining_arena.UserAccount{Owner: c.walletKey(), NextPositionID: 4}
	userAddress, _, err := c.program.GetUserAccountAddress(c.walletKey())
	require.NoError(t, err)
	c.setArenaAccount(userAddress, user.Marshal())

	t.Setenv("LOCK_DAYS", "30")
	t.Setenv("STAKE_AMOUNT", "500")
	require.NoError(t, c.exec(t, "stake"))

	position, _, err := c.program.GetUserStakeAddress(c.walletKey(), mining_arena.IndexedPosition(4))
	require.NoError(t, err)
	require.Len(t, c.sc.Submitted(), 1)
	assert.True(t, hasAccount(c.sc.Submitted()[0], position))
	assert.Contains(t, c.out.String(), "staked 5.00 for 30 days")
	assert.Contains(t, c.out.String(), "effective stake 600 (lock 12000 bps, boost 10000 bps)")

	assert.ErrorIs(t, c.exec(t, "stake", "--lock-days", "8"), mining_arena.ErrInvalidArgument)
	assert.Len(t, c.sc.Submitted(), 1)
}

func TestClaimAndUnstake_Position(t *testing.T) {
	c := setupCLI(t)

	for _, name := range []string{"claim", "unstake"} {
		err := c.exec(t, name)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "position-id")
	}
	assert.Empty(t, c.sc.Submitted())

	legacy, _, err := c.program.GetUserStakeAddress(c.walletKey(), mining_arena.LegacyPosition())
	require.NoError(t, err)
	require.NoError(t, c.exec(t, "claim", "--position-id", "0"))

	t.Setenv("POSITION_ID", "2")
	indexed, _, err := c.program.GetUserStakeAddress(c.walletKey(), mining_arena.IndexedPosition(2))
	require.NoError(t, err)
	require.NoError(t, c.exec(t, "unstake"))

	submitted := c.sc.Submitted()
	require.Len(t, submitted, 2)
	assert.True(t, hasAccount(submitted[0], legacy))
	assert.Equal(t, []string{"", mining_arena.InstructionClaim}, c.instructionNames(submitted[0]))
	assert.True(t, hasAccount(submitted[1], indexed))
	assert.Equal(t, []string{"", "", mining_arena.InstructionUnstake}, c.instructionNames(submitted[1]))
}

func TestMine_DryRun(t *testing.T) {
	c := setupCLI(t)

	require.NoError(t, c.exec(t, "mine", "--dry-run", "--rig-id", "2"))
	assert.Empty(t, c.sc.Submitted())
	assert.Contains(t, c.out.String(), "simulation")

	assert.ErrorIs(t, c.exec(t, "mine", "--rig-id", "9"), mining_arena.ErrInvalidArgument)
}

func TestMine_Boosts(t *testing.T) {
	c := setupCLI(t)

	rig1, rig2 := uint8(1), uint8(2)
	user := &mining_arena.UserAccount{
		Owner: c.walletKey(),
		ActiveBoosts: []mining_arena.UserBoost{
			{BoostID: 1, Kind: mining_arena.BoostKindMiningRewardBps, ValueBps: 500},
			{BoostID: 2, Kind: mining_arena.BoostKindMiningPointsBps, ValueBps: 700, RigID: &rig2},
			{BoostID: 3, Kind: mining_arena.BoostKindMiningRewardBps, ValueBps: 900, RigID: &rig1},
			{BoostID: 4, Kind: mining_arena.BoostKindStakingMultiplierBps, ValueBps: 11_000, AppliedToStaking: true},
		},
	}
	userAddress, _, err := c.program.GetUserAccountAddress(c.walletKey())
	require.NoError(t, err)
	c.setArenaAccount(userAddress, user.Marshal())

	require.NoError(t, c.exec(t, "mine", "--rig-id", "2"))
	out := c.out.String()
	assert.Contains(t, out, "boost 1 applies: mining_reward_bps 500 bps")
	assert.Contains(t, out, "boost 2 applies: mining_points_bps 700 bps")
	assert.NotContains(t, out, "boost 3 applies")
	assert.NotContains(t, out, "boost 4 applies")

	require.NoError(t, c.exec(t, "stake", "--lock-days", "014", "--amount", "1000"))
	assert.Contains(t, c.out.String(), "effective stake 1210 (lock 11000 bps, boost 11000 bps)")
}

func TestMine_Rejected(t *testing.T) {
	c := setupCLI(t)

	txErr, err := solana.ParseTransactionError(map[string]interface{}{
		"InstructionError": []interface{}{2.0, map[string]interface{}{"Custom": float64(mining_arena.ProgramErrorInvalidRig)}},
	})
	require.NoError(t, err)
	c.sc.SetProcessor(func(solana.Transaction) (*solana.TransactionError, error) {
		return nil, txErr
	})

	err = c.exec(t, "mine")
	require.Error(t, err)

	var rejection *arena.RemoteRejection
	require.True(t, errors.As(err, &rejection))
	programErr, ok := rejection.ProgramError()
	require.True(t, ok)
	assert.Equal(t, mining_arena.ProgramErrorInvalidRig, programErr)

	err = c.exec(t, "mine", "--dry-run")
	assert.ErrorIs(t, err, txErr)
}

func TestWrapXnt(t *testing.T) {
	c := setupCLI(t)

	t.Setenv("AMOUNT", "1.5")
	require.NoError(t, c.exec(t, "wrap-xnt"))
	require.Len(t, c.sc.Submitted(), 1)
	assert.Len(t, c.sc.Submitted()[0].Message.Instructions, 3)
	assert.Contains(t, c.out.String(), "wrapped 1.500000000 XNT")

	assert.Error(t, c.exec(t, "wrap-xnt", "--amount", "0"))
}

func TestUnwrapXnt(t *testing.T) {
	c := setupCLI(t)
	owner := c.wallet.Public().(ed25519.PublicKey)

	assert.ErrorIs(t, c.exec(t, "unwrap-xnt"), arena.ErrNothingToUnwrap)
	assert.Empty(t, c.sc.Submitted())

	address, err := token.GetAssociatedAccount(owner, token.NativeMint)
	require.NoError(t, err)
	account := token.Account{Mint: token.NativeMint, Owner: owner, Amount: 2_500_000_000, State: token.AccountStateInitialized}
	c.sc.SetAccount(address, solana.AccountInfo{Owner: token.ProgramKey, Data: account.Marshal()})

	require.NoError(t, c.exec(t, "unwrap-xnt"))
	require.Len(t, c.sc.Submitted(), 1)

	closed, err := token.DecompileCloseAccount(c.sc.Submitted()[0].Message, 0)
	require.NoError(t, err)
	assert.Equal(t, address, closed.Account)
	assert.Contains(t, c.out.String(), "unwrapped 2.500000000 XNT")
}

func TestAdminCommands(t *testing.T) {
	c := setupCLI(t)
	user := testutil.GenerateSolanaKey(t)

	require.NoError(t, c.exec(t, "upsert-boost", "--boost-id", "3", "--boost-rig-id", "2"))
	assert.ErrorIs(t, c.exec(t, "upsert-boost", "--boost-kind", "9"), mining_arena.ErrInvalidArgument)
	assert.ErrorIs(t, c.exec(t, "upsert-boost", "--boost-value-bps", "10001"), mining_arena.ErrInvalidArgument)

	t.Setenv("USER_PUBKEY", base58.Encode(user))
	require.NoError(t, c.exec(t, "grant-boost-points"))
	require.NoError(t, c.exec(t, "reset-daily-points"))
	require.NoError(t, c.exec(t, "update-halving"))
	require.NoError(t, c.exec(t, "init-treasury"))
	require.NoError(t, c.exec(t, "init-staking"))

	submitted := c.sc.Submitted()
	require.Len(t, submitted, 6)
	assert.Equal(t, []string{mining_arena.InstructionUpsertBoostConfig}, c.instructionNames(submitted[0]))
	assert.Equal(t, []string{mining_arena.InstructionApplyRankingResults}, c.instructionNames(submitted[1]))
	assert.True(t, hasAccount(submitted[1], user))
	assert.Equal(t, []string{mining_arena.InstructionResetDailyPoints}, c.instructionNames(submitted[2]))
	assert.Equal(t, []string{mining_arena.InstructionUpdateHalving}, c.instructionNames(submitted[3]))

	// Vaults are fresh keypairs that sign alongside the admin.
	for _, txn := range submitted[4:] {
		assert.EqualValues(t, 2, txn.Message.Header.NumSignatures)
	}

	assert.Contains(t, c.out.String(), "day id: 19675")
}

func TestListPositions(t *testing.T) {
	c := setupCLI(t)

	position := &mining_arena.UserStakePositionAccount{
		Owner:             c.walletKey(),
		AmountStaked:      1_000,
		LockMultiplierBps: mining_arena.BpsDenominator,
		EffectiveStake:    mining_arena.EffectiveStake(1_000, mining_arena.BpsDenominator, mining_arena.BpsDenominator),
		LockUntilTs:       1_600_000_000,
	}
	address, _, err := c.program.GetUserStakeAddress(c.walletKey(), mining_arena.LegacyPosition())
	require.NoError(t, err)
	c.setArenaAccount(address, position.Marshal())

	require.NoError(t, c.exec(t, "list-positions"))
	assert.Contains(t, c.out.String(), base58.Encode(address))
	assert.Contains(t, c.out.String(), "legacy")
	assert.Contains(t, c.out.String(), "unlocked")

	c.out.Reset()
	require.NoError(t, c.exec(t, "list-positions", "--owner", base58.Encode(testutil.GenerateSolanaKey(t))))
	assert.Contains(t, c.out.String(), "no staking positions")
}

func TestShow(t *testing.T) {
	c := setupCLI(t)

	require.NoError(t, c.exec(t, "show", "--boost-id", "1"))
	assert.Contains(t, c.out.String(), "GlobalConfigAccount{")
	assert.Contains(t, c.out.String(), "StakingPoolAccount{")
	assert.Contains(t, c.out.String(), "boost 1 not configured")
	assert.Contains(t, c.out.String(), "no user account")
}

func TestEvents(t *testing.T) {
	c := setupCLI(t)
	user := testutil.GenerateSolanaKey(t)

	body := binary.NewEncoder(64).
		PutBytes(mining_arena.EventDiscriminator("RankingAppliedEvent")).
		PutKey32(user).
		PutUint64(250).
		Bytes()

	var sig solana.Signature
	sig[0] = 1
	c.sc.SetLogs(sig, []string{
		"Program log: Instruction: ApplyRankingResults",
		mining_arena.ProgramDataLogPrefix + base64.StdEncoding.EncodeToString(body),
	})

	require.NoError(t, c.exec(t, "events", "--signature", sig.String()))
	assert.Contains(t, c.out.String(), "RankingAppliedEvent user="+base58.Encode(user)+" boost_points=250")

	assert.Error(t, c.exec(t, "events"))
	assert.Error(t, c.exec(t, "events", "--signature", "abc"))
}

func TestTransactionOptions(t *testing.T) {
	c := setupCLI(t)

	t.Setenv("TX_MEMO", "weekly ranking")
	require.NoError(t, c.exec(t, "update-halving", "--compute-unit-price", "5000", "--compute-unit-limit", "100000"))
	require.Len(t, c.sc.Submitted(), 1)
	txn := c.sc.Submitted()[0]

	budget, err := compute_budget.DecompileBudget(txn.Message)
	require.NoError(t, err)
	assert.EqualValues(t, 100_000, budget.ComputeUnitLimit)
	assert.EqualValues(t, 5_000, budget.ComputeUnitPrice)

	assert.Equal(t, []string{"", "", mining_arena.InstructionUpdateHalving, ""}, c.instructionNames(txn))
	decompiled, err := memo.DecompileMemo(txn.Message, 3)
	require.NoError(t, err)
	assert.Equal(t, "weekly ranking", string(decompiled.Data))

	// Options don't carry over to the next command.
	t.Setenv("TX_MEMO", "")
	require.NoError(t, c.exec(t, "update-halving"))
	require.Len(t, c.sc.Submitted(), 2)
	assert.Len(t, c.sc.Submitted()[1].Message.Instructions, 1)

	assert.Error(t, c.exec(t, "update-halving", "--compute-unit-limit", "2000000"))
}
