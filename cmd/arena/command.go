package main

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/x1-mining-arena/arena-go/pkg/arena"
	"github.com/x1-mining-arena/arena-go/pkg/solana"
	compute_budget "github.com/x1-mining-arena/arena-go/pkg/solana/computebudget"
	"github.com/x1-mining-arena/arena-go/pkg/solana/memo"
)

type command struct {
	name  string
	usage string

	// flags registers the command's own flags. envs maps flag names to the
	// environment variables consulted when the flag isn't set.
	flags func(fs *pflag.FlagSet)
	envs  map[string]string

	// transaction commands accept --dry-run.
	transaction bool

	run func(ctx context.Context, env *environment, p *params) error
}

var commands = map[string]*command{}

func register(cmds ...*command) {
	for _, cmd := range cmds {
		if _, exists := commands[cmd.name]; exists {
			panic(fmt.Sprintf("command %s already registered", cmd.name))
		}
		commands[cmd.name] = cmd
	}
}

func commandNames() []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// transactionEnvs are the environment fallbacks of every transaction command.
var transactionEnvs = map[string]string{
	"compute-unit-limit": "COMPUTE_UNIT_LIMIT",
	"compute-unit-price": "COMPUTE_UNIT_PRICE",
	"memo":               "TX_MEMO",
}

func (c *command) flagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("arena "+c.name, pflag.ContinueOnError)
	if c.transaction {
		fs.Bool("dry-run", false, "simulate the transaction instead of submitting it")
		uintFlag(fs, "compute-unit-limit", 32, 0, "compute unit limit to request (0 for the default)")
		uintFlag(fs, "compute-unit-price", 64, 0, "priority fee in micro-lamports per compute unit")
		fs.String("memo", "", "memo to attach to the transaction")
	}
	if c.flags != nil {
		c.flags(fs)
	}
	return fs
}

func (c *command) params(fs *pflag.FlagSet) (*params, error) {
	envs := make(map[string]string, len(c.envs)+len(transactionEnvs))
	if c.transaction {
		for name, env := range transactionEnvs {
			envs[name] = env
		}
	}
	for name, env := range c.envs {
		envs[name] = env
	}
	return newParams(fs, envs)
}

// configure applies the transaction options in p to env.
func (c *command) configure(env *environment, p *params) error {
	env.dryRun = false
	env.extra = nil
	env.memo = nil
	if !c.transaction {
		return nil
	}

	env.dryRun = p.Bool("dry-run")

	limit, err := p.Uint32("compute-unit-limit")
	if err != nil {
		return err
	}
	price, err := p.Uint64("compute-unit-price")
	if err != nil {
		return err
	}
	if env.extra, err = compute_budget.Budget(limit, price); err != nil {
		return err
	}

	if text := p.String("memo"); len(text) > 0 {
		ixn, err := memo.Instruction(text)
		if err != nil {
			return err
		}
		env.memo = &ixn
	}
	return nil
}

// environment is what a command runs against.
type environment struct {
	log    *logrus.Entry
	client *arena.Client
	out    io.Writer
	now    func() time.Time

	dryRun bool
	// extra instructions run ahead of every submitted transaction, and memo
	// is appended when set.
	extra []solana.Instruction
	memo  *solana.Instruction

	loadWallet func() (ed25519.PrivateKey, error)
	walletOnce sync.Once
	wallet     ed25519.PrivateKey
	walletErr  error
}

// Wallet returns the configured signer, loading it on first use.
func (e *environment) Wallet() (ed25519.PrivateKey, error) {
	e.walletOnce.Do(func() {
		e.wallet, e.walletErr = e.loadWallet()
	})
	return e.wallet, e.walletErr
}

// KeyOrWallet returns the named key parameter, or the wallet's public key
// when it isn't set.
func (e *environment) KeyOrWallet(p *params, name string) (ed25519.PublicKey, error) {
	key, err := p.Key(name)
	if err != nil || key != nil {
		return key, err
	}

	wallet, err := e.Wallet()
	if err != nil {
		return nil, err
	}
	return wallet.Public().(ed25519.PublicKey), nil
}

func (e *environment) printf(format string, args ...interface{}) {
	fmt.Fprintf(e.out, format, args...)
}

func (e *environment) printKey(label string, key ed25519.PublicKey) {
	e.printf("%s: %s\n", label, base58.Encode(key))
}

// send submits the instructions signed by signers, the first of which pays.
// With --dry-run the transaction is only simulated.
func (e *environment) send(ctx context.Context, label string, signers []ed25519.PrivateKey, instructions ...solana.Instruction) error {
	instructions = append(append([]solana.Instruction{}, e.extra...), instructions...)
	if e.memo != nil {
		instructions = append(instructions, *e.memo)
	}

	log := e.log.WithFields(logrus.Fields{
		"method":       "send",
		"command":      label,
		"instructions": len(instructions),
	})

	if e.dryRun {
		result, err := e.client.Simulate(ctx, signers, instructions...)
		if err != nil {
			return errors.Wrap(err, "failed to simulate transaction")
		}

		for _, line := range result.Logs {
			e.printf("  %s\n", line)
		}
		e.printf("%s simulation consumed %d compute units\n", label, result.UnitsConsumed)
		if result.Err != nil {
			return errors.Wrapf(result.Err, "%s simulation failed", label)
		}
		return nil
	}

	sig, err := e.client.Submit(ctx, signers, instructions...)
	if err != nil {
		var rejection *arena.RemoteRejection
		if errors.As(err, &rejection) {
			for _, line := range rejection.Logs {
				e.printf("  %s\n", line)
			}
		}
		log.WithError(err).Warn("transaction failed")
		return err
	}

	log.WithField("signature", sig.String()).Debug("transaction confirmed")
	e.printf("%s signature: %s\n", label, sig)
	return nil
}
