package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	xrate "golang.org/x/time/rate"

	"github.com/x1-mining-arena/arena-go/pkg/app"
	"github.com/x1-mining-arena/arena-go/pkg/arena"
	"github.com/x1-mining-arena/arena-go/pkg/rate"
	"github.com/x1-mining-arena/arena-go/pkg/solana"
	mining_arena "github.com/x1-mining-arena/arena-go/pkg/solana/arena"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		usage(out)
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		usage(out)
		return errors.Errorf("unknown command %q", args[0])
	}

	fs := cmd.flagSet()
	app.RegisterFlags(fs)
	fs.SetOutput(out)
	if err := fs.Parse(args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	a, err := app.Load(fs)
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	defer a.Shutdown()

	program, err := mining_arena.NewProgramFromBase58(a.Config.ProgramID)
	if err != nil {
		return err
	}

	var limiter rate.Limiter = &rate.NoLimiter{}
	if a.Config.RPCRequestsPerSecond > 0 {
		limiter = rate.NewLocalRateLimiter(xrate.Limit(a.Config.RPCRequestsPerSecond))
	}
	sc := solana.New(a.Config.RPCURL, solana.WithRateLimiter(limiter))

	p, err := cmd.params(fs)
	if err != nil {
		return err
	}

	env := &environment{
		log: logrus.StandardLogger().WithFields(logrus.Fields{
			"type":    "cmd/arena",
			"command": cmd.name,
		}),
		client:     arena.NewClient(sc, program, arena.WithEnvConfigs()),
		out:        out,
		now:        time.Now,
		loadWallet: a.LoadKeypair,
	}
	if err := cmd.configure(env, p); err != nil {
		return err
	}

	ctx, end := a.StartTransaction(ctx, "arena "+cmd.name)
	defer end()

	return cmd.run(ctx, env, p)
}

func usage(out io.Writer) {
	fmt.Fprintln(out, "usage: arena <command> [flags]")
	fmt.Fprintln(out)
	fmt.Fprintln(out, "commands:")
	for _, name := range commandNames() {
		fmt.Fprintf(out, "  %-20s %s\n", name, commands[name].usage)
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "run 'arena <command> --help' for the flags of a command")
	fmt.Fprintln(out, "connection: "+strings.Join([]string{"--rpc-url", "--wallet", "--program-id", "--config"}, ", "))
}
