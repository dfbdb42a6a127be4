package arena

import (
	"context"
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/x1-mining-arena/arena-go/pkg/metrics"
	"github.com/x1-mining-arena/arena-go/pkg/solana"
	"github.com/x1-mining-arena/arena-go/pkg/solana/system"
	"github.com/x1-mining-arena/arena-go/pkg/solana/token"
)

// EnsureAssociatedAccount returns wallet's associated account for mint, along
// with the instruction creating it when it doesn't exist yet.
func (c *Client) EnsureAssociatedAccount(ctx context.Context, payer, wallet, mint ed25519.PublicKey) (ed25519.PublicKey, []solana.Instruction, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "EnsureAssociatedAccount")
	defer tracer.End()

	create, address, err := token.CreateAssociatedTokenAccountIdempotent(payer, wallet, mint)
	if err != nil {
		return nil, nil, err
	}

	_, err = c.sc.GetAccountInfo(ctx, address, c.commitment(ctx))
	switch {
	case err == nil:
		return address, nil, nil
	case errors.Is(err, solana.ErrNoAccountInfo):
		return address, []solana.Instruction{create}, nil
	default:
		tracer.OnError(err)
		return nil, nil, errors.Wrap(err, "failed to get associated account")
	}
}

// WrapXnt returns the instructions that move lamports of native XNT into
// owner's wrapped XNT associated account, creating it if needed.
func (c *Client) WrapXnt(ctx context.Context, owner ed25519.PublicKey, lamports uint64) (ed25519.PublicKey, []solana.Instruction, error) {
	if lamports == 0 {
		return nil, nil, errors.New("amount to wrap must be positive")
	}

	address, instructions, err := c.EnsureAssociatedAccount(ctx, owner, owner, token.NativeMint)
	if err != nil {
		return nil, nil, err
	}

	instructions = append(
		instructions,
		system.Transfer(owner, address, lamports),
		token.SyncNative(address),
	)
	return address, instructions, nil
}

// TokenBalance returns the balance of a token account in the mint's smallest
// unit.
func (c *Client) TokenBalance(ctx context.Context, account ed25519.PublicKey) (uint64, error) {
	tracer := metrics.TraceMethodCall(ctx, metricsStructName, "TokenBalance")
	defer tracer.End()

	balance, err := c.sc.GetTokenAccountBalance(ctx, account)
	tracer.OnError(err)
	return balance, err
}

// ErrNothingToUnwrap is returned by UnwrapXnt when the owner has no wrapped
// XNT account.
var ErrNothingToUnwrap = errors.New("no wrapped XNT account")

// UnwrapXnt returns the instruction closing owner's wrapped XNT account,
// which returns its whole balance and rent to owner as native XNT. The
// balance being unwrapped is returned alongside.
func (c *Client) UnwrapXnt(ctx context.Context, owner ed25519.PublicKey) (uint64, solana.Instruction, error) {
	address, err := token.GetAssociatedAccount(owner, token.NativeMint)
	if err != nil {
		return 0, solana.Instruction{}, err
	}

	balance, err := c.TokenBalance(ctx, address)
	switch {
	case errors.Is(err, solana.ErrNoBalance), errors.Is(err, solana.ErrNoAccountInfo):
		return 0, solana.Instruction{}, ErrNothingToUnwrap
	case err != nil:
		return 0, solana.Instruction{}, errors.Wrap(err, "failed to get wrapped XNT balance")
	}

	return balance, token.CloseAccount(address, owner, owner), nil
}
