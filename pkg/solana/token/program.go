package token

import (
	"bytes"
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/x1-mining-arena/arena-go/pkg/solana"
)

// ProgramKey is the SPL token program, TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA.
var ProgramKey = mustDecode("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

// NativeMint is the wrapped native token mint. XNT is held in token accounts
// of this mint.
var NativeMint = mustDecode("So11111111111111111111111111111111111111112")

func mustDecode(address string) ed25519.PublicKey {
	key, err := base58.Decode(address)
	if err != nil {
		panic(err)
	}
	return key
}

// Command is the first byte of token program instruction data. Only the
// commands this module issues are named.
type Command byte

const (
	CommandCloseAccount Command = 9
	CommandSyncNative   Command = 17

	CommandUnknown Command = 0xff
)

// GetCommand returns the command of the token instruction at index.
func GetCommand(m solana.Message, index int) (Command, error) {
	if index < 0 || index >= len(m.Instructions) {
		return CommandUnknown, errors.Errorf("instruction doesn't exist at %d", index)
	}

	i := m.Instructions[index]
	if !bytes.Equal(m.Accounts[i.ProgramIndex], ProgramKey) {
		return CommandUnknown, solana.ErrIncorrectProgram
	}
	if len(i.Data) == 0 {
		return CommandUnknown, errors.New("token instruction missing data")
	}
	return Command(i.Data[0]), nil
}

// CloseAccount moves every lamport of account to dest and deletes it. For a
// wrapped XNT account this unwraps the whole balance. Other accounts must be
// empty.
//
//   0. [writable] account
//   1. [writable] dest
//   2. [signer] owner
func CloseAccount(account, dest, owner ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandCloseAccount)},
		solana.NewAccountMeta(account, false),
		solana.NewAccountMeta(dest, false),
		solana.NewReadonlyAccountMeta(owner, true),
	)
}

type DecompiledCloseAccount struct {
	Account     ed25519.PublicKey
	Destination ed25519.PublicKey
	Owner       ed25519.PublicKey
}

func DecompileCloseAccount(m solana.Message, index int) (*DecompiledCloseAccount, error) {
	command, err := GetCommand(m, index)
	if err != nil {
		return nil, err
	}
	if command != CommandCloseAccount {
		return nil, solana.ErrIncorrectInstruction
	}

	i := m.Instructions[index]
	if len(i.Data) != 1 {
		return nil, errors.Errorf("invalid instruction data size: %d", len(i.Data))
	}
	if len(i.Accounts) != 3 {
		return nil, errors.Errorf("invalid number of accounts: %d", len(i.Accounts))
	}

	return &DecompiledCloseAccount{
		Account:     m.Accounts[i.Accounts[0]],
		Destination: m.Accounts[i.Accounts[1]],
		Owner:       m.Accounts[i.Accounts[2]],
	}, nil
}

// SyncNative sets a wrapped XNT account's token amount to its lamports less
// the rent exempt reserve. It follows a lamport transfer when wrapping.
//
//   0. [writable] account
func SyncNative(account ed25519.PublicKey) solana.Instruction {
	return solana.NewInstruction(
		ProgramKey,
		[]byte{byte(CommandSyncNative)},
		solana.NewAccountMeta(account, false),
	)
}
