package mining_arena

import (
	"crypto/ed25519"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"github.com/x1-mining-arena/arena-go/pkg/solana/system"
	"github.com/x1-mining-arena/arena-go/pkg/solana/token"
)

var (
	ErrInvalidProgram      = errors.New("invalid program id")
	ErrInvalidAccountData  = errors.New("unexpected account data")
	ErrAccountKindMismatch = errors.New("account kind mismatch")
	ErrInvalidArgument     = errors.New("invalid argument")
)

const (
	// Precision scales the accumulated reward per share.
	Precision = 1_000_000_000_000

	BpsDenominator = 10_000

	DefaultStakingShareBps = 3_000
	DefaultHalvingInterval = 100_000_000 * 100

	GameDecimals = 2
	XntDecimals  = 9

	MaxActiveBoosts = 8
)

// DefaultProgramAddress is the arena deployment on X1 testnet.
var DefaultProgramAddress = ed25519.PublicKey(mustBase58Decode("9Hd5Nv7MYPeFbSntrdEg92uojcWGuGGH2Mkmyrm7eMGd"))

var (
	SYSTEM_PROGRAM_ID               = ed25519.PublicKey(system.ProgramKey[:])
	SPL_TOKEN_PROGRAM_ID            = token.ProgramKey
	SPL_ASSOCIATED_TOKEN_PROGRAM_ID = token.AssociatedTokenAccountProgramKey
	SYSVAR_RENT_PUBKEY              = system.RentSysVar
)

// Program is an immutable handle on a deployed arena program. Every address
// derivation and instruction is built relative to it.
type Program struct {
	id ed25519.PublicKey
}

func NewProgram(id ed25519.PublicKey) (Program, error) {
	if len(id) != ed25519.PublicKeySize {
		return Program{}, ErrInvalidProgram
	}

	owned := make(ed25519.PublicKey, ed25519.PublicKeySize)
	copy(owned, id)
	return Program{id: owned}, nil
}

// NewProgramFromBase58 parses a base58 program address.
func NewProgramFromBase58(address string) (Program, error) {
	decoded, err := base58.Decode(address)
	if err != nil {
		return Program{}, errors.Wrap(ErrInvalidProgram, err.Error())
	}
	return NewProgram(decoded)
}

// DefaultProgram returns the testnet deployment.
func DefaultProgram() Program {
	p, _ := NewProgram(DefaultProgramAddress)
	return p
}

// ID returns a copy of the program address.
func (p Program) ID() ed25519.PublicKey {
	id := make(ed25519.PublicKey, len(p.id))
	copy(id, p.id)
	return id
}

func (p Program) String() string {
	return base58.Encode(p.id)
}

func mustBase58Decode(value string) []byte {
	decoded, err := base58.Decode(value)
	if err != nil {
		panic(err)
	}
	return decoded
}

func invalidArgumentf(format string, args ...interface{}) error {
	return errors.Wrapf(ErrInvalidArgument, format, args...)
}

func requireKeys(keys map[string]ed25519.PublicKey) error {
	for name, key := range keys {
		if len(key) != ed25519.PublicKeySize {
			return invalidArgumentf("%s must be a 32 byte key", name)
		}
	}
	return nil
}
