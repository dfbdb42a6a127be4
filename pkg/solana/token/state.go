package token

import (
	"crypto/ed25519"

	"github.com/pkg/errors"

	"github.com/x1-mining-arena/arena-go/pkg/solana/binary"
)

type AccountState byte

const (
	AccountStateUninitialized AccountState = iota
	AccountStateInitialized
	AccountStateFrozen
)

// Reference: https://github.com/solana-labs/solana-program-library/blob/11b1e3eefdd4e523768d63f7c70a7aa391ea0d02/token/program/src/state.rs#L125
const AccountSize = 165

// COption tags are four bytes wide in token program state.
const optionSize = 4

var ErrInvalidAccountSize = errors.New("invalid token account size")

type Account struct {
	// The mint associated with this account
	Mint ed25519.PublicKey
	// The owner of this account.
	Owner ed25519.PublicKey
	// The amount of tokens this account holds.
	Amount uint64
	// If set, then the 'DelegatedAmount' represents the amount
	// authorized by the delegate.
	Delegate ed25519.PublicKey
	/// The account's state
	State AccountState
	// If set, this is a native token, and the value logs the rent-exempt
	// reserve.
	IsNative *uint64
	// The amount delegated
	DelegatedAmount uint64
	// Optional authority to close the account.
	CloseAuthority ed25519.PublicKey
}

func (a *Account) Marshal() []byte {
	e := binary.NewEncoder(AccountSize).
		PutKey32(a.Mint).
		PutKey32(a.Owner).
		PutUint64(a.Amount)
	putOptionalKey(e, a.Delegate)
	e.PutUint8(byte(a.State))
	if a.IsNative != nil {
		e.PutUint32(1).PutUint64(*a.IsNative)
	} else {
		e.PutPadding(optionSize + 8)
	}
	e.PutUint64(a.DelegatedAmount)
	putOptionalKey(e, a.CloseAuthority)

	return e.Bytes()
}

func (a *Account) Unmarshal(b []byte) (err error) {
	if len(b) != AccountSize {
		return errors.Wrapf(ErrInvalidAccountSize, "%d bytes", len(b))
	}

	d := binary.NewDecoder(b)
	if a.Mint, err = d.Key32(); err != nil {
		return err
	}
	if a.Owner, err = d.Key32(); err != nil {
		return err
	}
	if a.Amount, err = d.Uint64(); err != nil {
		return err
	}
	if a.Delegate, err = getOptionalKey(d); err != nil {
		return err
	}

	state, err := d.Uint8()
	if err != nil {
		return err
	}
	a.State = AccountState(state)

	tag, err := d.Uint32()
	if err != nil {
		return err
	}
	native, err := d.Uint64()
	if err != nil {
		return err
	}
	a.IsNative = nil
	if tag != 0 {
		a.IsNative = &native
	}

	if a.DelegatedAmount, err = d.Uint64(); err != nil {
		return err
	}
	a.CloseAuthority, err = getOptionalKey(d)
	return err
}

func putOptionalKey(e *binary.Encoder, key ed25519.PublicKey) {
	if len(key) == 0 {
		e.PutPadding(optionSize + ed25519.PublicKeySize)
		return
	}
	e.PutUint32(1).PutKey32(key)
}

func getOptionalKey(d *binary.Decoder) (ed25519.PublicKey, error) {
	tag, err := d.Uint32()
	if err != nil {
		return nil, err
	}

	key, err := d.Key32()
	if err != nil || tag == 0 {
		return nil, err
	}
	return key, nil
}
